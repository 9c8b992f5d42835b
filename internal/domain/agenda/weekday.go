package agenda

import "time"

// Weekday names as used across the schedule configuration and the
// public UI. Lowercase, unaccented.
var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miercoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sabado",
}

var AllWeekdays = []string{
	"domingo", "lunes", "martes", "miercoles", "jueves", "viernes", "sabado",
}

func WeekdayName(d time.Time) string {
	return weekdayNames[d.Weekday()]
}

func IsValidWeekday(name string) bool {
	for _, w := range AllWeekdays {
		if w == name {
			return true
		}
	}
	return false
}

// NormalizeDate pins a calendar day to 12:00 in its own location so
// that storing and re-reading the value never shifts the day.
func NormalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, d.Location())
}

// DayRange returns the [start, end) bounds covering the whole calendar
// day of d.
func DayRange(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return start, start.AddDate(0, 0, 1)
}
