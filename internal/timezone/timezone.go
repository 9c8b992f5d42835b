package timezone

import "time"

const DefaultTimezone = "America/Asuncion"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Default() *time.Location {
	return Location(DefaultTimezone)
}

func Now() time.Time {
	return time.Now().In(Default())
}
