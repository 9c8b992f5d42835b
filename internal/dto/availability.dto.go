package dto

// HourAvailability splits the roster for one hour into barbers with a
// non-available slot and barbers still bookable.
type HourAvailability struct {
	OccupiedBarbers []uint `json:"occupied_barbers"`
	FreeBarbers     []uint `json:"free_barbers"`
}

// AvailabilityByHour maps "HH:MM" to its per-barber partition.
type AvailabilityByHour map[string]*HourAvailability
