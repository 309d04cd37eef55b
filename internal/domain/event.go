package domain

import "time"

type Event struct {
	ID                int64
	UUID              string
	Name              string
	Price             float64
	IsVoucherEligible bool
}

type EventSession struct {
	ID             int64
	UUID           string
	EventID        int64
	Event          *Event
	Name           string
	MaxEnrollments int
	StartDate      time.Time
	EndDate        time.Time
}

// SessionAvailability is an event session with its seat usage at a point
// in time. Held counts seats of live IN_PROGRESS checkouts.
type SessionAvailability struct {
	Session  EventSession
	Enrolled int
	Held     int
}

// AvailableSeats never goes below zero.
func (a SessionAvailability) AvailableSeats() int {
	return max(0, a.Session.MaxEnrollments-a.Enrolled-a.Held)
}
