package domain

import "time"

// Enrollment is a confirmed seat. EmployeeID is set when the attendee email
// belongs to an employee of the purchasing company.
type Enrollment struct {
	ID              int64
	EventSessionID  int64
	EmployeeID      *int64
	Email           *string
	FirstName       *string
	LastName        *string
	SpecialRequests *string
	CheckoutID      int64
	EnrolledAt      time.Time
}

type EnrollmentWaitlist struct {
	ID                 int64
	EventSessionID     int64
	EmployeeID         *int64
	Email              *string
	FirstName          *string
	LastName           *string
	SpecialRequests    *string
	WaitlistPosition   int
	SeatPrice          float64
	OriginalCheckoutID int64
	WaitlistedAt       time.Time
}
