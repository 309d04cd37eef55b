package domain

import "strings"

// Attendee belongs to exactly one checkout session. A nil Email is an
// unclaimed seat awaiting name collection.
type Attendee struct {
	ID              int64
	CheckoutID      int64
	Email           *string
	FirstName       *string
	LastName        *string
	SpecialRequests *string
	IsSelected      bool
	IsWaitlist      bool
}

// OccupiesSeat reports whether the attendee consumes hard capacity.
func (a Attendee) OccupiesSeat() bool {
	return a.IsSelected && !a.IsWaitlist
}

func (a Attendee) TrimmedEmail() (string, bool) {
	if a.Email == nil {
		return "", false
	}
	return strings.TrimSpace(*a.Email), true
}
