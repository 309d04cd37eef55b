package domain

import (
	"time"

	apperrors "eventcheckout/internal/errors"
)

type CheckoutStatus string

const (
	CheckoutStatusInProgress CheckoutStatus = "IN_PROGRESS"
	CheckoutStatusCompleted  CheckoutStatus = "COMPLETED"
	CheckoutStatusCanceled   CheckoutStatus = "CANCELED"
	CheckoutStatusExpired    CheckoutStatus = "EXPIRED"
)

// CheckoutSession is one time-boxed reservation attempt by an employee for
// seats at an event session. It owns its attendees.
type CheckoutSession struct {
	ID                   int64
	UUID                 string
	CompanyID            int64
	CreatedByEmployeeID  int64
	EventSessionID       *int64
	EventSession         *EventSession
	Status               CheckoutStatus
	ReservationExpiresAt *time.Time
	FinalizedAt          *time.Time
	ConfirmationNumber   *string
	Amount               *float64
	ContactName          *string
	ContactEmail         *string
	ContactPhone         *string
	GroupNotes           *string
	Attendees            []Attendee
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (s *CheckoutSession) IsExpired(now time.Time) bool {
	return s.ReservationExpiresAt != nil && !now.Before(*s.ReservationExpiresAt)
}

// EffectiveStatus reports EXPIRED for an in-progress session whose
// reservation window has passed. Expiry is never persisted by reads.
func (s *CheckoutSession) EffectiveStatus(now time.Time) CheckoutStatus {
	if s.Status == CheckoutStatusInProgress && s.IsExpired(now) {
		return CheckoutStatusExpired
	}
	return s.Status
}

func (s *CheckoutSession) CanTransitionTo(next CheckoutStatus) bool {
	if s.Status != CheckoutStatusInProgress {
		return false
	}
	switch next {
	case CheckoutStatusCompleted, CheckoutStatusCanceled, CheckoutStatusExpired:
		return true
	}
	return false
}

func (s *CheckoutSession) TransitionTo(next CheckoutStatus) error {
	if !s.CanTransitionTo(next) {
		return apperrors.NewInvalidStatusTransitionError(string(s.Status), string(next))
	}
	s.Status = next
	return nil
}

// EnsureOpen fails unless the session is in progress and unexpired at now.
func (s *CheckoutSession) EnsureOpen(now time.Time) error {
	if s.Status != CheckoutStatusInProgress {
		return apperrors.NewCheckoutNotInProgressError(string(s.Status))
	}
	if s.IsExpired(now) {
		return apperrors.NewCheckoutExpiredError()
	}
	return nil
}

func (s *CheckoutSession) SelectedNonWaitlistCount() int {
	count := 0
	for _, a := range s.Attendees {
		if a.OccupiesSeat() {
			count++
		}
	}
	return count
}

func (s *CheckoutSession) SeatedAttendees() []Attendee {
	var out []Attendee
	for _, a := range s.Attendees {
		if a.OccupiesSeat() {
			out = append(out, a)
		}
	}
	return out
}

func (s *CheckoutSession) WaitlistedAttendees() []Attendee {
	var out []Attendee
	for _, a := range s.Attendees {
		if a.IsSelected && a.IsWaitlist {
			out = append(out, a)
		}
	}
	return out
}

// Event returns the event behind the session's event session, if loaded.
func (s *CheckoutSession) Event() *Event {
	if s.EventSession == nil {
		return nil
	}
	return s.EventSession.Event
}

// Clone returns a copy whose attendee slice can be modified independently.
func (s *CheckoutSession) Clone() *CheckoutSession {
	c := *s
	if s.Attendees != nil {
		c.Attendees = make([]Attendee, len(s.Attendees))
		copy(c.Attendees, s.Attendees)
	}
	return &c
}
