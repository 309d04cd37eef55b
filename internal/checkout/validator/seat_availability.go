package validator

import (
	"context"
	"fmt"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

// SeatAvailabilityValidator checks capacity without locking. Occupied seats
// are durable enrollments plus selected, non-waitlisted attendees of other
// unexpired in-progress checkouts for the same event session.
type SeatAvailabilityValidator struct {
	enrollments EnrollmentStore
	checkouts   InProgressAttendeeCounter
	now         Clock
}

func NewSeatAvailabilityValidator(enrollments EnrollmentStore, checkouts InProgressAttendeeCounter, clock Clock) *SeatAvailabilityValidator {
	return &SeatAvailabilityValidator{
		enrollments: enrollments,
		checkouts:   checkouts,
		now:         clock,
	}
}

func (v *SeatAvailabilityValidator) Name() string { return "seat_availability" }

func (v *SeatAvailabilityValidator) Validate(ctx context.Context, _ *dto.PaymentRequest, checkout *domain.CheckoutSession, _ *domain.Company, _ *domain.Employee) error {
	session := checkout.EventSession
	if session == nil {
		return apperrors.NewEventSessionNotFoundError()
	}

	requested := checkout.SelectedNonWaitlistCount()
	if requested == 0 {
		return nil
	}

	available, err := AvailableSeats(ctx, v.enrollments, v.checkouts, session, checkout.ID, v.now())
	if err != nil {
		return err
	}

	if available < requested {
		return apperrors.NewNotEnoughSeatsError(max(available, 0), requested)
	}
	return nil
}

// AvailableSeats returns maxEnrollments minus occupied seats. The result is
// negative when the session is oversold.
func AvailableSeats(ctx context.Context, enrollments EnrollmentStore, checkouts InProgressAttendeeCounter, session *domain.EventSession, excludeCheckoutID int64, now time.Time) (int, error) {
	enrolled, err := enrollments.CountBySession(ctx, session.ID)
	if err != nil {
		return 0, fmt.Errorf("counting enrollments: %w", err)
	}

	inProgress, err := checkouts.CountInProgressAttendees(ctx, session.ID, excludeCheckoutID, now)
	if err != nil {
		return 0, fmt.Errorf("counting in-progress attendees: %w", err)
	}

	return session.MaxEnrollments - (enrolled + inProgress), nil
}
