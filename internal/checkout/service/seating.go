package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"eventcheckout/internal/checkout/validator"
	"eventcheckout/internal/domain"
	apperrors "eventcheckout/internal/errors"
)

// SeatingService places the attendees of an open checkout. Attendees that
// are already enrolled or waitlisted for the event session are rejected,
// selected attendees take free seats in list order and the rest move to the
// waitlist.
type SeatingService struct {
	conflicts   *validator.Pipeline
	enrollments validator.EnrollmentStore
	inProgress  validator.InProgressAttendeeCounter
	ttl         time.Duration
	logger      *zap.Logger
}

func NewSeatingService(
	employees validator.EmployeeFinder,
	enrollments validator.EnrollmentStore,
	waitlist validator.WaitlistFinder,
	inProgress validator.InProgressAttendeeCounter,
	ttl time.Duration,
	logger *zap.Logger,
) *SeatingService {
	return &SeatingService{
		conflicts: validator.NewPipeline(logger,
			validator.NewEnrollmentConflictValidator(employees, enrollments),
			validator.NewWaitlistConflictValidator(employees, waitlist),
		),
		enrollments: enrollments,
		inProgress:  inProgress,
		ttl:         ttl,
		logger:      logger,
	}
}

// Apply seats the checkout's attendees at now and returns the number of
// seats held. A checkout holding seats keeps a live reservation: a missing
// or lapsed expiry is set to now + TTL, a live one is left alone. A checkout
// holding no seats has its expiry cleared.
func (s *SeatingService) Apply(ctx context.Context, checkout *domain.CheckoutSession, now time.Time) (int, error) {
	session := checkout.EventSession
	if session == nil {
		return 0, apperrors.NewEventSessionNotFoundError()
	}

	company := &domain.Company{ID: checkout.CompanyID}
	if err := s.conflicts.Validate(ctx, nil, checkout, company, nil); err != nil {
		return 0, err
	}

	available, err := validator.AvailableSeats(ctx, s.enrollments, s.inProgress, session, checkout.ID, now)
	if err != nil {
		return 0, err
	}

	held, moved := 0, 0
	for i := range checkout.Attendees {
		a := &checkout.Attendees[i]
		if !a.OccupiesSeat() {
			continue
		}
		if held < available {
			held++
			continue
		}
		a.IsWaitlist = true
		moved++
	}

	if held == 0 {
		checkout.ReservationExpiresAt = nil
	} else if checkout.ReservationExpiresAt == nil || checkout.IsExpired(now) {
		expiresAt := now.Add(s.ttl)
		checkout.ReservationExpiresAt = &expiresAt
	}

	if moved > 0 {
		s.logger.Info("attendees moved to waitlist",
			zap.String("checkoutUuid", checkout.UUID),
			zap.Int("availableSeats", max(available, 0)),
			zap.Int("waitlisted", moved),
		)
	}
	return held, nil
}
