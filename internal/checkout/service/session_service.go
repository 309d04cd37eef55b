package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

// SessionService owns the checkout session lifecycle: start, attendee
// updates, cancellation and lookup of the caller's live session.
type SessionService struct {
	checkouts CheckoutRepository
	sessions  EventSessionRepository
	seating   *SeatingService
	ttl       time.Duration
	clock     Clock
	logger    *zap.Logger
}

func NewSessionService(
	checkouts CheckoutRepository,
	sessions EventSessionRepository,
	seating *SeatingService,
	ttl time.Duration,
	clock Clock,
	logger *zap.Logger,
) *SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &SessionService{
		checkouts: checkouts,
		sessions:  sessions,
		seating:   seating,
		ttl:       ttl,
		clock:     clock,
		logger:    logger,
	}
}

// Start opens a new IN_PROGRESS checkout for the event session and cancels
// any older live checkout the employee holds for it.
func (s *SessionService) Start(ctx context.Context, employeeID, companyID, eventSessionID int64) (*domain.CheckoutSession, error) {
	eventSession, err := s.sessions.FindByID(ctx, eventSessionID)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	expiresAt := now.Add(s.ttl)
	checkout := &domain.CheckoutSession{
		UUID:                 uuid.NewString(),
		CompanyID:            companyID,
		CreatedByEmployeeID:  employeeID,
		EventSessionID:       &eventSession.ID,
		EventSession:         eventSession,
		Status:               domain.CheckoutStatusInProgress,
		ReservationExpiresAt: &expiresAt,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.checkouts.Create(ctx, checkout); err != nil {
		s.logger.Error("failed to create checkout", zap.Int64("employeeId", employeeID), zap.Int64("eventSessionId", eventSessionID), zap.Error(err))
		return nil, err
	}

	canceled, err := s.checkouts.CancelActiveForEmployeeAndSession(ctx, employeeID, eventSessionID, companyID, checkout.ID)
	if err != nil {
		s.logger.Error("failed to cancel previous checkouts", zap.String("checkoutUuid", checkout.UUID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("checkout started",
		zap.String("checkoutUuid", checkout.UUID),
		zap.Int64("employeeId", employeeID),
		zap.Int64("eventSessionId", eventSessionID),
		zap.Int64("canceledPrevious", canceled),
		zap.Time("reservationExpiresAt", expiresAt),
	)
	return checkout, nil
}

// Get loads a checkout owned by the employee within the company.
func (s *SessionService) Get(ctx context.Context, checkoutUUID string, employeeID, companyID int64) (*domain.CheckoutSession, error) {
	return loadOwned(ctx, s.checkouts, checkoutUUID, employeeID, companyID)
}

// Current returns the employee's live checkout for the event session.
func (s *SessionService) Current(ctx context.Context, employeeID, companyID, eventSessionID int64) (*domain.CheckoutSession, error) {
	checkout, err := s.checkouts.FindInProgress(ctx, employeeID, eventSessionID, companyID, s.clock().UTC())
	if err != nil {
		return nil, err
	}
	if checkout == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no checkout in progress for event session %d", eventSessionID))
	}
	return checkout, nil
}

// Cancel moves a live checkout to CANCELED. A checkout whose reservation
// has lapsed is already EXPIRED and cannot be canceled.
func (s *SessionService) Cancel(ctx context.Context, checkoutUUID string, employeeID, companyID int64) (*domain.CheckoutSession, error) {
	checkout, err := loadOwned(ctx, s.checkouts, checkoutUUID, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	if checkout.Status == domain.CheckoutStatusInProgress && checkout.IsExpired(s.clock().UTC()) {
		return nil, apperrors.NewCheckoutExpiredError()
	}

	from := checkout.Status
	if err := checkout.TransitionTo(domain.CheckoutStatusCanceled); err != nil {
		return nil, err
	}

	if err := s.checkouts.UpdateStatus(ctx, checkout.ID, from, domain.CheckoutStatusCanceled); err != nil {
		checkout.Status = from
		return nil, err
	}

	s.logger.Info("checkout canceled", zap.String("checkoutUuid", checkout.UUID), zap.Int64("employeeId", employeeID))
	return checkout, nil
}

// UpdateAttendees replaces the attendee collection and contact details of
// an IN_PROGRESS checkout, then seats the attendees. Overflow beyond the
// free seats is waitlisted and the reservation window follows the seats
// held, so a lapsed reservation is renewed when seats are still free.
func (s *SessionService) UpdateAttendees(ctx context.Context, checkoutUUID string, employeeID, companyID int64, req dto.UpdateAttendeesRequest) (*domain.CheckoutSession, error) {
	checkout, err := loadOwned(ctx, s.checkouts, checkoutUUID, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	if checkout.Status != domain.CheckoutStatusInProgress {
		return nil, apperrors.NewCheckoutNotInProgressError(string(checkout.Status))
	}
	now := s.clock().UTC()

	attendees := make([]domain.Attendee, 0, len(req.Attendees))
	for _, in := range req.Attendees {
		attendees = append(attendees, domain.Attendee{
			CheckoutID:      checkout.ID,
			Email:           in.Email,
			FirstName:       in.FirstName,
			LastName:        in.LastName,
			SpecialRequests: in.SpecialRequests,
			IsSelected:      in.IsSelected,
			IsWaitlist:      in.IsWaitlist,
		})
	}

	checkout.Attendees = attendees
	checkout.ContactName = req.ContactName
	checkout.ContactEmail = req.ContactEmail
	checkout.ContactPhone = req.ContactPhone
	checkout.GroupNotes = req.GroupNotes
	checkout.UpdatedAt = now

	held, err := s.seating.Apply(ctx, checkout, now)
	if err != nil {
		return nil, err
	}

	if err := s.checkouts.ReplaceAttendees(ctx, checkout); err != nil {
		s.logger.Error("failed to replace attendees", zap.String("checkoutUuid", checkout.UUID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("checkout attendees updated",
		zap.String("checkoutUuid", checkout.UUID),
		zap.Int("attendeeCount", len(attendees)),
		zap.Int("seatedCount", held),
		zap.Timep("reservationExpiresAt", checkout.ReservationExpiresAt),
	)
	return checkout, nil
}

type checkoutFinder interface {
	FindByUUID(ctx context.Context, checkoutUUID string) (*domain.CheckoutSession, error)
}

func loadOwned(ctx context.Context, finder checkoutFinder, checkoutUUID string, employeeID, companyID int64) (*domain.CheckoutSession, error) {
	checkout, err := finder.FindByUUID(ctx, checkoutUUID)
	if err != nil {
		return nil, err
	}
	if checkout.CompanyID != companyID || checkout.CreatedByEmployeeID != employeeID {
		return nil, apperrors.NewForbiddenError("checkout belongs to another employee")
	}
	return checkout, nil
}
