package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"eventcheckout/internal/checkout/validator"
	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

type DetailsService struct {
	checkouts   checkoutFinder
	enrollments validator.EnrollmentStore
	inProgress  validator.InProgressAttendeeCounter
	vouchers    validator.VoucherStore
	clock       Clock
	logger      *zap.Logger
}

func NewDetailsService(
	checkouts checkoutFinder,
	enrollments validator.EnrollmentStore,
	inProgress validator.InProgressAttendeeCounter,
	vouchers validator.VoucherStore,
	clock Clock,
	logger *zap.Logger,
) *DetailsService {
	if clock == nil {
		clock = time.Now
	}
	return &DetailsService{
		checkouts:   checkouts,
		enrollments: enrollments,
		inProgress:  inProgress,
		vouchers:    vouchers,
		clock:       clock,
		logger:      logger,
	}
}

// Details reports the checkout together with the live seat and voucher
// inventory. Status is the effective status at the time of the call.
func (s *DetailsService) Details(ctx context.Context, checkoutUUID string, employeeID, companyID int64) (*dto.CheckoutDetails, error) {
	checkout, err := loadOwned(ctx, s.checkouts, checkoutUUID, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	session := checkout.EventSession
	if session == nil {
		return nil, apperrors.NewEventSessionNotFoundError()
	}
	event := checkout.Event()
	if event == nil {
		return nil, apperrors.NewEventNotFoundError()
	}

	now := s.clock().UTC()

	available, err := validator.AvailableSeats(ctx, s.enrollments, s.inProgress, session, checkout.ID, now)
	if err != nil {
		return nil, err
	}

	voucherSeats := 0
	if event.IsVoucherEligible {
		voucherSeats, err = validator.AvailableVoucherSeats(ctx, s.vouchers, checkout.CompanyID, now)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("checkout details loaded",
		zap.String("checkoutUuid", checkout.UUID),
		zap.Int("availableSeats", available),
		zap.Int("availableVoucherSeats", voucherSeats),
	)

	return &dto.CheckoutDetails{
		UUID:                  checkout.UUID,
		Status:                string(checkout.EffectiveStatus(now)),
		EventSessionID:        session.ID,
		EventSessionName:      session.Name,
		EventName:             event.Name,
		EventPrice:            event.Price,
		IsVoucherEligible:     event.IsVoucherEligible,
		MaxEnrollments:        session.MaxEnrollments,
		AvailableSeats:        max(available, 0),
		AvailableVoucherSeats: max(voucherSeats, 0),
		ReservationExpiresAt:  checkout.ReservationExpiresAt,
		ContactName:           checkout.ContactName,
		ContactEmail:          checkout.ContactEmail,
		ContactPhone:          checkout.ContactPhone,
		GroupNotes:            checkout.GroupNotes,
		Attendees:             ToAttendeeDTOs(checkout.Attendees),
	}, nil
}

func ToAttendeeDTOs(attendees []domain.Attendee) []dto.AttendeeDTO {
	out := make([]dto.AttendeeDTO, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, dto.AttendeeDTO{
			ID:              a.ID,
			Email:           a.Email,
			FirstName:       a.FirstName,
			LastName:        a.LastName,
			SpecialRequests: a.SpecialRequests,
			IsSelected:      a.IsSelected,
			IsWaitlist:      a.IsWaitlist,
		})
	}
	return out
}
