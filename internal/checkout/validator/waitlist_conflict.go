package validator

import (
	"context"
	"fmt"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

type WaitlistConflictValidator struct {
	employees EmployeeFinder
	waitlist  WaitlistFinder
}

func NewWaitlistConflictValidator(employees EmployeeFinder, waitlist WaitlistFinder) *WaitlistConflictValidator {
	return &WaitlistConflictValidator{
		employees: employees,
		waitlist:  waitlist,
	}
}

func (v *WaitlistConflictValidator) Name() string { return "waitlist_conflict" }

func (v *WaitlistConflictValidator) Validate(ctx context.Context, _ *dto.PaymentRequest, checkout *domain.CheckoutSession, company *domain.Company, _ *domain.Employee) error {
	if checkout.EventSession == nil {
		return apperrors.NewEventSessionNotFoundError()
	}
	sessionID := checkout.EventSession.ID

	for _, a := range checkout.Attendees {
		email, ok := a.TrimmedEmail()
		if !ok || email == "" {
			continue
		}

		employee, err := v.employees.FindOneByEmailAndCompany(ctx, email, company.ID)
		if err != nil {
			return fmt.Errorf("resolving attendee employee: %w", err)
		}

		if employee != nil {
			existing, err := v.waitlist.FindOneBySessionAndEmployee(ctx, sessionID, employee.ID)
			if err != nil {
				return fmt.Errorf("finding waitlist entry by employee: %w", err)
			}
			if existing != nil {
				return apperrors.NewEmployeeAlreadyWaitlistedError(email)
			}
			continue
		}

		existing, err := v.waitlist.FindOneBySessionAndEmail(ctx, sessionID, email)
		if err != nil {
			return fmt.Errorf("finding waitlist entry by email: %w", err)
		}
		if existing != nil {
			return apperrors.NewAttendeeAlreadyWaitlistedError(email)
		}
	}
	return nil
}
