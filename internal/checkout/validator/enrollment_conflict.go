package validator

import (
	"context"
	"fmt"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

type EnrollmentConflictValidator struct {
	employees   EmployeeFinder
	enrollments EnrollmentStore
}

func NewEnrollmentConflictValidator(employees EmployeeFinder, enrollments EnrollmentStore) *EnrollmentConflictValidator {
	return &EnrollmentConflictValidator{
		employees:   employees,
		enrollments: enrollments,
	}
}

func (v *EnrollmentConflictValidator) Name() string { return "enrollment_conflict" }

func (v *EnrollmentConflictValidator) Validate(ctx context.Context, _ *dto.PaymentRequest, checkout *domain.CheckoutSession, company *domain.Company, _ *domain.Employee) error {
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
			existing, err := v.enrollments.FindOneBySessionAndEmployee(ctx, sessionID, employee.ID)
			if err != nil {
				return fmt.Errorf("finding enrollment by employee: %w", err)
			}
			if existing != nil {
				return apperrors.NewEmployeeAlreadyEnrolledError(email)
			}
			continue
		}

		existing, err := v.enrollments.FindOneBySessionAndEmail(ctx, sessionID, email)
		if err != nil {
			return fmt.Errorf("finding enrollment by email: %w", err)
		}
		if existing != nil {
			return apperrors.NewAttendeeAlreadyEnrolledError(email)
		}
	}
	return nil
}
