package validator

import (
	"context"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

// DuplicateEmailValidator rejects attendee lists where two emails are equal
// after trimming. Comparison is case-sensitive. Nil and blank emails mark
// unclaimed seats and are skipped.
type DuplicateEmailValidator struct{}

func NewDuplicateEmailValidator() *DuplicateEmailValidator {
	return &DuplicateEmailValidator{}
}

func (v *DuplicateEmailValidator) Name() string { return "duplicate_email" }

func (v *DuplicateEmailValidator) Validate(_ context.Context, _ *dto.PaymentRequest, checkout *domain.CheckoutSession, _ *domain.Company, _ *domain.Employee) error {
	seen := make(map[string]struct{}, len(checkout.Attendees))
	for _, a := range checkout.Attendees {
		email, ok := a.TrimmedEmail()
		if !ok || email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			return apperrors.NewDuplicateAttendeeEmailError(email)
		}
		seen[email] = struct{}{}
	}
	return nil
}
