// Package validator holds the checkout evaluators and the ordered pipeline
// that must approve a payment request before it is charged.
package validator

import (
	"context"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"

	"go.uber.org/zap"
)

// Validator passes silently or returns exactly one typed error.
type Validator interface {
	Name() string
	Validate(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession, company *domain.Company, employee *domain.Employee) error
}

type Clock func() time.Time

// Pipeline runs its validators in order and stops at the first failure.
// Errors are returned unwrapped.
type Pipeline struct {
	validators []Validator
	logger     *zap.Logger
}

func NewPipeline(logger *zap.Logger, validators ...Validator) *Pipeline {
	return &Pipeline{
		validators: validators,
		logger:     logger,
	}
}

func (p *Pipeline) Validate(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession, company *domain.Company, employee *domain.Employee) error {
	for _, v := range p.validators {
		if err := v.Validate(ctx, req, checkout, company, employee); err != nil {
			p.logger.Warn("checkout validation failed",
				zap.String("validator", v.Name()),
				zap.String("checkoutUuid", checkout.UUID),
				zap.Error(err),
			)
			return err
		}
		p.logger.Debug("checkout validator passed", zap.String("validator", v.Name()), zap.String("checkoutUuid", checkout.UUID))
	}
	return nil
}

func (p *Pipeline) Names() []string {
	names := make([]string, len(p.validators))
	for i, v := range p.validators {
		names[i] = v.Name()
	}
	return names
}

// Stores groups the lookups the checkout validators depend on.
type Stores struct {
	Employees   EmployeeFinder
	Enrollments EnrollmentStore
	Waitlist    WaitlistFinder
	Checkouts   InProgressAttendeeCounter
	Discounts   DiscountCodeStore
	Vouchers    VoucherStore
	Permissions RoleChecker
}

// NewCheckoutPipeline builds the pipeline in its fixed order:
// duplicate email, enrollment conflict, waitlist conflict, seat
// availability, discount, voucher, admin discount, payment amount.
func NewCheckoutPipeline(stores Stores, clock Clock, logger *zap.Logger) *Pipeline {
	return NewPipeline(logger,
		NewDuplicateEmailValidator(),
		NewEnrollmentConflictValidator(stores.Employees, stores.Enrollments),
		NewWaitlistConflictValidator(stores.Employees, stores.Waitlist),
		NewSeatAvailabilityValidator(stores.Enrollments, stores.Checkouts, clock),
		NewDiscountValidator(stores.Discounts, clock),
		NewVoucherValidator(stores.Vouchers, clock),
		NewAdminDiscountValidator(stores.Permissions),
		NewPaymentAmountValidator(stores.Discounts),
	)
}
