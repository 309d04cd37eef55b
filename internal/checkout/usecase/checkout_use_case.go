package usecase

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"eventcheckout/internal/checkout/pricing"
	"eventcheckout/internal/checkout/service"
	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
	"eventcheckout/internal/infrastructure/mysql"
)

type CheckoutFinder interface {
	FindByUUID(ctx context.Context, checkoutUUID string) (*domain.CheckoutSession, error)
}

type CompanyRepository interface {
	FindByID(ctx context.Context, companyID int64) (*domain.Company, error)
}

type EmployeeRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
}

type PaymentValidator interface {
	Validate(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession, company *domain.Company, employee *domain.Employee) error
}

type Quoter interface {
	Quote(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession) (*pricing.Breakdown, error)
}

type InvoiceLock interface {
	Acquire(ctx context.Context, invoiceNumber string) (func(), error)
}

type Finalizer interface {
	Finalize(ctx context.Context, checkout *domain.CheckoutSession, req *dto.PaymentRequest, breakdown pricing.Breakdown) (*service.Finalization, error)
}

type CompletionNotifier interface {
	PublishCompleted(ctx context.Context, event dto.CheckoutCompletedEvent)
}

// Dependencies groups the collaborators of CheckoutUseCase.
type Dependencies struct {
	Checkouts CheckoutFinder
	Companies CompanyRepository
	Employees EmployeeRepository
	Validator PaymentValidator
	Quoter    Quoter
	Lock      InvoiceLock
	Gateway   service.PaymentGateway
	Finalizer Finalizer
	Notifier  CompletionNotifier
}

type CheckoutUseCase struct {
	deps             Dependencies
	clock            func() time.Time
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewCheckoutUseCase(deps Dependencies, clock func() time.Time, logger *zap.Logger, maxRetryAttempts int) *CheckoutUseCase {
	if clock == nil {
		clock = time.Now
	}
	if maxRetryAttempts <= 0 {
		maxRetryAttempts = 1
	}
	return &CheckoutUseCase{
		deps:             deps,
		clock:            clock,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

type checkoutContext struct {
	checkout *domain.CheckoutSession
	company  *domain.Company
	employee *domain.Employee
}

// Validate runs every checkout rule against the request without charging.
func (uc *CheckoutUseCase) Validate(ctx context.Context, req *dto.PaymentRequest, employeeID, companyID int64) (*dto.ValidationResult, error) {
	if err := validateAmount(req); err != nil {
		return nil, err
	}

	cc, err := uc.load(ctx, req.CheckoutUUID, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	if err := uc.deps.Validator.Validate(ctx, req, cc.checkout, cc.company, cc.employee); err != nil {
		return nil, err
	}

	breakdown, err := uc.deps.Quoter.Quote(ctx, req, cc.checkout)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("checkout validated", zap.String("checkoutUuid", cc.checkout.UUID), zap.Float64("expectedAmount", breakdown.Total))
	return &dto.ValidationResult{CheckoutUUID: cc.checkout.UUID, Breakdown: toBreakdownDTO(*breakdown)}, nil
}

// ProcessPayment revalidates the checkout, charges it and finalizes it.
func (uc *CheckoutUseCase) ProcessPayment(ctx context.Context, req *dto.PaymentRequest, employeeID, companyID int64) (*dto.PaymentResult, error) {
	if err := validatePayment(req); err != nil {
		return nil, err
	}

	uc.logger.Info("payment started", zap.String("checkoutUuid", req.CheckoutUUID), zap.String("invoiceNumber", req.InvoiceNumber), zap.Float64("amount", req.Amount))

	release, err := uc.deps.Lock.Acquire(ctx, req.InvoiceNumber)
	if err != nil {
		uc.logger.Warn("payment rejected, invoice locked", zap.String("invoiceNumber", req.InvoiceNumber))
		return nil, err
	}
	defer release()

	cc, err := uc.load(ctx, req.CheckoutUUID, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	// Revalidate under the invoice lock, immediately before charging.
	if err := uc.deps.Validator.Validate(ctx, req, cc.checkout, cc.company, cc.employee); err != nil {
		return nil, err
	}

	breakdown, err := uc.deps.Quoter.Quote(ctx, req, cc.checkout)
	if err != nil {
		return nil, err
	}

	charge, err := uc.deps.Gateway.Charge(ctx, service.ChargeRequest{
		CheckoutUUID:  cc.checkout.UUID,
		InvoiceNumber: req.InvoiceNumber,
		PaymentToken:  req.PaymentToken,
		Amount:        breakdown.Total,
	})
	if err != nil {
		uc.logger.Error("payment charge failed", zap.String("checkoutUuid", cc.checkout.UUID), zap.Error(err))
		return nil, err
	}

	f, err := uc.finalizeWithRetry(ctx, cc.checkout, req, *breakdown)
	if err != nil {
		uc.logger.Error("charged checkout could not be finalized",
			zap.String("checkoutUuid", cc.checkout.UUID),
			zap.String("transactionId", charge.TransactionID),
			zap.Error(err),
		)
		return nil, err
	}

	checkout := f.Checkout
	result := &dto.PaymentResult{
		CheckoutUUID:       checkout.UUID,
		ConfirmationNumber: deref(checkout.ConfirmationNumber),
		Amount:             breakdown.Total,
		TransactionID:      charge.TransactionID,
		FinalizedAt:        f.Now,
	}

	sessionID := int64(0)
	if checkout.EventSessionID != nil {
		sessionID = *checkout.EventSessionID
	}
	uc.deps.Notifier.PublishCompleted(ctx, dto.CheckoutCompletedEvent{
		CheckoutUUID:       checkout.UUID,
		ConfirmationNumber: result.ConfirmationNumber,
		CompanyID:          checkout.CompanyID,
		EmployeeID:         checkout.CreatedByEmployeeID,
		EventSessionID:     sessionID,
		EnrolledCount:      len(f.Enrollments),
		WaitlistedCount:    len(f.Waitlist),
		Amount:             result.Amount,
		InvoiceNumber:      req.InvoiceNumber,
		TransactionID:      charge.TransactionID,
		FinalizedAt:        f.Now.Format(time.RFC3339),
	})

	uc.logger.Info("payment completed",
		zap.String("checkoutUuid", checkout.UUID),
		zap.String("confirmationNumber", result.ConfirmationNumber),
		zap.Float64("amount", result.Amount),
	)
	return result, nil
}

func (uc *CheckoutUseCase) load(ctx context.Context, checkoutUUID string, employeeID, companyID int64) (*checkoutContext, error) {
	checkout, err := uc.deps.Checkouts.FindByUUID(ctx, checkoutUUID)
	if err != nil {
		return nil, err
	}

	if checkout.CompanyID != companyID || checkout.CreatedByEmployeeID != employeeID {
		return nil, apperrors.NewForbiddenError("checkout belongs to another employee")
	}

	if err := checkout.EnsureOpen(uc.clock().UTC()); err != nil {
		return nil, err
	}

	company, err := uc.deps.Companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	employee, err := uc.deps.Employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	return &checkoutContext{checkout: checkout, company: company, employee: employee}, nil
}

func (uc *CheckoutUseCase) finalizeWithRetry(ctx context.Context, checkout *domain.CheckoutSession, req *dto.PaymentRequest, breakdown pricing.Breakdown) (*service.Finalization, error) {
	maxAttempts := uc.maxRetryAttempts
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 and later (200ms).
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		f, err := uc.deps.Finalizer.Finalize(ctx, checkout, req, breakdown)
		if err == nil {
			return f, nil
		}

		if !mysql.IsRetryable(err) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		uc.logger.Warn("finalization conflict, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.String("checkoutUuid", checkout.UUID), zap.Error(err))
		if err := sleepWithJitter(ctx, backoffs[min(attempt, len(backoffs)-1)]); err != nil {
			return nil, err
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

// sleepWithJitter waits base plus or minus 20%.
func sleepWithJitter(ctx context.Context, base time.Duration) error {
	if base <= 0 {
		return nil
	}
	jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))

	timer := time.NewTimer(base + jitter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func validateAmount(req *dto.PaymentRequest) error {
	details := pricingDetails(req)
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid payment request", details...)
	}
	return nil
}

func validatePayment(req *dto.PaymentRequest) error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(req.InvoiceNumber) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "invoiceNumber", Message: "invoiceNumber is required"})
	}
	details = append(details, pricingDetails(req)...)
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid payment request", details...)
	}
	return nil
}

func pricingDetails(req *dto.PaymentRequest) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	if req.Amount < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "amount", Message: "amount must be non-negative"})
	}
	if req.HasAdminDiscount() {
		if _, ok := pricing.ParseDiscountType(*req.AdminDiscountType); !ok {
			details = append(details, apperrors.ValidationDetail{Field: "adminDiscountType", Message: "adminDiscountType must be percentage or fixed_amount"})
		}
	}
	return details
}

func toBreakdownDTO(b pricing.Breakdown) dto.PriceBreakdownDTO {
	return dto.PriceBreakdownDTO{
		Subtotal:       b.Subtotal,
		VoucherCredit:  b.VoucherCredit,
		CodeDiscount:   b.CodeDiscount,
		AdminDiscount:  b.AdminDiscount,
		ExpectedAmount: b.Total,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
