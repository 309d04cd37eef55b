package validator

import (
	"context"
	"fmt"

	"eventcheckout/internal/checkout/pricing"
	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

// PaymentAmountValidator recomputes the charge and requires the submitted
// amount to match it to the cent. It must run after the discount, voucher
// and admin discount validators.
type PaymentAmountValidator struct {
	discounts DiscountCodeStore
}

func NewPaymentAmountValidator(discounts DiscountCodeStore) *PaymentAmountValidator {
	return &PaymentAmountValidator{discounts: discounts}
}

func (v *PaymentAmountValidator) Name() string { return "payment_amount" }

func (v *PaymentAmountValidator) Validate(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession, _ *domain.Company, _ *domain.Employee) error {
	breakdown, err := v.Quote(ctx, req, checkout)
	if err != nil {
		return err
	}
	if !pricing.Matches(breakdown.Total, req.Amount) {
		return apperrors.NewPaymentAmountMismatchError(breakdown.Total, req.Amount)
	}
	return nil
}

// Quote derives the expected charge. The discount code is re-read from the
// store; the client supplied discount amount is ignored. An applied admin
// discount with an unknown type is a ValidationError.
func (v *PaymentAmountValidator) Quote(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession) (*pricing.Breakdown, error) {
	if checkout.EventSession == nil {
		return nil, apperrors.NewEventSessionNotFoundError()
	}
	event := checkout.Event()
	if event == nil {
		return nil, apperrors.NewEventNotFoundError()
	}

	in := pricing.Input{
		EventPrice:      event.Price,
		AttendeeCount:   checkout.SelectedNonWaitlistCount(),
		VoucherQuantity: req.RequestedVouchers(),
	}

	if req.HasDiscountCode() {
		discount, err := v.discounts.FindOneByCode(ctx, *req.DiscountCode)
		if err != nil {
			return nil, fmt.Errorf("finding discount code: %w", err)
		}
		if discount == nil {
			return nil, apperrors.NewInvalidDiscountCodeError(*req.DiscountCode)
		}
		in.Discount = &pricing.Adjustment{Type: discount.DiscountType, Value: discount.DiscountValue}
	}

	if req.HasAdminDiscount() {
		t, ok := pricing.ParseDiscountType(*req.AdminDiscountType)
		if !ok {
			return nil, apperrors.NewValidationError("invalid payment request", apperrors.ValidationDetail{
				Field:   "adminDiscountType",
				Message: "adminDiscountType must be percentage or fixed_amount",
			})
		}
		in.AdminDiscount = &pricing.Adjustment{Type: t, Value: *req.AdminDiscountValue}
	}

	breakdown := pricing.Calculate(in)
	return &breakdown, nil
}
