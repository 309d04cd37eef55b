package validator

import (
	"context"
	"fmt"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

// DiscountValidator runs the discount code checks in a fixed order; the
// first failing check decides the error.
type DiscountValidator struct {
	discounts DiscountCodeStore
	now       Clock
}

func NewDiscountValidator(discounts DiscountCodeStore, clock Clock) *DiscountValidator {
	return &DiscountValidator{
		discounts: discounts,
		now:       clock,
	}
}

func (v *DiscountValidator) Name() string { return "discount_code" }

func (v *DiscountValidator) Validate(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession, _ *domain.Company, _ *domain.Employee) error {
	if !req.HasDiscountCode() {
		return nil
	}
	code := *req.DiscountCode

	event := checkout.Event()
	if event == nil {
		return apperrors.NewEventNotFoundError()
	}

	discount, err := v.discounts.FindOneByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("finding discount code: %w", err)
	}
	if discount == nil || !discount.IsActive {
		return apperrors.NewInvalidDiscountCodeError(code)
	}

	now := v.now()
	if discount.NotYetActive(now) {
		return apperrors.NewDiscountNotYetActiveError(code)
	}
	if discount.Expired(now) {
		return apperrors.NewDiscountExpiredError(code)
	}
	if !discount.AppliesToEvent(event.ID) {
		return apperrors.NewDiscountNotValidForEventError(code)
	}

	if discount.MaximumUses != nil {
		used, err := v.discounts.CountRedemptions(ctx, code)
		if err != nil {
			return fmt.Errorf("counting discount redemptions: %w", err)
		}
		if used >= *discount.MaximumUses {
			return apperrors.NewDiscountMaxUsageReachedError(code, *discount.MaximumUses)
		}
	}

	if discount.MinimumPurchaseAmount != nil {
		purchase := event.Price * float64(checkout.SelectedNonWaitlistCount())
		if purchase < *discount.MinimumPurchaseAmount {
			return apperrors.NewDiscountMinimumNotMetError(code, *discount.MinimumPurchaseAmount, purchase)
		}
	}

	return nil
}
