package validator

import (
	"context"
	"fmt"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

type VoucherValidator struct {
	vouchers VoucherStore
	now      Clock
}

func NewVoucherValidator(vouchers VoucherStore, clock Clock) *VoucherValidator {
	return &VoucherValidator{
		vouchers: vouchers,
		now:      clock,
	}
}

func (v *VoucherValidator) Name() string { return "voucher" }

func (v *VoucherValidator) Validate(ctx context.Context, req *dto.PaymentRequest, checkout *domain.CheckoutSession, company *domain.Company, _ *domain.Employee) error {
	requested := req.RequestedVouchers()
	if requested == 0 {
		return nil
	}

	event := checkout.Event()
	if event == nil || !event.IsVoucherEligible {
		return apperrors.NewEventNotVoucherEligibleError()
	}

	available, err := AvailableVoucherSeats(ctx, v.vouchers, company.ID, v.now())
	if err != nil {
		return err
	}

	if available < requested {
		return apperrors.NewInsufficientVoucherSeatsError(max(available, 0), requested)
	}
	return nil
}

// AvailableVoucherSeats is the company's usable voucher inventory at now.
func AvailableVoucherSeats(ctx context.Context, vouchers VoucherStore, companyID int64, now time.Time) (int, error) {
	all, err := vouchers.FindAllByCompany(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("finding company vouchers: %w", err)
	}

	redeemed, err := vouchers.CountRedemptionsByCompany(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("counting voucher redemptions: %w", err)
	}

	return domain.AvailableVoucherSeats(all, redeemed, now), nil
}
