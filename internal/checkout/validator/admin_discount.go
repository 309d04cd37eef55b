package validator

import (
	"context"
	"fmt"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

// AdminDiscountValidator only engages when both a type and a positive value
// are present; anything less is not an applied admin discount.
type AdminDiscountValidator struct {
	permissions RoleChecker
}

func NewAdminDiscountValidator(permissions RoleChecker) *AdminDiscountValidator {
	return &AdminDiscountValidator{permissions: permissions}
}

func (v *AdminDiscountValidator) Name() string { return "admin_discount" }

func (v *AdminDiscountValidator) Validate(ctx context.Context, req *dto.PaymentRequest, _ *domain.CheckoutSession, _ *domain.Company, employee *domain.Employee) error {
	if !req.HasAdminDiscount() {
		return nil
	}
	if employee == nil {
		return apperrors.NewAdminDiscountNotPermittedError()
	}

	allowed, err := v.permissions.HasRole(ctx, employee, domain.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("checking employee role: %w", err)
	}
	if !allowed {
		return apperrors.NewAdminDiscountNotPermittedError()
	}
	return nil
}
