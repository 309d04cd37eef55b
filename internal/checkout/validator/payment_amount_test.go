package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

func amountRequest(amount float64) *dto.PaymentRequest {
	req := emptyRequest()
	req.Amount = amount
	return req
}

func noDiscounts(t *testing.T) *mockDiscountStore {
	return &mockDiscountStore{
		FindOneByCodeFunc: func(ctx context.Context, code string) (*domain.DiscountCode, error) {
			t.Fatalf("no discount lookup expected")
			return nil, nil
		},
	}
}

func TestPaymentAmountValidator_PlainPrice(t *testing.T) {
	v := NewPaymentAmountValidator(noDiscounts(t))
	checkout := testCheckout(19.99, 10, seatedN(3)...)

	assert.NoError(t, v.Validate(context.Background(), amountRequest(59.97), checkout, testCompany(), testEmployee()))

	err := v.Validate(context.Background(), amountRequest(59.96), checkout, testCompany(), testEmployee())
	ce, ok := apperrors.IsCheckoutError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodePaymentAmountMismatch, ce.Code)
	assert.Equal(t, 59.97, ce.Fields["expected"])
	assert.Equal(t, 59.96, ce.Fields["submitted"])

	assert.Error(t, v.Validate(context.Background(), amountRequest(59.98), checkout, testCompany(), testEmployee()))
}

func TestPaymentAmountValidator_WaitlistNotCharged(t *testing.T) {
	v := NewPaymentAmountValidator(noDiscounts(t))
	checkout := testCheckout(50, 10, seated("a@example.com"), waitlisted("b@example.com"), domain.Attendee{IsSelected: false})

	assert.NoError(t, v.Validate(context.Background(), amountRequest(50), checkout, testCompany(), testEmployee()))
}

func TestPaymentAmountValidator_VouchersFloorAtZero(t *testing.T) {
	v := NewPaymentAmountValidator(noDiscounts(t))
	req := amountRequest(0)
	req.VoucherQuantity = intPtr(3)

	assert.NoError(t, v.Validate(context.Background(), req, testCheckout(50, 10, seatedN(2)...), testCompany(), testEmployee()))
}

func TestPaymentAmountValidator_UsesStoredDiscountNotClientAmount(t *testing.T) {
	store := discountStore(activeDiscount(), 0) // 20 percent
	v := NewPaymentAmountValidator(store)

	req := amountRequest(80)
	req.DiscountCode = strPtr("SPRING")
	req.DiscountAmount = floatPtr(99) // ignored

	assert.NoError(t, v.Validate(context.Background(), req, testCheckout(50, 10, seatedN(2)...), testCompany(), testEmployee()))

	req.Amount = 1
	assert.True(t, apperrors.HasCode(v.Validate(context.Background(), req, testCheckout(50, 10, seatedN(2)...), testCompany(), testEmployee()), apperrors.CodePaymentAmountMismatch))
}

func TestPaymentAmountValidator_AdminDiscountOnTopOfCode(t *testing.T) {
	v := NewPaymentAmountValidator(discountStore(activeDiscount(), 0))

	req := amountRequest(70)
	req.DiscountCode = strPtr("SPRING")
	req.AdminDiscountType = strPtr("fixed_amount")
	req.AdminDiscountValue = floatPtr(10)

	// 100 -> 20% -> 80 -> 10 off -> 70
	assert.NoError(t, v.Validate(context.Background(), req, testCheckout(50, 10, seatedN(2)...), testCompany(), testEmployee()))
}

func TestPaymentAmountValidator_ZeroAdminValueIgnored(t *testing.T) {
	v := NewPaymentAmountValidator(noDiscounts(t))

	req := amountRequest(100)
	req.AdminDiscountType = strPtr("percentage")
	req.AdminDiscountValue = floatPtr(0)

	assert.NoError(t, v.Validate(context.Background(), req, testCheckout(50, 10, seatedN(2)...), testCompany(), testEmployee()))
}

func TestPaymentAmountValidator_Preconditions(t *testing.T) {
	v := NewPaymentAmountValidator(noDiscounts(t))

	noSession := testCheckout(50, 10, seatedN(1)...)
	noSession.EventSession = nil
	assert.True(t, apperrors.HasCode(v.Validate(context.Background(), amountRequest(50), noSession, testCompany(), testEmployee()), apperrors.CodeEventSessionNotFound))

	noEvent := testCheckout(50, 10, seatedN(1)...)
	noEvent.EventSession.Event = nil
	assert.True(t, apperrors.HasCode(v.Validate(context.Background(), amountRequest(50), noEvent, testCompany(), testEmployee()), apperrors.CodeEventNotFound))
}

func TestPaymentAmountValidator_Quote(t *testing.T) {
	v := NewPaymentAmountValidator(discountStore(activeDiscount(), 0))

	req := emptyRequest()
	req.DiscountCode = strPtr("SPRING")
	req.VoucherQuantity = intPtr(1)

	breakdown, err := v.Quote(context.Background(), req, testCheckout(50, 10, seatedN(4)...))
	require.NoError(t, err)

	assert.Equal(t, 3, breakdown.ChargeableCount)
	assert.Equal(t, 200.0, breakdown.Subtotal)
	assert.Equal(t, 50.0, breakdown.VoucherCredit)
	assert.Equal(t, 30.0, breakdown.CodeDiscount)
	assert.Equal(t, 120.0, breakdown.Total)
}

func TestPaymentAmountValidator_UnknownAdminDiscountType(t *testing.T) {
	v := NewPaymentAmountValidator(noDiscounts(t))
	req := amountRequest(50)
	req.AdminDiscountType = strPtr("Percentage")
	req.AdminDiscountValue = floatPtr(10)

	_, err := v.Quote(context.Background(), req, testCheckout(50, 10, seatedN(1)...))

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "adminDiscountType", ve.Details[0].Field)
}
