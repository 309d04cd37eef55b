package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("checkout not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "checkout not found", notFoundErr.Message)
	assert.Equal(t, "checkout not found", err.Error())
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	notFoundErr, ok := IsNotFoundError(errors.New("some other error"))
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading checkout: %w", NewNotFoundError("checkout not found"))

	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
}

func TestValidationError_Creation(t *testing.T) {
	details := []ValidationDetail{
		{Field: "amount", Message: "amount must be non-negative"},
		{Field: "invoiceNumber", Message: "invoiceNumber is required"},
	}

	err := NewValidationError("validation failed", details...)

	assert.Equal(t, "validation failed", err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "amount", ve.Details[0].Field)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.Equal(t, "failed to query database: database error", err.Error())
	assert.ErrorIs(t, err, cause)

	_, ok := IsInternalError(err)
	assert.True(t, ok)
}

func TestStorageError_Timeout(t *testing.T) {
	err := NewStorageError("count enrollments", fmt.Errorf("query: %w", context.DeadlineExceeded))

	se, ok := IsStorageError(err)
	assert.True(t, ok)
	assert.True(t, se.Timeout())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "count enrollments")
}

func TestStorageError_NotTimeout(t *testing.T) {
	err := NewStorageError("find voucher", errors.New("connection refused"))

	assert.False(t, err.Timeout())
}

func TestConflictForbiddenDeadlock(t *testing.T) {
	_, ok := IsConflictError(NewConflictError("payment already in progress"))
	assert.True(t, ok)

	_, ok = IsForbiddenError(NewForbiddenError("not your checkout"))
	assert.True(t, ok)

	_, ok = IsDeadlockError(NewDeadlockError("max retries exceeded"))
	assert.True(t, ok)

	_, ok = IsConflictError(NewForbiddenError("not your checkout"))
	assert.False(t, ok)
}

func TestCheckoutError_CodesAndFamilies(t *testing.T) {
	tests := []struct {
		name   string
		err    *CheckoutError
		code   string
		family Family
	}{
		{"event session", NewEventSessionNotFoundError(), CodeEventSessionNotFound, FamilyPrecondition},
		{"event", NewEventNotFoundError(), CodeEventNotFound, FamilyPrecondition},
		{"duplicate email", NewDuplicateAttendeeEmailError("a@example.com"), CodeDuplicateAttendeeEmail, FamilyAttendees},
		{"employee enrolled", NewEmployeeAlreadyEnrolledError("a@example.com"), CodeEmployeeAlreadyEnrolled, FamilyEnrollment},
		{"attendee enrolled", NewAttendeeAlreadyEnrolledError("a@example.com"), CodeAttendeeAlreadyEnrolled, FamilyEnrollment},
		{"employee waitlisted", NewEmployeeAlreadyWaitlistedError("a@example.com"), CodeEmployeeAlreadyWaitlisted, FamilyWaitlist},
		{"attendee waitlisted", NewAttendeeAlreadyWaitlistedError("a@example.com"), CodeAttendeeAlreadyWaitlisted, FamilyWaitlist},
		{"seats", NewNotEnoughSeatsError(1, 2), CodeNotEnoughSeats, FamilySeats},
		{"invalid code", NewInvalidDiscountCodeError("X"), CodeInvalidDiscountCode, FamilyDiscount},
		{"not yet active", NewDiscountNotYetActiveError("X"), CodeDiscountNotYetActive, FamilyDiscount},
		{"expired", NewDiscountExpiredError("X"), CodeDiscountExpired, FamilyDiscount},
		{"not for event", NewDiscountNotValidForEventError("X"), CodeDiscountNotValidForEvent, FamilyDiscount},
		{"max usage", NewDiscountMaxUsageReachedError("X", 10), CodeDiscountMaxUsageReached, FamilyDiscount},
		{"minimum", NewDiscountMinimumNotMetError("X", 100, 50), CodeDiscountMinimumNotMet, FamilyDiscount},
		{"not eligible", NewEventNotVoucherEligibleError(), CodeEventNotVoucherEligible, FamilyVoucher},
		{"voucher seats", NewInsufficientVoucherSeatsError(1, 3), CodeInsufficientVoucherSeats, FamilyVoucher},
		{"admin", NewAdminDiscountNotPermittedError(), CodeAdminDiscountNotPermitted, FamilyAuthorization},
		{"mismatch", NewPaymentAmountMismatchError(80, 100), CodePaymentAmountMismatch, FamilyPayment},
		{"not in progress", NewCheckoutNotInProgressError("COMPLETED"), CodeCheckoutNotInProgress, FamilyLifecycle},
		{"expired checkout", NewCheckoutExpiredError(), CodeCheckoutExpired, FamilyLifecycle},
		{"transition", NewInvalidStatusTransitionError("COMPLETED", "IN_PROGRESS"), CodeInvalidStatusTransition, FamilyLifecycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.family, tt.err.Family)
			assert.NotEmpty(t, tt.err.Error())
			assert.True(t, HasCode(tt.err, tt.code))
		})
	}
}

func TestCheckoutError_Fields(t *testing.T) {
	err := NewPaymentAmountMismatchError(80, 100)

	assert.Equal(t, 80.0, err.Fields["expected"])
	assert.Equal(t, 100.0, err.Fields["submitted"])
	assert.Equal(t, "payment amount mismatch: expected 80.00, submitted 100.00", err.Error())

	seats := NewNotEnoughSeatsError(2, 4)
	assert.Equal(t, 2, seats.Fields["available"])
	assert.Equal(t, 4, seats.Fields["requested"])
}

func TestIsCheckoutError_WrappedAndForeign(t *testing.T) {
	wrapped := fmt.Errorf("validate: %w", NewDiscountExpiredError("SUMMER"))

	ce, ok := IsCheckoutError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeDiscountExpired, ce.Code)

	assert.False(t, HasCode(errors.New("boom"), CodeDiscountExpired))
	assert.False(t, HasCode(NewDiscountExpiredError("SUMMER"), CodeInvalidDiscountCode))
}
