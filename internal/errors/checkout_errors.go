package errors

import (
	stderrors "errors"
	"fmt"
)

type Family string

const (
	FamilyPrecondition  Family = "PRECONDITION"
	FamilyAttendees     Family = "ATTENDEES"
	FamilyEnrollment    Family = "ENROLLMENT"
	FamilyWaitlist      Family = "WAITLIST"
	FamilySeats         Family = "SEATS"
	FamilyDiscount      Family = "DISCOUNT_REDEMPTION"
	FamilyVoucher       Family = "VOUCHER_REDEMPTION"
	FamilyAuthorization Family = "AUTHORIZATION"
	FamilyPayment       Family = "PAYMENT"
	FamilyLifecycle     Family = "LIFECYCLE"
)

const (
	CodeEventSessionNotFound      = "EVENT_SESSION_NOT_FOUND"
	CodeEventNotFound             = "EVENT_NOT_FOUND"
	CodeDuplicateAttendeeEmail    = "DUPLICATE_ATTENDEE_EMAIL"
	CodeEmployeeAlreadyEnrolled   = "EMPLOYEE_ALREADY_ENROLLED"
	CodeAttendeeAlreadyEnrolled   = "ATTENDEE_ALREADY_ENROLLED"
	CodeEmployeeAlreadyWaitlisted = "EMPLOYEE_ALREADY_WAITLISTED"
	CodeAttendeeAlreadyWaitlisted = "ATTENDEE_ALREADY_WAITLISTED"
	CodeNotEnoughSeats            = "NOT_ENOUGH_SEATS"
	CodeInvalidDiscountCode       = "INVALID_DISCOUNT_CODE"
	CodeDiscountNotYetActive      = "DISCOUNT_NOT_YET_ACTIVE"
	CodeDiscountExpired           = "DISCOUNT_EXPIRED"
	CodeDiscountNotValidForEvent  = "DISCOUNT_NOT_VALID_FOR_EVENT"
	CodeDiscountMaxUsageReached   = "DISCOUNT_MAX_USAGE_REACHED"
	CodeDiscountMinimumNotMet     = "DISCOUNT_MINIMUM_PURCHASE_NOT_MET"
	CodeEventNotVoucherEligible   = "EVENT_NOT_VOUCHER_ELIGIBLE"
	CodeInsufficientVoucherSeats  = "INSUFFICIENT_VOUCHER_SEATS"
	CodeAdminDiscountNotPermitted = "ADMIN_DISCOUNT_NOT_PERMITTED"
	CodePaymentAmountMismatch     = "PAYMENT_AMOUNT_MISMATCH"
	CodeCheckoutNotInProgress     = "CHECKOUT_NOT_IN_PROGRESS"
	CodeCheckoutExpired           = "CHECKOUT_EXPIRED"
	CodeInvalidStatusTransition   = "INVALID_STATUS_TRANSITION"
)

// CheckoutError is a non-retryable business rule violation raised while
// validating or finalizing a checkout. Code identifies the rule, Family
// groups related rules, Fields carries diagnostic values.
type CheckoutError struct {
	Code    string
	Family  Family
	Message string
	Fields  map[string]any
}

func (e *CheckoutError) Error() string {
	return e.Message
}

func newCheckoutError(family Family, code, message string, fields map[string]any) *CheckoutError {
	return &CheckoutError{
		Code:    code,
		Family:  family,
		Message: message,
		Fields:  fields,
	}
}

func IsCheckoutError(err error) (*CheckoutError, bool) {
	var ce *CheckoutError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HasCode reports whether err is a CheckoutError with the given code.
func HasCode(err error, code string) bool {
	ce, ok := IsCheckoutError(err)
	return ok && ce.Code == code
}

func NewEventSessionNotFoundError() *CheckoutError {
	return newCheckoutError(FamilyPrecondition, CodeEventSessionNotFound, "no event session found for checkout", nil)
}

func NewEventNotFoundError() *CheckoutError {
	return newCheckoutError(FamilyPrecondition, CodeEventNotFound, "no event found for event session", nil)
}

func NewDuplicateAttendeeEmailError(email string) *CheckoutError {
	return newCheckoutError(FamilyAttendees, CodeDuplicateAttendeeEmail,
		fmt.Sprintf("duplicate attendee email: %s", email),
		map[string]any{"email": email})
}

func NewEmployeeAlreadyEnrolledError(email string) *CheckoutError {
	return newCheckoutError(FamilyEnrollment, CodeEmployeeAlreadyEnrolled,
		fmt.Sprintf("employee %s is already enrolled in this session", email),
		map[string]any{"email": email})
}

func NewAttendeeAlreadyEnrolledError(email string) *CheckoutError {
	return newCheckoutError(FamilyEnrollment, CodeAttendeeAlreadyEnrolled,
		fmt.Sprintf("attendee %s is already enrolled in this session", email),
		map[string]any{"email": email})
}

func NewEmployeeAlreadyWaitlistedError(email string) *CheckoutError {
	return newCheckoutError(FamilyWaitlist, CodeEmployeeAlreadyWaitlisted,
		fmt.Sprintf("employee %s is already on the waitlist for this session", email),
		map[string]any{"email": email})
}

func NewAttendeeAlreadyWaitlistedError(email string) *CheckoutError {
	return newCheckoutError(FamilyWaitlist, CodeAttendeeAlreadyWaitlisted,
		fmt.Sprintf("attendee %s is already on the waitlist for this session", email),
		map[string]any{"email": email})
}

func NewNotEnoughSeatsError(available, requested int) *CheckoutError {
	return newCheckoutError(FamilySeats, CodeNotEnoughSeats,
		fmt.Sprintf("not enough seats available: %d available, %d requested", available, requested),
		map[string]any{"available": available, "requested": requested})
}

func NewInvalidDiscountCodeError(code string) *CheckoutError {
	return newCheckoutError(FamilyDiscount, CodeInvalidDiscountCode,
		fmt.Sprintf("discount code %q is invalid", code),
		map[string]any{"discountCode": code})
}

func NewDiscountNotYetActiveError(code string) *CheckoutError {
	return newCheckoutError(FamilyDiscount, CodeDiscountNotYetActive,
		fmt.Sprintf("discount code %q is not active yet", code),
		map[string]any{"discountCode": code})
}

func NewDiscountExpiredError(code string) *CheckoutError {
	return newCheckoutError(FamilyDiscount, CodeDiscountExpired,
		fmt.Sprintf("discount code %q has expired", code),
		map[string]any{"discountCode": code})
}

func NewDiscountNotValidForEventError(code string) *CheckoutError {
	return newCheckoutError(FamilyDiscount, CodeDiscountNotValidForEvent,
		fmt.Sprintf("discount code %q is not valid for this event", code),
		map[string]any{"discountCode": code})
}

func NewDiscountMaxUsageReachedError(code string, maximumUses int) *CheckoutError {
	return newCheckoutError(FamilyDiscount, CodeDiscountMaxUsageReached,
		fmt.Sprintf("discount code %q has reached its maximum usage", code),
		map[string]any{"discountCode": code, "maximumUses": maximumUses})
}

func NewDiscountMinimumNotMetError(code string, minimum, purchase float64) *CheckoutError {
	return newCheckoutError(FamilyDiscount, CodeDiscountMinimumNotMet,
		fmt.Sprintf("discount code %q requires a minimum purchase of %.2f", code, minimum),
		map[string]any{"discountCode": code, "minimumPurchase": minimum, "purchaseAmount": purchase})
}

func NewEventNotVoucherEligibleError() *CheckoutError {
	return newCheckoutError(FamilyVoucher, CodeEventNotVoucherEligible, "event is not eligible for vouchers", nil)
}

func NewInsufficientVoucherSeatsError(available, requested int) *CheckoutError {
	return newCheckoutError(FamilyVoucher, CodeInsufficientVoucherSeats,
		fmt.Sprintf("insufficient voucher seats: %d available, %d requested", available, requested),
		map[string]any{"available": available, "requested": requested})
}

func NewAdminDiscountNotPermittedError() *CheckoutError {
	return newCheckoutError(FamilyAuthorization, CodeAdminDiscountNotPermitted,
		"employee is not permitted to apply an admin discount", nil)
}

func NewPaymentAmountMismatchError(expected, submitted float64) *CheckoutError {
	return newCheckoutError(FamilyPayment, CodePaymentAmountMismatch,
		fmt.Sprintf("payment amount mismatch: expected %.2f, submitted %.2f", expected, submitted),
		map[string]any{"expected": expected, "submitted": submitted})
}

func NewCheckoutNotInProgressError(status string) *CheckoutError {
	return newCheckoutError(FamilyLifecycle, CodeCheckoutNotInProgress,
		fmt.Sprintf("checkout is %s", status),
		map[string]any{"status": status})
}

func NewCheckoutExpiredError() *CheckoutError {
	return newCheckoutError(FamilyLifecycle, CodeCheckoutExpired, "checkout reservation has expired", nil)
}

func NewInvalidStatusTransitionError(from, to string) *CheckoutError {
	return newCheckoutError(FamilyLifecycle, CodeInvalidStatusTransition,
		fmt.Sprintf("cannot transition checkout from %s to %s", from, to),
		map[string]any{"from": from, "to": to})
}
