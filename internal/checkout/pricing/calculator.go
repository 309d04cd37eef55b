// Package pricing derives the authoritative charge for a checkout.
//
// Application order: vouchers reduce the chargeable attendee count, the
// discount code applies to the voucher-adjusted subtotal, the admin discount
// applies to that result, and every step is floored at zero. Only the final
// amount is rounded to cents (half away from zero).
package pricing

import (
	"math"

	"eventcheckout/internal/domain"
)

// Adjustment is a percentage or fixed amount taken off a running amount.
type Adjustment struct {
	Type  domain.DiscountType
	Value float64
}

func (a *Adjustment) amountOff(base float64) float64 {
	if a == nil || a.Value <= 0 || base <= 0 {
		return 0
	}
	var off float64
	switch a.Type {
	case domain.DiscountTypePercentage:
		off = base * a.Value / 100
	case domain.DiscountTypeFixedAmount:
		off = a.Value
	default:
		return 0
	}
	return math.Min(off, base)
}

type Input struct {
	EventPrice      float64
	AttendeeCount   int
	VoucherQuantity int
	Discount        *Adjustment
	AdminDiscount   *Adjustment
}

type Breakdown struct {
	ChargeableCount int
	Subtotal        float64
	VoucherCredit   float64
	CodeDiscount    float64
	AdminDiscount   float64
	Total           float64
}

func Calculate(in Input) Breakdown {
	attendees := max(in.AttendeeCount, 0)
	vouchers := max(in.VoucherQuantity, 0)
	chargeable := max(attendees-vouchers, 0)

	subtotal := in.EventPrice * float64(attendees)
	running := in.EventPrice * float64(chargeable)

	codeOff := in.Discount.amountOff(running)
	running -= codeOff

	adminOff := in.AdminDiscount.amountOff(running)
	running -= adminOff

	return Breakdown{
		ChargeableCount: chargeable,
		Subtotal:        RoundCents(subtotal),
		VoucherCredit:   RoundCents(in.EventPrice * float64(attendees-chargeable)),
		CodeDiscount:    RoundCents(codeOff),
		AdminDiscount:   RoundCents(adminOff),
		Total:           RoundCents(math.Max(running, 0)),
	}
}

func RoundCents(v float64) float64 {
	return float64(ToCents(v)) / 100
}

func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// Matches compares two amounts at cent precision.
func Matches(expected, submitted float64) bool {
	return ToCents(expected) == ToCents(submitted)
}

// ParseDiscountType maps a client supplied type name onto a DiscountType.
func ParseDiscountType(s string) (domain.DiscountType, bool) {
	switch domain.DiscountType(s) {
	case domain.DiscountTypePercentage, domain.DiscountTypeFixedAmount:
		return domain.DiscountType(s), true
	}
	return "", false
}
