package domain

import "time"

type Voucher struct {
	ID         int64
	CompanyID  int64
	Name       string
	IsActive   bool
	StartDate  *time.Time
	EndDate    *time.Time
	TotalSeats int
	DeletedAt  *time.Time
}

// IsValidAt reports whether the voucher counts toward usable inventory.
// Both window bounds are optional.
func (v Voucher) IsValidAt(now time.Time) bool {
	if !v.IsActive || v.DeletedAt != nil {
		return false
	}
	if v.StartDate != nil && v.StartDate.After(now) {
		return false
	}
	if v.EndDate != nil && v.EndDate.Before(now) {
		return false
	}
	return true
}

// AvailableVoucherSeats sums valid voucher seats and subtracts redemptions.
// The result may be negative when redemptions exceed current inventory.
func AvailableVoucherSeats(vouchers []Voucher, redeemed int, now time.Time) int {
	total := 0
	for _, v := range vouchers {
		if v.IsValidAt(now) {
			total += v.TotalSeats
		}
	}
	return total - redeemed
}
