package domain

import "time"

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

type DiscountCode struct {
	ID                    int64
	Code                  string
	IsActive              bool
	StartDate             *time.Time
	EndDate               *time.Time
	MaximumUses           *int
	MinimumPurchaseAmount *float64
	DiscountType          DiscountType
	DiscountValue         float64
	// EventIDs is the eligibility mapping. Empty means every event.
	EventIDs  []int64
	DeletedAt *time.Time
}

func (d *DiscountCode) NotYetActive(now time.Time) bool {
	return d.StartDate != nil && d.StartDate.After(now)
}

func (d *DiscountCode) Expired(now time.Time) bool {
	return d.EndDate != nil && d.EndDate.Before(now)
}

func (d *DiscountCode) AppliesToEvent(eventID int64) bool {
	if len(d.EventIDs) == 0 {
		return true
	}
	for _, id := range d.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}
