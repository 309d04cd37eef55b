package domain

import "time"

// InvoiceLineItem records one redemption on a completed checkout's invoice.
// A voucher row stands for one voucher seat; a row with DiscountCode set
// stands for one use of that code.
type InvoiceLineItem struct {
	ID            int64
	CheckoutID    int64
	CompanyID     int64
	InvoiceNumber string
	Description   string
	DiscountCode  *string
	IsVoucher     bool
	Amount        float64
	CreatedAt     time.Time
}
