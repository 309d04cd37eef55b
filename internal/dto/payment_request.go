package dto

// PaymentRequest is the submitted payment for a checkout. DiscountAmount is
// what the client believes the discount is worth; it is never trusted.
type PaymentRequest struct {
	CheckoutUUID        string
	InvoiceNumber       string
	Amount              float64
	PaymentToken        string
	DiscountCode        *string
	DiscountAmount      *float64
	VoucherQuantity     *int
	AdminDiscountType   *string
	AdminDiscountValue  *float64
	AdminDiscountReason *string
}

func (r *PaymentRequest) RequestedVouchers() int {
	if r == nil || r.VoucherQuantity == nil || *r.VoucherQuantity < 0 {
		return 0
	}
	return *r.VoucherQuantity
}

func (r *PaymentRequest) HasDiscountCode() bool {
	return r != nil && r.DiscountCode != nil && *r.DiscountCode != ""
}

// HasAdminDiscount reports whether an admin discount is actually applied:
// a type is present and the value is present and strictly positive.
func (r *PaymentRequest) HasAdminDiscount() bool {
	if r == nil || r.AdminDiscountType == nil || *r.AdminDiscountType == "" {
		return false
	}
	return r.AdminDiscountValue != nil && *r.AdminDiscountValue > 0
}
