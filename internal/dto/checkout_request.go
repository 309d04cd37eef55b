package dto

type StartCheckoutRequest struct {
	EventSessionID int64 `json:"eventSessionId"`
}

type UpdateAttendeesRequest struct {
	ContactName  *string         `json:"contactName"`
	ContactEmail *string         `json:"contactEmail"`
	ContactPhone *string         `json:"contactPhone"`
	GroupNotes   *string         `json:"groupNotes"`
	Attendees    []AttendeeInput `json:"attendees"`
}

type AttendeeInput struct {
	Email           *string `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	SpecialRequests *string `json:"specialRequests"`
	IsSelected      bool    `json:"isSelected"`
	IsWaitlist      bool    `json:"isWaitlist"`
}

type ProcessPaymentRequest struct {
	Amount              float64  `json:"amount"`
	InvoiceNumber       string   `json:"invoiceNumber"`
	PaymentToken        string   `json:"paymentToken"`
	DiscountCode        *string  `json:"discountCode"`
	DiscountAmount      *float64 `json:"discountAmount"`
	VoucherQuantity     *int     `json:"voucherQuantity"`
	AdminDiscountType   *string  `json:"adminDiscountType"`
	AdminDiscountValue  *float64 `json:"adminDiscountValue"`
	AdminDiscountReason *string  `json:"adminDiscountReason"`
}

func (r ProcessPaymentRequest) ToPaymentRequest(checkoutUUID string) *PaymentRequest {
	return &PaymentRequest{
		CheckoutUUID:        checkoutUUID,
		InvoiceNumber:       r.InvoiceNumber,
		Amount:              r.Amount,
		PaymentToken:        r.PaymentToken,
		DiscountCode:        r.DiscountCode,
		DiscountAmount:      r.DiscountAmount,
		VoucherQuantity:     r.VoucherQuantity,
		AdminDiscountType:   r.AdminDiscountType,
		AdminDiscountValue:  r.AdminDiscountValue,
		AdminDiscountReason: r.AdminDiscountReason,
	}
}
