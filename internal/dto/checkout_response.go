package dto

import "time"

type AttendeeDTO struct {
	ID              int64   `json:"id"`
	Email           *string `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	SpecialRequests *string `json:"specialRequests"`
	IsSelected      bool    `json:"isSelected"`
	IsWaitlist      bool    `json:"isWaitlist"`
}

type CheckoutSessionResponse struct {
	TraceID              string     `json:"traceId"`
	UUID                 string     `json:"uuid"`
	Status               string     `json:"status"`
	EventSessionID       *int64     `json:"eventSessionId"`
	ReservationExpiresAt *time.Time `json:"reservationExpiresAt"`
	ConfirmationNumber   *string    `json:"confirmationNumber,omitempty"`
	Timestamp            time.Time  `json:"timestamp"`
}

type CheckoutDetails struct {
	UUID                  string        `json:"uuid"`
	Status                string        `json:"status"`
	EventSessionID        int64         `json:"eventSessionId"`
	EventSessionName      string        `json:"eventSessionName"`
	EventName             string        `json:"eventName"`
	EventPrice            float64       `json:"eventPrice"`
	IsVoucherEligible     bool          `json:"isVoucherEligible"`
	MaxEnrollments        int           `json:"maxEnrollments"`
	AvailableSeats        int           `json:"availableSeats"`
	AvailableVoucherSeats int           `json:"availableVoucherSeats"`
	ReservationExpiresAt  *time.Time    `json:"reservationExpiresAt"`
	ContactName           *string       `json:"contactName"`
	ContactEmail          *string       `json:"contactEmail"`
	ContactPhone          *string       `json:"contactPhone"`
	GroupNotes            *string       `json:"groupNotes"`
	Attendees             []AttendeeDTO `json:"attendees"`
}

type CheckoutDetailsResponse struct {
	TraceID string          `json:"traceId"`
	Details CheckoutDetails `json:"details"`
}

type PriceBreakdownDTO struct {
	Subtotal       float64 `json:"subtotal"`
	VoucherCredit  float64 `json:"voucherCredit"`
	CodeDiscount   float64 `json:"codeDiscount"`
	AdminDiscount  float64 `json:"adminDiscount"`
	ExpectedAmount float64 `json:"expectedAmount"`
}

type ValidationResult struct {
	CheckoutUUID string
	Breakdown    PriceBreakdownDTO
}

type ValidationResponse struct {
	TraceID      string            `json:"traceId"`
	CheckoutUUID string            `json:"checkoutUuid"`
	Valid        bool              `json:"valid"`
	Breakdown    PriceBreakdownDTO `json:"breakdown"`
	Timestamp    time.Time         `json:"timestamp"`
}

type PaymentResult struct {
	CheckoutUUID       string
	ConfirmationNumber string
	Amount             float64
	TransactionID      string
	FinalizedAt        time.Time
}

type PaymentResponse struct {
	TraceID            string    `json:"traceId"`
	CheckoutUUID       string    `json:"checkoutUuid"`
	Status             string    `json:"status"`
	ConfirmationNumber string    `json:"confirmationNumber"`
	Amount             float64   `json:"amount"`
	TransactionID      string    `json:"transactionId"`
	FinalizedAt        time.Time `json:"finalizedAt"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Family    string    `json:"family,omitempty"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
