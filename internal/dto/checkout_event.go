package dto

// CheckoutCompletedEvent is published after a checkout is finalized.
type CheckoutCompletedEvent struct {
	CheckoutUUID       string  `json:"checkout_uuid"`
	ConfirmationNumber string  `json:"confirmation_number"`
	CompanyID          int64   `json:"company_id"`
	EmployeeID         int64   `json:"employee_id"`
	EventSessionID     int64   `json:"event_session_id"`
	EnrolledCount      int     `json:"enrolled_count"`
	WaitlistedCount    int     `json:"waitlisted_count"`
	Amount             float64 `json:"amount"`
	InvoiceNumber      string  `json:"invoice_number"`
	TransactionID      string  `json:"transaction_id"`
	FinalizedAt        string  `json:"finalized_at"`
}
