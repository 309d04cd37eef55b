package catalog

import "time"

type SearchSessionsRequest struct {
	EventSessionIDs []int64 `json:"eventSessionIds"`
}

type SearchSessionsResponse struct {
	Sessions []SessionDTO `json:"sessions"`
	NotFound []int64      `json:"notFound"`
}

type SessionDTO struct {
	ID                int64     `json:"id"`
	UUID              string    `json:"uuid"`
	Name              string    `json:"name"`
	EventID           int64     `json:"eventId"`
	EventName         string    `json:"eventName"`
	Price             float64   `json:"price"`
	IsVoucherEligible bool      `json:"isVoucherEligible"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	MaxEnrollments    int       `json:"maxEnrollments"`
	Enrolled          int       `json:"enrolled"`
	Held              int       `json:"held"`
	AvailableSeats    int       `json:"availableSeats"`
}
