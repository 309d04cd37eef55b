package service

import (
	"context"
	"database/sql"
	"time"

	"eventcheckout/internal/domain"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type CheckoutRepository interface {
	FindByUUID(ctx context.Context, checkoutUUID string) (*domain.CheckoutSession, error)
	FindInProgress(ctx context.Context, employeeID, eventSessionID, companyID int64, now time.Time) (*domain.CheckoutSession, error)
	Create(ctx context.Context, session *domain.CheckoutSession) error
	CancelActiveForEmployeeAndSession(ctx context.Context, employeeID, eventSessionID, companyID, beforeID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.CheckoutStatus) error
	ReplaceAttendees(ctx context.Context, session *domain.CheckoutSession) error
}

type EventSessionRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.EventSession, error)
}

type EmployeeFinder interface {
	FindOneByEmailAndCompany(ctx context.Context, email string, companyID int64) (*domain.Employee, error)
}

type EnrollmentWriter interface {
	Create(ctx context.Context, tx *sql.Tx, enrollment *domain.Enrollment) error
}

type WaitlistWriter interface {
	MaxPosition(ctx context.Context, tx *sql.Tx, eventSessionID int64) (int, error)
	Create(ctx context.Context, tx *sql.Tx, entry *domain.EnrollmentWaitlist) error
}

type CompletionWriter interface {
	FindOneByConfirmationNumber(ctx context.Context, number string) (*domain.CheckoutSession, error)
	MarkCompleted(ctx context.Context, tx *sql.Tx, session *domain.CheckoutSession) error
}

type LineItemWriter interface {
	Insert(ctx context.Context, tx *sql.Tx, item *domain.InvoiceLineItem) error
}

type MessagePublisher interface {
	Publish(ctx context.Context, body []byte) error
}

type Clock func() time.Time
