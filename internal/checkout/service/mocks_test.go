package service

import (
	"context"
	"database/sql"
	"time"

	"eventcheckout/internal/domain"
)

type mockCheckoutRepository struct {
	FindByUUIDFunc                        func(ctx context.Context, checkoutUUID string) (*domain.CheckoutSession, error)
	FindInProgressFunc                    func(ctx context.Context, employeeID, eventSessionID, companyID int64, now time.Time) (*domain.CheckoutSession, error)
	CreateFunc                            func(ctx context.Context, session *domain.CheckoutSession) error
	CancelActiveForEmployeeAndSessionFunc func(ctx context.Context, employeeID, eventSessionID, companyID, beforeID int64) (int64, error)
	UpdateStatusFunc                      func(ctx context.Context, id int64, from, to domain.CheckoutStatus) error
	ReplaceAttendeesFunc                  func(ctx context.Context, session *domain.CheckoutSession) error
}

func (m *mockCheckoutRepository) FindByUUID(ctx context.Context, checkoutUUID string) (*domain.CheckoutSession, error) {
	return m.FindByUUIDFunc(ctx, checkoutUUID)
}

func (m *mockCheckoutRepository) FindInProgress(ctx context.Context, employeeID, eventSessionID, companyID int64, now time.Time) (*domain.CheckoutSession, error) {
	return m.FindInProgressFunc(ctx, employeeID, eventSessionID, companyID, now)
}

func (m *mockCheckoutRepository) Create(ctx context.Context, session *domain.CheckoutSession) error {
	return m.CreateFunc(ctx, session)
}

func (m *mockCheckoutRepository) CancelActiveForEmployeeAndSession(ctx context.Context, employeeID, eventSessionID, companyID, beforeID int64) (int64, error) {
	return m.CancelActiveForEmployeeAndSessionFunc(ctx, employeeID, eventSessionID, companyID, beforeID)
}

func (m *mockCheckoutRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.CheckoutStatus) error {
	return m.UpdateStatusFunc(ctx, id, from, to)
}

func (m *mockCheckoutRepository) ReplaceAttendees(ctx context.Context, session *domain.CheckoutSession) error {
	return m.ReplaceAttendeesFunc(ctx, session)
}

type mockEventSessionRepository struct {
	FindByIDFunc func(ctx context.Context, id int64) (*domain.EventSession, error)
}

func (m *mockEventSessionRepository) FindByID(ctx context.Context, id int64) (*domain.EventSession, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockEmployeeFinder struct {
	byEmail map[string]int64
	err     error
}

func (m *mockEmployeeFinder) FindOneByEmailAndCompany(_ context.Context, email string, companyID int64) (*domain.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &domain.Employee{ID: id, CompanyID: companyID, Email: email}, nil
}

type mockEnrollmentWriter struct {
	created []domain.Enrollment
	err     error
}

func (m *mockEnrollmentWriter) Create(_ context.Context, _ *sql.Tx, enrollment *domain.Enrollment) error {
	if m.err != nil {
		return m.err
	}
	enrollment.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *enrollment)
	return nil
}

type mockWaitlistWriter struct {
	maxPosition int
	maxCalls    int
	created     []domain.EnrollmentWaitlist
	createErr   error
}

func (m *mockWaitlistWriter) MaxPosition(_ context.Context, _ *sql.Tx, _ int64) (int, error) {
	m.maxCalls++
	return m.maxPosition, nil
}

func (m *mockWaitlistWriter) Create(_ context.Context, _ *sql.Tx, entry *domain.EnrollmentWaitlist) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *entry)
	return nil
}

type mockCompletionWriter struct {
	taken       map[string]bool
	lookups     int
	completed   *domain.CheckoutSession
	completeErr error
}

func (m *mockCompletionWriter) FindOneByConfirmationNumber(_ context.Context, number string) (*domain.CheckoutSession, error) {
	m.lookups++
	if m.taken[number] || m.taken["*"] {
		return &domain.CheckoutSession{ConfirmationNumber: &number}, nil
	}
	return nil, nil
}

func (m *mockCompletionWriter) MarkCompleted(_ context.Context, _ *sql.Tx, session *domain.CheckoutSession) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	m.completed = session
	return nil
}

type mockLineItemWriter struct {
	items []domain.InvoiceLineItem
}

func (m *mockLineItemWriter) Insert(_ context.Context, _ *sql.Tx, item *domain.InvoiceLineItem) error {
	item.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *item)
	return nil
}

type mockEnrollmentStore struct {
	count      int
	employees  map[int64]bool
	emails     map[string]bool
	countCalls int
}

func (m *mockEnrollmentStore) CountBySession(context.Context, int64) (int, error) {
	m.countCalls++
	return m.count, nil
}

func (m *mockEnrollmentStore) FindOneBySessionAndEmployee(_ context.Context, sessionID, employeeID int64) (*domain.Enrollment, error) {
	if !m.employees[employeeID] {
		return nil, nil
	}
	return &domain.Enrollment{EventSessionID: sessionID, EmployeeID: &employeeID}, nil
}

func (m *mockEnrollmentStore) FindOneBySessionAndEmail(_ context.Context, sessionID int64, email string) (*domain.Enrollment, error) {
	if !m.emails[email] {
		return nil, nil
	}
	return &domain.Enrollment{EventSessionID: sessionID, Email: &email}, nil
}

type mockWaitlistFinder struct {
	employees map[int64]bool
	emails    map[string]bool
}

func (m *mockWaitlistFinder) FindOneBySessionAndEmployee(_ context.Context, sessionID, employeeID int64) (*domain.EnrollmentWaitlist, error) {
	if !m.employees[employeeID] {
		return nil, nil
	}
	return &domain.EnrollmentWaitlist{EventSessionID: sessionID, EmployeeID: &employeeID}, nil
}

func (m *mockWaitlistFinder) FindOneBySessionAndEmail(_ context.Context, sessionID int64, email string) (*domain.EnrollmentWaitlist, error) {
	if !m.emails[email] {
		return nil, nil
	}
	return &domain.EnrollmentWaitlist{EventSessionID: sessionID, Email: &email}, nil
}

type mockInProgressCounter struct {
	count     int
	excludeID int64
}

func (m *mockInProgressCounter) CountInProgressAttendees(_ context.Context, _ int64, excludeCheckoutID int64, _ time.Time) (int, error) {
	m.excludeID = excludeCheckoutID
	return m.count, nil
}

type mockVoucherStore struct {
	vouchers []domain.Voucher
	redeemed int
	calls    int
}

func (m *mockVoucherStore) FindAllByCompany(context.Context, int64) ([]domain.Voucher, error) {
	m.calls++
	return m.vouchers, nil
}

func (m *mockVoucherStore) CountRedemptionsByCompany(context.Context, int64) (int, error) {
	return m.redeemed, nil
}

type mockPublisher struct {
	bodies [][]byte
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.bodies = append(m.bodies, body)
	return nil
}

var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

// openCheckout is an IN_PROGRESS checkout owned by employee 3 of company
// 10 for event session 5 (event 50).
func openCheckout(price float64, maxEnrollments int, attendees ...domain.Attendee) *domain.CheckoutSession {
	sessionID := int64(5)
	expires := fixedNow.Add(10 * time.Minute)
	return &domain.CheckoutSession{
		ID:                   1,
		UUID:                 "checkout-1",
		CompanyID:            10,
		CreatedByEmployeeID:  3,
		EventSessionID:       &sessionID,
		Status:               domain.CheckoutStatusInProgress,
		ReservationExpiresAt: &expires,
		EventSession: &domain.EventSession{
			ID:             5,
			EventID:        50,
			Name:           "Morning",
			MaxEnrollments: maxEnrollments,
			Event:          &domain.Event{ID: 50, Name: "Workshop", Price: price, IsVoucherEligible: true},
		},
		Attendees: attendees,
	}
}

func seated(email string) domain.Attendee {
	return domain.Attendee{Email: strPtr(email), FirstName: strPtr("First"), LastName: strPtr("Last"), IsSelected: true}
}

func waitlisted(email string) domain.Attendee {
	return domain.Attendee{Email: strPtr(email), IsSelected: true, IsWaitlist: true}
}
