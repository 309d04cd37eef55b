package validator

import (
	"context"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
)

var fixedNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

type mockEmployeeFinder struct {
	FindOneByEmailAndCompanyFunc func(ctx context.Context, email string, companyID int64) (*domain.Employee, error)
}

func (m *mockEmployeeFinder) FindOneByEmailAndCompany(ctx context.Context, email string, companyID int64) (*domain.Employee, error) {
	if m.FindOneByEmailAndCompanyFunc == nil {
		return nil, nil
	}
	return m.FindOneByEmailAndCompanyFunc(ctx, email, companyID)
}

type mockEnrollmentStore struct {
	CountBySessionFunc              func(ctx context.Context, eventSessionID int64) (int, error)
	FindOneBySessionAndEmployeeFunc func(ctx context.Context, eventSessionID, employeeID int64) (*domain.Enrollment, error)
	FindOneBySessionAndEmailFunc    func(ctx context.Context, eventSessionID int64, email string) (*domain.Enrollment, error)
}

func (m *mockEnrollmentStore) CountBySession(ctx context.Context, eventSessionID int64) (int, error) {
	return m.CountBySessionFunc(ctx, eventSessionID)
}

func (m *mockEnrollmentStore) FindOneBySessionAndEmployee(ctx context.Context, eventSessionID, employeeID int64) (*domain.Enrollment, error) {
	if m.FindOneBySessionAndEmployeeFunc == nil {
		return nil, nil
	}
	return m.FindOneBySessionAndEmployeeFunc(ctx, eventSessionID, employeeID)
}

func (m *mockEnrollmentStore) FindOneBySessionAndEmail(ctx context.Context, eventSessionID int64, email string) (*domain.Enrollment, error) {
	if m.FindOneBySessionAndEmailFunc == nil {
		return nil, nil
	}
	return m.FindOneBySessionAndEmailFunc(ctx, eventSessionID, email)
}

type mockWaitlistFinder struct {
	FindOneBySessionAndEmployeeFunc func(ctx context.Context, eventSessionID, employeeID int64) (*domain.EnrollmentWaitlist, error)
	FindOneBySessionAndEmailFunc    func(ctx context.Context, eventSessionID int64, email string) (*domain.EnrollmentWaitlist, error)
}

func (m *mockWaitlistFinder) FindOneBySessionAndEmployee(ctx context.Context, eventSessionID, employeeID int64) (*domain.EnrollmentWaitlist, error) {
	if m.FindOneBySessionAndEmployeeFunc == nil {
		return nil, nil
	}
	return m.FindOneBySessionAndEmployeeFunc(ctx, eventSessionID, employeeID)
}

func (m *mockWaitlistFinder) FindOneBySessionAndEmail(ctx context.Context, eventSessionID int64, email string) (*domain.EnrollmentWaitlist, error) {
	if m.FindOneBySessionAndEmailFunc == nil {
		return nil, nil
	}
	return m.FindOneBySessionAndEmailFunc(ctx, eventSessionID, email)
}

type mockInProgressCounter struct {
	CountInProgressAttendeesFunc func(ctx context.Context, eventSessionID, excludeCheckoutID int64, now time.Time) (int, error)
}

func (m *mockInProgressCounter) CountInProgressAttendees(ctx context.Context, eventSessionID, excludeCheckoutID int64, now time.Time) (int, error) {
	return m.CountInProgressAttendeesFunc(ctx, eventSessionID, excludeCheckoutID, now)
}

type mockDiscountStore struct {
	FindOneByCodeFunc    func(ctx context.Context, code string) (*domain.DiscountCode, error)
	CountRedemptionsFunc func(ctx context.Context, code string) (int, error)
}

func (m *mockDiscountStore) FindOneByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	return m.FindOneByCodeFunc(ctx, code)
}

func (m *mockDiscountStore) CountRedemptions(ctx context.Context, code string) (int, error) {
	return m.CountRedemptionsFunc(ctx, code)
}

type mockVoucherStore struct {
	FindAllByCompanyFunc          func(ctx context.Context, companyID int64) ([]domain.Voucher, error)
	CountRedemptionsByCompanyFunc func(ctx context.Context, companyID int64) (int, error)
}

func (m *mockVoucherStore) FindAllByCompany(ctx context.Context, companyID int64) ([]domain.Voucher, error) {
	return m.FindAllByCompanyFunc(ctx, companyID)
}

func (m *mockVoucherStore) CountRedemptionsByCompany(ctx context.Context, companyID int64) (int, error) {
	return m.CountRedemptionsByCompanyFunc(ctx, companyID)
}

type mockRoleChecker struct {
	HasRoleFunc func(ctx context.Context, employee *domain.Employee, role string) (bool, error)
}

func (m *mockRoleChecker) HasRole(ctx context.Context, employee *domain.Employee, role string) (bool, error) {
	return m.HasRoleFunc(ctx, employee, role)
}

// fixtures

func testCompany() *domain.Company {
	return &domain.Company{ID: 10, Name: "Acme"}
}

func testEmployee() *domain.Employee {
	return &domain.Employee{ID: 100, CompanyID: 10, Email: "owner@acme.test"}
}

func testCheckout(price float64, maxEnrollments int, attendees ...domain.Attendee) *domain.CheckoutSession {
	sessionID := int64(5)
	return &domain.CheckoutSession{
		ID:             1,
		UUID:           "checkout-uuid",
		CompanyID:      10,
		EventSessionID: &sessionID,
		EventSession: &domain.EventSession{
			ID:             sessionID,
			MaxEnrollments: maxEnrollments,
			Event:          &domain.Event{ID: 50, Price: price, IsVoucherEligible: true},
		},
		Status:    domain.CheckoutStatusInProgress,
		Attendees: attendees,
	}
}

func seated(email string) domain.Attendee {
	return domain.Attendee{Email: strPtr(email), IsSelected: true}
}

func waitlisted(email string) domain.Attendee {
	return domain.Attendee{Email: strPtr(email), IsSelected: true, IsWaitlist: true}
}

func seatedN(n int) []domain.Attendee {
	out := make([]domain.Attendee, n)
	for i := range out {
		out[i] = domain.Attendee{IsSelected: true}
	}
	return out
}

func emptyRequest() *dto.PaymentRequest {
	return &dto.PaymentRequest{CheckoutUUID: "checkout-uuid", InvoiceNumber: "INV-1"}
}
