package validator

import (
	"context"
	"time"

	"eventcheckout/internal/domain"
)

// Find-one lookups return nil, nil when nothing matches.

type EmployeeFinder interface {
	FindOneByEmailAndCompany(ctx context.Context, email string, companyID int64) (*domain.Employee, error)
}

type EnrollmentStore interface {
	CountBySession(ctx context.Context, eventSessionID int64) (int, error)
	FindOneBySessionAndEmployee(ctx context.Context, eventSessionID, employeeID int64) (*domain.Enrollment, error)
	FindOneBySessionAndEmail(ctx context.Context, eventSessionID int64, email string) (*domain.Enrollment, error)
}

type WaitlistFinder interface {
	FindOneBySessionAndEmployee(ctx context.Context, eventSessionID, employeeID int64) (*domain.EnrollmentWaitlist, error)
	FindOneBySessionAndEmail(ctx context.Context, eventSessionID int64, email string) (*domain.EnrollmentWaitlist, error)
}

type InProgressAttendeeCounter interface {
	CountInProgressAttendees(ctx context.Context, eventSessionID, excludeCheckoutID int64, now time.Time) (int, error)
}

type DiscountCodeStore interface {
	FindOneByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	CountRedemptions(ctx context.Context, code string) (int, error)
}

type VoucherStore interface {
	FindAllByCompany(ctx context.Context, companyID int64) ([]domain.Voucher, error)
	CountRedemptionsByCompany(ctx context.Context, companyID int64) (int, error)
}

type RoleChecker interface {
	HasRole(ctx context.Context, employee *domain.Employee, role string) (bool, error)
}
