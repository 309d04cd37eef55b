package repository

import (
	"context"
	"database/sql"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/infrastructure/mysql"
)

const enrollmentColumns = `id, eventSessionId, employeeId, email, firstName, lastName, specialRequests, eventCheckoutId, enrolledAt`

type MySQLEnrollmentRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLEnrollmentRepository(db *sql.DB, timeout time.Duration) *MySQLEnrollmentRepository {
	return &MySQLEnrollmentRepository{db: db, timeout: mysql.Timeout(timeout)}
}

func (r *MySQLEnrollmentRepository) CountBySession(ctx context.Context, eventSessionID int64) (int, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM EventEnrollment WHERE eventSessionId = ?`, eventSessionID).Scan(&count)
	if err != nil {
		return 0, mysql.Wrap("count enrollments", err)
	}
	return count, nil
}

func (r *MySQLEnrollmentRepository) FindOneBySessionAndEmployee(ctx context.Context, eventSessionID, employeeID int64) (*domain.Enrollment, error) {
	return r.findOne(ctx, "find enrollment by employee",
		`SELECT `+enrollmentColumns+` FROM EventEnrollment WHERE eventSessionId = ? AND employeeId = ? LIMIT 1`,
		eventSessionID, employeeID)
}

func (r *MySQLEnrollmentRepository) FindOneBySessionAndEmail(ctx context.Context, eventSessionID int64, email string) (*domain.Enrollment, error) {
	return r.findOne(ctx, "find enrollment by email",
		`SELECT `+enrollmentColumns+` FROM EventEnrollment WHERE eventSessionId = ? AND email = ? LIMIT 1`,
		eventSessionID, email)
}

func (r *MySQLEnrollmentRepository) findOne(ctx context.Context, op, query string, args ...any) (*domain.Enrollment, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	var e domain.Enrollment
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&e.ID, &e.EventSessionID, &e.EmployeeID, &e.Email, &e.FirstName, &e.LastName,
		&e.SpecialRequests, &e.CheckoutID, &e.EnrolledAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mysql.Wrap(op, err)
	}
	return &e, nil
}

func (r *MySQLEnrollmentRepository) Create(ctx context.Context, tx *sql.Tx, enrollment *domain.Enrollment) error {
	query := `
		INSERT INTO EventEnrollment (eventSessionId, employeeId, email, firstName, lastName, specialRequests, eventCheckoutId, enrolledAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		enrollment.EventSessionID, enrollment.EmployeeID, enrollment.Email, enrollment.FirstName,
		enrollment.LastName, enrollment.SpecialRequests, enrollment.CheckoutID, enrollment.EnrolledAt,
	)
	if err != nil {
		return mysql.Wrap("insert enrollment", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return mysql.Wrap("insert enrollment", err)
	}
	enrollment.ID = id
	return nil
}
