package repository

import (
	"context"
	"database/sql"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/infrastructure/mysql"
)

const waitlistColumns = `id, eventSessionId, employeeId, email, firstName, lastName, specialRequests,
	waitlistPosition, seatPrice, originalCheckoutId, waitlistedAt`

type MySQLWaitlistRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLWaitlistRepository(db *sql.DB, timeout time.Duration) *MySQLWaitlistRepository {
	return &MySQLWaitlistRepository{db: db, timeout: mysql.Timeout(timeout)}
}

func (r *MySQLWaitlistRepository) FindOneBySessionAndEmployee(ctx context.Context, eventSessionID, employeeID int64) (*domain.EnrollmentWaitlist, error) {
	return r.findOne(ctx, "find waitlist entry by employee",
		`SELECT `+waitlistColumns+` FROM EventEnrollmentWaitlist WHERE eventSessionId = ? AND employeeId = ? LIMIT 1`,
		eventSessionID, employeeID)
}

func (r *MySQLWaitlistRepository) FindOneBySessionAndEmail(ctx context.Context, eventSessionID int64, email string) (*domain.EnrollmentWaitlist, error) {
	return r.findOne(ctx, "find waitlist entry by email",
		`SELECT `+waitlistColumns+` FROM EventEnrollmentWaitlist WHERE eventSessionId = ? AND email = ? LIMIT 1`,
		eventSessionID, email)
}

func (r *MySQLWaitlistRepository) findOne(ctx context.Context, op, query string, args ...any) (*domain.EnrollmentWaitlist, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	var w domain.EnrollmentWaitlist
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&w.ID, &w.EventSessionID, &w.EmployeeID, &w.Email, &w.FirstName, &w.LastName, &w.SpecialRequests,
		&w.WaitlistPosition, &w.SeatPrice, &w.OriginalCheckoutID, &w.WaitlistedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mysql.Wrap(op, err)
	}
	return &w, nil
}

// MaxPosition returns the highest waitlist position of the event session,
// or 0 when the waitlist is empty. Concurrent writers that read the same
// value collide on the unique (session, position) key and are retried.
func (r *MySQLWaitlistRepository) MaxPosition(ctx context.Context, tx *sql.Tx, eventSessionID int64) (int, error) {
	var highest sql.NullInt64
	err := tx.QueryRowContext(ctx, `SELECT MAX(waitlistPosition) FROM EventEnrollmentWaitlist WHERE eventSessionId = ?`, eventSessionID).Scan(&highest)
	if err != nil {
		return 0, mysql.Wrap("max waitlist position", err)
	}
	return int(highest.Int64), nil
}

func (r *MySQLWaitlistRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.EnrollmentWaitlist) error {
	query := `
		INSERT INTO EventEnrollmentWaitlist (eventSessionId, employeeId, email, firstName, lastName, specialRequests,
		                                     waitlistPosition, seatPrice, originalCheckoutId, waitlistedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		entry.EventSessionID, entry.EmployeeID, entry.Email, entry.FirstName, entry.LastName, entry.SpecialRequests,
		entry.WaitlistPosition, entry.SeatPrice, entry.OriginalCheckoutID, entry.WaitlistedAt,
	)
	if err != nil {
		return mysql.Wrap("insert waitlist entry", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return mysql.Wrap("insert waitlist entry", err)
	}
	entry.ID = id
	return nil
}
