package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventcheckout/internal/domain"
	apperrors "eventcheckout/internal/errors"
	"eventcheckout/internal/infrastructure/mysql"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const checkoutSelect = `
	SELECT c.id, c.uuid, c.companyId, c.createdById, c.eventSessionId, c.status,
	       c.reservationExpiresAt, c.finalizedAt, c.confirmationNumber, c.amount,
	       c.contactName, c.contactEmail, c.contactPhone, c.groupNotes,
	       c.createdAt, c.updatedAt,
	       es.id, es.uuid, es.eventId, es.name, es.maxEnrollments, es.startDate, es.endDate,
	       e.id, e.uuid, e.name, e.price, e.isVoucherEligible
	FROM EventCheckout c
	LEFT JOIN EventSession es ON es.id = c.eventSessionId
	LEFT JOIN Event e ON e.id = es.eventId
`

type MySQLCheckoutSessionRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLCheckoutSessionRepository(db *sql.DB, timeout time.Duration) *MySQLCheckoutSessionRepository {
	return &MySQLCheckoutSessionRepository{db: db, timeout: mysql.Timeout(timeout)}
}

func (r *MySQLCheckoutSessionRepository) FindByUUID(ctx context.Context, checkoutUUID string) (*domain.CheckoutSession, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	session, err := scanCheckout(r.db.QueryRowContext(ctx, checkoutSelect+` WHERE c.uuid = ?`, checkoutUUID))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("checkout %s not found", checkoutUUID))
	}
	if err != nil {
		return nil, mysql.Wrap("find checkout by uuid", err)
	}

	attendees, err := loadAttendees(ctx, r.db, session.ID)
	if err != nil {
		return nil, mysql.Wrap("load checkout attendees", err)
	}
	session.Attendees = attendees

	return session, nil
}

// FindOneByConfirmationNumber returns nil, nil when the number is unused.
func (r *MySQLCheckoutSessionRepository) FindOneByConfirmationNumber(ctx context.Context, number string) (*domain.CheckoutSession, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	session, err := scanCheckout(r.db.QueryRowContext(ctx, checkoutSelect+` WHERE c.confirmationNumber = ?`, number))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mysql.Wrap("find checkout by confirmation number", err)
	}
	return session, nil
}

// FindInProgress returns the newest live IN_PROGRESS checkout for the
// employee, event session and company, or nil when there is none. A checkout
// holding no seats has no expiry and stays live.
func (r *MySQLCheckoutSessionRepository) FindInProgress(ctx context.Context, employeeID, eventSessionID, companyID int64, now time.Time) (*domain.CheckoutSession, error) {
	query := `
		SELECT uuid FROM EventCheckout
		WHERE createdById = ? AND eventSessionId = ? AND companyId = ?
		  AND status = ? AND (reservationExpiresAt IS NULL OR reservationExpiresAt > ?)
		ORDER BY id DESC
		LIMIT 1
	`

	qctx, cancel := r.timeout.Context(ctx)
	var checkoutUUID string
	err := r.db.QueryRowContext(qctx, query, employeeID, eventSessionID, companyID, domain.CheckoutStatusInProgress, now).Scan(&checkoutUUID)
	cancel()

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mysql.Wrap("find in-progress checkout", err)
	}

	return r.FindByUUID(ctx, checkoutUUID)
}

// Create inserts the checkout and its attendees in one transaction and
// assigns the generated ids.
func (r *MySQLCheckoutSessionRepository) Create(ctx context.Context, session *domain.CheckoutSession) error {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mysql.Wrap("begin create checkout", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO EventCheckout (uuid, companyId, createdById, eventSessionId, status,
		                           reservationExpiresAt, contactName, contactEmail, contactPhone,
		                           groupNotes, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		session.UUID, session.CompanyID, session.CreatedByEmployeeID, session.EventSessionID, session.Status,
		session.ReservationExpiresAt, session.ContactName, session.ContactEmail, session.ContactPhone,
		session.GroupNotes, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return mysql.Wrap("insert checkout", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return mysql.Wrap("insert checkout", err)
	}
	session.ID = id

	if err := insertAttendees(ctx, tx, id, session.Attendees); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mysql.Wrap("commit create checkout", err)
	}
	return nil
}

// CancelActiveForEmployeeAndSession cancels IN_PROGRESS checkouts of the
// same owner, event session and company whose id is lower than beforeID.
func (r *MySQLCheckoutSessionRepository) CancelActiveForEmployeeAndSession(ctx context.Context, employeeID, eventSessionID, companyID, beforeID int64) (int64, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	query := `
		UPDATE EventCheckout SET status = ?
		WHERE createdById = ? AND eventSessionId = ? AND companyId = ? AND status = ? AND id < ?
	`

	result, err := r.db.ExecContext(ctx, query,
		domain.CheckoutStatusCanceled, employeeID, eventSessionID, companyID, domain.CheckoutStatusInProgress, beforeID,
	)
	if err != nil {
		return 0, mysql.Wrap("cancel active checkouts", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, mysql.Wrap("cancel active checkouts", err)
	}
	return n, nil
}

// UpdateStatus moves a checkout from one status to another. It fails with a
// ConflictError when the stored status is no longer from.
func (r *MySQLCheckoutSessionRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.CheckoutStatus) error {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `UPDATE EventCheckout SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return mysql.Wrap("update checkout status", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return mysql.Wrap("update checkout status", err)
	}
	if n == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("checkout %d is no longer %s", id, from))
	}
	return nil
}

// ReplaceAttendees rewrites the contact fields, the reservation expiry and
// the attendee collection of an IN_PROGRESS checkout.
func (r *MySQLCheckoutSessionRepository) ReplaceAttendees(ctx context.Context, session *domain.CheckoutSession) error {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mysql.Wrap("begin replace attendees", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE EventCheckout
		SET contactName = ?, contactEmail = ?, contactPhone = ?, groupNotes = ?,
		    reservationExpiresAt = ?, updatedAt = ?
		WHERE id = ? AND status = ?
	`

	result, err := tx.ExecContext(ctx, query,
		session.ContactName, session.ContactEmail, session.ContactPhone, session.GroupNotes,
		session.ReservationExpiresAt, session.UpdatedAt,
		session.ID, domain.CheckoutStatusInProgress,
	)
	if err != nil {
		return mysql.Wrap("update checkout contact", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return mysql.Wrap("update checkout contact", err)
	}
	if n == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("checkout %s is no longer in progress", session.UUID))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM EventCheckoutAttendee WHERE eventCheckoutId = ?`, session.ID); err != nil {
		return mysql.Wrap("delete checkout attendees", err)
	}

	if err := insertAttendees(ctx, tx, session.ID, session.Attendees); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mysql.Wrap("commit replace attendees", err)
	}
	return nil
}

// CountInProgressAttendees counts seats held by other live checkouts of the
// event session: selected, non-waitlisted attendees of IN_PROGRESS checkouts
// whose reservation has not expired at now.
func (r *MySQLCheckoutSessionRepository) CountInProgressAttendees(ctx context.Context, eventSessionID, excludeCheckoutID int64, now time.Time) (int, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	query := `
		SELECT COUNT(*)
		FROM EventCheckoutAttendee a
		INNER JOIN EventCheckout c ON c.id = a.eventCheckoutId
		WHERE c.eventSessionId = ? AND c.id <> ? AND c.status = ?
		  AND c.reservationExpiresAt > ?
		  AND a.isSelected = 1 AND a.isWaitlist = 0
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventSessionID, excludeCheckoutID, domain.CheckoutStatusInProgress, now).Scan(&count); err != nil {
		return 0, mysql.Wrap("count in-progress attendees", err)
	}
	return count, nil
}

// MarkCompleted persists the finalization metadata inside tx. It fails with
// a ConflictError when the checkout was finalized or canceled concurrently.
func (r *MySQLCheckoutSessionRepository) MarkCompleted(ctx context.Context, tx *sql.Tx, session *domain.CheckoutSession) error {
	query := `
		UPDATE EventCheckout
		SET status = ?, amount = ?, finalizedAt = ?, confirmationNumber = ?, updatedAt = ?
		WHERE id = ? AND status = ?
	`

	result, err := tx.ExecContext(ctx, query,
		domain.CheckoutStatusCompleted, session.Amount, session.FinalizedAt, session.ConfirmationNumber, session.UpdatedAt,
		session.ID, domain.CheckoutStatusInProgress,
	)
	if err != nil {
		return mysql.Wrap("mark checkout completed", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return mysql.Wrap("mark checkout completed", err)
	}
	if n == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("checkout %s is no longer in progress", session.UUID))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckout(row rowScanner) (*domain.CheckoutSession, error) {
	var (
		s             domain.CheckoutSession
		esID          sql.NullInt64
		esUUID        sql.NullString
		esEventID     sql.NullInt64
		esName        sql.NullString
		esMax         sql.NullInt64
		esStart       sql.NullTime
		esEnd         sql.NullTime
		eID           sql.NullInt64
		eUUID         sql.NullString
		eName         sql.NullString
		ePrice        sql.NullFloat64
		eVoucherReady sql.NullBool
	)

	err := row.Scan(
		&s.ID, &s.UUID, &s.CompanyID, &s.CreatedByEmployeeID, &s.EventSessionID, &s.Status,
		&s.ReservationExpiresAt, &s.FinalizedAt, &s.ConfirmationNumber, &s.Amount,
		&s.ContactName, &s.ContactEmail, &s.ContactPhone, &s.GroupNotes,
		&s.CreatedAt, &s.UpdatedAt,
		&esID, &esUUID, &esEventID, &esName, &esMax, &esStart, &esEnd,
		&eID, &eUUID, &eName, &ePrice, &eVoucherReady,
	)
	if err != nil {
		return nil, err
	}

	if esID.Valid {
		s.EventSession = &domain.EventSession{
			ID:             esID.Int64,
			UUID:           esUUID.String,
			EventID:        esEventID.Int64,
			Name:           esName.String,
			MaxEnrollments: int(esMax.Int64),
			StartDate:      esStart.Time,
			EndDate:        esEnd.Time,
		}
		if eID.Valid {
			s.EventSession.Event = &domain.Event{
				ID:                eID.Int64,
				UUID:              eUUID.String,
				Name:              eName.String,
				Price:             ePrice.Float64,
				IsVoucherEligible: eVoucherReady.Bool,
			}
		}
	}

	return &s, nil
}

func loadAttendees(ctx context.Context, q queryer, checkoutID int64) ([]domain.Attendee, error) {
	query := `
		SELECT id, eventCheckoutId, email, firstName, lastName, specialRequests, isSelected, isWaitlist
		FROM EventCheckoutAttendee
		WHERE eventCheckoutId = ?
		ORDER BY id
	`

	rows, err := q.QueryContext(ctx, query, checkoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []domain.Attendee
	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(&a.ID, &a.CheckoutID, &a.Email, &a.FirstName, &a.LastName, &a.SpecialRequests, &a.IsSelected, &a.IsWaitlist); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

func insertAttendees(ctx context.Context, tx execer, checkoutID int64, attendees []domain.Attendee) error {
	query := `
		INSERT INTO EventCheckoutAttendee (eventCheckoutId, email, firstName, lastName, specialRequests, isSelected, isWaitlist)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for i := range attendees {
		a := &attendees[i]
		result, err := tx.ExecContext(ctx, query, checkoutID, a.Email, a.FirstName, a.LastName, a.SpecialRequests, a.IsSelected, a.IsWaitlist)
		if err != nil {
			return mysql.Wrap("insert checkout attendee", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return mysql.Wrap("insert checkout attendee", err)
		}
		a.ID = id
		a.CheckoutID = checkoutID
	}
	return nil
}
