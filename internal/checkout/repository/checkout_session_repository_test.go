package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcheckout/internal/domain"
	apperrors "eventcheckout/internal/errors"
)

var checkoutRowColumns = []string{
	"id", "uuid", "companyId", "createdById", "eventSessionId", "status",
	"reservationExpiresAt", "finalizedAt", "confirmationNumber", "amount",
	"contactName", "contactEmail", "contactPhone", "groupNotes",
	"createdAt", "updatedAt",
	"es.id", "es.uuid", "es.eventId", "es.name", "es.maxEnrollments", "es.startDate", "es.endDate",
	"e.id", "e.uuid", "e.name", "e.price", "e.isVoucherEligible",
}

var attendeeRowColumns = []string{"id", "eventCheckoutId", "email", "firstName", "lastName", "specialRequests", "isSelected", "isWaitlist"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNewMySQLCheckoutSessionRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCheckoutSessionRepository_FindByUUID_LoadsSessionEventAndAttendees(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	expires := now.Add(15 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("FROM EventCheckout c LEFT JOIN EventSession es")).
		WithArgs("abc-123").
		WillReturnRows(sqlmock.NewRows(checkoutRowColumns).AddRow(
			int64(7), "abc-123", int64(10), int64(3), int64(5), "IN_PROGRESS",
			expires, nil, nil, nil,
			"Jane", "jane@example.com", nil, nil,
			now, now,
			int64(5), "es-uuid", int64(50), "Morning", int64(20), now, now.Add(time.Hour),
			int64(50), "ev-uuid", "Workshop", 49.5, true,
		))

	mock.ExpectQuery(regexp.QuoteMeta("FROM EventCheckoutAttendee WHERE eventCheckoutId = ?")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(attendeeRowColumns).
			AddRow(int64(1), int64(7), "a@example.com", "Ann", "Lee", nil, true, false).
			AddRow(int64(2), int64(7), nil, nil, nil, nil, false, true))

	session, err := repo.FindByUUID(context.Background(), "abc-123")
	require.NoError(t, err)

	assert.Equal(t, int64(7), session.ID)
	assert.Equal(t, domain.CheckoutStatusInProgress, session.Status)
	require.NotNil(t, session.ReservationExpiresAt)
	assert.True(t, expires.Equal(*session.ReservationExpiresAt))
	assert.Nil(t, session.ConfirmationNumber)
	assert.Nil(t, session.Amount)
	require.NotNil(t, session.ContactName)
	assert.Equal(t, "Jane", *session.ContactName)

	require.NotNil(t, session.EventSession)
	assert.Equal(t, 20, session.EventSession.MaxEnrollments)
	require.NotNil(t, session.Event())
	assert.Equal(t, 49.5, session.Event().Price)
	assert.True(t, session.Event().IsVoucherEligible)

	require.Len(t, session.Attendees, 2)
	assert.Equal(t, "a@example.com", *session.Attendees[0].Email)
	assert.True(t, session.Attendees[0].OccupiesSeat())
	assert.Nil(t, session.Attendees[1].Email)
	assert.True(t, session.Attendees[1].IsWaitlist)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSessionRepository_FindByUUID_WithoutEventSession(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM EventCheckout c")).
		WillReturnRows(sqlmock.NewRows(checkoutRowColumns).AddRow(
			int64(8), "no-session", int64(10), int64(3), nil, "IN_PROGRESS",
			nil, nil, nil, nil,
			nil, nil, nil, nil,
			now, now,
			nil, nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil,
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM EventCheckoutAttendee")).
		WillReturnRows(sqlmock.NewRows(attendeeRowColumns))

	session, err := repo.FindByUUID(context.Background(), "no-session")
	require.NoError(t, err)
	assert.Nil(t, session.EventSessionID)
	assert.Nil(t, session.EventSession)
	assert.Nil(t, session.Event())
	assert.Empty(t, session.Attendees)
}

func TestCheckoutSessionRepository_FindByUUID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta("FROM EventCheckout c")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	session, err := repo.FindByUUID(context.Background(), "missing")
	assert.Nil(t, session)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCheckoutSessionRepository_FindByUUID_DriverErrorIsStorageError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta("FROM EventCheckout c")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByUUID(context.Background(), "abc")

	se, ok := apperrors.IsStorageError(err)
	require.True(t, ok)
	assert.Equal(t, "find checkout by uuid", se.Op)
}

func TestCheckoutSessionRepository_FindOneByConfirmationNumber_Unused(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.confirmationNumber = ?")).
		WithArgs("CN-ABCDEF123456").
		WillReturnError(sql.ErrNoRows)

	session, err := repo.FindOneByConfirmationNumber(context.Background(), "CN-ABCDEF123456")
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestCheckoutSessionRepository_FindInProgress_None(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("AND status = ? AND (reservationExpiresAt IS NULL OR reservationExpiresAt > ?)")).
		WithArgs(int64(3), int64(5), int64(10), "IN_PROGRESS", now).
		WillReturnError(sql.ErrNoRows)

	session, err := repo.FindInProgress(context.Background(), 3, 5, 10, now)
	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSessionRepository_Create_AssignsIDs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	sessionID := int64(5)
	now := time.Now().UTC()
	expires := now.Add(15 * time.Minute)
	email := "a@example.com"
	session := &domain.CheckoutSession{
		UUID:                 "new-uuid",
		CompanyID:            10,
		CreatedByEmployeeID:  3,
		EventSessionID:       &sessionID,
		Status:               domain.CheckoutStatusInProgress,
		ReservationExpiresAt: &expires,
		Attendees:            []domain.Attendee{{Email: &email, IsSelected: true}},
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO EventCheckout (")).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO EventCheckoutAttendee")).
		WithArgs(int64(42), email, nil, nil, nil, true, false).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), session))
	assert.Equal(t, int64(42), session.ID)
	assert.Equal(t, int64(100), session.Attendees[0].ID)
	assert.Equal(t, int64(42), session.Attendees[0].CheckoutID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSessionRepository_Create_RollsBackOnAttendeeFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	session := &domain.CheckoutSession{UUID: "u", Status: domain.CheckoutStatusInProgress, Attendees: []domain.Attendee{{}}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO EventCheckout (")).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO EventCheckoutAttendee")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), session)
	_, ok := apperrors.IsStorageError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSessionRepository_CancelActiveForEmployeeAndSession(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE EventCheckout SET status = ?")).
		WithArgs("CANCELED", int64(3), int64(5), int64(10), "IN_PROGRESS", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.CancelActiveForEmployeeAndSession(context.Background(), 3, 5, 10, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSessionRepository_UpdateStatus_StaleStatusIsConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE EventCheckout SET status = ? WHERE id = ? AND status = ?")).
		WithArgs("CANCELED", int64(7), "IN_PROGRESS").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 7, domain.CheckoutStatusInProgress, domain.CheckoutStatusCanceled)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestCheckoutSessionRepository_ReplaceAttendees(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	b := "b@example.com"
	updatedAt := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	expiresAt := updatedAt.Add(15 * time.Minute)
	session := &domain.CheckoutSession{
		ID:                   7,
		UUID:                 "abc",
		ReservationExpiresAt: &expiresAt,
		UpdatedAt:            updatedAt,
		Attendees:            []domain.Attendee{{Email: &b, IsSelected: true, IsWaitlist: true}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE EventCheckout SET contactName = ?, contactEmail = ?, contactPhone = ?, groupNotes = ?, reservationExpiresAt = ?, updatedAt = ?")).
		WithArgs(nil, nil, nil, nil, expiresAt, updatedAt, int64(7), "IN_PROGRESS").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM EventCheckoutAttendee WHERE eventCheckoutId = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO EventCheckoutAttendee")).
		WithArgs(int64(7), b, nil, nil, nil, true, true).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceAttendees(context.Background(), session))
	assert.Equal(t, int64(9), session.Attendees[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSessionRepository_ReplaceAttendees_NotInProgress(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE EventCheckout SET contactName = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ReplaceAttendees(context.Background(), &domain.CheckoutSession{ID: 7, UUID: "abc"})
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSessionRepository_CountInProgressAttendees(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM EventCheckoutAttendee a INNER JOIN EventCheckout c")).
		WithArgs(int64(5), int64(7), "IN_PROGRESS", now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountInProgressAttendees(context.Background(), 5, 7, now)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCheckoutSessionRepository_MarkCompleted(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCheckoutSessionRepository(db, time.Second)

	amount := 120.0
	number := "CN-0123456789AB"
	now := time.Now().UTC()
	session := &domain.CheckoutSession{ID: 7, UUID: "abc", Amount: &amount, ConfirmationNumber: &number, FinalizedAt: &now, UpdatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET status = ?, amount = ?, finalizedAt = ?, confirmationNumber = ?")).
		WithArgs("COMPLETED", amount, now, number, now, int64(7), "IN_PROGRESS").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.MarkCompleted(context.Background(), tx, session))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
