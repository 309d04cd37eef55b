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

type MySQLEventSessionRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLEventSessionRepository(db *sql.DB, timeout time.Duration) *MySQLEventSessionRepository {
	return &MySQLEventSessionRepository{db: db, timeout: mysql.Timeout(timeout)}
}

// FindByID loads the event session together with its event.
func (r *MySQLEventSessionRepository) FindByID(ctx context.Context, id int64) (*domain.EventSession, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	query := `
		SELECT es.id, es.uuid, es.eventId, es.name, es.maxEnrollments, es.startDate, es.endDate,
		       e.id, e.uuid, e.name, e.price, e.isVoucherEligible
		FROM EventSession es
		INNER JOIN Event e ON e.id = es.eventId
		WHERE es.id = ?
	`

	var (
		session domain.EventSession
		event   domain.Event
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UUID, &session.EventID, &session.Name, &session.MaxEnrollments,
		&session.StartDate, &session.EndDate,
		&event.ID, &event.UUID, &event.Name, &event.Price, &event.IsVoucherEligible,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("event session %d not found", id))
	}
	if err != nil {
		return nil, mysql.Wrap("find event session", err)
	}

	session.Event = &event
	return &session, nil
}
