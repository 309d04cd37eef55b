package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/infrastructure/mysql"
)

type MySQLRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLRepository(db *sql.DB, timeout time.Duration) *MySQLRepository {
	return &MySQLRepository{db: db, timeout: mysql.Timeout(timeout)}
}

// FindAvailabilityByIDs loads the sessions with their enrollment count and
// the seats held by checkouts still in progress at now.
func (r *MySQLRepository) FindAvailabilityByIDs(ctx context.Context, ids []int64, now time.Time) ([]domain.SessionAvailability, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, domain.CheckoutStatusInProgress, now)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT es.id, es.uuid, es.eventId, es.name, es.maxEnrollments, es.startDate, es.endDate,
		       e.id, e.uuid, e.name, e.price, e.isVoucherEligible,
		       (SELECT COUNT(*) FROM EventEnrollment en WHERE en.eventSessionId = es.id),
		       (SELECT COUNT(*)
		          FROM EventCheckoutAttendee a
		          INNER JOIN EventCheckout c ON c.id = a.eventCheckoutId
		         WHERE c.eventSessionId = es.id AND c.status = ?
		           AND c.reservationExpiresAt > ?
		           AND a.isSelected = 1 AND a.isWaitlist = 0)
		FROM EventSession es
		INNER JOIN Event e ON e.id = es.eventId
		WHERE es.id IN (%s)
		ORDER BY es.id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Wrap("query session availability", err)
	}
	defer rows.Close()

	var out []domain.SessionAvailability
	for rows.Next() {
		var (
			a     domain.SessionAvailability
			event domain.Event
		)
		err := rows.Scan(
			&a.Session.ID, &a.Session.UUID, &a.Session.EventID, &a.Session.Name, &a.Session.MaxEnrollments,
			&a.Session.StartDate, &a.Session.EndDate,
			&event.ID, &event.UUID, &event.Name, &event.Price, &event.IsVoucherEligible,
			&a.Enrolled, &a.Held,
		)
		if err != nil {
			return nil, mysql.Wrap("scan session availability", err)
		}
		a.Session.Event = &event
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Wrap("iterate session availability", err)
	}

	return out, nil
}
