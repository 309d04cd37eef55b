package repository

import (
	"context"
	"database/sql"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/infrastructure/mysql"
)

type MySQLDiscountCodeRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLDiscountCodeRepository(db *sql.DB, timeout time.Duration) *MySQLDiscountCodeRepository {
	return &MySQLDiscountCodeRepository{db: db, timeout: mysql.Timeout(timeout)}
}

// FindOneByCode matches the code case-sensitively, ignores soft-deleted
// codes and loads the event eligibility mapping. Returns nil, nil when no
// code matches.
func (r *MySQLDiscountCodeRepository) FindOneByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	query := `
		SELECT id, code, isActive, startDate, endDate, maximumUses, minimumPurchaseAmount,
		       discountType, discountValue, deletedAt
		FROM DiscountCode
		WHERE code = BINARY ? AND deletedAt IS NULL
		LIMIT 1
	`

	var d domain.DiscountCode
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&d.ID, &d.Code, &d.IsActive, &d.StartDate, &d.EndDate, &d.MaximumUses, &d.MinimumPurchaseAmount,
		&d.DiscountType, &d.DiscountValue, &d.DeletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mysql.Wrap("find discount code", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT eventId FROM DiscountCodeEvent WHERE discountCodeId = ? ORDER BY eventId`, d.ID)
	if err != nil {
		return nil, mysql.Wrap("load discount code events", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int64
		if err := rows.Scan(&eventID); err != nil {
			return nil, mysql.Wrap("load discount code events", err)
		}
		d.EventIDs = append(d.EventIDs, eventID)
	}
	if err := rows.Err(); err != nil {
		return nil, mysql.Wrap("load discount code events", err)
	}

	return &d, nil
}

// CountRedemptions counts completed checkouts that applied the code.
func (r *MySQLDiscountCodeRepository) CountRedemptions(ctx context.Context, code string) (int, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM InvoiceLineItem WHERE discountCode = BINARY ?`, code).Scan(&count)
	if err != nil {
		return 0, mysql.Wrap("count discount redemptions", err)
	}
	return count, nil
}
