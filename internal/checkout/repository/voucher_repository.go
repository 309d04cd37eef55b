package repository

import (
	"context"
	"database/sql"
	"time"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/infrastructure/mysql"
)

type MySQLVoucherRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLVoucherRepository(db *sql.DB, timeout time.Duration) *MySQLVoucherRepository {
	return &MySQLVoucherRepository{db: db, timeout: mysql.Timeout(timeout)}
}

// FindAllByCompany returns every voucher of the company that is not
// soft-deleted. Validity windows are evaluated by the caller.
func (r *MySQLVoucherRepository) FindAllByCompany(ctx context.Context, companyID int64) ([]domain.Voucher, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	query := `
		SELECT id, companyId, name, isActive, startDate, endDate, totalSeats, deletedAt
		FROM Voucher
		WHERE companyId = ? AND deletedAt IS NULL
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, mysql.Wrap("find vouchers", err)
	}
	defer rows.Close()

	var vouchers []domain.Voucher
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Name, &v.IsActive, &v.StartDate, &v.EndDate, &v.TotalSeats, &v.DeletedAt); err != nil {
			return nil, mysql.Wrap("find vouchers", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mysql.Wrap("find vouchers", err)
	}

	return vouchers, nil
}

// CountRedemptionsByCompany counts voucher seats consumed by the company's
// completed checkouts.
func (r *MySQLVoucherRepository) CountRedemptionsByCompany(ctx context.Context, companyID int64) (int, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM InvoiceLineItem WHERE companyId = ? AND isVoucher = 1`, companyID).Scan(&count)
	if err != nil {
		return 0, mysql.Wrap("count voucher redemptions", err)
	}
	return count, nil
}
