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

type MySQLCompanyRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLCompanyRepository(db *sql.DB, timeout time.Duration) *MySQLCompanyRepository {
	return &MySQLCompanyRepository{db: db, timeout: mysql.Timeout(timeout)}
}

func (r *MySQLCompanyRepository) FindByID(ctx context.Context, companyID int64) (*domain.Company, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	query := `
		SELECT id, uuid, name, createdAt
		FROM Company
		WHERE id = ?
	`

	var company domain.Company
	err := r.db.QueryRowContext(ctx, query, companyID).Scan(
		&company.ID, &company.UUID, &company.Name, &company.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("company with id %d not found", companyID))
	}
	if err != nil {
		return nil, mysql.Wrap("find company", err)
	}

	return &company, nil
}
