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

type MySQLEmployeeRepository struct {
	db      *sql.DB
	timeout mysql.Timeout
}

func NewMySQLEmployeeRepository(db *sql.DB, timeout time.Duration) *MySQLEmployeeRepository {
	return &MySQLEmployeeRepository{db: db, timeout: mysql.Timeout(timeout)}
}

func (r *MySQLEmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := r.findOne(ctx, "find employee",
		`SELECT id, companyId, email, firstName, lastName FROM Employee WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("employee with id %d not found", id))
	}
	return employee, nil
}

// FindOneByEmailAndCompany returns nil, nil when the email does not belong
// to an employee of the company.
func (r *MySQLEmployeeRepository) FindOneByEmailAndCompany(ctx context.Context, email string, companyID int64) (*domain.Employee, error) {
	return r.findOne(ctx, "find employee by email",
		`SELECT id, companyId, email, firstName, lastName FROM Employee WHERE email = ? AND companyId = ? LIMIT 1`,
		email, companyID)
}

func (r *MySQLEmployeeRepository) HasRole(ctx context.Context, employeeID int64, role string) (bool, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM EmployeeRole WHERE employeeId = ? AND role = ?`, employeeID, role).Scan(&count)
	if err != nil {
		return false, mysql.Wrap("check employee role", err)
	}
	return count > 0, nil
}

func (r *MySQLEmployeeRepository) findOne(ctx context.Context, op, query string, args ...any) (*domain.Employee, error) {
	ctx, cancel := r.timeout.Context(ctx)
	defer cancel()

	var e domain.Employee
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.CompanyID, &e.Email, &e.FirstName, &e.LastName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mysql.Wrap(op, err)
	}
	return &e, nil
}
