package repository

import (
	"context"
	"database/sql"

	"eventcheckout/internal/domain"
	"eventcheckout/internal/infrastructure/mysql"
)

type MySQLInvoiceLineItemRepository struct {
	db *sql.DB
}

func NewMySQLInvoiceLineItemRepository(db *sql.DB) *MySQLInvoiceLineItemRepository {
	return &MySQLInvoiceLineItemRepository{db: db}
}

func (r *MySQLInvoiceLineItemRepository) Insert(ctx context.Context, tx *sql.Tx, item *domain.InvoiceLineItem) error {
	query := `
		INSERT INTO InvoiceLineItem (eventCheckoutId, companyId, invoiceNumber, description, discountCode, isVoucher, amount, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.CheckoutID, item.CompanyID, item.InvoiceNumber, item.Description,
		item.DiscountCode, item.IsVoucher, item.Amount, item.CreatedAt,
	)
	if err != nil {
		return mysql.Wrap("insert invoice line item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return mysql.Wrap("insert invoice line item", err)
	}
	item.ID = id
	return nil
}
