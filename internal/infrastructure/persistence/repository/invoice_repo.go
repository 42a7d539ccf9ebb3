package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
	"go.uber.org/zap"
)

// likeEscaper escapes LIKE wildcards so user text matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Count returns the number of invoices matching filter
func (r *InvoiceRepository) Count(ctx context.Context, filter entity.InvoiceFilter) (int64, error) {
	where, args := buildInvoiceWhere(filter)
	query := `
		SELECT COUNT(*)
		FROM invoices i
		JOIN vendors v ON v.id = i.vendor_id` + where

	var total int64
	if err := r.db.Executor(ctx).QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count invoices", zap.Error(err))
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return total, nil
}

// Search returns one page of matching invoices ordered by issue date, newest first
func (r *InvoiceRepository) Search(ctx context.Context, filter entity.InvoiceFilter) ([]*entity.InvoiceSummary, error) {
	where, args := buildInvoiceWhere(filter)
	query := `
		SELECT i.id, i.invoice_number, i.vendor_id, i.customer_id,
			i.issue_date, i.due_date, i.status,
			i.subtotal, i.tax, i.total, i.currency, i.notes,
			i.created_at, i.updated_at,
			v.name, c.name
		FROM invoices i
		JOIN vendors v ON v.id = i.vendor_id
		JOIN customers c ON c.id = i.customer_id` + where + `
		ORDER BY i.issue_date DESC, i.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		r.logger.Error("Failed to search invoices",
			zap.String("query", filter.Query),
			zap.String("status", filter.Status),
			zap.Error(err))
		return nil, fmt.Errorf("failed to search invoices: %w", err)
	}
	defer rows.Close()

	results := []*entity.InvoiceSummary{}
	for rows.Next() {
		var s entity.InvoiceSummary
		var notes sql.NullString
		if err := rows.Scan(
			&s.ID,
			&s.InvoiceNumber,
			&s.VendorID,
			&s.CustomerID,
			&s.IssueDate,
			&s.DueDate,
			&s.Status,
			&s.Subtotal,
			&s.Tax,
			&s.Total,
			&s.Currency,
			&notes,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.VendorName,
			&s.CustomerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if notes.Valid {
			s.Notes = &notes.String
		}
		results = append(results, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoice iteration error: %w", err)
	}

	return results, nil
}

// Upsert inserts or updates an invoice keyed by invoice number and replaces
// its line items, all in one transaction
func (r *InvoiceRepository) Upsert(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.Status == "" {
		invoice.Status = entity.InvoiceStatusPending
	}
	if !entity.IsValidInvoiceStatus(invoice.Status) {
		return fmt.Errorf("invalid invoice status %q", invoice.Status)
	}
	if invoice.Currency == "" {
		invoice.Currency = entity.DefaultCurrency
	}

	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		query := `
			INSERT INTO invoices (
				invoice_number, vendor_id, customer_id, issue_date, due_date,
				status, subtotal, tax, total, currency, notes
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (invoice_number) DO UPDATE SET
				vendor_id = excluded.vendor_id,
				customer_id = excluded.customer_id,
				issue_date = excluded.issue_date,
				due_date = excluded.due_date,
				status = excluded.status,
				subtotal = excluded.subtotal,
				tax = excluded.tax,
				total = excluded.total,
				currency = excluded.currency,
				notes = excluded.notes,
				updated_at = CURRENT_TIMESTAMP
			RETURNING id
		`

		exec := r.db.Executor(txCtx)
		err := exec.QueryRowContext(txCtx, r.db.Rebind(query),
			invoice.InvoiceNumber,
			invoice.VendorID,
			invoice.CustomerID,
			dateParam(invoice.IssueDate),
			dateParam(invoice.DueDate),
			invoice.Status,
			invoice.Subtotal,
			invoice.Tax,
			invoice.Total,
			invoice.Currency,
			invoice.Notes,
		).Scan(&invoice.ID)
		if err != nil {
			r.logger.Error("Failed to upsert invoice",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err))
			return fmt.Errorf("failed to upsert invoice: %w", err)
		}

		if _, err := exec.ExecContext(txCtx, r.db.Rebind(`DELETE FROM line_items WHERE invoice_id = ?`), invoice.ID); err != nil {
			return fmt.Errorf("failed to clear line items: %w", err)
		}

		for _, item := range invoice.LineItems {
			item.InvoiceID = invoice.ID
			if err := r.insertLineItem(txCtx, exec, item); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *InvoiceRepository) insertLineItem(ctx context.Context, exec database.Executor, item *entity.LineItem) error {
	query := `
		INSERT INTO line_items (invoice_id, category_id, description, quantity, unit_price, amount)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := exec.QueryRowContext(ctx, r.db.Rebind(query),
		item.InvoiceID,
		item.CategoryID,
		item.Description,
		item.Quantity,
		item.UnitPrice,
		item.Amount,
	).Scan(&item.ID)
	if err != nil {
		r.logger.Error("Failed to insert line item",
			zap.Int64("invoice_id", item.InvoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to insert line item: %w", err)
	}
	return nil
}

// AddPayment records a payment. The amount is not checked against the invoice total.
func (r *InvoiceRepository) AddPayment(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (invoice_id, amount, payment_date, method, reference)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.db.Executor(ctx).QueryRowContext(ctx, r.db.Rebind(query),
		payment.InvoiceID,
		payment.Amount,
		dateParam(payment.PaymentDate),
		payment.Method,
		payment.Reference,
	).Scan(&payment.ID)
	if err != nil {
		r.logger.Error("Failed to add payment",
			zap.Int64("invoice_id", payment.InvoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to add payment: %w", err)
	}

	return nil
}

// DeletePayments removes the payments of an invoice so a reload can replace them
func (r *InvoiceRepository) DeletePayments(ctx context.Context, invoiceID int64) error {
	_, err := r.db.Executor(ctx).ExecContext(ctx, r.db.Rebind(`DELETE FROM payments WHERE invoice_id = ?`), invoiceID)
	if err != nil {
		r.logger.Error("Failed to delete payments",
			zap.Int64("invoice_id", invoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	return nil
}

// buildInvoiceWhere translates a normalized filter into a WHERE clause
// over invoices i joined with vendors v
func buildInvoiceWhere(filter entity.InvoiceFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.Query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Query)) + "%"
		conds = append(conds, `(LOWER(i.invoice_number) LIKE ? ESCAPE '\' OR LOWER(v.name) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if filter.Status != "" {
		conds = append(conds, "i.status = ?")
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conds = append(conds, "i.issue_date >= ?")
		args = append(args, dateParam(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conds = append(conds, "i.issue_date <= ?")
		args = append(args, dateParam(*filter.DateTo))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
