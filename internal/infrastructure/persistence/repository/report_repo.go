package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// basisColumns maps a trend basis to its invoice date column
var basisColumns = map[entity.TrendBasis]string{
	entity.TrendBasisIssue: "issue_date",
	entity.TrendBasisDue:   "due_date",
}

// ReportRepository implements port.ReportRepository
type ReportRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB, logger *zap.Logger) port.ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// SpendSince sums and averages non-cancelled invoice totals issued on or after since
func (r *ReportRepository) SpendSince(ctx context.Context, since time.Time) (*port.SpendSummary, error) {
	query := `
		SELECT COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM invoices
		WHERE status <> ? AND issue_date >= ?
	`

	var summary port.SpendSummary
	err := r.db.Executor(ctx).QueryRowContext(ctx, r.db.Rebind(query),
		entity.InvoiceStatusCancelled,
		dateParam(since),
	).Scan(&summary.Total, &summary.Average)
	if err != nil {
		r.logger.Error("Failed to query spend", zap.Time("since", since), zap.Error(err))
		return nil, fmt.Errorf("failed to query spend: %w", err)
	}

	return &summary, nil
}

// CountInvoices counts every non-cancelled invoice
func (r *ReportRepository) CountInvoices(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE status <> ?`

	var count int64
	if err := r.db.Executor(ctx).QueryRowContext(ctx, r.db.Rebind(query), entity.InvoiceStatusCancelled).Scan(&count); err != nil {
		r.logger.Error("Failed to count invoices", zap.Error(err))
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return count, nil
}

// InvoiceAmounts returns non-cancelled invoice totals whose basis date is in [from, to)
func (r *ReportRepository) InvoiceAmounts(ctx context.Context, basis entity.TrendBasis, from, to time.Time) ([]port.DatedAmount, error) {
	column, ok := basisColumns[basis]
	if !ok {
		return nil, fmt.Errorf("unknown trend basis %q", basis)
	}

	query := fmt.Sprintf(`
		SELECT %[1]s, total
		FROM invoices
		WHERE status <> ? AND %[1]s >= ? AND %[1]s < ?
	`, column)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, r.db.Rebind(query),
		entity.InvoiceStatusCancelled,
		dateParam(from),
		dateParam(to),
	)
	if err != nil {
		r.logger.Error("Failed to query invoice amounts",
			zap.String("basis", string(basis)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to query invoice amounts: %w", err)
	}
	defer rows.Close()

	var amounts []port.DatedAmount
	for rows.Next() {
		var a port.DatedAmount
		if err := rows.Scan(&a.Date, &a.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan invoice amount: %w", err)
		}
		amounts = append(amounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoice amount iteration error: %w", err)
	}

	return amounts, nil
}

// VendorTotals returns the vendors with the largest non-cancelled spend
func (r *ReportRepository) VendorTotals(ctx context.Context, limit int) ([]entity.NamedAmount, error) {
	query := `
		SELECT v.name, SUM(i.total) AS spend
		FROM invoices i
		JOIN vendors v ON v.id = i.vendor_id
		WHERE i.status <> ?
		GROUP BY v.id, v.name
		ORDER BY spend DESC, v.id ASC
		LIMIT ?
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, r.db.Rebind(query), entity.InvoiceStatusCancelled, limit)
	if err != nil {
		r.logger.Error("Failed to query vendor totals", zap.Int("limit", limit), zap.Error(err))
		return nil, fmt.Errorf("failed to query vendor totals: %w", err)
	}
	defer rows.Close()

	totals := []entity.NamedAmount{}
	for rows.Next() {
		var t entity.NamedAmount
		if err := rows.Scan(&t.Name, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan vendor total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vendor total iteration error: %w", err)
	}

	return totals, nil
}

// CategoryTotals sums line item amounts per category name. Items without a
// category are merged into the Uncategorized bucket in Go so the grouping
// stays portable across SQL dialects.
func (r *ReportRepository) CategoryTotals(ctx context.Context) ([]entity.NamedAmount, error) {
	query := `
		SELECT c.name, SUM(li.amount)
		FROM line_items li
		LEFT JOIN categories c ON c.id = li.category_id
		GROUP BY c.name
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query category totals", zap.Error(err))
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]decimal.Decimal)
	for rows.Next() {
		var name sql.NullString
		var amount decimal.NullDecimal
		if err := rows.Scan(&name, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		label := entity.UncategorizedLabel
		if name.Valid {
			label = name.String
		}
		if amount.Valid {
			byName[label] = byName[label].Add(amount.Decimal)
		} else if _, ok := byName[label]; !ok {
			byName[label] = decimal.Zero
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category total iteration error: %w", err)
	}

	totals := make([]entity.NamedAmount, 0, len(byName))
	for name, amount := range byName {
		totals = append(totals, entity.NamedAmount{Name: name, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Amount.Cmp(totals[j].Amount); c != 0 {
			return c > 0
		}
		return totals[i].Name < totals[j].Name
	})

	return totals, nil
}

// DueBalances returns non-cancelled invoices due in [from, to) with the sum of their payments
func (r *ReportRepository) DueBalances(ctx context.Context, from, to time.Time) ([]port.DueBalance, error) {
	query := `
		SELECT i.id, i.due_date, i.total, COALESCE(p.paid, 0)
		FROM invoices i
		LEFT JOIN (
			SELECT invoice_id, SUM(amount) AS paid
			FROM payments
			GROUP BY invoice_id
		) p ON p.invoice_id = i.id
		WHERE i.status <> ? AND i.due_date >= ? AND i.due_date < ?
		ORDER BY i.due_date ASC, i.id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, r.db.Rebind(query),
		entity.InvoiceStatusCancelled,
		dateParam(from),
		dateParam(to),
	)
	if err != nil {
		r.logger.Error("Failed to query due balances", zap.Error(err))
		return nil, fmt.Errorf("failed to query due balances: %w", err)
	}
	defer rows.Close()

	var balances []port.DueBalance
	for rows.Next() {
		var b port.DueBalance
		if err := rows.Scan(&b.InvoiceID, &b.DueDate, &b.Total, &b.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan due balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("due balance iteration error: %w", err)
	}

	return balances, nil
}

// dateParam renders a date bound as YYYY-MM-DD, which both SQLite text dates
// and PostgreSQL DATE columns compare correctly against.
func dateParam(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Verify interface compliance
var _ port.ReportRepository = (*ReportRepository)(nil)
