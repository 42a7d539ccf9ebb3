package repository

import (
	"context"
	"testing"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_SpendSince(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.vendor(t, "Acme")
	cust := s.customer(t, "Buyer")

	s.invoice(t, seedInvoice{number: "INV-1", vendor: acme, customer: cust, issue: "2025-12-31", due: "2026-01-30", status: "paid", total: "999"})
	s.invoice(t, seedInvoice{number: "INV-2", vendor: acme, customer: cust, issue: "2026-01-01", due: "2026-01-31", status: "pending", total: "100"})
	s.invoice(t, seedInvoice{number: "INV-3", vendor: acme, customer: cust, issue: "2026-03-10", due: "2026-04-09", status: "paid", total: "300.50"})
	s.invoice(t, seedInvoice{number: "INV-4", vendor: acme, customer: cust, issue: "2026-03-11", due: "2026-04-10", status: "cancelled", total: "5000"})

	summary, err := s.reports.SpendSince(ctx, day("2026-01-01"))
	require.NoError(t, err)
	requireDecimal(t, "400.5", summary.Total)
	requireDecimal(t, "200.25", summary.Average)

	t.Run("no invoices in period", func(t *testing.T) {
		summary, err := s.reports.SpendSince(ctx, day("2030-01-01"))
		require.NoError(t, err)
		assert.True(t, summary.Total.IsZero())
		assert.True(t, summary.Average.IsZero())
	})

	t.Run("count excludes cancelled", func(t *testing.T) {
		count, err := s.reports.CountInvoices(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestReportRepository_InvoiceAmounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.vendor(t, "Acme")
	cust := s.customer(t, "Buyer")

	s.invoice(t, seedInvoice{number: "INV-1", vendor: acme, customer: cust, issue: "2026-01-15", due: "2026-02-14", status: "pending", total: "100"})
	s.invoice(t, seedInvoice{number: "INV-2", vendor: acme, customer: cust, issue: "2026-02-01", due: "2026-03-03", status: "paid", total: "200"})
	s.invoice(t, seedInvoice{number: "INV-3", vendor: acme, customer: cust, issue: "2026-01-20", due: "2026-02-19", status: "cancelled", total: "700"})

	t.Run("issue basis uses half-open range", func(t *testing.T) {
		amounts, err := s.reports.InvoiceAmounts(ctx, entity.TrendBasisIssue, day("2026-01-01"), day("2026-02-01"))
		require.NoError(t, err)
		require.Len(t, amounts, 1)
		assert.Equal(t, day("2026-01-15"), amounts[0].Date.UTC())
		requireDecimal(t, "100", amounts[0].Amount)
	})

	t.Run("due basis", func(t *testing.T) {
		amounts, err := s.reports.InvoiceAmounts(ctx, entity.TrendBasisDue, day("2026-02-01"), day("2026-03-01"))
		require.NoError(t, err)
		require.Len(t, amounts, 1)
		assert.Equal(t, day("2026-02-14"), amounts[0].Date.UTC())
	})

	t.Run("unknown basis", func(t *testing.T) {
		_, err := s.reports.InvoiceAmounts(ctx, entity.TrendBasis("paid"), day("2026-01-01"), day("2026-12-01"))
		assert.Error(t, err)
	})
}

func TestReportRepository_VendorTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cust := s.customer(t, "Buyer")

	a := s.vendor(t, "Alpha")
	b := s.vendor(t, "Beta")
	c := s.vendor(t, "Gamma")
	d := s.vendor(t, "Delta")

	s.invoice(t, seedInvoice{number: "A-1", vendor: a, customer: cust, issue: "2026-01-01", due: "2026-01-31", status: "paid", total: "100"})
	s.invoice(t, seedInvoice{number: "A-2", vendor: a, customer: cust, issue: "2026-02-01", due: "2026-03-01", status: "pending", total: "50"})
	s.invoice(t, seedInvoice{number: "B-1", vendor: b, customer: cust, issue: "2026-01-01", due: "2026-01-31", status: "paid", total: "400"})
	s.invoice(t, seedInvoice{number: "C-1", vendor: c, customer: cust, issue: "2026-01-01", due: "2026-01-31", status: "overdue", total: "150"})
	s.invoice(t, seedInvoice{number: "D-1", vendor: d, customer: cust, issue: "2026-01-01", due: "2026-01-31", status: "cancelled", total: "9000"})

	totals, err := s.reports.VendorTotals(ctx, 10)
	require.NoError(t, err)
	require.Len(t, totals, 3)

	assert.Equal(t, "Beta", totals[0].Name)
	requireDecimal(t, "400", totals[0].Amount)
	// Alpha and Gamma tie at 150; the lower vendor id wins
	assert.Equal(t, "Alpha", totals[1].Name)
	assert.Equal(t, "Gamma", totals[2].Name)

	for i := 1; i < len(totals); i++ {
		assert.True(t, totals[i-1].Amount.GreaterThanOrEqual(totals[i].Amount))
	}

	t.Run("limit", func(t *testing.T) {
		totals, err := s.reports.VendorTotals(ctx, 1)
		require.NoError(t, err)
		require.Len(t, totals, 1)
		assert.Equal(t, "Beta", totals[0].Name)
	})
}

func TestReportRepository_CategoryTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.vendor(t, "Acme")
	cust := s.customer(t, "Buyer")
	software := s.category(t, "Software")
	travel := s.category(t, "Travel")

	s.invoice(t, seedInvoice{number: "INV-1", vendor: acme, customer: cust, issue: "2026-01-01", due: "2026-01-31", status: "paid", total: "250", category: software})
	s.invoice(t, seedInvoice{number: "INV-2", vendor: acme, customer: cust, issue: "2026-01-02", due: "2026-02-01", status: "pending", total: "75.25", category: travel})
	s.invoice(t, seedInvoice{number: "INV-3", vendor: acme, customer: cust, issue: "2026-01-03", due: "2026-02-02", status: "cancelled", total: "120"})
	s.invoice(t, seedInvoice{number: "INV-4", vendor: acme, customer: cust, issue: "2026-01-04", due: "2026-02-03", status: "paid", total: "30"})

	totals, err := s.reports.CategoryTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 3)

	assert.Equal(t, "Software", totals[0].Name)
	assert.Equal(t, entity.UncategorizedLabel, totals[1].Name)
	requireDecimal(t, "150", totals[1].Amount)
	assert.Equal(t, "Travel", totals[2].Name)

	t.Run("sum reconciles with all line items", func(t *testing.T) {
		var lineTotal decimal.Decimal
		require.NoError(t, s.db.QueryRowContext(ctx, "SELECT SUM(amount) FROM line_items").Scan(&lineTotal))

		sum := decimal.Zero
		for _, c := range totals {
			sum = sum.Add(c.Amount)
		}
		assert.True(t, lineTotal.Equal(sum), "line items %s, categories %s", lineTotal, sum)
	})

	t.Run("empty database", func(t *testing.T) {
		empty := newTestStore(t)
		totals, err := empty.reports.CategoryTotals(ctx)
		require.NoError(t, err)
		assert.Empty(t, totals)
	})
}

func TestReportRepository_DueBalances(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.vendor(t, "Acme")
	cust := s.customer(t, "Buyer")

	paid := s.invoice(t, seedInvoice{number: "INV-1", vendor: acme, customer: cust, issue: "2026-03-01", due: "2026-04-15", status: "paid", total: "1080"})
	partial := s.invoice(t, seedInvoice{number: "INV-2", vendor: acme, customer: cust, issue: "2026-03-02", due: "2026-04-20", status: "pending", total: "500"})
	s.invoice(t, seedInvoice{number: "INV-3", vendor: acme, customer: cust, issue: "2026-03-03", due: "2026-04-21", status: "cancelled", total: "800"})
	s.invoice(t, seedInvoice{number: "INV-4", vendor: acme, customer: cust, issue: "2026-03-04", due: "2026-05-01", status: "pending", total: "60"})

	s.payment(t, paid.ID, "1000", "2026-04-01")
	s.payment(t, paid.ID, "80", "2026-04-10")
	s.payment(t, partial.ID, "120.50", "2026-04-02")

	balances, err := s.reports.DueBalances(ctx, day("2026-04-01"), day("2026-05-01"))
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, paid.ID, balances[0].InvoiceID)
	requireDecimal(t, "1080", balances[0].Total)
	requireDecimal(t, "1080", balances[0].Paid)

	assert.Equal(t, partial.ID, balances[1].InvoiceID)
	requireDecimal(t, "120.5", balances[1].Paid)
	assert.Equal(t, day("2026-04-20"), balances[1].DueDate.UTC())
}
