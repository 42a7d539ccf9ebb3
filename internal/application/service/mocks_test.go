package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories
type mockReportRepo struct {
	spendSinceFunc     func(ctx context.Context, since time.Time) (*port.SpendSummary, error)
	countInvoicesFunc  func(ctx context.Context) (int64, error)
	invoiceAmountsFunc func(ctx context.Context, basis entity.TrendBasis, from, to time.Time) ([]port.DatedAmount, error)
	vendorTotalsFunc   func(ctx context.Context, limit int) ([]entity.NamedAmount, error)
	categoryTotalsFunc func(ctx context.Context) ([]entity.NamedAmount, error)
	dueBalancesFunc    func(ctx context.Context, from, to time.Time) ([]port.DueBalance, error)
}

func (m *mockReportRepo) SpendSince(ctx context.Context, since time.Time) (*port.SpendSummary, error) {
	if m.spendSinceFunc != nil {
		return m.spendSinceFunc(ctx, since)
	}
	return &port.SpendSummary{}, nil
}

func (m *mockReportRepo) CountInvoices(ctx context.Context) (int64, error) {
	if m.countInvoicesFunc != nil {
		return m.countInvoicesFunc(ctx)
	}
	return 0, nil
}

func (m *mockReportRepo) InvoiceAmounts(ctx context.Context, basis entity.TrendBasis, from, to time.Time) ([]port.DatedAmount, error) {
	if m.invoiceAmountsFunc != nil {
		return m.invoiceAmountsFunc(ctx, basis, from, to)
	}
	return nil, nil
}

func (m *mockReportRepo) VendorTotals(ctx context.Context, limit int) ([]entity.NamedAmount, error) {
	if m.vendorTotalsFunc != nil {
		return m.vendorTotalsFunc(ctx, limit)
	}
	return []entity.NamedAmount{}, nil
}

func (m *mockReportRepo) CategoryTotals(ctx context.Context) ([]entity.NamedAmount, error) {
	if m.categoryTotalsFunc != nil {
		return m.categoryTotalsFunc(ctx)
	}
	return []entity.NamedAmount{}, nil
}

func (m *mockReportRepo) DueBalances(ctx context.Context, from, to time.Time) ([]port.DueBalance, error) {
	if m.dueBalancesFunc != nil {
		return m.dueBalancesFunc(ctx, from, to)
	}
	return nil, nil
}

type mockInvoiceRepo struct {
	countFunc      func(ctx context.Context, filter entity.InvoiceFilter) (int64, error)
	searchFunc     func(ctx context.Context, filter entity.InvoiceFilter) ([]*entity.InvoiceSummary, error)
	upsertFunc     func(ctx context.Context, invoice *entity.Invoice) error
	addPaymentFunc func(ctx context.Context, payment *entity.Payment) error

	deletedPayments []int64
}

func (m *mockInvoiceRepo) Count(ctx context.Context, filter entity.InvoiceFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockInvoiceRepo) Search(ctx context.Context, filter entity.InvoiceFilter) ([]*entity.InvoiceSummary, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter)
	}
	return []*entity.InvoiceSummary{}, nil
}

func (m *mockInvoiceRepo) Upsert(ctx context.Context, invoice *entity.Invoice) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, invoice)
	}
	invoice.ID = 1
	return nil
}

func (m *mockInvoiceRepo) AddPayment(ctx context.Context, payment *entity.Payment) error {
	if m.addPaymentFunc != nil {
		return m.addPaymentFunc(ctx, payment)
	}
	payment.ID = 1
	return nil
}

func (m *mockInvoiceRepo) DeletePayments(ctx context.Context, invoiceID int64) error {
	m.deletedPayments = append(m.deletedPayments, invoiceID)
	return nil
}

type mockMasterRepo struct {
	nextID     int64
	vendors    map[string]int64
	customers  map[string]int64
	categories map[string]int64
	upserts    int
	err        error
}

func newMockMasterRepo() *mockMasterRepo {
	return &mockMasterRepo{
		vendors:    make(map[string]int64),
		customers:  make(map[string]int64),
		categories: make(map[string]int64),
	}
}

func (m *mockMasterRepo) id(names map[string]int64, name string) int64 {
	if id, ok := names[name]; ok {
		return id
	}
	m.nextID++
	names[name] = m.nextID
	return m.nextID
}

func (m *mockMasterRepo) UpsertVendor(ctx context.Context, vendor *entity.Vendor) error {
	m.upserts++
	if m.err != nil {
		return m.err
	}
	vendor.ID = m.id(m.vendors, vendor.Name)
	return nil
}

func (m *mockMasterRepo) UpsertCustomer(ctx context.Context, customer *entity.Customer) error {
	m.upserts++
	if m.err != nil {
		return m.err
	}
	customer.ID = m.id(m.customers, customer.Name)
	return nil
}

func (m *mockMasterRepo) UpsertCategory(ctx context.Context, category *entity.Category) error {
	m.upserts++
	if m.err != nil {
		return m.err
	}
	category.ID = m.id(m.categories, category.Name)
	return nil
}

// mockTxManager runs fn directly and records whether it failed
type mockTxManager struct {
	calls      int
	rolledBack bool
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	err := fn(ctx)
	m.rolledBack = err != nil
	return err
}

type mockAnswerer struct {
	mock.Mock
}

func (m *mockAnswerer) Answer(ctx context.Context, question string) (*entity.ChatAnswer, error) {
	args := m.Called(ctx, question)
	if answer, ok := args.Get(0).(*entity.ChatAnswer); ok {
		return answer, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockExporter struct {
	written []*entity.InvoiceSummary
	err     error
}

func (m *mockExporter) Write(w io.Writer, rows []*entity.InvoiceSummary) error {
	if m.err != nil {
		return m.err
	}
	m.written = rows
	_, err := w.Write([]byte("export"))
	return err
}

func (m *mockExporter) ContentType() string   { return "text/csv" }
func (m *mockExporter) FileExtension() string { return "csv" }

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
