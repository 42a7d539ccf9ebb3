package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testStore is a migrated SQLite database with every repository wired to it
type testStore struct {
	db       *database.DB
	reports  *ReportRepository
	invoices *InvoiceRepository
	master   *MasterDataRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	logger := zap.NewNop()
	cfg := database.Config{
		Driver: database.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "test.db"),
	}

	require.NoError(t, database.NewMigrator(cfg, logger).RunMigrations())

	db, err := database.New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &testStore{
		db:       db,
		reports:  NewReportRepository(db, logger).(*ReportRepository),
		invoices: NewInvoiceRepository(db, logger).(*InvoiceRepository),
		master:   NewMasterDataRepository(db, logger).(*MasterDataRepository),
	}
}

func (s *testStore) vendor(t *testing.T, name string) int64 {
	t.Helper()
	v := &entity.Vendor{Name: name}
	require.NoError(t, s.master.UpsertVendor(context.Background(), v))
	return v.ID
}

func (s *testStore) customer(t *testing.T, name string) int64 {
	t.Helper()
	c := &entity.Customer{Name: name}
	require.NoError(t, s.master.UpsertCustomer(context.Background(), c))
	return c.ID
}

func (s *testStore) category(t *testing.T, name string) *int64 {
	t.Helper()
	c := &entity.Category{Name: name}
	require.NoError(t, s.master.UpsertCategory(context.Background(), c))
	return &c.ID
}

// seedInvoice stores an invoice whose subtotal equals total and whose
// single line item carries the whole amount
type seedInvoice struct {
	number   string
	vendor   int64
	customer int64
	issue    string
	due      string
	status   string
	total    string
	category *int64
}

func (s *testStore) invoice(t *testing.T, in seedInvoice) *entity.Invoice {
	t.Helper()

	total := decimal.RequireFromString(in.total)
	inv := &entity.Invoice{
		InvoiceNumber: in.number,
		VendorID:      in.vendor,
		CustomerID:    in.customer,
		IssueDate:     day(in.issue),
		DueDate:       day(in.due),
		Status:        in.status,
		Subtotal:      total,
		Tax:           decimal.Zero,
		Total:         total,
		LineItems: []*entity.LineItem{{
			CategoryID:  in.category,
			Description: "Services",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   total,
			Amount:      total,
		}},
	}
	require.NoError(t, s.invoices.Upsert(context.Background(), inv))
	return inv
}

func (s *testStore) payment(t *testing.T, invoiceID int64, amount, date string) {
	t.Helper()
	p := &entity.Payment{
		InvoiceID:   invoiceID,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: day(date),
		Method:      entity.PaymentMethodBankTransfer,
	}
	require.NoError(t, s.invoices.AddPayment(context.Background(), p))
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
