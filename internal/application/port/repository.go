package port

import (
	"context"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SpendSummary is the sum and average of invoice totals over a period
type SpendSummary struct {
	Total   decimal.Decimal
	Average decimal.Decimal
}

// DatedAmount is an invoice total with the date used to bucket it
type DatedAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

// DueBalance is an invoice total with the sum of payments recorded against it
type DueBalance struct {
	InvoiceID int64
	DueDate   time.Time
	Total     decimal.Decimal
	Paid      decimal.Decimal
}

// ReportRepository defines the read-only queries behind the dashboard reports.
// Every query ignores cancelled invoices unless stated otherwise.
type ReportRepository interface {
	// SpendSince sums and averages invoice totals issued on or after since
	SpendSince(ctx context.Context, since time.Time) (*SpendSummary, error)

	// CountInvoices counts all invoices regardless of date
	CountInvoices(ctx context.Context) (int64, error)

	// InvoiceAmounts returns totals whose basis date falls in [from, to)
	InvoiceAmounts(ctx context.Context, basis entity.TrendBasis, from, to time.Time) ([]DatedAmount, error)

	// VendorTotals returns summed totals per vendor, largest first, ties by vendor id
	VendorTotals(ctx context.Context, limit int) ([]entity.NamedAmount, error)

	// CategoryTotals returns summed line item amounts per category name,
	// largest first. Line items of every invoice status are included.
	CategoryTotals(ctx context.Context) ([]entity.NamedAmount, error)

	// DueBalances returns invoices due in [from, to) with their paid amounts
	DueBalances(ctx context.Context, from, to time.Time) ([]DueBalance, error)
}

// InvoiceRepository defines invoice search and ingestion operations
type InvoiceRepository interface {
	// Count returns the number of invoices matching filter, ignoring paging
	Count(ctx context.Context, filter entity.InvoiceFilter) (int64, error)

	// Search returns one page of matching invoices, newest issue date first
	Search(ctx context.Context, filter entity.InvoiceFilter) ([]*entity.InvoiceSummary, error)

	// Upsert inserts or updates an invoice keyed by invoice number and
	// replaces its line items
	Upsert(ctx context.Context, invoice *entity.Invoice) error

	// AddPayment records a payment against an existing invoice
	AddPayment(ctx context.Context, payment *entity.Payment) error

	// DeletePayments removes every payment recorded against an invoice
	DeletePayments(ctx context.Context, invoiceID int64) error
}

// MasterDataRepository defines name-keyed upserts for reference entities
type MasterDataRepository interface {
	UpsertVendor(ctx context.Context, vendor *entity.Vendor) error
	UpsertCustomer(ctx context.Context, customer *entity.Customer) error
	UpsertCategory(ctx context.Context, category *entity.Category) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
