package entity

import "github.com/shopspring/decimal"

// TrendBasis selects the invoice date used for monthly bucketing
type TrendBasis string

const (
	TrendBasisIssue TrendBasis = "issue"
	TrendBasisDue   TrendBasis = "due"
)

// ParseTrendBasis maps a query value to a basis; unknown values fall back to issue date
func ParseTrendBasis(s string) TrendBasis {
	if TrendBasis(s) == TrendBasisDue {
		return TrendBasisDue
	}
	return TrendBasisIssue
}

// Stats is the dashboard headline summary.
//
// DocumentsUploaded currently mirrors TotalInvoices: uploaded source documents
// are not tracked separately, so the count of non-cancelled invoices stands in.
type Stats struct {
	TotalSpendYTD     decimal.Decimal
	TotalInvoices     int64
	DocumentsUploaded int64
	AvgInvoiceAmount  decimal.Decimal
}

// TrendPoint is one month of the invoice trend series
type TrendPoint struct {
	Month  MonthKey
	Amount decimal.Decimal
	Count  int64
}

// NamedAmount is a labelled total, used for vendor and category rollups
type NamedAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthAmount is a labelled monthly total
type MonthAmount struct {
	Month  MonthKey
	Amount decimal.Decimal
}

// Report window sizes
const (
	TrendMonths       = 12
	CashOutflowMonths = 6
	DefaultTopVendors = 10
	MaxTopVendors     = 50
)
