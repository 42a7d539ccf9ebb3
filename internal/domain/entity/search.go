package entity

import "time"

// Search paging limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	MaxExportRows      = 1000
)

// InvoiceFilter holds normalized invoice search criteria. Zero values mean
// "no filter" for Query and Status, and nil dates mean an open bound.
type InvoiceFilter struct {
	Query    string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// Pagination describes the position of a page within the full result set
type Pagination struct {
	Total   int64
	Limit   int
	Offset  int
	HasMore bool
}

// InvoicePage is one page of invoice search results
type InvoicePage struct {
	Data       []*InvoiceSummary
	Pagination Pagination
}

// NewInvoicePage builds a page and derives HasMore from the row count.
func NewInvoicePage(rows []*InvoiceSummary, total int64, limit, offset int) *InvoicePage {
	if rows == nil {
		rows = []*InvoiceSummary{}
	}
	return &InvoicePage{
		Data: rows,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+len(rows)) < total,
		},
	}
}
