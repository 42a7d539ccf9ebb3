package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a bill issued by a vendor to a customer.
// Total is expected to equal Subtotal + Tax; producers are responsible for that.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	VendorID      int64           `json:"vendor_id"`
	CustomerID    int64           `json:"customer_id"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	LineItems []*LineItem `json:"line_items,omitempty"`
}

// LineItem is a single billed line of an invoice. CategoryID is nil for
// uncategorized items.
type LineItem struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Payment records money paid against an invoice. Payments are not validated
// against the invoice total; over- and under-payment are both representable.
type Payment struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method"`
	Reference   *string         `json:"reference,omitempty"`
}

// InvoiceSummary is an invoice row as returned by search, with the names
// of its vendor and customer resolved.
type InvoiceSummary struct {
	Invoice
	VendorName   string `json:"vendor_name"`
	CustomerName string `json:"customer_name"`
}
