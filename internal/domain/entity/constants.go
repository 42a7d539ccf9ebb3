package entity

// Invoice status constants
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// StatusFilterAll is the search sentinel meaning "no status filter"
const StatusFilterAll = "all"

// UncategorizedLabel buckets line items without a category
const UncategorizedLabel = "Uncategorized"

// DefaultCurrency is applied to invoices created without one
const DefaultCurrency = "USD"

// Payment method constants
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodCheck        = "check"
	PaymentMethodOther        = "other"
)

// IsValidInvoiceStatus reports whether s is one of the four invoice statuses
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}
