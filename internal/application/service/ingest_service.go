package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Dataset is the document accepted by IngestService.Load
type Dataset struct {
	Invoices []InvoiceRecord `json:"invoices"`
}

// InvoiceRecord is one invoice with its parties, line items and payments
// denormalized by name
type InvoiceRecord struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Vendor        PartyRecord     `json:"vendor"`
	Customer      PartyRecord     `json:"customer"`
	IssueDate     string          `json:"issueDate"`
	DueDate       string          `json:"dueDate"`
	Status        string          `json:"status"`
	Currency      string          `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Notes         *string         `json:"notes"`
	LineItems     []LineRecord    `json:"lineItems"`
	Payments      []PaymentRecord `json:"payments"`
}

// PartyRecord describes a vendor or customer
type PartyRecord struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// LineRecord is a line item. An empty category leaves it uncategorized.
type LineRecord struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentRecord is a payment against the enclosing invoice
type PaymentRecord struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"paymentDate"`
	Method      string          `json:"method"`
	Reference   *string         `json:"reference"`
}

// IngestResult summarizes a load
type IngestResult struct {
	Invoices   int
	LineItems  int
	Payments   int
	Vendors    int
	Customers  int
	Categories int
}

// IngestService loads a dataset into the store. Loading is idempotent:
// invoices are keyed by number and their line items and payments replaced.
type IngestService interface {
	Load(ctx context.Context, r io.Reader) (*IngestResult, error)
	Ingest(ctx context.Context, dataset *Dataset) (*IngestResult, error)
}

type ingestServiceImpl struct {
	masterRepo  port.MasterDataRepository
	invoiceRepo port.InvoiceRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewIngestService creates a new IngestService
func NewIngestService(
	masterRepo port.MasterDataRepository,
	invoiceRepo port.InvoiceRepository,
	txManager port.TransactionManager,
	logger Logger,
) IngestService {
	return &ingestServiceImpl{
		masterRepo:  masterRepo,
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Load decodes a JSON dataset from r and ingests it
func (s *ingestServiceImpl) Load(ctx context.Context, r io.Reader) (*IngestResult, error) {
	var dataset Dataset
	if err := json.NewDecoder(r).Decode(&dataset); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return s.Ingest(ctx, &dataset)
}

// Ingest writes the whole dataset in one transaction; any invalid record
// aborts the load.
func (s *ingestServiceImpl) Ingest(ctx context.Context, dataset *Dataset) (*IngestResult, error) {
	invoices := make([]*entity.Invoice, 0, len(dataset.Invoices))
	for i := range dataset.Invoices {
		if err := validateRecord(&dataset.Invoices[i]); err != nil {
			return nil, fmt.Errorf("invoice %d: %w", i, err)
		}
	}

	result := &IngestResult{}
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		ids := newNameCache()

		for i := range dataset.Invoices {
			rec := &dataset.Invoices[i]

			vendorID, err := ids.vendor(ctx, s.masterRepo, rec.Vendor)
			if err != nil {
				return err
			}
			customerID, err := ids.customer(ctx, s.masterRepo, rec.Customer)
			if err != nil {
				return err
			}

			invoice, err := buildInvoice(rec, vendorID, customerID)
			if err != nil {
				return fmt.Errorf("invoice %s: %w", rec.InvoiceNumber, err)
			}
			for j, line := range rec.LineItems {
				if strings.TrimSpace(line.Category) == "" {
					continue
				}
				categoryID, err := ids.category(ctx, s.masterRepo, line.Category)
				if err != nil {
					return err
				}
				invoice.LineItems[j].CategoryID = &categoryID
			}

			if err := s.invoiceRepo.Upsert(ctx, invoice); err != nil {
				return fmt.Errorf("invoice %s: %w", rec.InvoiceNumber, err)
			}
			invoices = append(invoices, invoice)

			if err := s.invoiceRepo.DeletePayments(ctx, invoice.ID); err != nil {
				return err
			}
			for _, p := range rec.Payments {
				payment, err := buildPayment(p, invoice.ID)
				if err != nil {
					return fmt.Errorf("invoice %s: %w", rec.InvoiceNumber, err)
				}
				if err := s.invoiceRepo.AddPayment(ctx, payment); err != nil {
					return err
				}
				result.Payments++
			}
			result.LineItems += len(invoice.LineItems)
		}

		result.Invoices = len(invoices)
		result.Vendors = len(ids.vendors)
		result.Customers = len(ids.customers)
		result.Categories = len(ids.categories)
		return nil
	})
	if err != nil {
		s.logger.Error("Dataset ingestion failed", "error", err)
		return nil, err
	}

	s.logger.Info("Dataset ingested",
		"invoices", result.Invoices,
		"line_items", result.LineItems,
		"payments", result.Payments,
		"vendors", result.Vendors,
		"customers", result.Customers,
		"categories", result.Categories)
	return result, nil
}

func validateRecord(rec *InvoiceRecord) error {
	rec.InvoiceNumber = strings.TrimSpace(rec.InvoiceNumber)
	rec.Vendor.Name = strings.TrimSpace(rec.Vendor.Name)
	rec.Customer.Name = strings.TrimSpace(rec.Customer.Name)

	switch {
	case rec.InvoiceNumber == "":
		return fmt.Errorf("invoiceNumber is required")
	case rec.Vendor.Name == "":
		return fmt.Errorf("vendor name is required")
	case rec.Customer.Name == "":
		return fmt.Errorf("customer name is required")
	}
	return nil
}

func buildInvoice(rec *InvoiceRecord, vendorID, customerID int64) (*entity.Invoice, error) {
	issue, err := parseRecordDate(rec.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("issueDate: %w", err)
	}
	due, err := parseRecordDate(rec.DueDate)
	if err != nil {
		return nil, fmt.Errorf("dueDate: %w", err)
	}

	total := rec.Total
	if total.IsZero() {
		total = rec.Subtotal.Add(rec.Tax)
	}

	invoice := &entity.Invoice{
		InvoiceNumber: rec.InvoiceNumber,
		VendorID:      vendorID,
		CustomerID:    customerID,
		IssueDate:     issue,
		DueDate:       due,
		Status:        strings.ToLower(strings.TrimSpace(rec.Status)),
		Subtotal:      rec.Subtotal.Round(2),
		Tax:           rec.Tax.Round(2),
		Total:         total.Round(2),
		Currency:      strings.ToUpper(strings.TrimSpace(rec.Currency)),
		Notes:         rec.Notes,
		LineItems:     make([]*entity.LineItem, 0, len(rec.LineItems)),
	}

	for _, line := range rec.LineItems {
		quantity := line.Quantity
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		amount := line.Amount
		if amount.IsZero() {
			amount = quantity.Mul(line.UnitPrice)
		}
		invoice.LineItems = append(invoice.LineItems, &entity.LineItem{
			Description: line.Description,
			Quantity:    quantity,
			UnitPrice:   line.UnitPrice.Round(2),
			Amount:      amount.Round(2),
		})
	}

	return invoice, nil
}

func buildPayment(rec PaymentRecord, invoiceID int64) (*entity.Payment, error) {
	paid, err := parseRecordDate(rec.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("paymentDate: %w", err)
	}
	method := strings.TrimSpace(rec.Method)
	if method == "" {
		method = entity.PaymentMethodOther
	}
	return &entity.Payment{
		InvoiceID:   invoiceID,
		Amount:      rec.Amount.Round(2),
		PaymentDate: paid,
		Method:      method,
		Reference:   rec.Reference,
	}, nil
}

func parseRecordDate(raw string) (time.Time, error) {
	if t := parseSearchDate(raw); t != nil {
		return *t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// nameCache remembers ids of parties and categories upserted in this load
type nameCache struct {
	vendors    map[string]int64
	customers  map[string]int64
	categories map[string]int64
}

func newNameCache() *nameCache {
	return &nameCache{
		vendors:    make(map[string]int64),
		customers:  make(map[string]int64),
		categories: make(map[string]int64),
	}
}

func (c *nameCache) vendor(ctx context.Context, repo port.MasterDataRepository, p PartyRecord) (int64, error) {
	if id, ok := c.vendors[p.Name]; ok {
		return id, nil
	}
	v := &entity.Vendor{Name: p.Name, Email: p.Email, Phone: p.Phone, Address: p.Address}
	if err := repo.UpsertVendor(ctx, v); err != nil {
		return 0, err
	}
	c.vendors[p.Name] = v.ID
	return v.ID, nil
}

func (c *nameCache) customer(ctx context.Context, repo port.MasterDataRepository, p PartyRecord) (int64, error) {
	if id, ok := c.customers[p.Name]; ok {
		return id, nil
	}
	cu := &entity.Customer{Name: p.Name, Email: p.Email, Phone: p.Phone, Address: p.Address}
	if err := repo.UpsertCustomer(ctx, cu); err != nil {
		return 0, err
	}
	c.customers[p.Name] = cu.ID
	return cu.ID, nil
}

func (c *nameCache) category(ctx context.Context, repo port.MasterDataRepository, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if id, ok := c.categories[name]; ok {
		return id, nil
	}
	cat := &entity.Category{Name: name}
	if err := repo.UpsertCategory(ctx, cat); err != nil {
		return 0, err
	}
	c.categories[name] = cat.ID
	return cat.ID, nil
}
