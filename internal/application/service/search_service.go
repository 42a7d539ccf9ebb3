package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
)

// SearchParams are raw search inputs as received from a query string
type SearchParams struct {
	Query    string
	Status   string
	DateFrom string
	DateTo   string
	Limit    string
	Offset   string
}

// SearchService lists invoices page by page
type SearchService interface {
	Search(ctx context.Context, filter entity.InvoiceFilter) (*entity.InvoicePage, error)
}

type searchServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	logger      Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(invoiceRepo port.InvoiceRepository, logger Logger) SearchService {
	return &searchServiceImpl{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Search counts all matches and fetches one page of them. The two reads are
// independent, so under concurrent writes the total may disagree with the page.
func (s *searchServiceImpl) Search(ctx context.Context, filter entity.InvoiceFilter) (*entity.InvoicePage, error) {
	filter = NormalizeFilter(filter, entity.MaxSearchLimit)

	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	rows, err := s.invoiceRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search invoices: %w", err)
	}

	return entity.NewInvoicePage(rows, total, filter.Limit, filter.Offset), nil
}

// FilterFromParams parses raw search inputs. Malformed numbers fall back to
// defaults and malformed dates drop that bound instead of failing.
func FilterFromParams(p SearchParams) entity.InvoiceFilter {
	filter := entity.InvoiceFilter{
		Query:    p.Query,
		Status:   p.Status,
		DateFrom: parseSearchDate(p.DateFrom),
		DateTo:   parseSearchDate(p.DateTo),
		Limit:    entity.DefaultSearchLimit,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(p.Limit)); err == nil {
		filter.Limit = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(p.Offset)); err == nil {
		filter.Offset = n
	}
	return filter
}

// NormalizeFilter trims the query, turns "all" or unknown statuses into no
// filter, and clamps paging to [1, maxLimit] and a non-negative offset.
func NormalizeFilter(filter entity.InvoiceFilter, maxLimit int) entity.InvoiceFilter {
	filter.Query = strings.TrimSpace(filter.Query)

	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status == entity.StatusFilterAll || !entity.IsValidInvoiceStatus(filter.Status) {
		filter.Status = ""
	}

	if filter.Limit <= 0 {
		filter.Limit = entity.DefaultSearchLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}

// parseSearchDate accepts YYYY-MM-DD or RFC 3339 and returns nil otherwise
func parseSearchDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
