package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReportService computes the dashboard reports. Every report is a pure read;
// month buckets are calendar months in UTC.
type ReportService interface {
	Stats(ctx context.Context) (*entity.Stats, error)
	Trends(ctx context.Context, basis entity.TrendBasis) ([]entity.TrendPoint, error)
	TopVendors(ctx context.Context, limit int) ([]entity.NamedAmount, error)
	CategorySpend(ctx context.Context) ([]entity.NamedAmount, error)
	CashOutflow(ctx context.Context) ([]entity.MonthAmount, error)
}

// ReportOption configures a ReportService
type ReportOption func(*reportServiceImpl)

// WithClock overrides the time source used to locate the current month
func WithClock(now func() time.Time) ReportOption {
	return func(s *reportServiceImpl) {
		s.now = now
	}
}

type reportServiceImpl struct {
	reportRepo port.ReportRepository
	logger     Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo port.ReportRepository, logger Logger, opts ...ReportOption) ReportService {
	s := &reportServiceImpl{
		reportRepo: reportRepo,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns year-to-date spend and all-time invoice counts
func (s *reportServiceImpl) Stats(ctx context.Context) (*entity.Stats, error) {
	now := s.now().UTC()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	spend, err := s.reportRepo.SpendSince(ctx, yearStart)
	if err != nil {
		return nil, fmt.Errorf("query year-to-date spend: %w", err)
	}

	count, err := s.reportRepo.CountInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	return &entity.Stats{
		TotalSpendYTD:     spend.Total.Round(2),
		TotalInvoices:     count,
		DocumentsUploaded: count,
		AvgInvoiceAmount:  spend.Average.Round(2),
	}, nil
}

// Trends returns the last TrendMonths months ending at the current month,
// oldest first. Months without invoices are zero-filled.
func (s *reportServiceImpl) Trends(ctx context.Context, basis entity.TrendBasis) ([]entity.TrendPoint, error) {
	current := entity.MonthOf(s.now())
	first := current.AddMonths(-(entity.TrendMonths - 1))
	months := entity.MonthRange(first, entity.TrendMonths)

	amounts, err := s.reportRepo.InvoiceAmounts(ctx, basis, first.Start(), current.AddMonths(1).Start())
	if err != nil {
		return nil, fmt.Errorf("query invoice amounts: %w", err)
	}

	buckets := make(map[entity.MonthKey]*entity.TrendPoint, len(months))
	points := make([]entity.TrendPoint, len(months))
	for i, m := range months {
		points[i] = entity.TrendPoint{Month: m, Amount: decimal.Zero}
		buckets[m] = &points[i]
	}

	for _, a := range amounts {
		p, ok := buckets[entity.MonthOf(a.Date)]
		if !ok {
			continue
		}
		p.Amount = p.Amount.Add(a.Amount)
		p.Count++
	}

	for i := range points {
		points[i].Amount = points[i].Amount.Round(2)
	}

	s.logger.Info("Computed invoice trends", "basis", string(basis), "invoices", len(amounts))
	return points, nil
}

// TopVendors returns the vendors with the highest non-cancelled spend.
// A limit outside (0, MaxTopVendors] is replaced by the default or the maximum.
func (s *reportServiceImpl) TopVendors(ctx context.Context, limit int) ([]entity.NamedAmount, error) {
	if limit <= 0 {
		limit = entity.DefaultTopVendors
	}
	if limit > entity.MaxTopVendors {
		limit = entity.MaxTopVendors
	}

	totals, err := s.reportRepo.VendorTotals(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query vendor totals: %w", err)
	}

	return roundAmounts(totals), nil
}

// CategorySpend returns line item spend per category, largest first
func (s *reportServiceImpl) CategorySpend(ctx context.Context) ([]entity.NamedAmount, error) {
	totals, err := s.reportRepo.CategoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("query category totals: %w", err)
	}

	return roundAmounts(totals), nil
}

// CashOutflow returns the unpaid amount falling due in each of the next
// CashOutflowMonths months, current month included. An invoice contributes
// its total minus payments, never less than zero.
func (s *reportServiceImpl) CashOutflow(ctx context.Context) ([]entity.MonthAmount, error) {
	first := entity.MonthOf(s.now())
	months := entity.MonthRange(first, entity.CashOutflowMonths)

	balances, err := s.reportRepo.DueBalances(ctx, first.Start(), first.AddMonths(entity.CashOutflowMonths).Start())
	if err != nil {
		return nil, fmt.Errorf("query due balances: %w", err)
	}

	buckets := make(map[entity.MonthKey]*entity.MonthAmount, len(months))
	outflow := make([]entity.MonthAmount, len(months))
	for i, m := range months {
		outflow[i] = entity.MonthAmount{Month: m, Amount: decimal.Zero}
		buckets[m] = &outflow[i]
	}

	for _, b := range balances {
		bucket, ok := buckets[entity.MonthOf(b.DueDate)]
		if !ok {
			continue
		}
		bucket.Amount = bucket.Amount.Add(remaining(b))
	}

	for i := range outflow {
		outflow[i].Amount = outflow[i].Amount.Round(2)
	}

	return outflow, nil
}

// remaining is the unpaid part of an invoice, floored at zero
func remaining(b port.DueBalance) decimal.Decimal {
	left := b.Total.Sub(b.Paid)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

func roundAmounts(totals []entity.NamedAmount) []entity.NamedAmount {
	out := make([]entity.NamedAmount, len(totals))
	for i, t := range totals {
		out[i] = entity.NamedAmount{Name: t.Name, Amount: t.Amount.Round(2)}
	}
	return out
}
