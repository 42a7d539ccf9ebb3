package http

import (
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Chart dataset labels for the trends response
const (
	datasetAmountLabel = "Invoice Amount"
	datasetCountLabel  = "Invoice Count"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// StatsResponse is the dashboard headline summary
type StatsResponse struct {
	TotalSpendYTD     float64 `json:"totalSpendYTD"`
	TotalInvoices     int64   `json:"totalInvoices"`
	DocumentsUploaded int64   `json:"documentsUploaded"`
	AvgInvoiceAmount  float64 `json:"avgInvoiceAmount"`
}

// Dataset is one chart series sharing the response label axis
type Dataset struct {
	Label   string    `json:"label"`
	Data    []float64 `json:"data"`
	YAxisID string    `json:"yAxisID"`
}

// TrendsResponse carries the monthly amount and count series
type TrendsResponse struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ChartResponse is a single labelled series
type ChartResponse struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// PartyRef is a nested vendor or customer reference
type PartyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            int64    `json:"id"`
	InvoiceNumber string   `json:"invoiceNumber"`
	IssueDate     string   `json:"issueDate"`
	DueDate       string   `json:"dueDate"`
	Status        string   `json:"status"`
	Subtotal      float64  `json:"subtotal"`
	Tax           float64  `json:"tax"`
	Total         float64  `json:"total"`
	Currency      string   `json:"currency"`
	Notes         *string  `json:"notes"`
	Vendor        PartyRef `json:"vendor"`
	Customer      PartyRef `json:"customer"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// PaginationResponse describes a page within the full result set
type PaginationResponse struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// InvoiceListResponse is one page of invoice search results
type InvoiceListResponse struct {
	Data       []InvoiceResponse  `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// ChatRequest is the body of POST /api/chat-with-data
type ChatRequest struct {
	Query string `json:"query"`
}

// money converts a decimal amount to a JSON number rounded to cents
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toStatsResponse(s *entity.Stats) StatsResponse {
	return StatsResponse{
		TotalSpendYTD:     money(s.TotalSpendYTD),
		TotalInvoices:     s.TotalInvoices,
		DocumentsUploaded: s.DocumentsUploaded,
		AvgInvoiceAmount:  money(s.AvgInvoiceAmount),
	}
}

func toTrendsResponse(points []entity.TrendPoint) TrendsResponse {
	labels := make([]string, len(points))
	amounts := make([]float64, len(points))
	counts := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Month.Label()
		amounts[i] = money(p.Amount)
		counts[i] = float64(p.Count)
	}

	return TrendsResponse{
		Labels: labels,
		Datasets: []Dataset{
			{Label: datasetAmountLabel, Data: amounts, YAxisID: "y"},
			{Label: datasetCountLabel, Data: counts, YAxisID: "y1"},
		},
	}
}

// emptyTrendsResponse is the zero-filled series for the trend window ending
// at now, served when the report cannot be computed
func emptyTrendsResponse(now time.Time) TrendsResponse {
	current := entity.MonthOf(now)
	months := entity.MonthRange(current.AddMonths(-(entity.TrendMonths - 1)), entity.TrendMonths)
	points := make([]entity.TrendPoint, len(months))
	for i, m := range months {
		points[i] = entity.TrendPoint{Month: m}
	}
	return toTrendsResponse(points)
}

func toNamedChart(totals []entity.NamedAmount) ChartResponse {
	resp := ChartResponse{
		Labels: make([]string, len(totals)),
		Data:   make([]float64, len(totals)),
	}
	for i, t := range totals {
		resp.Labels[i] = t.Name
		resp.Data[i] = money(t.Amount)
	}
	return resp
}

func toMonthChart(months []entity.MonthAmount) ChartResponse {
	resp := ChartResponse{
		Labels: make([]string, len(months)),
		Data:   make([]float64, len(months)),
	}
	for i, m := range months {
		resp.Labels[i] = m.Month.Label()
		resp.Data[i] = money(m.Amount)
	}
	return resp
}

func emptyChart() ChartResponse {
	return ChartResponse{Labels: []string{}, Data: []float64{}}
}

// emptyCashOutflow is the zero-filled cash outflow window starting at now
func emptyCashOutflow(now time.Time) ChartResponse {
	months := entity.MonthRange(entity.MonthOf(now), entity.CashOutflowMonths)
	amounts := make([]entity.MonthAmount, len(months))
	for i, m := range months {
		amounts[i] = entity.MonthAmount{Month: m}
	}
	return toMonthChart(amounts)
}

func toInvoiceResponse(s *entity.InvoiceSummary) InvoiceResponse {
	return InvoiceResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		IssueDate:     s.IssueDate.UTC().Format("2006-01-02"),
		DueDate:       s.DueDate.UTC().Format("2006-01-02"),
		Status:        s.Status,
		Subtotal:      money(s.Subtotal),
		Tax:           money(s.Tax),
		Total:         money(s.Total),
		Currency:      s.Currency,
		Notes:         s.Notes,
		Vendor:        PartyRef{ID: s.VendorID, Name: s.VendorName},
		Customer:      PartyRef{ID: s.CustomerID, Name: s.CustomerName},
		CreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toInvoiceListResponse(page *entity.InvoicePage) InvoiceListResponse {
	data := make([]InvoiceResponse, len(page.Data))
	for i, s := range page.Data {
		data[i] = toInvoiceResponse(s)
	}
	return InvoiceListResponse{
		Data: data,
		Pagination: PaginationResponse{
			Total:   page.Pagination.Total,
			Limit:   page.Pagination.Limit,
			Offset:  page.Pagination.Offset,
			HasMore: page.Pagination.HasMore,
		},
	}
}
