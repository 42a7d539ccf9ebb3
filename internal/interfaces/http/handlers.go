package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/service"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
)

// Error messages returned to clients
const (
	msgNotFound           = "Not found"
	msgQueryRequired      = "Query is required"
	msgServiceUnavailable = "AI service unavailable"
	msgServiceUnreachable = "Could not reach the query service. Make sure it is running and CHAT_SERVICE_URL points to it."
	msgQueryServiceError  = "Query service error"
	msgInternal           = "Internal server error"
	msgExportFailed       = "Failed to export invoices"
)

// Handlers contains all HTTP request handlers.
// Report and search handlers never fail the request: on a service error they
// log it and answer 200 with an empty payload of the usual shape, so the
// dashboard keeps rendering.
type Handlers struct {
	services Services
	logger   Logger
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
		now:      time.Now,
	}
}

// HealthCheck handles GET /health. It always reports "ok" while the process
// serves requests; degraded components are logged, not returned.
func (h *Handlers) HealthCheck(c *gin.Context) {
	if h.services.Health != nil {
		for name, reason := range h.services.Health.Degraded(c.Request.Context()) {
			h.logger.Error("Component degraded", "component", name, "reason", reason, "request_id", c.GetString(requestIDKey))
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.services.Reports.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusOK, StatsResponse{})
		return
	}

	c.JSON(http.StatusOK, toStatsResponse(stats))
}

// GetInvoiceTrends handles GET /api/invoice-trends?basis=issue|due
func (h *Handlers) GetInvoiceTrends(c *gin.Context) {
	basis := entity.ParseTrendBasis(c.Query("basis"))

	points, err := h.services.Reports.Trends(c.Request.Context(), basis)
	if err != nil {
		h.logger.Error("Failed to compute invoice trends", "error", err, "basis", string(basis), "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusOK, emptyTrendsResponse(h.now()))
		return
	}

	c.JSON(http.StatusOK, toTrendsResponse(points))
}

// GetTopVendors handles GET /api/vendors/top10
func (h *Handlers) GetTopVendors(c *gin.Context) {
	limit := entity.DefaultTopVendors
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	totals, err := h.services.Reports.TopVendors(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to compute top vendors", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusOK, emptyChart())
		return
	}

	c.JSON(http.StatusOK, toNamedChart(totals))
}

// GetCategorySpend handles GET /api/category-spend
func (h *Handlers) GetCategorySpend(c *gin.Context) {
	totals, err := h.services.Reports.CategorySpend(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute category spend", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusOK, emptyChart())
		return
	}

	c.JSON(http.StatusOK, toNamedChart(totals))
}

// GetCashOutflow handles GET /api/cash-outflow
func (h *Handlers) GetCashOutflow(c *gin.Context) {
	months, err := h.services.Reports.CashOutflow(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute cash outflow", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusOK, emptyCashOutflow(h.now()))
		return
	}

	c.JSON(http.StatusOK, toMonthChart(months))
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	filter := service.NormalizeFilter(service.FilterFromParams(searchParams(c)), entity.MaxSearchLimit)

	page, err := h.services.Search.Search(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to search invoices", "error", err, "request_id", c.GetString(requestIDKey))
		page = entity.NewInvoicePage(nil, 0, filter.Limit, filter.Offset)
	}

	c.JSON(http.StatusOK, toInvoiceListResponse(page))
}

// ExportInvoices handles GET /api/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	params := searchParams(c)
	if params.Limit == "" {
		params.Limit = strconv.Itoa(entity.MaxExportRows)
	}
	filter := service.FilterFromParams(params)

	// Render fully before writing so a failure can still be reported as JSON
	var buf bytes.Buffer
	rows, err := h.services.Export.Export(c.Request.Context(), filter, &buf)
	if err != nil {
		h.logger.Error("Failed to export invoices", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgExportFailed})
		return
	}

	h.logger.Info("Invoices exported", "rows", rows)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.services.Export.FileName()))
	c.Data(http.StatusOK, h.services.Export.ContentType(), buf.Bytes())
}

// ChatWithData handles POST /api/chat-with-data
func (h *Handlers) ChatWithData(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgQueryRequired})
		return
	}

	answer, err := h.services.Chat.Ask(c.Request.Context(), req.Query)
	if err != nil {
		h.writeChatError(c, err)
		return
	}

	if len(answer.Raw) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", answer.Raw)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// writeChatError maps chat failures onto status codes: 400 for a blank
// question, the upstream status for upstream errors, 503 when unreachable
func (h *Handlers) writeChatError(c *gin.Context, err error) {
	var upstream *port.UpstreamError
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgQueryRequired})
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, ErrorResponse{Error: msgQueryServiceError, Message: upstream.Message})
	case errors.Is(err, port.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msgServiceUnavailable, Message: msgServiceUnreachable})
	default:
		h.logger.Error("Chat request failed", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
	}
}

// NotFound handles unmatched routes
func (h *Handlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNotFound})
}

func searchParams(c *gin.Context) service.SearchParams {
	return service.SearchParams{
		Query:    c.Query("q"),
		Status:   c.Query("status"),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
		Limit:    c.Query("limit"),
		Offset:   c.Query("offset"),
	}
}
