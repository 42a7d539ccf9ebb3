package port

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
)

// ErrUpstreamUnavailable is returned when the query service cannot be
// reached or does not answer in time
var ErrUpstreamUnavailable = errors.New("query service unavailable")

// UpstreamError is a non-success HTTP response from the query service
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("query service returned %d: %s", e.StatusCode, e.Message)
}

// QueryAnswerer turns a natural-language question into SQL and result rows.
// Implementations fail with *UpstreamError or ErrUpstreamUnavailable.
type QueryAnswerer interface {
	Answer(ctx context.Context, question string) (*entity.ChatAnswer, error)
}

// InvoiceExporter renders invoice rows into a downloadable document
type InvoiceExporter interface {
	Write(w io.Writer, rows []*entity.InvoiceSummary) error
	ContentType() string
	FileExtension() string
}
