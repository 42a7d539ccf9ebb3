package service

import (
	"context"
	"fmt"
	"io"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
)

// ExportService renders filtered invoice lists into downloadable documents
type ExportService interface {
	Export(ctx context.Context, filter entity.InvoiceFilter, w io.Writer) (int, error)
	ContentType() string
	FileName() string
}

type exportServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	exporter    port.InvoiceExporter
	logger      Logger
}

// NewExportService creates a new ExportService
func NewExportService(invoiceRepo port.InvoiceRepository, exporter port.InvoiceExporter, logger Logger) ExportService {
	return &exportServiceImpl{
		invoiceRepo: invoiceRepo,
		exporter:    exporter,
		logger:      logger,
	}
}

// Export writes up to MaxExportRows matching invoices to w and returns how many were written
func (s *exportServiceImpl) Export(ctx context.Context, filter entity.InvoiceFilter, w io.Writer) (int, error) {
	filter = NormalizeFilter(filter, entity.MaxExportRows)

	rows, err := s.invoiceRepo.Search(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("search invoices: %w", err)
	}

	if err := s.exporter.Write(w, rows); err != nil {
		s.logger.Error("Failed to write invoice export", "error", err, "rows", len(rows))
		return 0, fmt.Errorf("write export: %w", err)
	}

	s.logger.Info("Invoice export written", "rows", len(rows), "format", s.exporter.FileExtension())
	return len(rows), nil
}

// ContentType returns the MIME type of the exported document
func (s *exportServiceImpl) ContentType() string {
	return s.exporter.ContentType()
}

// FileName returns the download file name for an export
func (s *exportServiceImpl) FileName() string {
	return "invoices." + s.exporter.FileExtension()
}
