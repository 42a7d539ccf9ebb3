package export

import (
	"fmt"
	"io"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// SheetName is the worksheet holding exported invoices
	SheetName = "Invoices"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// built-in number format "#,##0.00"
	numFmtMoney = 4
)

var columns = []string{
	"Invoice Number",
	"Vendor",
	"Customer",
	"Issue Date",
	"Due Date",
	"Status",
	"Subtotal",
	"Tax",
	"Total",
	"Currency",
}

// XLSXWriter renders invoice search results as an Excel workbook
type XLSXWriter struct {
	logger *zap.Logger
}

// NewXLSXWriter creates a new XLSX writer
func NewXLSXWriter(logger *zap.Logger) *XLSXWriter {
	return &XLSXWriter{logger: logger}
}

// Write builds a single-sheet workbook with a header row and one row per invoice
func (x *XLSXWriter) Write(w io.Writer, rows []*entity.InvoiceSummary) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			x.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := x.styleSheet(f, len(rows)); err != nil {
		return err
	}

	for i, inv := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell for row %d: %w", i+2, err)
		}

		values := []interface{}{
			inv.InvoiceNumber,
			inv.VendorName,
			inv.CustomerName,
			inv.IssueDate.UTC().Format("2006-01-02"),
			inv.DueDate.UTC().Format("2006-01-02"),
			inv.Status,
			inv.Subtotal.Round(2).InexactFloat64(),
			inv.Tax.Round(2).InexactFloat64(),
			inv.Total.Round(2).InexactFloat64(),
			inv.Currency,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	x.logger.Debug("Invoice workbook written", zap.Int("rows", len(rows)))
	return nil
}

// styleSheet bolds the header row and formats the money columns
func (x *XLSXWriter) styleSheet(f *excelize.File, rowCount int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "J1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.SetColWidth(SheetName, "A", "J", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if rowCount == 0 {
		return nil
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "G2", fmt.Sprintf("I%d", rowCount+1), money); err != nil {
		return fmt.Errorf("failed to style amounts: %w", err)
	}

	return nil
}

// ContentType returns the XLSX MIME type
func (x *XLSXWriter) ContentType() string {
	return xlsxContentType
}

// FileExtension returns "xlsx"
func (x *XLSXWriter) FileExtension() string {
	return "xlsx"
}

// Verify interface compliance
var _ port.InvoiceExporter = (*XLSXWriter)(nil)
