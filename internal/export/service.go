package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/arul-selvam/steel-quotes/internal/entity"
	"github.com/arul-selvam/steel-quotes/internal/repository"
)

// Service produces XLSX workbooks: single quotation documents handed to the
// user, and period exports over the stored quotation history.
type Service struct {
	quotations repository.QuotationRepository
	logger     *slog.Logger
}

func NewService(quotations repository.QuotationRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{quotations: quotations, logger: logger}
}

// RenderQuotationXLSX renders one quotation document from the payload the
// projection produced: customer block, item table, totals, terms.
func (s *Service) RenderQuotationXLSX(payload *entity.DocumentPayload) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Quotation"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	set := func(cell string, v any) {
		_ = f.SetCellValue(sheet, cell, v)
	}

	set("A1", "QUOTATION")
	set("A3", "Customer")
	set("B3", payload.CustomerName)
	set("A4", "Address")
	set("B4", payload.CustomerAddress)
	set("A5", "GSTIN")
	set("B5", payload.CustomerTaxID)
	set("A6", "Email")
	set("B6", payload.CustomerEmail)
	set("A7", "Date")
	set("B7", time.Now().UTC().Format("2006-01-02"))

	headers := []string{"S.No", "Description", "Quantity (kg)", "Rate (₹/kg)", "Amount (₹)"}
	headerRow := 9
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, h)
	}

	row := headerRow + 1
	for i, it := range payload.Items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			set(cell, v)
		}
		write(1, i+1)
		write(2, it.Description)
		write(3, it.Quantity)
		write(4, it.Rate)
		write(5, it.Amount)
		row++
	}

	row++
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", payload.Subtotal},
		{"GST (18%)", payload.TaxAmount},
		{"Grand Total", payload.GrandTotal},
	}
	for _, t := range totals {
		labelCell, _ := excelize.CoordinatesToCellName(4, row)
		valueCell, _ := excelize.CoordinatesToCellName(5, row)
		set(labelCell, t.label)
		set(valueCell, t.value)
		row++
	}

	row++
	set(fmt.Sprintf("A%d", row), "Loading charges")
	set(fmt.Sprintf("B%d", row), payload.LoadingCharges)
	row++
	set(fmt.Sprintf("A%d", row), "Transport charges")
	set(fmt.Sprintf("B%d", row), payload.TransportCharges)
	row++
	set(fmt.Sprintf("A%d", row), "Payment terms")
	set(fmt.Sprintf("B%d", row), payload.PaymentTerms)

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 44)
	_ = f.SetColWidth(sheet, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.quotation.rendered",
		"customer", payload.CustomerName,
		"items", len(payload.Items),
		"grand_total", payload.GrandTotal,
	)
	return buf.Bytes(), nil
}

// ExportQuotationsXLSX returns a workbook listing stored quotations for the
// given date window. If only from is provided -> from..today (inclusive).
// If neither is provided -> all quotations.
func (s *Service) ExportQuotationsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		now := time.Now().UTC()
		t := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}

	quotes, err := s.quotations.List(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query quotations: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Quotations"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Date",
		"Quotation No",
		"Customer",
		"Items",
		"Subtotal",
		"GST",
		"Grand Total",
		"Payment Terms",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, q := range quotes {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, q.CreatedAt.Format("2006-01-02"))
		write(2, q.QuotationNumber)
		write(3, q.CustomerName)
		write(4, len(q.Items))
		write(5, q.Subtotal)
		write(6, q.TaxAmount)
		write(7, q.GrandTotal)
		write(8, q.PaymentTerms)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "C", "C", 32)
	_ = f.SetColWidth(sheet, "D", "H", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"rows", len(quotes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
