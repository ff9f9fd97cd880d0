package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	reportDateFormat = "02/01/2006"
	reportSheet      = "Report"
	// XLSXContentType is the media type of generated reports
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportService renders spreadsheet reports over a date window
type ReportService struct {
	store          repository.CollectionStore
	sales          *SaleService
	purchases      *PurchaseService
	defaultDays    int
	defaultAppName string
	clock          Clock
}

// NewReportService creates a new report service. Reports without a start
// date cover the last defaultDays days.
func NewReportService(
	store repository.CollectionStore,
	sales *SaleService,
	purchases *PurchaseService,
	defaultDays int,
	defaultAppName string,
	clock Clock,
) *ReportService {
	return &ReportService{
		store:          store,
		sales:          sales,
		purchases:      purchases,
		defaultDays:    defaultDays,
		defaultAppName: defaultAppName,
		clock:          clock,
	}
}

// Report is a rendered workbook
type Report struct {
	Filename string
	Content  []byte
}

func (s *ReportService) window(r DateRange) DateRange {
	if r.From == nil {
		return LastDays(s.clock.now(), s.defaultDays)
	}
	if r.To == nil {
		to := *r.From
		r.To = &to
	}
	return r
}

// CashFlowReport lists the transactions of the window with income,
// expense and balance totals
func (s *ReportService) CashFlowReport(ctx context.Context, r DateRange) (*Report, error) {
	r = s.window(r)
	ledger, err := LoadLedger(ctx, s.store)
	if err != nil {
		return nil, err
	}
	summary := Summarize(ProjectTransactions(ledger, s.clock.now()), r)

	sheet, err := s.newSheet(ctx, "Cash flow report", r, []string{"Date", "Description", "Type", "Amount"})
	if err != nil {
		return nil, err
	}
	defer sheet.close()

	for _, t := range summary.Transactions {
		sheet.row(t.Date.Format(reportDateFormat), t.Description, t.Type.Label(), money(t.Amount))
	}
	sheet.blank()
	sheet.total("Total income", money(summary.TotalIncome))
	sheet.total("Total expense", money(summary.TotalExpense))
	sheet.total("Balance", money(summary.Balance))

	return sheet.render("cash-flow", r)
}

// SalesReport lists the sales of the window
func (s *ReportService) SalesReport(ctx context.Context, r DateRange) (*Report, error) {
	r = s.window(r)
	sales, err := s.sales.FilterSales(ctx, SaleFilter{Range: r})
	if err != nil {
		return nil, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	sheet, err := s.newSheet(ctx, "Sales report", r, []string{"Date", "Client", "Payment", "Items", "Discount", "Total"})
	if err != nil {
		return nil, err
	}
	defer sheet.close()

	total := decimal.Zero
	for _, sale := range sales {
		client := LabelCounterSale
		if sale.ClientID != "" {
			client = names.client(sale.ClientID)
		}
		items := make([]string, 0, len(sale.Items))
		for _, item := range sale.Items {
			items = append(items, fmt.Sprintf("%dx %s", item.Quantity, names.product(item.ProductID)))
		}
		sheet.row(sale.Date.Format(reportDateFormat), client, sale.PaymentMethod.Label(),
			strings.Join(items, ", "), money(sale.Discount), money(sale.Total))
		total = total.Add(sale.Total)
	}
	sheet.blank()
	sheet.total("Sales", len(sales))
	sheet.total("Total sold", money(total))

	return sheet.render("sales", r)
}

// PurchasesReport lists the purchases of the window
func (s *ReportService) PurchasesReport(ctx context.Context, r DateRange) (*Report, error) {
	r = s.window(r)
	purchases, err := s.purchases.FilterPurchases(ctx, PurchaseFilter{Range: r})
	if err != nil {
		return nil, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	sheet, err := s.newSheet(ctx, "Purchases report", r,
		[]string{"Date", "Supplier", "Items", "Subtotal", "Discount", "Shipping", "Total"})
	if err != nil {
		return nil, err
	}
	defer sheet.close()

	total := decimal.Zero
	for _, p := range purchases {
		items := make([]string, 0, len(p.Items))
		for _, item := range p.Items {
			items = append(items, fmt.Sprintf("%dx %s", item.Quantity, item.ProductName))
		}
		sheet.row(p.Date.Format(reportDateFormat), names.supplier(p.SupplierID), strings.Join(items, ", "),
			money(p.Subtotal), money(p.Discount), money(p.Shipping), money(p.Total))
		total = total.Add(p.Total)
	}
	sheet.blank()
	sheet.total("Purchases", len(purchases))
	sheet.total("Total spent", money(total))

	return sheet.render("purchases", r)
}

type nameIndex struct {
	clients, suppliers, products map[string]string
}

func (n nameIndex) client(id string) string {
	if name, ok := n.clients[id]; ok {
		return name
	}
	return LabelUnknownClient
}

func (n nameIndex) supplier(id string) string {
	if name, ok := n.suppliers[id]; ok {
		return name
	}
	return LabelUnknownSupplier
}

func (n nameIndex) product(id string) string {
	if name, ok := n.products[id]; ok {
		return name
	}
	return LabelUnknownProduct
}

func (s *ReportService) names(ctx context.Context) (nameIndex, error) {
	idx := nameIndex{
		clients:   map[string]string{},
		suppliers: map[string]string{},
		products:  map[string]string{},
	}
	clients, err := repository.LoadList[entity.Client](ctx, s.store, repository.CollectionClients)
	if err != nil {
		return idx, err
	}
	for _, c := range clients {
		idx.clients[c.ID] = c.Name
	}
	suppliers, err := repository.LoadList[entity.Supplier](ctx, s.store, repository.CollectionSuppliers)
	if err != nil {
		return idx, err
	}
	for _, sup := range suppliers {
		idx.suppliers[sup.ID] = sup.Name
	}
	products, err := repository.LoadList[entity.Product](ctx, s.store, repository.CollectionProducts)
	if err != nil {
		return idx, err
	}
	for _, p := range products {
		idx.products[p.ID] = p.Name
	}
	return idx, nil
}

// money converts to float64 for spreadsheet arithmetic
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// sheetWriter appends rows to a single-sheet workbook
type sheetWriter struct {
	f        *excelize.File
	next     int
	columns  int
	bold     int
	currency int
	err      error
}

func (s *ReportService) newSheet(ctx context.Context, title string, r DateRange, header []string) (*sheetWriter, error) {
	settings, err := loadSettings(ctx, s.store, s.defaultAppName)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create report style: %w", err)
	}
	currencyFmt := "#,##0.00"
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create report style: %w", err)
	}

	w := &sheetWriter{f: f, next: 1, columns: len(header), bold: bold, currency: currency}
	w.styled(bold, fmt.Sprintf("%s - %s", title, settings.AppName))
	start, end, _ := r.Bounds()
	w.row(fmt.Sprintf("Period: %s to %s", start.Format(reportDateFormat), end.AddDate(0, 0, -1).Format(reportDateFormat)))
	w.blank()
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	w.styled(bold, headerCells...)

	last, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetColWidth(reportSheet, "A", last, 18)
	return w, nil
}

func (w *sheetWriter) row(values ...interface{}) {
	w.write(0, values)
}

func (w *sheetWriter) styled(style int, values ...interface{}) {
	w.write(style, values)
}

func (w *sheetWriter) blank() {
	w.next++
}

// total writes a bold label with its value in the last column
func (w *sheetWriter) total(label string, value interface{}) {
	values := make([]interface{}, w.columns)
	values[0] = label
	values[w.columns-1] = value
	w.write(w.bold, values)
}

func (w *sheetWriter) write(style int, values []interface{}) {
	if w.err != nil {
		return
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, w.next)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellValue(reportSheet, cell, v); err != nil {
			w.err = err
			return
		}
		cellStyle := style
		if _, isMoney := v.(float64); isMoney && style == 0 {
			cellStyle = w.currency
		}
		if cellStyle != 0 {
			if err := w.f.SetCellStyle(reportSheet, cell, cell, cellStyle); err != nil {
				w.err = err
				return
			}
		}
	}
	w.next++
}

func (w *sheetWriter) render(kind string, r DateRange) (*Report, error) {
	if w.err != nil {
		return nil, fmt.Errorf("failed to write report: %w", w.err)
	}
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	start, end, _ := r.Bounds()
	return &Report{
		Filename: fmt.Sprintf("%s-report-%s-%s.xlsx", kind, start.Format("20060102"), end.AddDate(0, 0, -1).Format("20060102")),
		Content:  buf.Bytes(),
	}, nil
}

func (w *sheetWriter) close() {
	_ = w.f.Close()
}
