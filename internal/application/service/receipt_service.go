package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/printer"
)

const receiptDateFormat = "02/01/2006 15:04"

// ReceiptService composes sale receipts and sends them to the thermal printer.
type ReceiptService struct {
	store          repository.CollectionReader
	printer        printer.Printer
	width          int
	defaultAppName string
	logger         *slog.Logger
}

// NewReceiptService creates a new receipt service. width is the paper width
// in characters.
func NewReceiptService(store repository.CollectionReader, p printer.Printer, width int, defaultAppName string, logger *slog.Logger) *ReceiptService {
	if p == nil {
		p = printer.NewNull()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptService{
		store:          store,
		printer:        p,
		width:          width,
		defaultAppName: defaultAppName,
		logger:         logger.With("component", "receipt_service"),
	}
}

// PrinterStatus is the state of the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Ready      bool   `json:"ready"`
	Type       string `json:"type"`
}

// Status reports whether a printer is configured and reachable
func (s *ReceiptService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != printer.TypeNone,
		Ready:      s.printer.Ready(ctx),
		Type:       s.printer.Kind(),
	}
}

// SaleReceipt builds the receipt of a sale. Lines whose product was deleted
// keep their amounts and show a placeholder name.
func (s *ReceiptService) SaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	sales, err := repository.LoadList[entity.Sale](ctx, s.store, repository.CollectionSales)
	if err != nil {
		return nil, err
	}
	idx := repository.FindByID(sales, saleID)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Sale")
	}
	sale := sales[idx]

	products, err := repository.LoadList[entity.Product](ctx, s.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}
	clients, err := repository.LoadList[entity.Client](ctx, s.store, repository.CollectionClients)
	if err != nil {
		return nil, err
	}
	receivables, err := repository.LoadList[entity.AccountReceivable](ctx, s.store, repository.CollectionReceivables)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, s.store, s.defaultAppName)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	receipt := &entity.Receipt{
		StoreName:     settings.AppName,
		SaleID:        sale.ID,
		Date:          sale.Date,
		PaymentMethod: sale.PaymentMethod.Label(),
		Items:         make([]entity.ReceiptItem, 0, len(sale.Items)),
		Subtotal:      sale.Subtotal(),
		Discount:      sale.Discount,
		Total:         sale.Total,
	}

	for _, item := range sale.Items {
		name, ok := names[item.ProductID]
		if !ok {
			name = LabelUnknownProduct
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.LineTotal(),
		})
	}

	if sale.ClientID != "" {
		receipt.Client = LabelUnknownClient
		if i := repository.FindByID(clients, sale.ClientID); i >= 0 {
			receipt.Client = clients[i].Name
		}
	}
	for _, r := range receivables {
		if r.SaleID == sale.ID {
			due := r.DueDate
			receipt.DueDate = &due
			break
		}
	}

	return receipt, nil
}

// PrintSaleReceipt prints the receipt of a sale. The receipt is returned even
// when printing fails so the caller can still show it.
func (s *ReceiptService) PrintSaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	receipt, err := s.SaleReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		if errors.Is(err, printer.ErrNotConfigured) {
			return receipt, apperror.ErrPrinterUnavailable
		}
		s.logger.Error("Failed to print receipt",
			slog.String("sale_id", saleID),
			slog.String("error", err.Error()))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	s.logger.Info("Receipt printed", slog.String("sale_id", saleID))
	return receipt, nil
}

// FormatReceipt renders a receipt as ESC/POS bytes for a paper of width columns.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.SizeDouble).
		Line(r.StoreName).
		Size(printer.SizeNormal).
		Bold(false).
		Align(printer.AlignLeft).
		Rule('-')

	doc.Columns("Sale:", shortID(r.SaleID)).
		Columns("Date:", r.Date.Format(receiptDateFormat))
	if r.Client != "" {
		doc.Columns("Client:", r.Client)
	}
	doc.Columns("Payment:", r.PaymentMethod).
		Rule('-')

	for _, item := range r.Items {
		doc.Columns(fmt.Sprintf("%dx %s", item.Quantity, item.Name), item.Total.StringFixed(2))
		if item.Quantity > 1 {
			doc.Line("  @ " + item.UnitPrice.StringFixed(2))
		}
	}

	doc.Rule('-').
		Columns("Subtotal:", r.Subtotal.StringFixed(2))
	if r.Discount.IsPositive() {
		doc.Columns("Discount:", "-"+r.Discount.StringFixed(2))
	}
	doc.Bold(true).
		Columns("TOTAL:", r.Total.StringFixed(2)).
		Bold(false)
	if r.DueDate != nil {
		doc.Columns("Due:", r.DueDate.Format("02/01/2006"))
	}

	doc.Rule('-').
		Align(printer.AlignCenter).
		Feed(1).
		Line("Thank you for your business!").
		Align(printer.AlignLeft).
		Cut()

	return doc.Bytes()
}

// shortID keeps the tail of a uuid, which is the part that varies between
// sales created in the same millisecond.
func shortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[len(id)-n:]
}
