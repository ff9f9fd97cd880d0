package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/pagination"
	"github.com/sangkips/stockpilot-api/pkg/validation"
	"github.com/shopspring/decimal"
)

// SaleService handles sale-related operations
type SaleService struct {
	store      repository.CollectionStore
	ledger     *InventoryLedger
	creditDays int
	clock      Clock
	logger     *slog.Logger
}

// NewSaleService creates a new sale service. creditDays is the number of
// calendar days between a credit-term sale and the due date of its receivable.
func NewSaleService(
	store repository.CollectionStore,
	ledger *InventoryLedger,
	creditDays int,
	clock Clock,
	logger *slog.Logger,
) *SaleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaleService{
		store:      store,
		ledger:     ledger,
		creditDays: creditDays,
		clock:      clock,
		logger:     logger.With("component", "sale_service"),
	}
}

// CheckoutInput holds the checkout choices made for a cart
type CheckoutInput struct {
	PaymentMethod enum.PaymentMethod `json:"paymentMethod" validate:"required"`
	ClientID      string             `json:"clientId"`
	Discount      decimal.Decimal    `json:"discount" validate:"gte=0"`
}

// CheckoutResult is the outcome of a committed checkout. Receivable is
// set only for credit-term sales.
type CheckoutResult struct {
	Sale       *entity.Sale              `json:"sale"`
	Receivable *entity.AccountReceivable `json:"receivable,omitempty"`
}

// SaleLineInput is one requested line of a sale
type SaleLineInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// RecordSaleInput records a sale in one call
type RecordSaleInput struct {
	Items         []SaleLineInput    `json:"items" validate:"required,min=1,dive"`
	PaymentMethod enum.PaymentMethod `json:"paymentMethod" validate:"required"`
	ClientID      string             `json:"clientId"`
	Discount      decimal.Decimal    `json:"discount" validate:"gte=0"`
}

// SaleFilter narrows a sale listing
type SaleFilter struct {
	Search        string
	ClientID      string
	PaymentMethod enum.PaymentMethod
	Range         DateRange
}

// AddProduct adds one unit of a product to the cart
func (s *SaleService) AddProduct(ctx context.Context, cart *Cart, productID string) (*entity.Product, error) {
	products, err := repository.LoadList[entity.Product](ctx, s.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}
	idx := repository.FindByID(products, productID)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Product")
	}
	product := products[idx]
	if err := cart.Add(&product); err != nil {
		return &product, err
	}
	return &product, nil
}

// AddByCode adds one unit of the product whose barcode matches code exactly
func (s *SaleService) AddByCode(ctx context.Context, cart *Cart, code string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewFieldError("barcode", "is required")
	}
	products, err := repository.LoadList[entity.Product](ctx, s.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Barcode == code {
			product := products[i]
			if err := cart.Add(&product); err != nil {
				return &product, err
			}
			return &product, nil
		}
	}
	return nil, apperror.NewNotFoundError("Product with barcode " + code)
}

// Checkout records the cart as a sale. Stock is checked again against the
// store, the sale and its receivable are written in the same unit of work,
// and the cart is emptied only when everything committed.
func (s *SaleService) Checkout(ctx context.Context, cart *Cart, input CheckoutInput) (*CheckoutResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := cart.Validate(input.PaymentMethod, input.ClientID); err != nil {
		return nil, err
	}

	items := cart.Items()
	subtotal := entity.SaleSubtotal(items)
	if input.Discount.GreaterThan(subtotal) {
		cart.touch()
		return nil, apperror.NewFieldError("discount", "must not exceed the cart subtotal")
	}

	now := s.clock.now()
	sale := entity.Sale{
		ID:            entity.NewID(),
		Items:         items,
		Total:         subtotal.Sub(input.Discount),
		Discount:      input.Discount,
		PaymentMethod: input.PaymentMethod,
		Date:          now,
		ClientID:      input.ClientID,
	}
	var receivable *entity.AccountReceivable

	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		if sale.ClientID != "" {
			clients, err := repository.LoadList[entity.Client](ctx, tx, repository.CollectionClients)
			if err != nil {
				return err
			}
			if repository.FindByID(clients, sale.ClientID) < 0 {
				return apperror.NewNotFoundError("Client")
			}
		}

		if err := s.ledger.ApplySale(ctx, tx, sale.Items); err != nil {
			return err
		}

		sales, err := repository.LoadList[entity.Sale](ctx, tx, repository.CollectionSales)
		if err != nil {
			return err
		}
		if err := repository.SaveList(ctx, tx, repository.CollectionSales, append(sales, sale)); err != nil {
			return err
		}

		if !sale.PaymentMethod.IsCreditTerm() {
			return nil
		}
		receivable = &entity.AccountReceivable{
			ID:       entity.NewID(),
			SaleID:   sale.ID,
			ClientID: sale.ClientID,
			Amount:   sale.Total,
			DueDate:  now.AddDate(0, 0, s.creditDays),
			Status:   enum.ReceivableStatusPending,
		}
		receivables, err := repository.LoadList[entity.AccountReceivable](ctx, tx, repository.CollectionReceivables)
		if err != nil {
			return err
		}
		return repository.SaveList(ctx, tx, repository.CollectionReceivables, append(receivables, *receivable))
	})
	if err != nil {
		// the cart can be edited and validated again
		cart.touch()
		return nil, err
	}

	cart.commit()
	s.logger.InfoContext(ctx, "sale recorded",
		"sale_id", sale.ID,
		"total", sale.Total.String(),
		"payment_method", sale.PaymentMethod,
		"items", len(sale.Items))

	return &CheckoutResult{Sale: &sale, Receivable: receivable}, nil
}

// RecordSale builds a cart from the requested lines at current catalog
// prices and checks it out
func (s *SaleService) RecordSale(ctx context.Context, input RecordSaleInput) (*CheckoutResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	products, err := repository.LoadList[entity.Product](ctx, s.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}

	cart := NewCart()
	for _, line := range input.Items {
		idx := repository.FindByID(products, line.ProductID)
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Product " + line.ProductID)
		}
		cart.put(&products[idx], line.Quantity)
	}

	return s.Checkout(ctx, cart, CheckoutInput{
		PaymentMethod: input.PaymentMethod,
		ClientID:      input.ClientID,
		Discount:      input.Discount,
	})
}

// GetSale returns a sale by id
func (s *SaleService) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sales, err := repository.LoadList[entity.Sale](ctx, s.store, repository.CollectionSales)
	if err != nil {
		return nil, err
	}
	idx := repository.FindByID(sales, id)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return &sales[idx], nil
}

// ListSales returns sales newest first
func (s *SaleService) ListSales(ctx context.Context, filter SaleFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, err := s.FilterSales(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(sales, params), nil
}

// FilterSales returns every sale matching filter, newest first
func (s *SaleService) FilterSales(ctx context.Context, filter SaleFilter) ([]entity.Sale, error) {
	sales, err := repository.LoadList[entity.Sale](ctx, s.store, repository.CollectionSales)
	if err != nil {
		return nil, err
	}

	var clientNames map[string]string
	search := strings.TrimSpace(filter.Search)
	if search != "" {
		clients, err := repository.LoadList[entity.Client](ctx, s.store, repository.CollectionClients)
		if err != nil {
			return nil, err
		}
		clientNames = make(map[string]string, len(clients))
		for _, c := range clients {
			clientNames[c.ID] = c.Name
		}
	}

	out := make([]entity.Sale, 0, len(sales))
	for _, sale := range sales {
		if filter.ClientID != "" && sale.ClientID != filter.ClientID {
			continue
		}
		if filter.PaymentMethod != "" && sale.PaymentMethod != filter.PaymentMethod {
			continue
		}
		if !filter.Range.Contains(sale.Date) {
			continue
		}
		if search != "" && !strings.HasPrefix(sale.ID, search) && !containsFold(clientNames[sale.ClientID], search) {
			continue
		}
		out = append(out, sale)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// DeleteSale removes a sale, returns its stock and drops its pending
// receivable. A sale whose receivable was already paid cannot be deleted.
func (s *SaleService) DeleteSale(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		sales, err := repository.LoadList[entity.Sale](ctx, tx, repository.CollectionSales)
		if err != nil {
			return err
		}
		idx := repository.FindByID(sales, id)
		if idx < 0 {
			return apperror.NewNotFoundError("Sale")
		}
		sale := sales[idx]

		receivables, err := repository.LoadList[entity.AccountReceivable](ctx, tx, repository.CollectionReceivables)
		if err != nil {
			return err
		}
		kept := receivables[:0:0]
		for _, r := range receivables {
			if r.SaleID != sale.ID {
				kept = append(kept, r)
				continue
			}
			if r.IsPaid() {
				return apperror.NewConflictError("Sale has a paid receivable and cannot be deleted")
			}
		}

		if err := s.ledger.ReverseSale(ctx, tx, sale.Items); err != nil {
			return err
		}
		if len(kept) != len(receivables) {
			if err := repository.SaveList(ctx, tx, repository.CollectionReceivables, kept); err != nil {
				return err
			}
		}
		sales = append(sales[:idx], sales[idx+1:]...)
		return repository.SaveList(ctx, tx, repository.CollectionSales, sales)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "sale deleted", "sale_id", id)
	return nil
}
