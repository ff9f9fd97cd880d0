package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/pagination"
	"github.com/sangkips/stockpilot-api/pkg/validation"
	"github.com/shopspring/decimal"
)

// PurchaseService handles purchase-related operations
type PurchaseService struct {
	store  repository.CollectionStore
	ledger *InventoryLedger
	clock  Clock
	logger *slog.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(store repository.CollectionStore, ledger *InventoryLedger, clock Clock, logger *slog.Logger) *PurchaseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseService{
		store:  store,
		ledger: ledger,
		clock:  clock,
		logger: logger.With("component", "purchase_service"),
	}
}

// NewProductInput creates a catalog product as part of a purchase line
type NewProductInput struct {
	Name         string          `json:"name" validate:"required,min=2"`
	Barcode      string          `json:"barcode"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"gt=0"`
	CostPrice    decimal.Decimal `json:"costPrice" validate:"gte=0"`
}

// PurchaseItemInput is one purchase line. Exactly one of ProductID and
// NewProduct is set. UnitPrice defaults to the new product's cost price.
type PurchaseItemInput struct {
	ProductID  string           `json:"productId"`
	NewProduct *NewProductInput `json:"newProduct,omitempty"`
	Quantity   int              `json:"quantity" validate:"gt=0"`
	UnitPrice  *decimal.Decimal `json:"unitPrice"`
}

// PurchaseInput is the input to create or edit a purchase
type PurchaseInput struct {
	SupplierID    string              `json:"supplierId" validate:"required"`
	PaymentMethod string              `json:"paymentMethod" validate:"required"`
	Date          *time.Time          `json:"date"`
	Discount      decimal.Decimal     `json:"discount" validate:"gte=0"`
	Shipping      decimal.Decimal     `json:"shipping" validate:"gte=0"`
	Items         []PurchaseItemInput `json:"items" validate:"required,min=1,dive"`
}

// PurchaseFilter narrows a purchase listing
type PurchaseFilter struct {
	SupplierID string
	Range      DateRange
}

func (in *PurchaseInput) validate() error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	var fields []apperror.FieldError
	for i, item := range in.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		switch {
		case item.ProductID == "" && item.NewProduct == nil:
			fields = append(fields, apperror.FieldError{Field: prefix + "productId", Message: "is required"})
		case item.ProductID != "" && item.NewProduct != nil:
			fields = append(fields, apperror.FieldError{Field: prefix + "newProduct", Message: "cannot be combined with productId"})
		}
		if item.UnitPrice == nil && item.NewProduct == nil {
			fields = append(fields, apperror.FieldError{Field: prefix + "unitPrice", Message: "is required"})
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			fields = append(fields, apperror.FieldError{Field: prefix + "unitPrice", Message: "must be greater than or equal to 0"})
		}
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

// resolveItems turns input lines into purchase items, appending any new
// products to products. It reports whether products changed.
func (s *PurchaseService) resolveItems(products []entity.Product, inputs []PurchaseItemInput) ([]entity.PurchaseItem, []entity.Product, bool, error) {
	items := make([]entity.PurchaseItem, 0, len(inputs))
	created := false

	for _, in := range inputs {
		var product entity.Product
		if in.NewProduct != nil {
			if err := ensureBarcodeFree(products, in.NewProduct.Barcode, ""); err != nil {
				return nil, nil, false, err
			}
			cost := in.NewProduct.CostPrice
			product = entity.Product{
				ID:        entity.NewID(),
				Name:      strings.TrimSpace(in.NewProduct.Name),
				Price:     in.NewProduct.SellingPrice,
				CostPrice: &cost,
				Quantity:  0,
				Barcode:   strings.TrimSpace(in.NewProduct.Barcode),
			}
			products = append(products, product)
			created = true
		} else {
			idx := repository.FindByID(products, in.ProductID)
			if idx < 0 {
				return nil, nil, false, apperror.NewNotFoundError("Product " + in.ProductID)
			}
			product = products[idx]
		}

		unitPrice := product.Cost()
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}
		items = append(items, entity.PurchaseItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    in.Quantity,
			UnitPrice:   unitPrice,
		})
	}
	return items, products, created, nil
}

func (s *PurchaseService) buildPurchase(ctx context.Context, tx repository.CollectionTx, input *PurchaseInput) (entity.Purchase, error) {
	suppliers, err := repository.LoadList[entity.Supplier](ctx, tx, repository.CollectionSuppliers)
	if err != nil {
		return entity.Purchase{}, err
	}
	if repository.FindByID(suppliers, input.SupplierID) < 0 {
		return entity.Purchase{}, apperror.NewNotFoundError("Supplier")
	}

	products, err := repository.LoadList[entity.Product](ctx, tx, repository.CollectionProducts)
	if err != nil {
		return entity.Purchase{}, err
	}
	items, products, created, err := s.resolveItems(products, input.Items)
	if err != nil {
		return entity.Purchase{}, err
	}
	if created {
		// New products must exist before the ledger raises their stock.
		if err := repository.SaveList(ctx, tx, repository.CollectionProducts, products); err != nil {
			return entity.Purchase{}, err
		}
	}

	subtotal := entity.PurchaseSubtotal(items)
	return entity.Purchase{
		Items:         items,
		Subtotal:      subtotal,
		Discount:      input.Discount,
		Shipping:      input.Shipping,
		Total:         entity.PurchaseTotal(subtotal, input.Discount, input.Shipping),
		SupplierID:    input.SupplierID,
		PaymentMethod: input.PaymentMethod,
	}, nil
}

// CreatePurchase records a purchase and raises stock for every line
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *PurchaseInput) (*entity.Purchase, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var purchase entity.Purchase
	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		built, err := s.buildPurchase(ctx, tx, input)
		if err != nil {
			return err
		}
		built.ID = entity.NewID()
		built.Date = s.clock.now()
		if input.Date != nil {
			built.Date = *input.Date
		}

		if err := s.ledger.ApplyPurchase(ctx, tx, built.Items); err != nil {
			return err
		}

		purchases, err := repository.LoadList[entity.Purchase](ctx, tx, repository.CollectionPurchases)
		if err != nil {
			return err
		}
		purchase = built
		return repository.SaveList(ctx, tx, repository.CollectionPurchases, append(purchases, built))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "purchase recorded",
		"purchase_id", purchase.ID,
		"supplier_id", purchase.SupplierID,
		"total", purchase.Total.String())
	return &purchase, nil
}

// UpdatePurchase replaces a purchase and moves stock by the difference
// between its old and new lines
func (s *PurchaseService) UpdatePurchase(ctx context.Context, id string, input *PurchaseInput) (*entity.Purchase, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var purchase entity.Purchase
	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		purchases, err := repository.LoadList[entity.Purchase](ctx, tx, repository.CollectionPurchases)
		if err != nil {
			return err
		}
		idx := repository.FindByID(purchases, id)
		if idx < 0 {
			return apperror.NewNotFoundError("Purchase")
		}
		existing := purchases[idx]

		built, err := s.buildPurchase(ctx, tx, input)
		if err != nil {
			return err
		}
		built.ID = existing.ID
		built.Date = existing.Date
		if input.Date != nil {
			built.Date = *input.Date
		}

		if err := s.ledger.AdjustPurchase(ctx, tx, existing.Items, built.Items); err != nil {
			return err
		}

		purchases[idx] = built
		purchase = built
		return repository.SaveList(ctx, tx, repository.CollectionPurchases, purchases)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "purchase updated", "purchase_id", purchase.ID, "total", purchase.Total.String())
	return &purchase, nil
}

// DeletePurchase removes a purchase and takes its quantities back out of stock
func (s *PurchaseService) DeletePurchase(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		purchases, err := repository.LoadList[entity.Purchase](ctx, tx, repository.CollectionPurchases)
		if err != nil {
			return err
		}
		idx := repository.FindByID(purchases, id)
		if idx < 0 {
			return apperror.NewNotFoundError("Purchase")
		}

		if err := s.ledger.ReversePurchase(ctx, tx, purchases[idx].Items); err != nil {
			return err
		}
		purchases = append(purchases[:idx], purchases[idx+1:]...)
		return repository.SaveList(ctx, tx, repository.CollectionPurchases, purchases)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "purchase deleted", "purchase_id", id)
	return nil
}

// GetPurchase returns a purchase by id
func (s *PurchaseService) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	purchases, err := repository.LoadList[entity.Purchase](ctx, s.store, repository.CollectionPurchases)
	if err != nil {
		return nil, err
	}
	idx := repository.FindByID(purchases, id)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return &purchases[idx], nil
}

// ListPurchases returns purchases newest first
func (s *PurchaseService) ListPurchases(ctx context.Context, filter PurchaseFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, err := s.FilterPurchases(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(purchases, params), nil
}

// FilterPurchases returns every purchase matching filter, newest first
func (s *PurchaseService) FilterPurchases(ctx context.Context, filter PurchaseFilter) ([]entity.Purchase, error) {
	purchases, err := repository.LoadList[entity.Purchase](ctx, s.store, repository.CollectionPurchases)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
			continue
		}
		if !filter.Range.Contains(p.Date) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// ensureBarcodeFree rejects a barcode already used by another product
func ensureBarcodeFree(products []entity.Product, barcode, exceptID string) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil
	}
	for _, p := range products {
		if p.Barcode == barcode && p.ID != exceptID {
			return apperror.NewConflictError(fmt.Sprintf("Barcode %s is already used by %s", barcode, p.Name))
		}
	}
	return nil
}
