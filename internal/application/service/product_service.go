package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/pagination"
	"github.com/sangkips/stockpilot-api/pkg/validation"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	products          registry[entity.Product]
	lowStockThreshold int
	logger            *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(store repository.CollectionStore, lowStockThreshold int, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		products:          registry[entity.Product]{store: store, collection: repository.CollectionProducts, label: "Product"},
		lowStockThreshold: lowStockThreshold,
		logger:            logger.With("component", "product_service"),
	}
}

// ProductInput holds the editable product fields
type ProductInput struct {
	Name       string           `json:"name" validate:"required,min=2"`
	Price      decimal.Decimal  `json:"price" validate:"gt=0"`
	CostPrice  *decimal.Decimal `json:"costPrice"`
	Barcode    string           `json:"barcode"`
	PhotoURL   string           `json:"photoUrl"`
	SupplierID string           `json:"supplierId"`
	BrandID    string           `json:"brandId"`
}

// CreateProductInput adds the opening stock, which only creation may set
type CreateProductInput struct {
	ProductInput
	Quantity int `json:"quantity"`
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	Search     string
	LowStock   bool
	SupplierID string
	BrandID    string
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	if in.CostPrice != nil && in.CostPrice.IsNegative() {
		return apperror.NewFieldError("costPrice", "must be greater than or equal to 0")
	}
	return nil
}

func (in *ProductInput) applyTo(p *entity.Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.CostPrice = in.CostPrice
	p.Barcode = in.Barcode
	p.PhotoURL = in.PhotoURL
	p.SupplierID = in.SupplierID
	p.BrandID = in.BrandID
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	if err := validation.Struct(&input.ProductInput); err != nil {
		return nil, err
	}
	if input.Quantity < 0 {
		return nil, apperror.NewFieldError("quantity", "must be greater than or equal to 0")
	}

	product := entity.Product{ID: entity.NewID(), Quantity: input.Quantity}
	input.applyTo(&product)

	err := s.products.insert(ctx, product, func(all []entity.Product) error {
		return ensureBarcodeFree(all, product.Barcode, "")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product created", "product_id", product.ID, "quantity", product.Quantity)
	return &product, nil
}

// UpdateProduct edits every product field except quantity
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *ProductInput) (*entity.Product, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	return s.products.modify(ctx, id, func(p *entity.Product, all []entity.Product) error {
		if err := ensureBarcodeFree(all, input.Barcode, p.ID); err != nil {
			return err
		}
		input.applyTo(p)
		return nil
	})
}

// DeleteProduct removes a product. Past sales and purchases keep their lines.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.remove(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// GetProduct returns a product by id
func (s *ProductService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return s.products.get(ctx, id)
}

// GetProductByBarcode returns the product whose barcode matches exactly
func (s *ProductService) GetProductByBarcode(ctx context.Context, code string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	products, err := s.products.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if code != "" && products[i].Barcode == code {
			return &products[i], nil
		}
	}
	return nil, apperror.NewNotFoundError("Product with barcode " + code)
}

// ListProducts returns products ordered by name
func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, err := s.products.list(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.TrimSpace(filter.Search)
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if filter.LowStock && !s.IsLowStock(&p) {
			continue
		}
		if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
			continue
		}
		if filter.BrandID != "" && p.BrandID != filter.BrandID {
			continue
		}
		if search != "" && !containsFold(p.Name, search) && !strings.Contains(p.Barcode, search) {
			continue
		}
		out = append(out, p)
	}
	sortByName(out, func(p entity.Product) string { return p.Name })
	return pagination.Paginate(out, params), nil
}

// LowStockProducts returns products at or below the low-stock threshold,
// lowest stock first
func (s *ProductService) LowStockProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.products.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0)
	for _, p := range products {
		if s.IsLowStock(&p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out, nil
}

// IsLowStock reports whether a product needs restocking
func (s *ProductService) IsLowStock(p *entity.Product) bool {
	return p.Quantity <= s.lowStockThreshold
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(name(items[i])) < strings.ToLower(name(items[j]))
	})
}
