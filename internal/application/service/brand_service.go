package service

import (
	"context"
	"strings"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/validation"
)

// BrandService handles brand-related operations
type BrandService struct {
	brands registry[entity.Brand]
}

// NewBrandService creates a new brand service
func NewBrandService(store repository.CollectionStore) *BrandService {
	return &BrandService{
		brands: registry[entity.Brand]{store: store, collection: repository.CollectionBrands, label: "Brand"},
	}
}

// BrandInput holds the editable brand fields
type BrandInput struct {
	Name string `json:"name" validate:"required"`
}

func brandNameTaken(all []entity.Brand, name, exceptID string) error {
	for _, b := range all {
		if b.ID != exceptID && strings.EqualFold(b.Name, name) {
			return apperror.NewConflictError("Brand " + name + " already exists")
		}
	}
	return nil
}

// CreateBrand registers a brand with a unique name
func (s *BrandService) CreateBrand(ctx context.Context, input *BrandInput) (*entity.Brand, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	brand := entity.Brand{ID: entity.NewID(), Name: input.Name}
	err := s.brands.insert(ctx, brand, func(all []entity.Brand) error {
		return brandNameTaken(all, brand.Name, "")
	})
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// UpdateBrand renames a brand
func (s *BrandService) UpdateBrand(ctx context.Context, id string, input *BrandInput) (*entity.Brand, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	return s.brands.modify(ctx, id, func(b *entity.Brand, all []entity.Brand) error {
		if err := brandNameTaken(all, input.Name, b.ID); err != nil {
			return err
		}
		b.Name = input.Name
		return nil
	})
}

// DeleteBrand removes a brand. Products keep the dangling id.
func (s *BrandService) DeleteBrand(ctx context.Context, id string) error {
	return s.brands.remove(ctx, id)
}

// GetBrand returns a brand by id
func (s *BrandService) GetBrand(ctx context.Context, id string) (*entity.Brand, error) {
	return s.brands.get(ctx, id)
}

// ListBrands returns brands ordered by name
func (s *BrandService) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	brands, err := s.brands.list(ctx)
	if err != nil {
		return nil, err
	}
	sortByName(brands, func(b entity.Brand) string { return b.Name })
	return brands, nil
}
