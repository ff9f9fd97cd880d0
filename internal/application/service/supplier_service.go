package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/validation"
)

// SupplierService handles supplier-related operations
type SupplierService struct {
	suppliers registry[entity.Supplier]
	logger    *slog.Logger
}

// NewSupplierService creates a new supplier service
func NewSupplierService(store repository.CollectionStore, logger *slog.Logger) *SupplierService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SupplierService{
		suppliers: registry[entity.Supplier]{store: store, collection: repository.CollectionSuppliers, label: "Supplier"},
		logger:    logger.With("component", "supplier_service"),
	}
}

// SupplierInput holds the editable supplier fields
type SupplierInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address"`
}

func (in *SupplierInput) applyTo(s *entity.Supplier) {
	s.Name = strings.TrimSpace(in.Name)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = strings.TrimSpace(in.Email)
	s.CNPJ = strings.TrimSpace(in.CNPJ)
	s.Address = strings.TrimSpace(in.Address)
}

// CreateSupplier registers a supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *SupplierInput) (*entity.Supplier, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	supplier := entity.Supplier{ID: entity.NewID()}
	input.applyTo(&supplier)
	if err := s.suppliers.insert(ctx, supplier, nil); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "supplier created", "supplier_id", supplier.ID)
	return &supplier, nil
}

// UpdateSupplier replaces the supplier's fields
func (s *SupplierService) UpdateSupplier(ctx context.Context, id string, input *SupplierInput) (*entity.Supplier, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	return s.suppliers.modify(ctx, id, func(current *entity.Supplier, _ []entity.Supplier) error {
		input.applyTo(current)
		return nil
	})
}

// DeleteSupplier removes a supplier. Purchases and products keep the dangling id.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.suppliers.remove(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "supplier deleted", "supplier_id", id)
	return nil
}

// GetSupplier returns a supplier by id
func (s *SupplierService) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.suppliers.get(ctx, id)
}

// ListSuppliers returns suppliers ordered by name
func (s *SupplierService) ListSuppliers(ctx context.Context, search string) ([]entity.Supplier, error) {
	suppliers, err := s.suppliers.list(ctx)
	if err != nil {
		return nil, err
	}
	search = strings.TrimSpace(search)
	out := make([]entity.Supplier, 0, len(suppliers))
	for _, sup := range suppliers {
		if search == "" || containsFold(sup.Name, search) {
			out = append(out, sup)
		}
	}
	sortByName(out, func(sup entity.Supplier) string { return sup.Name })
	return out, nil
}
