package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
)

// InventoryLedger is the only writer of product quantities. Every method
// runs inside the caller's unit of work and either applies all of its
// movements or none of them.
type InventoryLedger struct {
	logger *slog.Logger
}

// NewInventoryLedger creates a new inventory ledger
func NewInventoryLedger(logger *slog.Logger) *InventoryLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryLedger{logger: logger.With("component", "inventory_ledger")}
}

// movement is the net quantity change for each product, in first-seen order
type movement struct {
	order  []string
	deltas map[string]int
}

func newMovement() *movement {
	return &movement{deltas: make(map[string]int)}
}

func (m *movement) add(productID string, delta int) {
	if _, ok := m.deltas[productID]; !ok {
		m.order = append(m.order, productID)
	}
	m.deltas[productID] += delta
}

func saleMovement(items []entity.SaleItem, sign int) *movement {
	m := newMovement()
	for _, item := range items {
		m.add(item.ProductID, sign*item.Quantity)
	}
	return m
}

func purchaseMovement(items []entity.PurchaseItem, sign int) *movement {
	m := newMovement()
	for _, item := range items {
		m.add(item.ProductID, sign*item.Quantity)
	}
	return m
}

// missingPolicy decides what happens when a moved product no longer exists
type missingPolicy int

const (
	// missingFails rejects the movement with a not-found error
	missingFails missingPolicy = iota
	// missingSkips drops the line, the product was deleted after the record was made
	missingSkips
	// missingFailsOnIncrease rejects only lines that would add stock
	missingFailsOnIncrease
)

// ApplySale removes sold quantities. Every line is checked before any
// product is written, and all short lines are reported together.
func (l *InventoryLedger) ApplySale(ctx context.Context, tx repository.CollectionTx, items []entity.SaleItem) error {
	return l.move(ctx, tx, saleMovement(items, -1), missingFails, apperror.NewInsufficientStockError)
}

// ReverseSale returns the quantities of a deleted sale to stock
func (l *InventoryLedger) ReverseSale(ctx context.Context, tx repository.CollectionTx, items []entity.SaleItem) error {
	return l.move(ctx, tx, saleMovement(items, 1), missingSkips, apperror.NewStockConflictError)
}

// ApplyPurchase adds purchased quantities to stock
func (l *InventoryLedger) ApplyPurchase(ctx context.Context, tx repository.CollectionTx, items []entity.PurchaseItem) error {
	return l.move(ctx, tx, purchaseMovement(items, 1), missingFails, apperror.NewStockConflictError)
}

// ReversePurchase removes the quantities of a deleted purchase. The
// reversal is rejected when part of that stock has already been sold.
func (l *InventoryLedger) ReversePurchase(ctx context.Context, tx repository.CollectionTx, items []entity.PurchaseItem) error {
	return l.move(ctx, tx, purchaseMovement(items, -1), missingSkips, apperror.NewStockConflictError)
}

// AdjustPurchase applies only the difference between the old and new lines
// of an edited purchase
func (l *InventoryLedger) AdjustPurchase(ctx context.Context, tx repository.CollectionTx, oldItems, newItems []entity.PurchaseItem) error {
	m := newMovement()
	for _, item := range oldItems {
		m.add(item.ProductID, -item.Quantity)
	}
	for _, item := range newItems {
		m.add(item.ProductID, item.Quantity)
	}
	return l.move(ctx, tx, m, missingFailsOnIncrease, apperror.NewStockConflictError)
}

func (l *InventoryLedger) move(
	ctx context.Context,
	tx repository.CollectionTx,
	m *movement,
	policy missingPolicy,
	shortageErr func([]apperror.StockShortage) *apperror.AppError,
) error {
	products, err := repository.LoadList[entity.Product](ctx, tx, repository.CollectionProducts)
	if err != nil {
		return err
	}

	var shortages []apperror.StockShortage
	changed := false
	next := make(map[int]int, len(m.order))

	for _, productID := range m.order {
		delta := m.deltas[productID]
		if delta == 0 {
			continue
		}

		idx := repository.FindByID(products, productID)
		if idx < 0 {
			if policy == missingFails || (policy == missingFailsOnIncrease && delta > 0) {
				return apperror.NewNotFoundError(fmt.Sprintf("Product %s", productID))
			}
			l.logger.WarnContext(ctx, "skipping stock movement for missing product",
				"product_id", productID, "delta", delta)
			continue
		}

		product := products[idx]
		quantity := product.Quantity + delta
		if quantity < 0 {
			shortages = append(shortages, apperror.StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   -delta,
				Available:   product.Quantity,
			})
			continue
		}
		next[idx] = quantity
		changed = true
	}

	if len(shortages) > 0 {
		return shortageErr(shortages)
	}
	if !changed {
		return nil
	}

	for idx, quantity := range next {
		products[idx].Quantity = quantity
	}
	return repository.SaveList(ctx, tx, repository.CollectionProducts, products)
}
