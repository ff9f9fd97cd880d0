package entity

import "github.com/shopspring/decimal"

// Product represents a product in the catalog.
// Quantity is only ever written by the inventory ledger.
type Product struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	CostPrice  *decimal.Decimal `json:"costPrice,omitempty"`
	Quantity   int              `json:"quantity"`
	Barcode    string           `json:"barcode,omitempty"`
	PhotoURL   string           `json:"photoUrl,omitempty"`
	SupplierID string           `json:"supplierId,omitempty"`
	BrandID    string           `json:"brandId,omitempty"`
}

// GetID returns the record identifier
func (p Product) GetID() string { return p.ID }

// Cost returns the cost price, zero when unknown
func (p *Product) Cost() decimal.Decimal {
	if p.CostPrice == nil {
		return decimal.Zero
	}
	return *p.CostPrice
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.Quantity > 0
}
