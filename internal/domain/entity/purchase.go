package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItem is a line of a purchase. ProductName is kept because the
// product may be renamed or deleted later.
type PurchaseItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity times unit price
func (i PurchaseItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Purchase represents goods bought from a supplier
type Purchase struct {
	ID            string          `json:"id"`
	Items         []PurchaseItem  `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	SupplierID    string          `json:"supplierId"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
}

// GetID returns the record identifier
func (p Purchase) GetID() string { return p.ID }

// PurchaseSubtotal sums the line totals of items
func PurchaseSubtotal(items []PurchaseItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// PurchaseTotal is subtotal - discount + shipping
func PurchaseTotal(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(shipping)
}
