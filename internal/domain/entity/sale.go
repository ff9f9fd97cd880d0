package entity

import (
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SaleItem is a line of a sale. UnitPrice is the selling price at the time
// of the sale and does not follow later catalog changes.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity times unit price
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale represents a recorded sale
type Sale struct {
	ID            string             `json:"id"`
	Items         []SaleItem         `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	Discount      decimal.Decimal    `json:"discount"`
	PaymentMethod enum.PaymentMethod `json:"paymentMethod"`
	Date          time.Time          `json:"date"`
	ClientID      string             `json:"clientId,omitempty"`
}

// GetID returns the record identifier
func (s Sale) GetID() string { return s.ID }

// Subtotal is the sum of all line totals before discount
func (s *Sale) Subtotal() decimal.Decimal {
	return SaleSubtotal(s.Items)
}

// SaleSubtotal sums the line totals of items
func SaleSubtotal(items []SaleItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}
