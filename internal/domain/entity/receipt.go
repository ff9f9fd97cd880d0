package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptItem is a single line of a receipt
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a printable view of a sale. It is composed at print time and
// never stored.
type Receipt struct {
	StoreName     string          `json:"storeName"`
	SaleID        string          `json:"saleId"`
	Date          time.Time       `json:"date"`
	Client        string          `json:"client,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []ReceiptItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
}
