package entity

import (
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Transaction is a cash-flow entry derived from sales, purchases, paid
// receivables and cash adjustments. It is never persisted.
type Transaction struct {
	ID          string               `json:"id"`
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Type        enum.TransactionType `json:"type"`
}

// IsIncome reports whether the transaction brings money in
func (t *Transaction) IsIncome() bool {
	return t.Type == enum.TransactionTypeIncome
}
