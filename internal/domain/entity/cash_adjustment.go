package entity

import (
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CashAdjustment is a manual cash movement unrelated to sales or purchases,
// e.g. an owner withdrawal
type CashAdjustment struct {
	ID          string              `json:"id"`
	Date        time.Time           `json:"date"`
	Type        enum.AdjustmentType `json:"type"`
	Amount      decimal.Decimal     `json:"amount"`
	Description string              `json:"description"`
}

// GetID returns the record identifier
func (a CashAdjustment) GetID() string { return a.ID }

// SignedAmount is positive for additions and negative for removals
func (a *CashAdjustment) SignedAmount() decimal.Decimal {
	if a.Type == enum.AdjustmentTypeRemove {
		return a.Amount.Neg()
	}
	return a.Amount
}
