package entity

import (
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// AccountReceivable is money owed by a client for a credit-term sale.
// It moves from pending to paid exactly once.
type AccountReceivable struct {
	ID       string                `json:"id"`
	SaleID   string                `json:"saleId"`
	ClientID string                `json:"clientId"`
	Amount   decimal.Decimal       `json:"amount"`
	DueDate  time.Time             `json:"dueDate"`
	Status   enum.ReceivableStatus `json:"status"`
	PaidDate *time.Time            `json:"paidDate,omitempty"`
}

// GetID returns the record identifier
func (r AccountReceivable) GetID() string { return r.ID }

// IsPaid reports whether the receivable has been settled
func (r *AccountReceivable) IsPaid() bool {
	return r.Status == enum.ReceivableStatusPaid
}

// IsOverdue reports whether a pending receivable is past its due date
func (r *AccountReceivable) IsOverdue(now time.Time) bool {
	return !r.IsPaid() && now.After(r.DueDate)
}
