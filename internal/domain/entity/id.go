package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Money is persisted and served as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// NewID returns a new time-ordered record identifier
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
