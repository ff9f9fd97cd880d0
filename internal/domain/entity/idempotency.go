package entity

import (
	"time"
)

// IdempotencyKey stores the response of a processed write so a retried
// request with the same key replays it instead of recording twice
type IdempotencyKey struct {
	Key          string    `gorm:"primaryKey;size:255"`
	Endpoint     string    `gorm:"size:255;not null"` // e.g. "POST /api/v1/sales"
	RequestHash  string    `gorm:"size:64"`           // SHA256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsPending reports whether the request holding the key has not finished
func (i *IdempotencyKey) IsPending() bool {
	return i.ResponseCode == 0
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
