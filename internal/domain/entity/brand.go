package entity

// Brand represents a product brand
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetID returns the record identifier
func (b Brand) GetID() string { return b.ID }
