package entity

// Supplier represents a supplier products are purchased from
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	CNPJ    string `json:"cnpj,omitempty"`
	Address string `json:"address,omitempty"`
}

// GetID returns the record identifier
func (s Supplier) GetID() string { return s.ID }
