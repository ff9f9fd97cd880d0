package entity

// Client represents a customer that can buy on credit terms
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	CPFCNPJ string `json:"cpfCnpj"`
	Address string `json:"address"`
}

// GetID returns the record identifier
func (c Client) GetID() string { return c.ID }
