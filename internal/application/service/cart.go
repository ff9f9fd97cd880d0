package service

import (
	"errors"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Cart warnings. The cart is left unchanged when one is returned.
var (
	ErrOutOfStock = errors.New("product is out of stock")
	ErrStockLimit = errors.New("cart already holds all available stock of this product")
)

// CartState is the checkout lifecycle of a cart
type CartState int

const (
	CartBuilding CartState = iota
	CartValidated
	CartCommitted
)

func (s CartState) String() string {
	switch s {
	case CartValidated:
		return "validated"
	case CartCommitted:
		return "committed"
	default:
		return "building"
	}
}

// CartLine is one product in a cart. UnitPrice is snapshotted when the
// product is first added; Available is the stock seen at that time.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Available int             `json:"available"`
}

// Cart collects sale lines before checkout. Not safe for concurrent use.
type Cart struct {
	lines []CartLine
	state CartState
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// State returns the current lifecycle state
func (c *Cart) State() CartState {
	return c.state
}

// Lines returns a copy of the cart lines
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct products in the cart
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Items converts the cart lines into sale items
func (c *Cart) Items() []entity.SaleItem {
	items := make([]entity.SaleItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, entity.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}

// Subtotal is the sum of quantity times unit price over all lines
func (c *Cart) Subtotal() decimal.Decimal {
	return entity.SaleSubtotal(c.Items())
}

// Add puts one unit of product in the cart. A product already in the cart
// is incremented only while its quantity is below the available stock.
func (c *Cart) Add(product *entity.Product) error {
	if idx := c.indexOf(product.ID); idx >= 0 {
		line := &c.lines[idx]
		line.Available = product.Quantity
		if line.Quantity >= product.Quantity {
			return ErrStockLimit
		}
		line.Quantity++
		c.touch()
		return nil
	}

	if !product.InStock() {
		return ErrOutOfStock
	}
	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  1,
		UnitPrice: product.Price,
		Available: product.Quantity,
	})
	c.touch()
	return nil
}

// SetQuantity changes the quantity of a line. Zero or less removes it.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return apperror.NewNotFoundError("Cart item")
	}
	if quantity <= 0 {
		c.Remove(productID)
		return nil
	}
	if quantity > c.lines[idx].Available {
		return ErrStockLimit
	}
	c.lines[idx].Quantity = quantity
	c.touch()
	return nil
}

// Remove drops a product from the cart
func (c *Cart) Remove(productID string) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	c.touch()
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
	c.state = CartBuilding
}

// Validate checks the cart can be checked out with the given payment
// method and client, and moves it to the validated state
func (c *Cart) Validate(method enum.PaymentMethod, clientID string) error {
	if c.IsEmpty() {
		return apperror.NewFieldError("items", "cart is empty")
	}
	if !method.IsValid() {
		return apperror.NewFieldError("paymentMethod", "is not a supported payment method")
	}
	if method.IsCreditTerm() && clientID == "" {
		return apperror.ErrMissingClientForCredit
	}
	c.state = CartValidated
	return nil
}

// put sets a line without consulting stock. Checkout re-checks stock
// against the store, so this is used to build carts from API requests.
func (c *Cart) put(product *entity.Product, quantity int) {
	if idx := c.indexOf(product.ID); idx >= 0 {
		c.lines[idx].Quantity += quantity
		c.touch()
		return
	}
	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  quantity,
		UnitPrice: product.Price,
		Available: product.Quantity,
	})
	c.touch()
}

func (c *Cart) commit() {
	c.lines = nil
	c.state = CartCommitted
}

// touch returns a validated or committed cart to building after a change
func (c *Cart) touch() {
	c.state = CartBuilding
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
