package domain

import (
	catalog "github.com/miboks/miboks-server/internal/catalog/domain"
)

// CartLine is one selected product with the price snapshotted at add time.
type CartLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Cart is the working set of one checkout session. It lives only in memory
// and is never persisted; a Sale snapshot is taken from it at checkout.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

func NewCart() *Cart {
	return &Cart{Lines: []CartLine{}}
}

// AddItem adds one unit of the product, merging with an existing line.
// Stock availability is the caller's concern; the cart does not re-check it.
func (c *Cart) AddItem(p catalog.Product) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    1,
	})
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops the line; removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Totals derives the monetary summary from the current lines.
func (c *Cart) Totals(taxRate float64) CartTotals {
	var subtotal float64
	for _, line := range c.Lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	tax := subtotal * taxRate
	return CartTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// InstallmentAmount splits the total into count equal payments. The
// non-installment path uses count 1, so the amount equals the total.
func InstallmentAmount(total float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	return total / float64(count)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear empties the cart after a committed checkout or cancellation.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
}
