package domain

import (
	"fmt"
	"time"
)

// CartLine is one purchasable configuration in the cart: a product plus the
// chosen color/size variant, priced at the moment it was added. Two lines
// with the same (ProductID, Color, Size) are the same line and merge.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Image     string `json:"image"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// Key is the line's uniqueness key: product id plus variant signature.
func (l CartLine) Key() string {
	return fmt.Sprintf("%d|%s|%s", l.ProductID, l.Color, l.Size)
}

func (l CartLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

type Cart struct {
	UserID    int64      `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(userID int64) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type CartTotals struct {
	Subtotal   int64 `json:"subtotal"`
	Discount   int64 `json:"discount"`
	Shipping   int64 `json:"shipping"`
	GrandTotal int64 `json:"grand_total"`
}

// AddLine merges the given line into the cart: an existing line with the same
// key gets its quantity incremented by qty, otherwise the line is appended.
// Malformed input never errors: a non-positive unit price is rejected silently
// (the cart is left unchanged) and a non-positive qty is clamped to 1.
func (c *Cart) AddLine(line CartLine, qty int) {
	if line.UnitPrice <= 0 {
		return
	}
	if qty <= 0 {
		qty = 1
	}

	key := line.Key()
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity += qty
			return
		}
	}

	line.Quantity = qty
	c.Lines = append(c.Lines, line)
}

// RemoveLine deletes the line with the given key. Removing an absent line is
// a no-op.
func (c *Cart) RemoveLine(key string) {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the quantity of the line with the given key.
// A qty of zero or less removes the line.
func (c *Cart) SetQuantity(key string, qty int) {
	if qty <= 0 {
		c.RemoveLine(key)
		return
	}

	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Totals derives the cart totals from the current lines. Shipping is free at
// or above freeShippingThreshold, otherwise shippingFee applies. The method
// is pure: it never mutates the cart and never caches.
func (c *Cart) Totals(freeShippingThreshold, shippingFee int64) CartTotals {
	var subtotal int64
	for _, l := range c.Lines {
		subtotal += l.Total()
	}

	var shipping int64
	if !c.IsEmpty() && subtotal < freeShippingThreshold {
		shipping = shippingFee
	}

	return CartTotals{
		Subtotal:   subtotal,
		Discount:   0,
		Shipping:   shipping,
		GrandTotal: subtotal + shipping,
	}
}
