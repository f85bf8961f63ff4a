// Package cart holds the in-session shopping cart shared by the
// grocery and commerce agents.
package cart

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const taxRate = 0.08

type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes,omitempty"`
}

func (li LineItem) LineTotal() float64 {
	return li.Price * float64(li.Quantity)
}

// Cart is a mutable line-item aggregate. Items are keyed by (id,
// notes) so the same product with different notes stays on separate
// lines, while a repeat add merges into the existing line.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) Add(item LineItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == item.ID && sameNotes(c.items[i].Notes, item.Notes) {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove deletes every line matching the id, regardless of notes.
// It reports whether anything was removed.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	removed := false
	for _, li := range c.items {
		if li.ID == id {
			removed = true
			continue
		}
		kept = append(kept, li)
	}
	c.items = kept
	return removed
}

// SetQuantity updates the first line matching the id. A quantity of
// zero or less removes the line.
func (c *Cart) SetQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, li := range c.items {
		total += li.LineTotal()
	}
	return total
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for _, li := range c.items {
		n += li.Quantity
	}
	return n
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Order is the checkout package written to the order log.
type Order struct {
	OrderID   string     `json:"order_id"`
	Items     []LineItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
	Status    string     `json:"status"`
	Timestamp string     `json:"timestamp"`
}

// Checkout freezes the current cart contents into an order with tax
// applied, rounded to cents. The caller persists the returned order and
// clears the cart for the next one.
func (c *Cart) Checkout(orderID string) Order {
	items := c.Items()

	var subtotal float64
	for _, li := range items {
		subtotal += li.LineTotal()
	}

	return Order{
		OrderID:   orderID,
		Items:     items,
		Subtotal:  subtotal,
		Tax:       roundCents(subtotal * taxRate),
		Total:     roundCents(subtotal * (1 + taxRate)),
		Status:    "confirmed",
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// NewOrderID returns a short human-readable order reference.
func NewOrderID() string {
	id := uuid.NewString()
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

func sameNotes(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
