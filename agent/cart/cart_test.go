package cart

import (
	"math"
	"strings"
	"testing"
)

func TestAddMergesByIDAndNotes(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(LineItem{ID: "mug-blue", Name: "Blue Mug", Price: 299, Quantity: 1})
	c.Add(LineItem{ID: "mug-blue", Name: "Blue Mug", Price: 299, Quantity: 2})

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("items = %d lines", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("merged quantity = %d", items[0].Quantity)
	}
}

func TestAddKeepsDistinctNotesSeparate(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(LineItem{ID: "tee-red", Price: 599, Quantity: 1, Notes: "size M"})
	c.Add(LineItem{ID: "tee-red", Price: 599, Quantity: 1, Notes: "size L"})

	if got := len(c.Items()); got != 2 {
		t.Fatalf("items = %d lines", got)
	}
	if got := c.ItemCount(); got != 2 {
		t.Fatalf("item count = %d", got)
	}
}

func TestRemoveAndSetQuantity(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(LineItem{ID: "bread-1", Price: 3.50, Quantity: 2})
	c.Add(LineItem{ID: "pb-1", Price: 4.25, Quantity: 1})

	if !c.SetQuantity("bread-1", 5) {
		t.Fatal("SetQuantity on existing line should succeed")
	}
	if c.ItemCount() != 6 {
		t.Fatalf("item count = %d", c.ItemCount())
	}

	// Zero quantity removes the line.
	if !c.SetQuantity("bread-1", 0) {
		t.Fatal("SetQuantity(0) should remove")
	}
	if len(c.Items()) != 1 {
		t.Fatalf("items = %d lines", len(c.Items()))
	}

	if c.SetQuantity("ghost", 2) {
		t.Fatal("SetQuantity on unknown id should fail")
	}
	if !c.Remove("pb-1") {
		t.Fatal("Remove on existing line should succeed")
	}
	if !c.Empty() {
		t.Fatal("cart should be empty")
	}
	if c.Remove("pb-1") {
		t.Fatal("Remove on empty cart should fail")
	}
}

func TestCheckoutAppliesTax(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(LineItem{ID: "a", Price: 100, Quantity: 1})

	order := c.Checkout("ORDER_20260101_Dana")

	if order.OrderID != "ORDER_20260101_Dana" {
		t.Fatalf("order id = %q", order.OrderID)
	}
	if math.Abs(order.Subtotal-100) > 1e-9 {
		t.Fatalf("subtotal = %v", order.Subtotal)
	}
	if math.Abs(order.Tax-8) > 1e-9 {
		t.Fatalf("tax = %v", order.Tax)
	}
	if math.Abs(order.Total-108) > 1e-9 {
		t.Fatalf("total = %v", order.Total)
	}
	if order.Status != "confirmed" {
		t.Fatalf("status = %q", order.Status)
	}
	if c.Empty() {
		t.Fatal("checkout should leave the cart for the caller to clear")
	}
}

func TestCheckoutRoundsToCents(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(LineItem{ID: "a", Price: 2.99, Quantity: 2})

	order := c.Checkout("ORDER_1")

	if math.Abs(order.Tax-0.48) > 1e-9 {
		t.Fatalf("tax = %v", order.Tax)
	}
	if math.Abs(order.Total-6.46) > 1e-9 {
		t.Fatalf("total = %v", order.Total)
	}
}

func TestNewOrderIDFormat(t *testing.T) {
	t.Parallel()

	id := NewOrderID()
	if !strings.HasPrefix(id, "ORD-") {
		t.Fatalf("id = %q", id)
	}
	suffix := strings.TrimPrefix(id, "ORD-")
	if len(suffix) != 8 || suffix != strings.ToUpper(suffix) {
		t.Fatalf("suffix = %q", suffix)
	}
}
