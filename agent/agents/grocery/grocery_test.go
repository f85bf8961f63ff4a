package grocery

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voxdesk/voxdesk/agent/catalog"
	"github.com/voxdesk/voxdesk/agent/update"
)

const catalogJSON = `{
  "catalog": {
    "groceries": [
      {"id": "bread-1", "name": "Whole Wheat Bread", "category": "groceries", "brand": "Baker Bros", "size": "1 loaf", "price": 3.50, "tags": ["bread", "wheat"]},
      {"id": "pb-1", "name": "Peanut Butter", "category": "groceries", "brand": "NutCo", "size": "16 oz", "price": 4.25, "tags": ["spread", "protein"]},
      {"id": "milk-1", "name": "Whole Milk", "category": "groceries", "brand": "DairyLand", "size": "1 gal", "price": 3.99, "tags": ["dairy", "milk"]},
      {"id": "milk-2", "name": "Oat Milk", "category": "groceries", "brand": "Oatly", "size": "32 oz", "price": 4.99, "tags": ["dairy-free", "milk"]},
      {"id": "jam-1", "name": "Strawberry Jam", "category": "groceries", "brand": "Berry Farms", "size": "12 oz", "price": 3.75, "tags": ["fruit", "jam"]}
    ],
    "snacks": [
      {"id": "chips-1", "name": "Sea Salt Chips", "category": "snacks", "brand": "Crisp", "size": "8 oz", "price": 2.99, "tags": ["salty"]}
    ]
  },
  "recipes": {
    "peanut_butter_sandwich": {"name": "Peanut Butter Sandwich", "ingredients": ["bread-1", "pb-1"]},
    "pb_and_j": {"name": "Peanut Butter and Jelly Sandwich", "ingredients": ["bread-1", "pb-1", "jam-1"]}
  }
}`

func newTestAgent(t *testing.T) (*Agent, *update.MemorySink, string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "food.json")
	if err := os.WriteFile(catalogPath, []byte(catalogJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	sink := update.NewMemorySink()
	a := New(update.NewEmitter(sink, "grocery"), catalog.LoadGrocery(catalogPath), dir)
	return a, sink, dir
}

func call(t *testing.T, a *Agent, tool string, args map[string]any) string {
	t.Helper()
	result, err := a.Execute(context.Background(), tool, args)
	if err != nil {
		t.Fatalf("%s: %v", tool, err)
	}
	if result.Error != "" {
		t.Fatalf("%s: unexpected error reply %q", tool, result.Error)
	}
	return result.Reply
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAgent(t)

	if got := call(t, a, ToolSearchProducts, map[string]any{"query": "caviar"}); !strings.Contains(got, "couldn't find any items matching 'caviar'") {
		t.Fatalf("no-match reply = %q", got)
	}
	if got := call(t, a, ToolSearchProducts, map[string]any{"query": "bread"}); !strings.Contains(got, "Whole Wheat Bread by Baker Bros for $3.50 (1 loaf)") {
		t.Fatalf("single-match reply = %q", got)
	}
	got := call(t, a, ToolSearchProducts, map[string]any{"query": "milk"})
	if !strings.Contains(got, "I found 2 items for 'milk'") || !strings.Contains(got, "Which one would you like to add to your cart?") {
		t.Fatalf("multi-match reply = %q", got)
	}
}

func TestAddItemSingleAndAmbiguous(t *testing.T) {
	t.Parallel()

	a, sink, _ := newTestAgent(t)

	got := call(t, a, ToolAddItemToCart, map[string]any{"item_name": "chips", "quantity": 2})
	if !strings.Contains(got, "Added 2x Sea Salt Chips by Crisp to your cart for $5.98") {
		t.Fatalf("add reply = %q", got)
	}
	if !strings.Contains(got, "Your cart total is now $5.98.") {
		t.Fatalf("add reply total = %q", got)
	}

	// Ambiguous names ask for clarification instead of guessing.
	got = call(t, a, ToolAddItemToCart, map[string]any{"item_name": "milk"})
	if !strings.Contains(got, "multiple items for 'milk'") || !strings.Contains(got, "Which one did you want?") {
		t.Fatalf("ambiguous reply = %q", got)
	}

	var sawCartUpdate bool
	for _, msg := range sink.Messages() {
		if strings.Contains(string(msg.Payload), `"cart_update"`) {
			sawCartUpdate = true
		}
	}
	if !sawCartUpdate {
		t.Fatal("expected a cart_update emission")
	}
}

func TestAddRecipeIngredients(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAgent(t)

	got := call(t, a, ToolAddRecipeIngredients, map[string]any{"recipe_or_dish": "peanut butter sandwich"})
	if !strings.Contains(got, "Whole Wheat Bread, Peanut Butter") {
		t.Fatalf("recipe reply = %q", got)
	}
	if !strings.Contains(got, "That's $7.75 added to your cart.") {
		t.Fatalf("recipe total = %q", got)
	}

	if got := call(t, a, ToolAddRecipeIngredients, map[string]any{"recipe_or_dish": "sushi platter"}); !strings.Contains(got, "I don't have a specific recipe for 'sushi platter'") {
		t.Fatalf("unknown recipe reply = %q", got)
	}
}

func TestAddRecipeFallsBackToNameSearch(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAgent(t)

	// "jelly sandwich" misses the direct lookup because the recipe is
	// keyed "pb_and_j", so the name search has to resolve it.
	got := call(t, a, ToolAddRecipeIngredients, map[string]any{"recipe_or_dish": "jelly sandwich"})
	if !strings.Contains(got, "Whole Wheat Bread, Peanut Butter, Strawberry Jam") {
		t.Fatalf("fallback recipe reply = %q", got)
	}
	if !strings.Contains(got, "That's $11.50 added to your cart.") {
		t.Fatalf("fallback recipe total = %q", got)
	}
}

func TestCartManagement(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAgent(t)

	if got := call(t, a, ToolShowCart, nil); got != "Your cart is empty. What would you like to add?" {
		t.Fatalf("empty cart reply = %q", got)
	}

	call(t, a, ToolAddItemToCart, map[string]any{"item_name": "bread", "quantity": 2})
	call(t, a, ToolAddItemToCart, map[string]any{"item_name": "chips"})

	got := call(t, a, ToolShowCart, nil)
	if !strings.Contains(got, "(3 items)") || !strings.Contains(got, "2x Whole Wheat Bread") {
		t.Fatalf("cart reply = %q", got)
	}
	if !strings.Contains(got, "Total: $9.99") {
		t.Fatalf("cart total = %q", got)
	}

	if got := call(t, a, ToolUpdateItemQuantity, map[string]any{"item_name": "bread", "new_quantity": 1}); !strings.Contains(got, "Updated Whole Wheat Bread quantity from 2 to 1") {
		t.Fatalf("update reply = %q", got)
	}

	// Quantity zero removes the line.
	if got := call(t, a, ToolUpdateItemQuantity, map[string]any{"item_name": "chips", "new_quantity": 0}); !strings.Contains(got, "Removed Sea Salt Chips") {
		t.Fatalf("zero quantity reply = %q", got)
	}

	got = call(t, a, ToolRemoveItemFromCart, map[string]any{"item_name": "pizza"})
	if !strings.Contains(got, "couldn't find 'pizza' in your cart") || !strings.Contains(got, "Whole Wheat Bread") {
		t.Fatalf("remove miss reply = %q", got)
	}

	if got := call(t, a, ToolRemoveItemFromCart, map[string]any{"item_name": "bread"}); !strings.Contains(got, "Your new total is $0.00.") {
		t.Fatalf("remove reply = %q", got)
	}
}

func TestCompleteOrderWritesFileAndResets(t *testing.T) {
	t.Parallel()

	a, sink, dir := newTestAgent(t)

	if got := call(t, a, ToolCompleteOrder, nil); !strings.Contains(got, "Your cart is empty!") {
		t.Fatalf("empty cart refusal = %q", got)
	}

	call(t, a, ToolAddItemToCart, map[string]any{"item_name": "chips", "quantity": 2})

	if got := call(t, a, ToolCompleteOrder, nil); !strings.Contains(got, "I need your name") {
		t.Fatalf("missing name refusal = %q", got)
	}

	if got := call(t, a, ToolGetCustomerInfo, map[string]any{"name": "Dana Lee", "address": "12 Elm St"}); !strings.Contains(got, "delivering to 12 Elm St") {
		t.Fatalf("customer info reply = %q", got)
	}

	got := call(t, a, ToolCompleteOrder, nil)
	if !strings.Contains(got, "Order Summary for Dana Lee") || !strings.Contains(got, "for delivery to 12 Elm St") {
		t.Fatalf("confirmation = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var orderPath string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "ORDER_") && strings.HasSuffix(e.Name(), "_DanaLee.json") {
			orderPath = filepath.Join(dir, e.Name())
		}
	}
	if orderPath == "" {
		t.Fatalf("no order file written in %v", entries)
	}

	raw, err := os.ReadFile(orderPath)
	if err != nil {
		t.Fatal(err)
	}
	var saved struct {
		Customer struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"customer"`
		Summary struct {
			TotalItems int     `json:"total_items"`
			Subtotal   float64 `json:"subtotal"`
			Tax        float64 `json:"tax"`
			Total      float64 `json:"total"`
		} `json:"summary"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.Customer.Name != "Dana Lee" || saved.Customer.Address != "12 Elm St" {
		t.Fatalf("saved customer = %+v", saved.Customer)
	}
	if saved.Summary.TotalItems != 2 || saved.Summary.Subtotal != 5.98 || saved.Summary.Tax != 0.48 {
		t.Fatalf("saved summary = %+v", saved.Summary)
	}
	if saved.Status != "confirmed" {
		t.Fatalf("saved status = %q", saved.Status)
	}

	var sawOrderComplete bool
	for _, msg := range sink.Messages() {
		if strings.Contains(string(msg.Payload), `"order_complete"`) {
			sawOrderComplete = true
		}
	}
	if !sawOrderComplete {
		t.Fatal("expected an order_complete emission")
	}

	// The cart resets for the next customer.
	if got := call(t, a, ToolShowCart, nil); got != "Your cart is empty. What would you like to add?" {
		t.Fatalf("cart after order = %q", got)
	}
}

func TestPickupWhenNoAddress(t *testing.T) {
	t.Parallel()

	a, _, dir := newTestAgent(t)

	call(t, a, ToolAddItemToCart, map[string]any{"item_name": "bread"})
	call(t, a, ToolGetCustomerInfo, map[string]any{"name": "Sam"})

	got := call(t, a, ToolCompleteOrder, nil)
	if !strings.Contains(got, "Order for pickup") {
		t.Fatalf("pickup confirmation = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), "_Sam.json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(raw), `"Pickup"`) {
			t.Fatalf("saved order missing pickup marker: %s", raw)
		}
		return
	}
	t.Fatal("no order file written for Sam")
}
