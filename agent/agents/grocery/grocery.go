// Package grocery implements the FreshMart ordering agent: catalog
// search, recipe expansion, cart management, and order checkout saved
// to a per-order file.
package grocery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	cartx "github.com/voxdesk/voxdesk/agent/cart"
	"github.com/voxdesk/voxdesk/agent/catalog"
	contractx "github.com/voxdesk/voxdesk/agent/contract"
	"github.com/voxdesk/voxdesk/agent/store"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolSearchProducts       = "search_products"
	ToolAddItemToCart        = "add_item_to_cart"
	ToolAddRecipeIngredients = "add_recipe_ingredients"
	ToolShowCart             = "show_cart"
	ToolRemoveItemFromCart   = "remove_item_from_cart"
	ToolUpdateItemQuantity   = "update_item_quantity"
	ToolGetCustomerInfo      = "get_customer_info"
	ToolCompleteOrder        = "complete_order"
)

type Agent struct {
	cart            *cartx.Cart
	catalog         *catalog.Grocery
	customerName    string
	customerAddress string
	orderComplete   bool
	emitter         *update.Emitter
	ordersDir       string
	fallback        contractx.Executor
	logger          zerolog.Logger
}

func New(emitter *update.Emitter, groceries *catalog.Grocery, ordersDir string) *Agent {
	return &Agent{
		cart:      cartx.New(),
		catalog:   groceries,
		emitter:   emitter,
		ordersDir: ordersDir,
		fallback:  toolx.DefaultExecutor(contractx.AgentTypeGrocery),
		logger:    logx.Component("grocery"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSearchProducts,
			Desc: "Search for food and grocery products.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "What to search for (e.g., \"bread\", \"snacks\", \"organic\", \"pasta\")", Required: true},
			}),
		},
		{
			Name: ToolAddItemToCart,
			Desc: "Add a specific item to the cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name": {Type: schema.String, Desc: "Name of the item to add", Required: true},
				"quantity":  {Type: schema.Integer, Desc: "How many to add (default: 1)"},
				"notes":     {Type: schema.String, Desc: "Any special notes (e.g., \"large size\", \"whole wheat\")"},
			}),
		},
		{
			Name: ToolAddRecipeIngredients,
			Desc: "Add ingredients for a specific recipe or dish.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"recipe_or_dish": {Type: schema.String, Desc: "The recipe or dish name (e.g., \"peanut butter sandwich\", \"pasta for two\", \"breakfast\")", Required: true},
			}),
		},
		{
			Name: ToolShowCart,
			Desc: "Show the current contents of the shopping cart.",
		},
		{
			Name: ToolRemoveItemFromCart,
			Desc: "Remove an item from the cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name": {Type: schema.String, Desc: "Name of the item to remove", Required: true},
			}),
		},
		{
			Name: ToolUpdateItemQuantity,
			Desc: "Update the quantity of an item in the cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name":    {Type: schema.String, Desc: "Name of the item to update", Required: true},
				"new_quantity": {Type: schema.Integer, Desc: "New quantity (use 0 to remove)", Required: true},
			}),
		},
		{
			Name: ToolGetCustomerInfo,
			Desc: "Collect customer information for the order.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":    {Type: schema.String, Desc: "Customer's name", Required: true},
				"address": {Type: schema.String, Desc: "Customer's delivery address (optional)"},
			}),
		},
		{
			Name: ToolCompleteOrder,
			Desc: "Complete the order and save it to a JSON file.",
		},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolSearchProducts:
		return a.searchProducts(toolx.StringArg(args, "query")), nil
	case ToolAddItemToCart:
		return a.addItem(ctx, toolx.StringArg(args, "item_name"), toolx.IntArg(args, "quantity", 1), toolx.StringArg(args, "notes")), nil
	case ToolAddRecipeIngredients:
		return a.addRecipe(ctx, toolx.StringArg(args, "recipe_or_dish")), nil
	case ToolShowCart:
		return a.showCart(), nil
	case ToolRemoveItemFromCart:
		return a.removeItem(ctx, toolx.StringArg(args, "item_name")), nil
	case ToolUpdateItemQuantity:
		return a.updateQuantity(ctx, toolx.StringArg(args, "item_name"), toolx.IntArg(args, "new_quantity", 0)), nil
	case ToolGetCustomerInfo:
		return a.customerInfo(ctx, toolx.StringArg(args, "name"), toolx.StringArg(args, "address")), nil
	case ToolCompleteOrder:
		return a.completeOrder(ctx), nil
	default:
		return a.fallback(ctx, tool, args)
	}
}

func (a *Agent) searchProducts(query string) contractx.ToolResult {
	matches := a.catalog.Search(query)

	if len(matches) == 0 {
		return reply(ToolSearchProducts, fmt.Sprintf("I couldn't find any items matching '%s'. Try searching for categories like 'groceries', 'snacks', or 'prepared food', or specific items like 'bread', 'milk', or 'pizza'.", query))
	}

	if len(matches) == 1 {
		item := matches[0]
		return reply(ToolSearchProducts, fmt.Sprintf("I found %s by %s for $%.2f (%s). Would you like to add this to your cart?", item.Name, item.Brand, item.Price, item.Size))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d items for '%s':\n", len(matches), query)
	for i, item := range matches {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s by %s - $%.2f (%s)\n", i+1, item.Name, item.Brand, item.Price, item.Size)
	}
	if len(matches) > 5 {
		fmt.Fprintf(&b, "...and %d more items.", len(matches)-5)
	}
	b.WriteString("\nWhich one would you like to add to your cart?")
	return reply(ToolSearchProducts, b.String())
}

func (a *Agent) addItem(ctx context.Context, itemName string, quantity int, notes string) contractx.ToolResult {
	matches := a.catalog.Search(itemName)

	if len(matches) == 0 {
		return reply(ToolAddItemToCart, fmt.Sprintf("I couldn't find '%s' in our catalog. Try searching first to see what's available.", itemName))
	}

	if len(matches) > 1 {
		var b strings.Builder
		fmt.Fprintf(&b, "I found multiple items for '%s':\n", itemName)
		for i, item := range matches {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s by %s - $%.2f\n", i+1, item.Name, item.Brand, item.Price)
		}
		b.WriteString("Which one did you want?")
		return reply(ToolAddItemToCart, b.String())
	}

	item := matches[0]
	if quantity <= 0 {
		quantity = 1
	}
	a.cart.Add(cartx.LineItem{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: quantity, Notes: notes})
	a.emitCart(ctx)

	subtotal := item.Price * float64(quantity)
	notesText := ""
	if notes != "" {
		notesText = fmt.Sprintf(" (%s)", notes)
	}
	a.logger.Info().Int("quantity", quantity).Str("item", item.Name).Float64("subtotal", subtotal).Msg("added to cart")

	return reply(ToolAddItemToCart, fmt.Sprintf("Added %dx %s by %s%s to your cart for $%.2f. Your cart total is now $%.2f.",
		quantity, item.Name, item.Brand, notesText, subtotal, a.cart.Subtotal()))
}

func (a *Agent) addRecipe(ctx context.Context, dish string) contractx.ToolResult {
	ingredients := a.catalog.RecipeIngredients(dish)
	if len(ingredients) == 0 {
		if keys := a.catalog.SearchRecipes(dish); len(keys) > 0 {
			ingredients = a.catalog.RecipeIngredients(keys[0])
		}
	}

	if len(ingredients) == 0 {
		return reply(ToolAddRecipeIngredients, fmt.Sprintf("I don't have a specific recipe for '%s'. Try asking for specific ingredients like 'bread and peanut butter' or search for individual items.", dish))
	}

	var names []string
	var totalAdded float64
	for _, item := range ingredients {
		a.cart.Add(cartx.LineItem{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: 1})
		names = append(names, item.Name)
		totalAdded += item.Price
	}
	a.emitCart(ctx)

	return reply(ToolAddRecipeIngredients, fmt.Sprintf("I've added all the ingredients for %s to your cart: %s. That's $%.2f added to your cart. Your total is now $%.2f.",
		dish, strings.Join(names, ", "), totalAdded, a.cart.Subtotal()))
}

func (a *Agent) showCart() contractx.ToolResult {
	items := a.cart.Items()
	if len(items) == 0 {
		return reply(ToolShowCart, "Your cart is empty. What would you like to add?")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what's in your cart (%d items):\n\n", a.cart.ItemCount())
	for _, li := range items {
		notesText := ""
		if li.Notes != "" {
			notesText = fmt.Sprintf(" (%s)", li.Notes)
		}
		fmt.Fprintf(&b, "• %dx %s%s - $%.2f\n", li.Quantity, li.Name, notesText, li.LineTotal())
	}
	fmt.Fprintf(&b, "\nTotal: $%.2f", a.cart.Subtotal())
	return reply(ToolShowCart, b.String())
}

func (a *Agent) findInCart(itemName string) (cartx.LineItem, bool) {
	needle := strings.ToLower(itemName)
	for _, li := range a.cart.Items() {
		if strings.Contains(strings.ToLower(li.Name), needle) {
			return li, true
		}
	}
	return cartx.LineItem{}, false
}

func (a *Agent) removeItem(ctx context.Context, itemName string) contractx.ToolResult {
	target, ok := a.findInCart(itemName)
	if !ok {
		var names []string
		for _, li := range a.cart.Items() {
			names = append(names, li.Name)
		}
		return reply(ToolRemoveItemFromCart, fmt.Sprintf("I couldn't find '%s' in your cart. Your cart has: %s", itemName, strings.Join(names, ", ")))
	}

	a.cart.Remove(target.ID)
	a.emitCart(ctx)
	return reply(ToolRemoveItemFromCart, fmt.Sprintf("Removed %s from your cart. Your new total is $%.2f.", target.Name, a.cart.Subtotal()))
}

func (a *Agent) updateQuantity(ctx context.Context, itemName string, newQuantity int) contractx.ToolResult {
	target, ok := a.findInCart(itemName)
	if !ok {
		return reply(ToolUpdateItemQuantity, fmt.Sprintf("I couldn't find '%s' in your cart.", itemName))
	}

	if newQuantity <= 0 {
		a.cart.Remove(target.ID)
		a.emitCart(ctx)
		return reply(ToolUpdateItemQuantity, fmt.Sprintf("Removed %s from your cart. Your new total is $%.2f.", target.Name, a.cart.Subtotal()))
	}

	oldQuantity := target.Quantity
	a.cart.SetQuantity(target.ID, newQuantity)
	a.emitCart(ctx)
	return reply(ToolUpdateItemQuantity, fmt.Sprintf("Updated %s quantity from %d to %d. Your new total is $%.2f.", target.Name, oldQuantity, newQuantity, a.cart.Subtotal()))
}

func (a *Agent) customerInfo(ctx context.Context, name, address string) contractx.ToolResult {
	a.customerName = name
	if address != "" {
		a.customerAddress = address
	}
	a.emitCart(ctx)

	if address != "" {
		return reply(ToolGetCustomerInfo, fmt.Sprintf("Got it! Order for %s, delivering to %s.", name, address))
	}
	return reply(ToolGetCustomerInfo, fmt.Sprintf("Thanks %s! If you need delivery, just let me know your address.", name))
}

func (a *Agent) completeOrder(ctx context.Context) contractx.ToolResult {
	if a.cart.Empty() {
		return reply(ToolCompleteOrder, "Your cart is empty! Add some items before placing your order.")
	}
	if a.customerName == "" {
		return reply(ToolCompleteOrder, "I need your name to complete the order. What's your name?")
	}

	now := time.Now()
	orderID := fmt.Sprintf("ORDER_%s_%s", now.Format("20060102_150405"), strings.ReplaceAll(a.customerName, " ", ""))
	itemCount := a.cart.ItemCount()
	order := a.cart.Checkout(orderID)

	address := a.customerAddress
	if address == "" {
		address = "Pickup"
	}

	orderData := map[string]any{
		"order_id":  order.OrderID,
		"timestamp": order.Timestamp,
		"date":      now.Format("2006-01-02"),
		"time":      now.Format("15:04:05"),
		"customer": map[string]any{
			"name":    a.customerName,
			"address": address,
		},
		"items": order.Items,
		"summary": map[string]any{
			"total_items": itemCount,
			"subtotal":    order.Subtotal,
			"tax":         order.Tax,
			"total":       order.Total,
		},
		"status": order.Status,
	}

	path := filepath.Join(a.ordersDir, orderID+".json")
	if err := store.WriteDocument(path, orderData); err != nil {
		a.logger.Error().Err(err).Str("path", path).Msg("save order")
		return reply(ToolCompleteOrder, fmt.Sprintf("I've confirmed your order for %s, but there was an issue saving it. Don't worry - we have all your details and will process it manually!", a.customerName))
	}
	a.logger.Info().Str("path", path).Msg("order saved")

	a.emitter.Emit(ctx, "order_complete", orderData)

	deliveryText := "for pickup"
	if a.customerAddress != "" {
		deliveryText = "for delivery to " + a.customerAddress
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Perfect! Your order has been placed and saved as %s.\n\n", orderID)
	fmt.Fprintf(&b, "Order Summary for %s:\n", a.customerName)
	fmt.Fprintf(&b, "• %d items\n", itemCount)
	fmt.Fprintf(&b, "• Subtotal: $%.2f\n", order.Subtotal)
	fmt.Fprintf(&b, "• Tax: $%.2f\n", order.Tax)
	fmt.Fprintf(&b, "• Total: $%.2f\n\n", order.Total)
	fmt.Fprintf(&b, "Order %s - we'll have it ready soon! Is there anything else I can help you with?", deliveryText)

	a.orderComplete = true
	a.emitCart(ctx)

	// Fresh cart for the next order.
	a.cart.Clear()
	a.customerName = ""
	a.customerAddress = ""
	a.orderComplete = false

	return reply(ToolCompleteOrder, b.String())
}

func (a *Agent) emitCart(ctx context.Context) {
	items := a.cart.Items()
	lines := make([]map[string]any, 0, len(items))
	for _, li := range items {
		lines = append(lines, map[string]any{
			"id":       li.ID,
			"name":     li.Name,
			"price":    li.Price,
			"quantity": li.Quantity,
			"notes":    li.Notes,
			"subtotal": li.LineTotal(),
		})
	}
	a.emitter.Emit(ctx, "cart_update", map[string]any{
		"items":            lines,
		"customer_name":    nilIfEmpty(a.customerName),
		"customer_address": nilIfEmpty(a.customerAddress),
		"total":            a.cart.Subtotal(),
		"item_count":       a.cart.ItemCount(),
		"order_complete":   a.orderComplete,
	})
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
