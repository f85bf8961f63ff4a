// Package commerce implements Sam, the voice shopping assistant over
// the merchandise catalog. Orders are priced in INR and persisted one
// file per order.
package commerce

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
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
	ToolSearchCatalog     = "search_catalog"
	ToolGetProductDetails = "get_product_details"
	ToolAddToCart         = "add_to_cart"
	ToolViewCart          = "view_cart"
	ToolPlaceOrder        = "place_order"
	ToolGetLastOrder      = "get_last_order"
)

// cartLine is one add_to_cart call. Lines are never merged; adding the
// same product twice keeps two lines, and the cart count is the line
// count rather than the quantity sum.
type cartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Subtotal  float64 `json:"subtotal"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Size      string  `json:"size,omitempty"`
	Subtotal  float64 `json:"subtotal"`
}

type Order struct {
	ID        string            `json:"id"`
	Items     []OrderItem       `json:"items"`
	Total     float64           `json:"total"`
	Currency  string            `json:"currency"`
	CreatedAt string            `json:"created_at"`
	Status    string            `json:"status"`
	Customer  map[string]string `json:"customer"`
}

type Agent struct {
	catalog   *catalog.Products
	cart      []cartLine
	lastShown []catalog.Product
	orders    []Order
	emitter   *update.Emitter
	ordersDir string
	fallback  contractx.Executor
	logger    zerolog.Logger
}

func New(emitter *update.Emitter, products *catalog.Products, ordersDir string) *Agent {
	return &Agent{
		catalog:   products,
		emitter:   emitter,
		ordersDir: ordersDir,
		fallback:  toolx.DefaultExecutor(contractx.AgentTypeCommerce),
		logger:    logx.Component("commerce"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSearchCatalog,
			Desc: "Search the product catalog with filters.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"search_term": {Type: schema.String, Desc: "Search in product names and descriptions"},
				"category":    {Type: schema.String, Desc: "Filter by category (mug, clothing, stationery, bags, accessories)"},
				"max_price":   {Type: schema.Integer, Desc: "Maximum price in INR (0 for no limit)"},
				"color":       {Type: schema.String, Desc: "Filter by color"},
			}),
		},
		{
			Name: ToolGetProductDetails,
			Desc: "Get detailed information about a specific product.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_reference": {Type: schema.String, Desc: "Product name, number from list, or product ID", Required: true},
			}),
		},
		{
			Name: ToolAddToCart,
			Desc: "Add a product to the shopping cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_reference": {Type: schema.String, Desc: "Product name, number from list, or product ID", Required: true},
				"quantity":          {Type: schema.Integer, Desc: "How many to add (default: 1)"},
				"size":              {Type: schema.String, Desc: "Size for clothing items (S, M, L, XL)"},
			}),
		},
		{
			Name: ToolViewCart,
			Desc: "View the current shopping cart.",
		},
		{
			Name: ToolPlaceOrder,
			Desc: "Place the order and complete the purchase.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"customer_name":    {Type: schema.String, Desc: "Customer's name"},
				"customer_address": {Type: schema.String, Desc: "Delivery address"},
			}),
		},
		{
			Name: ToolGetLastOrder,
			Desc: "Get information about the most recent order.",
		},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolSearchCatalog:
		filter := catalog.ProductFilter{
			Search:   toolx.StringArg(args, "search_term"),
			Category: toolx.StringArg(args, "category"),
			MaxPrice: toolx.FloatArg(args, "max_price", 0),
			Color:    toolx.StringArg(args, "color"),
		}
		return a.searchCatalog(filter), nil
	case ToolGetProductDetails:
		return a.productDetails(toolx.StringArg(args, "product_reference")), nil
	case ToolAddToCart:
		return a.addToCart(ctx, toolx.StringArg(args, "product_reference"), toolx.IntArg(args, "quantity", 1), toolx.StringArg(args, "size")), nil
	case ToolViewCart:
		return a.viewCart(), nil
	case ToolPlaceOrder:
		return a.placeOrder(ctx, toolx.StringArg(args, "customer_name"), toolx.StringArg(args, "customer_address")), nil
	case ToolGetLastOrder:
		return a.lastOrder(), nil
	default:
		return a.fallback(ctx, tool, args)
	}
}

func (a *Agent) searchCatalog(filter catalog.ProductFilter) contractx.ToolResult {
	products := a.catalog.List(filter)
	filtered := filter != (catalog.ProductFilter{})

	if len(products) == 0 {
		return reply(ToolSearchCatalog, "I couldn't find any products matching your criteria. Try browsing our categories: mugs, clothing, stationery, bags, or accessories.")
	}

	if len(products) > 5 {
		a.lastShown = products[:5]
	} else {
		a.lastShown = products
	}

	if len(products) == 1 {
		p := products[0]
		return reply(ToolSearchCatalog, fmt.Sprintf("I found the %s for ₹%s. %s. %s. Would you like to add this to your cart?",
			p.Name, inr(p.Price), p.Description, attrSummary(p.Attributes)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d products", len(products))
	if filtered {
		b.WriteString(" matching your search")
	}
	b.WriteString(":\n\n")
	for i, p := range a.lastShown {
		colorText := ""
		if p.Attributes.Color != "" {
			colorText = fmt.Sprintf(" (%s)", p.Attributes.Color)
		}
		fmt.Fprintf(&b, "%d. %s%s - ₹%s\n", i+1, p.Name, colorText, inr(p.Price))
	}
	if len(products) > 5 {
		fmt.Fprintf(&b, "\n...and %d more items.", len(products)-5)
	}
	b.WriteString("\n\nWhich one interests you?")
	return reply(ToolSearchCatalog, b.String())
}

// resolveReference turns "first one", "2", a product id, or a partial
// name into a catalog product, preferring the most recently listed set.
func (a *Agent) resolveReference(ref string) (catalog.Product, bool) {
	lower := strings.ToLower(ref)
	idx := -1
	switch {
	case strings.Contains(lower, "first") || ref == "1":
		idx = 0
	case strings.Contains(lower, "second") || ref == "2":
		idx = 1
	case strings.Contains(lower, "third") || ref == "3":
		idx = 2
	default:
		if n, err := strconv.Atoi(ref); err == nil {
			idx = n - 1
		}
	}
	if idx >= 0 && idx < len(a.lastShown) {
		return a.lastShown[idx], true
	}

	if p, ok := a.catalog.ByID(ref); ok {
		return p, true
	}
	if matches := a.catalog.List(catalog.ProductFilter{Search: ref}); len(matches) > 0 {
		return matches[0], true
	}
	return catalog.Product{}, false
}

func (a *Agent) productDetails(ref string) contractx.ToolResult {
	p, ok := a.resolveReference(ref)
	if !ok {
		return reply(ToolGetProductDetails, "I couldn't find that product. Could you be more specific or search again?")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - ₹%s\n\n%s\n\nDetails:\n", p.Name, inr(p.Price), p.Description)
	if p.Attributes.Color != "" {
		fmt.Fprintf(&b, "• Color: %s\n", p.Attributes.Color)
	}
	if p.Attributes.Material != "" {
		fmt.Fprintf(&b, "• Material: %s\n", p.Attributes.Material)
	}
	if len(p.Attributes.Sizes) > 0 {
		fmt.Fprintf(&b, "• Available sizes: %s\n", strings.Join(p.Attributes.Sizes, ", "))
	}
	return reply(ToolGetProductDetails, b.String())
}

func (a *Agent) addToCart(ctx context.Context, ref string, quantity int, size string) contractx.ToolResult {
	p, ok := a.resolveReference(ref)
	if !ok {
		return reply(ToolAddToCart, "I couldn't find that product. Could you search for it first?")
	}

	if strings.EqualFold(p.Category, "clothing") && size == "" && len(p.Attributes.Sizes) > 0 {
		return reply(ToolAddToCart, fmt.Sprintf("What size would you like for the %s? Available sizes: %s", p.Name, strings.Join(p.Attributes.Sizes, ", ")))
	}

	if quantity <= 0 {
		quantity = 1
	}
	line := cartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Size:      size,
		Subtotal:  p.Price * float64(quantity),
	}
	a.cart = append(a.cart, line)
	a.emitCart(ctx)

	sizeText := ""
	if size != "" {
		sizeText = " in size " + size
	}
	a.logger.Info().Int("quantity", quantity).Str("product", p.Name).Str("size", size).Msg("added to cart")

	return reply(ToolAddToCart, fmt.Sprintf("Added %dx %s%s to your cart for ₹%s. Your cart total is now ₹%s.",
		quantity, p.Name, sizeText, inr(line.Subtotal), inr(a.cartTotal())))
}

func (a *Agent) viewCart() contractx.ToolResult {
	if len(a.cart) == 0 {
		return reply(ToolViewCart, "Your cart is empty. What would you like to shop for?")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your cart (%d items):\n\n", len(a.cart))
	for _, line := range a.cart {
		fmt.Fprintf(&b, "• %dx %s%s - ₹%s\n", line.Quantity, line.Name, sizeSuffix(line.Size), inr(line.Subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%s", inr(a.cartTotal()))
	return reply(ToolViewCart, b.String())
}

func (a *Agent) placeOrder(ctx context.Context, customerName, customerAddress string) contractx.ToolResult {
	if len(a.cart) == 0 {
		return reply(ToolPlaceOrder, "Your cart is empty! Add some items before placing an order.")
	}

	items := make([]OrderItem, 0, len(a.cart))
	var total float64
	for _, line := range a.cart {
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Size:      line.Size,
			Subtotal:  line.Subtotal,
		})
		total += line.Subtotal
	}

	customer := map[string]string{}
	if customerName != "" {
		customer["name"] = customerName
	}
	if customerAddress != "" {
		customer["address"] = customerAddress
	}

	order := Order{
		ID:        cartx.NewOrderID(),
		Items:     items,
		Total:     total,
		Currency:  "INR",
		CreatedAt: time.Now().Format(time.RFC3339),
		Status:    "pending",
		Customer:  customer,
	}
	a.orders = append(a.orders, order)

	path := filepath.Join(a.ordersDir, order.ID+".json")
	if err := store.WriteDocument(path, order); err != nil {
		a.logger.Error().Err(err).Str("path", path).Msg("save order")
	} else {
		a.logger.Info().Str("path", path).Msg("order saved")
	}

	a.emitter.Emit(ctx, "order_complete", order)

	var b strings.Builder
	fmt.Fprintf(&b, "Order placed successfully! Your order ID is %s.\n\nOrder Summary:\n", order.ID)
	for _, line := range a.cart {
		fmt.Fprintf(&b, "• %dx %s%s - ₹%s\n", line.Quantity, line.Name, sizeSuffix(line.Size), inr(line.Subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%s\n", inr(order.Total))
	if customerName != "" {
		fmt.Fprintf(&b, "\nOrder for: %s", customerName)
	}
	if customerAddress != "" {
		fmt.Fprintf(&b, "\nDelivering to: %s", customerAddress)
	}
	b.WriteString("\n\nThank you for shopping with us! Is there anything else I can help you with?")

	a.cart = nil
	a.emitCart(ctx)

	return reply(ToolPlaceOrder, b.String())
}

func (a *Agent) lastOrder() contractx.ToolResult {
	if len(a.orders) == 0 {
		return reply(ToolGetLastOrder, "You haven't placed any orders yet.")
	}
	order := a.orders[len(a.orders)-1]

	var b strings.Builder
	fmt.Fprintf(&b, "Your last order (%s):\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx Product %s%s - ₹%s\n", item.Quantity, item.ProductID, sizeSuffix(item.Size), inr(item.Subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%s\nStatus: %s\nOrdered at: %s", inr(order.Total), order.Status, order.CreatedAt)
	return reply(ToolGetLastOrder, b.String())
}

func (a *Agent) cartTotal() float64 {
	var total float64
	for _, line := range a.cart {
		total += line.Subtotal
	}
	return total
}

func (a *Agent) emitCart(ctx context.Context) {
	items := a.cart
	if items == nil {
		items = []cartLine{}
	}
	a.emitter.Emit(ctx, "cart_update", map[string]any{
		"items": items,
		"count": len(a.cart),
		"total": a.cartTotal(),
	})
}

func attrSummary(attrs catalog.ProductAttributes) string {
	var parts []string
	if attrs.Color != "" {
		parts = append(parts, "color: "+attrs.Color)
	}
	if attrs.Material != "" {
		parts = append(parts, "material: "+attrs.Material)
	}
	return strings.Join(parts, ", ")
}

func sizeSuffix(size string) string {
	if size == "" {
		return ""
	}
	return fmt.Sprintf(" (Size: %s)", size)
}

// inr renders catalog prices without a forced decimal point, so whole
// rupee amounts read as ₹499 rather than ₹499.00.
func inr(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}
