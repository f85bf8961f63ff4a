// Package coffee implements the barista agent: slot-filling a drink
// order and saving it to a per-order file on completion.
package coffee

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
	"github.com/voxdesk/voxdesk/agent/record"
	"github.com/voxdesk/voxdesk/agent/store"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolUpdateDrinkType  = "update_drink_type"
	ToolUpdateSize       = "update_size"
	ToolUpdateMilk       = "update_milk"
	ToolAddExtra         = "add_extra"
	ToolUpdateName       = "update_name"
	ToolCheckOrderStatus = "check_order_status"
	ToolCompleteOrder    = "complete_order"
)

func orderSpecs() []record.FieldSpec {
	return []record.FieldSpec{
		{Name: "drinkType", Label: "drink type", Required: true},
		{Name: "size", Label: "size", Required: true},
		{Name: "milk", Label: "milk preference", Required: true},
		{Name: "extras", Label: "extras", List: true},
		{Name: "name", Label: "name", Required: true},
	}
}

type Agent struct {
	order     *record.Record
	emitter   *update.Emitter
	ordersDir string
	fallback  contractx.Executor
	logger    zerolog.Logger
}

func New(emitter *update.Emitter, ordersDir string) *Agent {
	return &Agent{
		order:     record.New(orderSpecs()),
		emitter:   emitter,
		ordersDir: ordersDir,
		fallback:  toolx.DefaultExecutor(contractx.AgentTypeCoffee),
		logger:    logx.Component("coffee"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolUpdateDrinkType,
			Desc: "Update the customer's drink choice.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"drink_type": {Type: schema.String, Desc: "The type of coffee drink (e.g., latte, cappuccino, americano, mocha)", Required: true},
			}),
		},
		{
			Name: ToolUpdateSize,
			Desc: "Update the size of the drink.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"size": {Type: schema.String, Desc: "The size of the drink (small, medium, large)", Required: true},
			}),
		},
		{
			Name: ToolUpdateMilk,
			Desc: "Update the milk preference for the drink.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"milk_type": {Type: schema.String, Desc: "Type of milk (whole milk, 2% milk, oat milk, almond milk, soy milk, coconut milk, no milk)", Required: true},
			}),
		},
		{
			Name: ToolAddExtra,
			Desc: "Add an extra item or modification to the drink.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"extra": {Type: schema.String, Desc: "Extra item like extra shot, syrup, whipped cream, etc.", Required: true},
			}),
		},
		{
			Name: ToolUpdateName,
			Desc: "Update the customer's name for the order.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {Type: schema.String, Desc: "Customer's name", Required: true},
			}),
		},
		{
			Name: ToolCheckOrderStatus,
			Desc: "Check what information is still needed to complete the order.",
		},
		{
			Name: ToolCompleteOrder,
			Desc: "Complete and save the order when all information is collected.",
		},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolUpdateDrinkType:
		drink := toolx.StringArg(args, "drink_type")
		a.order.Set("drinkType", record.Normalize(drink))
		a.emitOrder(ctx)
		return reply(tool, fmt.Sprintf("Got it! One %s.", drink)), nil

	case ToolUpdateSize:
		size := toolx.StringArg(args, "size")
		a.order.Set("size", record.Normalize(size))
		a.emitOrder(ctx)
		return reply(tool, fmt.Sprintf("Perfect! %s size.", capitalize(size))), nil

	case ToolUpdateMilk:
		milk := toolx.StringArg(args, "milk_type")
		a.order.Set("milk", record.Normalize(milk))
		a.emitOrder(ctx)
		return reply(tool, fmt.Sprintf("Noted! %s.", capitalize(milk))), nil

	case ToolAddExtra:
		extra := toolx.StringArg(args, "extra")
		a.order.Append("extras", record.Normalize(extra))
		a.emitOrder(ctx)
		return reply(tool, fmt.Sprintf("Added %s to your order!", extra)), nil

	case ToolUpdateName:
		name := toolx.StringArg(args, "name")
		a.order.Set("name", record.TitleCase(name))
		a.emitOrder(ctx)
		return reply(tool, fmt.Sprintf("Thanks %s!", name)), nil

	case ToolCheckOrderStatus:
		missing := a.order.Missing()
		if len(missing) == 0 {
			return reply(tool, "Your order is complete! Let me process that for you."), nil
		}
		return reply(tool, fmt.Sprintf("I still need: %s", strings.Join(missing, ", "))), nil

	case ToolCompleteOrder:
		return a.completeOrder(ctx)

	default:
		return a.fallback(ctx, tool, args)
	}
}

func (a *Agent) completeOrder(ctx context.Context) (contractx.ToolResult, error) {
	if !a.order.Complete() {
		missing := a.order.Missing()
		return reply(ToolCompleteOrder, fmt.Sprintf("I still need to get your %s before I can complete the order.", strings.Join(missing, ", "))), nil
	}

	now := time.Now()
	stamp := now.Format("20060102_150405")
	name, _ := a.order.Get("name")

	orderData := a.order.Snapshot()
	orderData["timestamp"] = now.Format(time.RFC3339)
	orderData["order_id"] = "ORD-" + stamp

	filename := filepath.Join(a.ordersDir, fmt.Sprintf("order_%s_%s.json", stamp, strings.ReplaceAll(name, " ", "_")))
	if err := store.WriteDocument(filename, orderData); err != nil {
		a.logger.Error().Err(err).Str("path", filename).Msg("save order")
		return reply(ToolCompleteOrder, "I'm sorry, there was an issue processing your order. Please try again."), nil
	}
	a.logger.Info().Str("path", filename).Msg("order saved")

	a.emitter.Emit(ctx, "order_complete", orderData)

	drink, _ := a.order.Get("drinkType")
	size, _ := a.order.Get("size")
	milk, _ := a.order.Get("milk")
	extrasText := ""
	if extras := a.order.List("extras"); len(extras) > 0 {
		extrasText = " with " + strings.Join(extras, ", ")
	}
	summary := fmt.Sprintf("Perfect! I've got your order: %s %s with %s%s for %s. Your order has been saved and we'll have it ready shortly!",
		size, drink, milk, extrasText, name)

	a.order.Reset()
	a.emitOrder(ctx)

	return reply(ToolCompleteOrder, summary), nil
}

func (a *Agent) emitOrder(ctx context.Context) {
	a.emitter.Emit(ctx, "order_update", a.order.Snapshot())
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
