package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantbay/brokerchat/internal/broker"
	"github.com/quantbay/brokerchat/internal/llm"
)

var tradeFieldPrompts = map[string]string{
	"action":     "Would you like to buy or sell?",
	"symbol":     "Which stock symbol would you like to trade?",
	"quantity":   "How many shares?",
	"order_type": "Should this be a market order or a limit order?",
	"account":    "Which account should this trade go through?",
	"price":      "What limit price would you like?",
}

// handleTrade advances the trade slot-filling machine by one turn.
func (o *Orchestrator) handleTrade(ctx context.Context, s *Session, text string) string {
	st := s.Flow
	lower := strings.ToLower(strings.TrimSpace(text))

	if isNegative(lower) {
		s.ClearFlow()
		return "Okay, I've cancelled the trade."
	}
	if st.AwaitingConfirmation && isAffirmative(lower) {
		reply := o.executeTrade(ctx, st.Trade)
		s.ClearFlow()
		return reply
	}

	params, err := o.llm.Parse(ctx, text)
	if err != nil {
		o.log.Warn("trade parse failed, continuing with raw text only", "error", err)
		params = llm.TradeParams{}
	}
	mergeTradeParams(&st.Trade, params)

	// A price with no explicit order type implies a limit order.
	if st.Trade.Price != nil && st.Trade.OrderType == nil {
		lim := "limit"
		st.Trade.OrderType = &lim
	}

	if st.ExpectedField != "" && strings.TrimSpace(text) != "" {
		field := st.ExpectedField
		if err := applyRawField(&st.Trade, field, text); err != nil {
			return tradeFieldPrompts[field]
		}
		st.ExpectedField = ""
	}

	if field := nextMissingField(st.Trade); field != "" {
		st.ExpectedField = field
		st.AwaitingConfirmation = false
		return tradeFieldPrompts[field]
	}

	st.ExpectedField = ""
	st.AwaitingConfirmation = true
	return summarizeTrade(st.Trade)
}

// mergeTradeParams folds parser output into the draft, dropping any value
// that fails coercion rather than aborting the turn.
func mergeTradeParams(d *TradeDraft, p llm.TradeParams) {
	if p.Action != nil {
		if v, err := coerceAction(*p.Action); err == nil {
			d.Action = &v
		}
	}
	if p.Symbol != nil {
		if v, err := coerceSymbol(*p.Symbol); err == nil {
			d.Symbol = &v
		}
	}
	if p.Quantity != nil {
		f := *p.Quantity
		if f > 0 && f == float64(int(f)) {
			n := int(f)
			d.Quantity = &n
		}
	}
	if p.OrderType != nil {
		if v, err := coerceOrderType(*p.OrderType); err == nil {
			d.OrderType = &v
		}
	}
	if p.Account != nil {
		if v, err := coerceAccount(*p.Account); err == nil {
			d.Account = &v
		}
	}
	if p.Price != nil && *p.Price > 0 {
		v := *p.Price
		d.Price = &v
	}
}

func summarizeTrade(d TradeDraft) string {
	var sb strings.Builder
	sb.WriteString("### Trade Summary\n")
	fmt.Fprintf(&sb, "- **Action:** %s\n", titleWord(*d.Action))
	fmt.Fprintf(&sb, "- **Symbol:** %s\n", *d.Symbol)
	fmt.Fprintf(&sb, "- **Quantity:** %d\n", *d.Quantity)
	fmt.Fprintf(&sb, "- **Order Type:** %s\n", titleWord(*d.OrderType))
	fmt.Fprintf(&sb, "- **Account:** %s\n", *d.Account)
	if *d.OrderType == "limit" && d.Price != nil {
		cost := decimal.NewFromFloat(*d.Price).Mul(decimal.NewFromInt(int64(*d.Quantity)))
		fmt.Fprintf(&sb, "- **Price:** $%s\n", formatBare(*d.Price))
		fmt.Fprintf(&sb, "- **Estimated Cost:** %s\n", formatMoneyDecimal(cost))
	}
	sb.WriteString("\nWould you like me to place this trade?\n(Yes / No)")
	return sb.String()
}

// executeTrade submits the completed draft exactly once. Whatever the
// outcome, the caller clears the flow, so a retry starts from scratch.
func (o *Orchestrator) executeTrade(ctx context.Context, d TradeDraft) string {
	account, err := o.primaryAccount(ctx)
	if err != nil {
		o.log.Error("trade placement failed", "stage", "resolve account", "error", err)
		return fmt.Sprintf("Sorry, I couldn't place the trade: %v", err)
	}

	req := broker.OrderRequest{
		Symbol: *d.Symbol,
		Qty:    strconv.Itoa(*d.Quantity),
		Side:   *d.Action,
		Type:   *d.OrderType,
	}
	if *d.OrderType == "limit" && d.Price != nil {
		req.LimitPrice = formatBare(*d.Price)
	}

	order, err := o.broker.PlaceOrder(ctx, account.ID, req)
	if err != nil {
		o.log.Error("trade placement failed", "stage", "place order", "symbol", req.Symbol, "error", err)
		return fmt.Sprintf("Sorry, I couldn't place the trade: %v", err)
	}

	priceLabel := "market price"
	if *d.OrderType == "limit" && d.Price != nil {
		priceLabel = "$" + formatBare(*d.Price)
	}
	o.log.Info("trade placed", "order_id", order.ID, "symbol", order.Symbol, "side", order.Side)

	return fmt.Sprintf("✅ Trade placed: %s %d shares of %s at %s in %s account (%s order). Status: %s",
		titleWord(*d.Action), *d.Quantity, *d.Symbol, priceLabel, *d.Account, titleWord(*d.OrderType), order.Status)
}
