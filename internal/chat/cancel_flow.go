package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/models"
)

const cancelSymbolPrompt = "Which stock is the order for that you'd like to cancel?"

// handleCancel advances the order-cancellation machine by one turn. The
// machine narrows candidates by symbol, asks the user to pick when several
// orders match, re-verifies the pick against live open orders, and cancels
// only after an explicit yes.
func (o *Orchestrator) handleCancel(ctx context.Context, s *Session, text string) string {
	st := s.Flow
	lower := strings.ToLower(strings.TrimSpace(text))

	// The entry turn usually reads "cancel my AAPL order", so abort phrasing
	// only counts once the flow has asked the user a question.
	progressed := st.AwaitingConfirmation || st.Cancel.AwaitingSelection || st.ExpectedField != ""
	if progressed && isNegative(lower) && !st.Cancel.AwaitingSelection {
		s.ClearFlow()
		return "Okay, I've left your orders as they are."
	}
	if st.AwaitingConfirmation {
		if isAffirmative(lower) {
			reply := o.executeCancel(ctx, st.Cancel.Matched)
			s.ClearFlow()
			return reply
		}
		// Neither yes nor no: ask again.
		return confirmCancelPrompt(st.Cancel.Matched)
	}

	if st.Cancel.AwaitingSelection {
		return o.resolveSelection(ctx, s, text)
	}

	params, err := o.llm.Parse(ctx, text)
	if err != nil {
		o.log.Warn("cancel parse failed, continuing with raw text only", "error", err)
		params = llm.TradeParams{}
	}
	if params.OrderID != nil && st.Cancel.OrderID == "" {
		st.Cancel.OrderID = strings.TrimSpace(*params.OrderID)
	}
	if params.Symbol != nil && st.Cancel.Symbol == "" {
		if v, err := coerceSymbol(*params.Symbol); err == nil {
			st.Cancel.Symbol = v
		}
	}
	if st.ExpectedField == "symbol" && st.Cancel.Symbol == "" && strings.TrimSpace(text) != "" {
		if v, err := coerceSymbol(text); err == nil {
			st.Cancel.Symbol = v
		}
	}
	st.ExpectedField = ""

	if st.Cancel.OrderID != "" {
		return o.verifyOrder(ctx, s)
	}
	if st.Cancel.Symbol == "" {
		st.ExpectedField = "symbol"
		return cancelSymbolPrompt
	}

	orders, err := o.openOrders(ctx)
	if err != nil {
		o.log.Error("cancel flow failed", "stage", "list orders", "error", err)
		s.ClearFlow()
		return fmt.Sprintf("Sorry, I couldn't look up your open orders: %v", err)
	}

	var candidates []models.Order
	for _, ord := range orders {
		if strings.EqualFold(ord.Symbol, st.Cancel.Symbol) {
			candidates = append(candidates, ord)
		}
	}

	switch len(candidates) {
	case 0:
		symbol := st.Cancel.Symbol
		st.Cancel.Symbol = ""
		st.ExpectedField = "symbol"
		return fmt.Sprintf("I couldn't find any open orders for %s. Which symbol should I look for instead?", symbol)
	case 1:
		st.Cancel.Matched = &candidates[0]
		st.Cancel.OrderID = candidates[0].ID
		st.AwaitingConfirmation = true
		return confirmCancelPrompt(st.Cancel.Matched)
	default:
		st.Cancel.Candidates = candidates
		st.Cancel.AwaitingSelection = true
		return selectionPrompt(st.Cancel.Symbol, candidates)
	}
}

// resolveSelection interprets the reply to a multi-candidate prompt: a 1-based
// index into the list, or text containing one candidate's order id.
func (o *Orchestrator) resolveSelection(ctx context.Context, s *Session, text string) string {
	st := s.Flow
	reply := strings.TrimSpace(text)
	lower := strings.ToLower(reply)

	if isNegative(lower) && !looksLikeIndex(reply) {
		s.ClearFlow()
		return "Okay, I've left your orders as they are."
	}

	var picked *models.Order
	if n, err := strconv.Atoi(reply); err == nil {
		if n < 1 || n > len(st.Cancel.Candidates) {
			return selectionPrompt(st.Cancel.Symbol, st.Cancel.Candidates)
		}
		picked = &st.Cancel.Candidates[n-1]
	} else {
		for i := range st.Cancel.Candidates {
			id := strings.ToLower(st.Cancel.Candidates[i].ID)
			if lower == id || strings.Contains(lower, id) {
				picked = &st.Cancel.Candidates[i]
				break
			}
		}
	}
	if picked == nil {
		return selectionPrompt(st.Cancel.Symbol, st.Cancel.Candidates)
	}

	st.Cancel.AwaitingSelection = false
	st.Cancel.OrderID = picked.ID
	return o.verifyOrder(ctx, s)
}

func looksLikeIndex(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// verifyOrder re-checks the chosen order id against live open orders before
// asking for confirmation. An order can fill or expire between turns.
func (o *Orchestrator) verifyOrder(ctx context.Context, s *Session) string {
	st := s.Flow

	orders, err := o.openOrders(ctx)
	if err != nil {
		o.log.Error("cancel flow failed", "stage", "verify order", "error", err)
		s.ClearFlow()
		return fmt.Sprintf("Sorry, I couldn't look up your open orders: %v", err)
	}

	for i := range orders {
		if strings.EqualFold(orders[i].ID, st.Cancel.OrderID) {
			st.Cancel.Matched = &orders[i]
			st.Cancel.Candidates = nil
			st.AwaitingConfirmation = true
			return confirmCancelPrompt(st.Cancel.Matched)
		}
	}

	st.Cancel = CancelDraft{}
	st.ExpectedField = "symbol"
	return "I couldn't find that order among your open orders. It may have been filled or already cancelled. " +
		"Which order would you like to cancel instead?"
}

// executeCancel sends the cancellation exactly once.
func (o *Orchestrator) executeCancel(ctx context.Context, ord *models.Order) string {
	account, err := o.primaryAccount(ctx)
	if err != nil {
		o.log.Error("order cancel failed", "stage", "resolve account", "error", err)
		return fmt.Sprintf("Sorry, I couldn't cancel the order: %v", err)
	}

	canceled, err := o.broker.CancelOrder(ctx, account.ID, ord.ID)
	if err != nil {
		o.log.Error("order cancel failed", "stage", "cancel order", "order_id", ord.ID, "error", err)
		return fmt.Sprintf("Sorry, I couldn't cancel the order: %v", err)
	}

	o.log.Info("order cancelled", "order_id", canceled.ID, "symbol", ord.Symbol)
	return fmt.Sprintf("✅ Order `%s` for %s has been cancelled.", canceled.ID, ord.Symbol)
}

func describeOrder(ord models.Order) string {
	label := fmt.Sprintf("%s %s %s (%s",
		strings.ToUpper(ord.Side), ord.Qty, ord.Symbol, ord.Type)
	if ord.Type == "limit" && ord.LimitPrice != "" {
		label += " @ $" + ord.LimitPrice
	}
	label += ")"
	return label
}

func selectionPrompt(symbol string, candidates []models.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d open orders for %s:\n", len(candidates), symbol)
	for i, ord := range candidates {
		fmt.Fprintf(&sb, "%d. `%s` — %s [%s]\n", i+1, ord.ID, describeOrder(ord), ord.Status)
	}
	sb.WriteString("\nWhich one would you like to cancel? Reply with a number or the order ID.")
	return sb.String()
}

func confirmCancelPrompt(ord *models.Order) string {
	var sb strings.Builder
	sb.WriteString("### Cancel Order\n")
	fmt.Fprintf(&sb, "- **Order ID:** `%s`\n", ord.ID)
	fmt.Fprintf(&sb, "- **Side:** %s\n", titleWord(ord.Side))
	fmt.Fprintf(&sb, "- **Quantity:** %s\n", ord.Qty)
	fmt.Fprintf(&sb, "- **Symbol:** %s\n", ord.Symbol)
	fmt.Fprintf(&sb, "- **Type:** %s\n", titleWord(ord.Type))
	if ord.Type == "limit" && ord.LimitPrice != "" {
		fmt.Fprintf(&sb, "- **Limit Price:** $%s\n", ord.LimitPrice)
	}
	fmt.Fprintf(&sb, "- **Status:** %s\n", ord.Status)
	sb.WriteString("\nWould you like me to cancel this order?\n(Yes / No)")
	return sb.String()
}

// openOrders lists the primary account's open orders.
func (o *Orchestrator) openOrders(ctx context.Context) ([]models.Order, error) {
	account, err := o.primaryAccount(ctx)
	if err != nil {
		return nil, err
	}
	return o.broker.ListOrders(ctx, account.ID, "open", 100)
}
