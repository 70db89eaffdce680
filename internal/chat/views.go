package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantbay/brokerchat/models"
)

const maxListedEntries = 5

// handleViewOrders renders the open-order list. The view is stateless: any
// lingering flow state is dropped so the next turn starts fresh.
func (o *Orchestrator) handleViewOrders(ctx context.Context, s *Session) string {
	s.ClearFlow()

	orders, err := o.openOrders(ctx)
	if err != nil {
		o.log.Error("view orders failed", "error", err)
		return fmt.Sprintf("Sorry, I couldn't retrieve your orders: %v", err)
	}
	if len(orders) == 0 {
		return "You have no open orders."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### Open Orders (%d)\n", len(orders))
	for i, ord := range orders {
		fmt.Fprintf(&sb, "%d. **%s %s %s** — %s order", i+1,
			strings.ToUpper(ord.Side), ord.Qty, ord.Symbol, ord.Type)
		if ord.Type == "limit" && ord.LimitPrice != "" {
			fmt.Fprintf(&sb, " @ $%s", ord.LimitPrice)
		}
		fmt.Fprintf(&sb, " [%s] `%s`\n", ord.Status, ord.ID)

		var details []string
		if ord.SubmittedAt != "" {
			details = append(details, "submitted "+ord.SubmittedAt)
		}
		if filledQty(ord.FilledQty) {
			details = append(details, "filled "+ord.FilledQty)
		}
		if len(details) > 0 {
			fmt.Fprintf(&sb, "   %s\n", strings.Join(details, ", "))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// filledQty reports whether a filled-quantity string is a nonzero amount.
func filledQty(raw string) bool {
	if raw == "" {
		return false
	}
	d, err := decimal.NewFromString(raw)
	return err == nil && !d.IsZero()
}

// handleViewPortfolio renders positions for the primary account with totals,
// sorted by market value, largest first.
func (o *Orchestrator) handleViewPortfolio(ctx context.Context, s *Session) string {
	s.ClearFlow()

	account, err := o.primaryAccount(ctx)
	if err != nil {
		o.log.Error("view portfolio failed", "stage", "resolve account", "error", err)
		return fmt.Sprintf("Sorry, I couldn't retrieve your portfolio: %v", err)
	}

	positions, err := o.broker.ListPositions(ctx, account.ID)
	if err != nil {
		o.log.Error("view portfolio failed", "stage", "list positions", "error", err)
		return fmt.Sprintf("Sorry, I couldn't retrieve your portfolio: %v", err)
	}
	if len(positions) == 0 {
		return "Your portfolio is empty — no open positions."
	}

	type row struct {
		pos   models.Position
		value decimal.Decimal
		entry decimal.Decimal
		pl    decimal.Decimal
		plpc  float64
	}
	rows := make([]row, 0, len(positions))
	totalValue := decimal.Zero
	totalPL := decimal.Zero
	for _, p := range positions {
		r := row{pos: p}
		r.value, _ = decimal.NewFromString(p.MarketValue)
		r.entry, _ = decimal.NewFromString(p.AvgEntryPrice)
		r.pl, _ = decimal.NewFromString(p.UnrealizedPL)
		if f, err := decimal.NewFromString(p.UnrealizedPLPC); err == nil {
			r.plpc, _ = f.Float64()
		}
		totalValue = totalValue.Add(r.value)
		totalPL = totalPL.Add(r.pl)
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].value.GreaterThan(rows[j].value)
	})

	var sb strings.Builder
	sb.WriteString("### Portfolio Overview\n")
	fmt.Fprintf(&sb, "- **Positions:** %d\n", len(rows))
	fmt.Fprintf(&sb, "- **Total Market Value:** %s\n", formatMoneyDecimal(totalValue))
	fmt.Fprintf(&sb, "- **Total Unrealized P/L:** %s\n", formatMoneyDecimal(totalPL))

	sb.WriteString("\n**Top Positions:**\n")
	shown := rows
	if len(shown) > maxListedEntries {
		shown = shown[:maxListedEntries]
	}
	for i, r := range shown {
		fmt.Fprintf(&sb, "%d. **%s** — %s shares, %s, avg entry %s, P/L %s (%s)\n", i+1,
			r.pos.Symbol, r.pos.Qty, formatMoneyDecimal(r.value),
			formatMoneyDecimal(r.entry), formatMoneyDecimal(r.pl), formatRatioPct(r.plpc))
	}
	if rest := len(rows) - len(shown); rest > 0 {
		fmt.Fprintf(&sb, "...and %d more\n", rest)
	}
	return strings.TrimRight(sb.String(), "\n")
}
