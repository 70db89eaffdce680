package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/models"
)

func TestViewOrdersEmpty(t *testing.T) {
	env := newTestEnv()
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentViewOrders, Confidence: 0.9}}

	got := env.turn("show my orders")
	assert.Equal(t, "You have no open orders.", got)
}

func TestViewOrdersListsEveryOrder(t *testing.T) {
	env := newTestEnv()
	for i := 0; i < 7; i++ {
		env.broker.orders = append(env.broker.orders, models.Order{
			ID: fmt.Sprintf("ord-%d", i), Symbol: "AAPL", Side: "buy",
			Qty: "1", Type: "market", Status: "open",
		})
	}
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentViewOrders, Confidence: 0.9}}

	got := env.turn("open orders?")
	assert.Contains(t, got, "### Open Orders (7)")
	assert.Contains(t, got, "1. **BUY 1 AAPL**")
	assert.Contains(t, got, "7. **BUY 1 AAPL**")
	assert.NotContains(t, got, "more")
}

func TestViewOrdersShowsLimitPrice(t *testing.T) {
	env := newTestEnv()
	env.broker.orders = []models.Order{
		{ID: "ord-1", Symbol: "TSLA", Side: "sell", Qty: "4", Type: "limit", LimitPrice: "205.00", Status: "open"},
	}
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentViewOrders, Confidence: 0.9}}

	got := env.turn("orders")
	assert.Contains(t, got, "**SELL 4 TSLA** — limit order @ $205.00 [open] `ord-1`")
}

func TestViewOrdersShowsSubmissionAndFill(t *testing.T) {
	env := newTestEnv()
	env.broker.orders = []models.Order{
		{ID: "ord-1", Symbol: "AAPL", Side: "buy", Qty: "10", Type: "market", Status: "partially_filled",
			SubmittedAt: "2026-02-27T14:05:00Z", FilledQty: "4"},
		{ID: "ord-2", Symbol: "MSFT", Side: "buy", Qty: "2", Type: "market", Status: "open",
			SubmittedAt: "2026-02-27T14:06:00Z", FilledQty: "0"},
	}
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentViewOrders, Confidence: 0.9}}

	got := env.turn("orders")
	assert.Contains(t, got, "submitted 2026-02-27T14:05:00Z, filled 4")
	assert.Contains(t, got, "submitted 2026-02-27T14:06:00Z")
	assert.NotContains(t, got, "filled 0")
}

func TestViewPortfolio(t *testing.T) {
	env := newTestEnv()
	env.broker.positions = []models.Position{
		{Symbol: "AAPL", Qty: "10", MarketValue: "1895.00", AvgEntryPrice: "181.90", UnrealizedPL: "76.00", UnrealizedPLPC: "0.042"},
		{Symbol: "TSLA", Qty: "5", MarketValue: "2102.50", AvgEntryPrice: "430.50", UnrealizedPL: "-50.00", UnrealizedPLPC: "-0.023"},
	}
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentViewPortfolio, Confidence: 0.9}}

	got := env.turn("how's my portfolio doing")
	assert.Contains(t, got, "### Portfolio Overview")
	assert.Contains(t, got, "- **Positions:** 2")
	assert.Contains(t, got, "- **Total Market Value:** $3,997.50")
	assert.Contains(t, got, "- **Total Unrealized P/L:** $26.00")

	// Sorted by market value, largest first, ratio scaled to percent.
	assert.Contains(t, got, "1. **TSLA** — 5 shares, $2,102.50, avg entry $430.50, P/L -$50.00 (-2.30%)")
	assert.Contains(t, got, "2. **AAPL** — 10 shares, $1,895.00, avg entry $181.90, P/L $76.00 (+4.20%)")
}

func TestViewPortfolioEmpty(t *testing.T) {
	env := newTestEnv()
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentViewPortfolio, Confidence: 0.9}}

	got := env.turn("portfolio")
	assert.Equal(t, "Your portfolio is empty — no open positions.", got)
}
