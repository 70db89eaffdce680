package chat

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/models"
)

func sampleSnapshot() *models.Snapshot {
	vol := int64(52_436_100)
	return &models.Snapshot{
		Symbol:        "AAPL",
		CurrentPrice:  floatp(189.5),
		Open:          floatp(187.0),
		High:          floatp(190.25),
		Low:           floatp(186.4),
		PreviousClose: floatp(188.1),
		Volume:        &vol,
		ChangePct:     floatp(0.74),
	}
}

func sampleBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Date:  day.AddDate(0, 0, i),
			Close: decimal.NewFromFloat(180 + float64(i)),
		}
	}
	return bars
}

func TestMarketDataFlowRendersSnapshot(t *testing.T) {
	env := newTestEnv()
	env.market.snap = sampleSnapshot()
	env.market.bars = sampleBars(5)
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentMarketData, Confidence: 0.9}}
	env.llm.parses = []llm.TradeParams{{Symbol: strp("AAPL")}}

	got := env.turn("what's AAPL trading at")
	assert.Contains(t, got, "### Market Update — AAPL")
	assert.Contains(t, got, "- **Current Price:** $189.50")
	assert.Contains(t, got, "- **Volume:** 52,436,100")
	assert.Contains(t, got, "- **Change:** +0.74%")

	// Bid and ask were absent from the feed.
	assert.Contains(t, got, "- **Bid:** N/A")
	assert.Contains(t, got, "- **Ask:** N/A")

	assert.False(t, env.sess.FlowActive())
	require.Len(t, env.sess.LastChart, 5)
	assert.Equal(t, "AAPL", env.sess.LastChartSymbol)
}

func TestMarketDataFlowAsksForSymbol(t *testing.T) {
	env := newTestEnv()
	env.market.snap = sampleSnapshot()
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentMarketData, Confidence: 0.9}}

	got := env.turn("show me some market data")
	assert.Equal(t, "Which stock symbol would you like market data for?", got)
	require.True(t, env.sess.FlowActive())

	// Raw text on the follow-up turn becomes the symbol.
	got = env.turn("aapl")
	assert.Contains(t, got, "### Market Update — AAPL")
	assert.False(t, env.sess.FlowActive())
}

func TestMarketDataFlowProviderFailure(t *testing.T) {
	env := newTestEnv()
	env.market.snapErr = assert.AnError
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentMarketData, Confidence: 0.9}}
	env.llm.parses = []llm.TradeParams{{Symbol: strp("AAPL")}}

	got := env.turn("quote AAPL")
	assert.Contains(t, got, "Sorry, I couldn't retrieve market data for `AAPL`")
	assert.False(t, env.sess.FlowActive(), "failure ends the flow")
	assert.Empty(t, env.sess.LastChart)
}

func TestMarketDataFlowHistoryFailureStillReplies(t *testing.T) {
	env := newTestEnv()
	env.market.snap = sampleSnapshot()
	env.market.histErr = assert.AnError
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentMarketData, Confidence: 0.9}}
	env.llm.parses = []llm.TradeParams{{Symbol: strp("AAPL")}}

	got := env.turn("quote AAPL")
	assert.Contains(t, got, "### Market Update — AAPL")
	assert.Empty(t, env.sess.LastChart)
}
