package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/models"
)

// handleMarketData resolves a symbol (asking for one if needed), then fetches
// a snapshot plus daily history in a single shot. Success and collaborator
// failure both end the flow; only the missing-symbol prompt keeps it alive.
func (o *Orchestrator) handleMarketData(ctx context.Context, s *Session, text string) string {
	st := s.Flow

	params, err := o.llm.Parse(ctx, text)
	if err != nil {
		o.log.Warn("market data parse failed, continuing with raw text only", "error", err)
		params = llm.TradeParams{}
	}
	if params.Symbol != nil {
		if v, err := coerceSymbol(*params.Symbol); err == nil {
			st.Symbol = v
		}
	}
	if st.Symbol == "" && st.ExpectedField == "symbol" {
		if v, err := coerceSymbol(text); err == nil {
			st.Symbol = v
		}
	}

	if st.Symbol == "" {
		st.ExpectedField = "symbol"
		return "Which stock symbol would you like market data for?"
	}
	symbol := st.Symbol

	snap, err := o.market.Snapshot(ctx, symbol)
	if err != nil {
		o.log.Error("market data fetch failed", "symbol", symbol, "error", err)
		s.ClearFlow()
		return fmt.Sprintf("Sorry, I couldn't retrieve market data for `%s`: %v", symbol, err)
	}

	// History powers the chart beside the reply; losing it is not worth
	// failing the whole request over.
	bars, err := o.market.History(ctx, symbol, o.historyWindow())
	if err != nil {
		o.log.Warn("history fetch failed", "symbol", symbol, "error", err)
	} else {
		s.LastChart = bars
		s.LastChartSymbol = symbol
	}

	s.ClearFlow()
	return summarizeSnapshot(snap)
}

func summarizeSnapshot(snap *models.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### Market Update — %s\n", snap.Symbol)
	fmt.Fprintf(&sb, "- **Current Price:** %s\n", naMoney(snap.CurrentPrice))
	fmt.Fprintf(&sb, "- **Open:** %s\n", naMoney(snap.Open))
	fmt.Fprintf(&sb, "- **High:** %s\n", naMoney(snap.High))
	fmt.Fprintf(&sb, "- **Low:** %s\n", naMoney(snap.Low))
	fmt.Fprintf(&sb, "- **Previous Close:** %s\n", naMoney(snap.PreviousClose))
	fmt.Fprintf(&sb, "- **Volume:** %s\n", naVolume(snap.Volume))
	fmt.Fprintf(&sb, "- **Change:** %s\n", naPct(snap.ChangePct))
	fmt.Fprintf(&sb, "- **Bid:** %s\n", naMoney(snap.Bid))
	fmt.Fprintf(&sb, "- **Ask:** %s", naMoney(snap.Ask))
	if snap.Exchange != "" {
		fmt.Fprintf(&sb, "\n- **Exchange:** %s", snap.Exchange)
	}
	return sb.String()
}

func naMoney(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatMoney(*v)
}

func naVolume(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return formatCount(*v)
}

func naPct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatPct(*v)
}
