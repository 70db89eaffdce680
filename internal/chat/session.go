// Package chat is the conversational core: a dispatcher that routes each
// user turn to a per-task flow, slot-filling state machines for trades and
// cancellations, and single-shot flows for market data, research, and
// account views.
package chat

import (
	"sync"
	"time"

	"github.com/quantbay/brokerchat/models"
)

// FlowKind names the multi-turn task a session is in the middle of.
type FlowKind string

const (
	FlowPlaceTrade     FlowKind = "place_trade"
	FlowCancelOrder    FlowKind = "cancel_order"
	FlowMarketData     FlowKind = "market_data"
	FlowMarketResearch FlowKind = "market_research"
)

// TradeDraft is the partially collected trade. Nil means not yet provided.
type TradeDraft struct {
	Action    *string
	Symbol    *string
	Quantity  *int
	OrderType *string
	Account   *string
	Price     *float64
}

// CancelDraft tracks an in-progress order cancellation.
type CancelDraft struct {
	Symbol            string
	OrderID           string
	Candidates        []models.Order
	Matched           *models.Order
	AwaitingSelection bool
}

// FlowState is the tagged per-flow variant. Only the fields belonging to
// Flow's variant are ever populated.
type FlowState struct {
	Flow FlowKind

	// ExpectedField, when set, names the single field the previous reply
	// asked for; raw text on the next turn is coerced into it.
	ExpectedField        string
	AwaitingConfirmation bool

	Trade  TradeDraft  // place_trade
	Cancel CancelDraft // cancel_order
	Symbol string      // market_data
}

// NewFlowState rejects unknown flow kinds at construction.
func NewFlowState(kind FlowKind) *FlowState {
	switch kind {
	case FlowPlaceTrade, FlowCancelOrder, FlowMarketData, FlowMarketResearch:
		return &FlowState{Flow: kind}
	}
	return nil
}

// Session is one user's conversation. A session's turns are processed one
// at a time; distinct sessions are independent.
type Session struct {
	mu sync.Mutex

	ID       string
	Messages []models.Message

	Flow     *FlowState
	LLMCalls int

	turnTimes []time.Time

	// LastChart keeps the most recent daily history fetched by the market
	// data flow so the caller can render a chart next to the reply.
	LastChart       []models.Bar
	LastChartSymbol string
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Append records a message at the end of the transcript.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, models.Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// FlowActive reports whether a multi-turn flow should be resumed instead of
// classifying a fresh intent.
func (s *Session) FlowActive() bool {
	return s.Flow != nil
}

// ClearFlow drops any in-progress flow state.
func (s *Session) ClearFlow() {
	s.Flow = nil
}

// allowTurn applies the sliding-window rate limit. Accepted turns are
// recorded; rejected turns are not, so a quiet stretch drains the window.
func (s *Session) allowTurn(now time.Time, maxTurns int, window time.Duration) bool {
	cutoff := now.Add(-window)
	kept := s.turnTimes[:0]
	for _, t := range s.turnTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	s.turnTimes = kept

	if len(s.turnTimes) >= maxTurns {
		return false
	}
	s.turnTimes = append(s.turnTimes, now)
	return true
}
