package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/internal/broker"
	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/internal/marketdata"
	"github.com/quantbay/brokerchat/internal/news"
	"github.com/quantbay/brokerchat/models"
)

const (
	replyRateLimited = "You're sending messages too quickly. Please wait a moment and try again."
	replyExhausted   = "This session has reached its assistant limit. Please start a new session to continue."

	// exampleCommands is appended to every reply that turns the user away,
	// so they always leave with something actionable.
	exampleCommands = "You can try something like:\n" +
		"- *Buy 10 shares of AAPL*\n" +
		"- *Sell 5 TSLA at market price*\n" +
		"- *Cancel order for AAPL*\n" +
		"- *Show me my open orders*\n" +
		"- *How is my portfolio doing?*\n" +
		"- *Show me the current price for MSFT*\n" +
		"- *What is the latest news on Tesla*"

	replyTransfer = "To move money in or out of your account, head to Transfers in the app or on the web. " +
		"Deposits usually settle within 1-2 business days. I can't initiate transfers from chat.\n\n" +
		exampleCommands
	replyKYC = "Identity verification is handled in your account settings under Documents. " +
		"Upload a government-issued ID and proof of address, and the review typically completes within one business day.\n\n" +
		exampleCommands
	replyHelpFAQ = "I can help you place or cancel trades, check your open orders and portfolio, " +
		"pull live market data for a symbol, or dig up recent market news.\n\n" +
		exampleCommands
	replyUnknown = "I'm not sure what you'd like to do.\n\n" + exampleCommands
)

// Orchestrator routes each user turn: resume the active flow if one exists,
// otherwise classify a fresh intent and dispatch. All per-session budgets
// are enforced here, before any collaborator is called.
type Orchestrator struct {
	llm    llm.Client
	broker broker.API
	market marketdata.Provider
	news   news.Provider
	log    *slog.Logger

	limitsMu      sync.RWMutex
	maxLLMCalls   int
	maxInputChars int
	rateTurns     int
	rateWindow    time.Duration
	historyDays   int
	newsLimit     int

	now func() time.Time
}

func NewOrchestrator(cfg *config.Config, llmClient llm.Client, brokerAPI broker.API, market marketdata.Provider, newsProvider news.Provider, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		llm:           llmClient,
		broker:        brokerAPI,
		market:        market,
		news:          newsProvider,
		log:           log,
		maxLLMCalls:   cfg.MaxLLMCalls,
		maxInputChars: cfg.MaxInputChars,
		rateTurns:     cfg.RateLimitTurns,
		rateWindow:    time.Duration(cfg.RateWindowSecs) * time.Second,
		historyDays:   cfg.HistoryDays,
		newsLimit:     cfg.NewsLimit,
		now:           time.Now,
	}
}

// UpdateLimits applies the budget fields of a freshly loaded config to a
// running orchestrator. Collaborator clients keep the settings they were
// constructed with; only per-session budgets change live.
func (o *Orchestrator) UpdateLimits(cfg *config.Config) {
	o.limitsMu.Lock()
	defer o.limitsMu.Unlock()
	o.maxLLMCalls = cfg.MaxLLMCalls
	o.maxInputChars = cfg.MaxInputChars
	o.rateTurns = cfg.RateLimitTurns
	o.rateWindow = time.Duration(cfg.RateWindowSecs) * time.Second
	o.historyDays = cfg.HistoryDays
	o.newsLimit = cfg.NewsLimit
}

func (o *Orchestrator) turnLimits() (maxCalls, maxChars, rateTurns int, rateWindow time.Duration) {
	o.limitsMu.RLock()
	defer o.limitsMu.RUnlock()
	return o.maxLLMCalls, o.maxInputChars, o.rateTurns, o.rateWindow
}

func (o *Orchestrator) historyWindow() int {
	o.limitsMu.RLock()
	defer o.limitsMu.RUnlock()
	return o.historyDays
}

func (o *Orchestrator) articleLimit() int {
	o.limitsMu.RLock()
	defer o.limitsMu.RUnlock()
	return o.newsLimit
}

// HandleTurn processes one user message and returns the assistant reply.
// Both sides of the exchange are appended to the session transcript.
func (o *Orchestrator) HandleTurn(ctx context.Context, s *Session, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := o.route(ctx, s, text)

	s.Append(models.RoleUser, text)
	s.Append(models.RoleAssistant, reply)
	return reply
}

func (o *Orchestrator) route(ctx context.Context, s *Session, text string) string {
	maxCalls, maxChars, rateTurns, rateWindow := o.turnLimits()
	if !s.allowTurn(o.now(), rateTurns, rateWindow) {
		return replyRateLimited
	}
	if len(text) > maxChars {
		return fmt.Sprintf("That message is too long. Please keep it under %d characters.", maxChars)
	}
	if s.LLMCalls >= maxCalls {
		return replyExhausted
	}
	s.LLMCalls++

	if s.FlowActive() {
		return o.resumeFlow(ctx, s, text)
	}

	intent, err := o.llm.ClassifyIntent(ctx, text)
	if err != nil {
		o.log.Error("intent classification failed", "error", err)
		return "Sorry, I couldn't work out what you need right now. Please try again."
	}
	o.log.Debug("classified intent", "intent", intent.Intent, "confidence", intent.Confidence)

	switch intent.Intent {
	case llm.IntentPlaceTrade:
		s.Flow = NewFlowState(FlowPlaceTrade)
		return o.handleTrade(ctx, s, text)
	case llm.IntentCancelOrder:
		s.Flow = NewFlowState(FlowCancelOrder)
		return o.handleCancel(ctx, s, text)
	case llm.IntentMarketData:
		s.Flow = NewFlowState(FlowMarketData)
		return o.handleMarketData(ctx, s, text)
	case llm.IntentMarketResearch:
		s.Flow = NewFlowState(FlowMarketResearch)
		return o.handleResearch(ctx, s, text)
	case llm.IntentViewOrders:
		return o.handleViewOrders(ctx, s)
	case llm.IntentViewPortfolio:
		return o.handleViewPortfolio(ctx, s)
	case llm.IntentTransfer:
		return replyTransfer
	case llm.IntentKYC:
		return replyKYC
	case llm.IntentHelpFAQ:
		return replyHelpFAQ
	default:
		return replyUnknown
	}
}

func (o *Orchestrator) resumeFlow(ctx context.Context, s *Session, text string) string {
	switch s.Flow.Flow {
	case FlowPlaceTrade:
		return o.handleTrade(ctx, s, text)
	case FlowCancelOrder:
		return o.handleCancel(ctx, s, text)
	case FlowMarketData:
		return o.handleMarketData(ctx, s, text)
	case FlowMarketResearch:
		return o.handleResearch(ctx, s, text)
	}

	// Unknown flow state should be unreachable; recover by clearing it.
	o.log.Error("unknown flow state", "flow", s.Flow.Flow)
	s.ClearFlow()
	return replyUnknown
}

// primaryAccount resolves the account all account-scoped broker calls use.
func (o *Orchestrator) primaryAccount(ctx context.Context) (*models.Account, error) {
	accounts, err := o.broker.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no brokerage accounts found")
	}
	return &accounts[0], nil
}
