// Package llm defines the language-model collaborator surface: intent
// classification, trade-parameter parsing, company extraction, and article
// summarization. Implementations are selected once at startup; call sites
// never branch on the concrete provider.
package llm

import (
	"context"
	"fmt"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/models"
)

// Intent labels returned by ClassifyIntent.
const (
	IntentPlaceTrade     = "place_trade"
	IntentCancelOrder    = "cancel_order"
	IntentViewOrders     = "view_orders"
	IntentViewPortfolio  = "view_portfolio"
	IntentTransfer       = "transfer"
	IntentKYC            = "kyc"
	IntentHelpFAQ        = "help_faq"
	IntentMarketData     = "market_data"
	IntentMarketResearch = "market_research"
	IntentUnknown        = "unknown"
)

type IntentResult struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// TradeParams holds whatever structured fields could be extracted from one
// user turn. Nil means the user did not mention the field.
type TradeParams struct {
	Action    *string  `json:"action"`
	Symbol    *string  `json:"symbol"`
	Quantity  *float64 `json:"quantity"`
	Price     *float64 `json:"price"`
	OrderType *string  `json:"order_type"`
	Account   *string  `json:"account"`
	OrderID   *string  `json:"order_id"`

	// Side is a legacy alias some providers still emit; Normalize folds it
	// into Action.
	Side *string `json:"side,omitempty"`
}

// Normalize applies the legacy side→action rename.
func (p *TradeParams) Normalize() {
	if p.Action == nil && p.Side != nil {
		p.Action = p.Side
	}
	p.Side = nil
}

type CompanyDetails struct {
	CompanySymbol *string `json:"company_symbol"`
	CompanyName   *string `json:"company_name"`
}

type Client interface {
	// ClassifyIntent labels a fresh user turn. Malformed provider output
	// degrades to IntentUnknown with zero confidence rather than an error.
	ClassifyIntent(ctx context.Context, text string) (IntentResult, error)

	// Parse extracts trade parameters, null-filling anything the provider
	// omitted. Malformed output degrades to all-nil params.
	Parse(ctx context.Context, text string) (TradeParams, error)

	// ExtractCompanyDetails returns a best-effort symbol/name pair for the
	// research flow; both fields may be nil.
	ExtractCompanyDetails(ctx context.Context, text string) (CompanyDetails, error)

	// SummarizeArticles produces a summary grounded strictly in the supplied
	// article text. An empty article list yields a fixed reply without a
	// provider call.
	SummarizeArticles(ctx context.Context, articles []models.Article, queryHint string) (string, error)
}

// New selects the provider configured for this process.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return NewOpenAIClient(ctx, cfg)
	case "rules":
		return NewRuleClient(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
