package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/quantbay/brokerchat/models"
)

// RuleClient is the offline fallback provider: keyword matching and light
// regex extraction instead of a model call. Accuracy is best-effort; the
// flows re-prompt for anything it misses.
type RuleClient struct{}

func NewRuleClient() *RuleClient {
	return &RuleClient{}
}

var (
	quantityRe = regexp.MustCompile(`\b(\d+)\s*(?:shares?|units?)?\b`)
	priceRe    = regexp.MustCompile(`(?:\$|at\s+)(\d+(?:\.\d+)?)`)
	symbolRe   = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
	orderIDRe  = regexp.MustCompile(`\b[0-9a-fA-F-]{8,}\b`)
)

func (c *RuleClient) ClassifyIntent(_ context.Context, text string) (IntentResult, error) {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "cancel"):
		return IntentResult{Intent: IntentCancelOrder, Confidence: 0.6}, nil
	case strings.Contains(lower, "buy") || strings.Contains(lower, "sell") || strings.Contains(lower, "purchase"):
		return IntentResult{Intent: IntentPlaceTrade, Confidence: 0.6}, nil
	case strings.Contains(lower, "open order") || strings.Contains(lower, "my orders"):
		return IntentResult{Intent: IntentViewOrders, Confidence: 0.6}, nil
	case strings.Contains(lower, "portfolio") || strings.Contains(lower, "performance") || strings.Contains(lower, "holdings"):
		return IntentResult{Intent: IntentViewPortfolio, Confidence: 0.6}, nil
	case strings.Contains(lower, "news") || strings.Contains(lower, "research") || strings.Contains(lower, "trend"):
		return IntentResult{Intent: IntentMarketResearch, Confidence: 0.6}, nil
	case strings.Contains(lower, "price") || strings.Contains(lower, "quote") || strings.Contains(lower, "volume"):
		return IntentResult{Intent: IntentMarketData, Confidence: 0.6}, nil
	case strings.Contains(lower, "transfer"):
		return IntentResult{Intent: IntentTransfer, Confidence: 0.6}, nil
	case strings.Contains(lower, "kyc") || strings.Contains(lower, "address"):
		return IntentResult{Intent: IntentKYC, Confidence: 0.6}, nil
	case strings.Contains(lower, "how do i") || strings.Contains(lower, "how to"):
		return IntentResult{Intent: IntentHelpFAQ, Confidence: 0.5}, nil
	}

	return IntentResult{Intent: IntentUnknown, Confidence: 0.3}, nil
}

func (c *RuleClient) Parse(_ context.Context, text string) (TradeParams, error) {
	lower := strings.ToLower(text)
	var params TradeParams

	if strings.Contains(lower, "buy") || strings.Contains(lower, "purchase") {
		params.Action = strPtr("buy")
	} else if strings.Contains(lower, "sell") {
		params.Action = strPtr("sell")
	}

	if m := quantityRe.FindStringSubmatch(text); m != nil {
		if qty, err := strconv.ParseFloat(m[1], 64); err == nil {
			params.Quantity = &qty
		}
	}
	if m := priceRe.FindStringSubmatch(lower); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil {
			params.Price = &price
		}
	}
	if sym := firstSymbol(text); sym != "" {
		params.Symbol = strPtr(sym)
	}
	if m := orderIDRe.FindString(text); m != "" && strings.Contains(m, "-") {
		params.OrderID = strPtr(m)
	}

	if strings.Contains(lower, "market") {
		params.OrderType = strPtr("market")
	} else if strings.Contains(lower, "limit") {
		params.OrderType = strPtr("limit")
	}

	for _, account := range []string{"cash", "tfsa", "rrsp"} {
		if strings.Contains(lower, account) {
			params.Account = strPtr(account)
			break
		}
	}

	return params, nil
}

func (c *RuleClient) ExtractCompanyDetails(_ context.Context, text string) (CompanyDetails, error) {
	var details CompanyDetails
	if sym := firstSymbol(text); sym != "" {
		details.CompanySymbol = strPtr(sym)
	}
	return details, nil
}

func (c *RuleClient) SummarizeArticles(_ context.Context, articles []models.Article, queryHint string) (string, error) {
	if len(articles) == 0 {
		return "There is nothing to summarize yet.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's the latest coverage on %s:\n", queryHint)
	for _, article := range articles {
		line := article.Title
		if article.Description != "" {
			line += " — " + article.Description
		}
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	return strings.TrimSpace(sb.String()), nil
}

// firstSymbol returns the first token that looks like a ticker, skipping
// common uppercase words.
func firstSymbol(text string) string {
	skip := map[string]bool{"A": true, "I": true, "OK": true, "ETF": true, "USD": true}
	for _, m := range symbolRe.FindAllString(text, -1) {
		if !skip[m] {
			return m
		}
	}
	return ""
}

func strPtr(s string) *string { return &s }
