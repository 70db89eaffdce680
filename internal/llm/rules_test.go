package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/quantbay/brokerchat/models"
)

func TestRuleClientClassifyIntent(t *testing.T) {
	c := NewRuleClient()
	ctx := context.Background()

	cases := map[string]string{
		"cancel my AAPL order":            IntentCancelOrder,
		"buy 10 shares of AAPL":           IntentPlaceTrade,
		"show my open orders":             IntentViewOrders,
		"how is my portfolio doing":       IntentViewPortfolio,
		"any news on nvidia?":             IntentMarketResearch,
		"what's the price of TSLA":        IntentMarketData,
		"I want to transfer money":        IntentTransfer,
		"update my address for kyc":       IntentKYC,
		"how do I place a trade":          IntentHelpFAQ,
		"tell me a joke":                  IntentUnknown,
	}

	for text, want := range cases {
		got, err := c.ClassifyIntent(ctx, text)
		if err != nil {
			t.Fatalf("ClassifyIntent(%q): %v", text, err)
		}
		if got.Intent != want {
			t.Errorf("ClassifyIntent(%q) = %s, want %s", text, got.Intent, want)
		}
	}
}

func TestRuleClientParse(t *testing.T) {
	c := NewRuleClient()
	params, err := c.Parse(context.Background(), "buy 10 shares of AAPL at $189.50 in my cash account")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Action == nil || *params.Action != "buy" {
		t.Errorf("expected action buy, got %v", params.Action)
	}
	if params.Quantity == nil || *params.Quantity != 10 {
		t.Errorf("expected quantity 10, got %v", params.Quantity)
	}
	if params.Symbol == nil || *params.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %v", params.Symbol)
	}
	if params.Price == nil || *params.Price != 189.5 {
		t.Errorf("expected price 189.5, got %v", params.Price)
	}
	if params.Account == nil || *params.Account != "cash" {
		t.Errorf("expected account cash, got %v", params.Account)
	}
}

func TestRuleClientParseOrderID(t *testing.T) {
	c := NewRuleClient()
	params, _ := c.Parse(context.Background(), "cancel order 61e69015-8549-4bfd-b9c3-01e75843f47d")
	if params.OrderID == nil || *params.OrderID != "61e69015-8549-4bfd-b9c3-01e75843f47d" {
		t.Errorf("expected order id extracted, got %v", params.OrderID)
	}
}

func TestNormalizeFoldsSideIntoAction(t *testing.T) {
	side := "sell"
	p := TradeParams{Side: &side}
	p.Normalize()
	if p.Action == nil || *p.Action != "sell" {
		t.Fatalf("expected side folded into action, got %v", p.Action)
	}
	if p.Side != nil {
		t.Fatal("expected side cleared after normalize")
	}
}

func TestRuleClientSummarizeEmpty(t *testing.T) {
	c := NewRuleClient()
	got, err := c.SummarizeArticles(context.Background(), nil, "AAPL")
	if err != nil {
		t.Fatalf("SummarizeArticles: %v", err)
	}
	if got != "There is nothing to summarize yet." {
		t.Fatalf("unexpected empty-list reply: %q", got)
	}
}

func TestRuleClientSummarize(t *testing.T) {
	c := NewRuleClient()
	articles := []models.Article{
		{Title: "Apple beats estimates", Description: "Strong quarter"},
	}
	got, err := c.SummarizeArticles(context.Background(), articles, "AAPL")
	if err != nil {
		t.Fatalf("SummarizeArticles: %v", err)
	}
	if !strings.Contains(got, "Apple beats estimates") {
		t.Fatalf("summary missing article title: %q", got)
	}
}
