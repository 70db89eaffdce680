package chat

import (
	"context"
	"time"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/internal/broker"
	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/models"
)

// fakeLLM replays scripted results. Intents and parses are consumed in
// order; an empty queue yields a zero result.
type fakeLLM struct {
	intents []llm.IntentResult
	parses  []llm.TradeParams
	details llm.CompanyDetails
	summary string

	classifyCalls int
	parseCalls    int
}

func (f *fakeLLM) ClassifyIntent(_ context.Context, _ string) (llm.IntentResult, error) {
	f.classifyCalls++
	if len(f.intents) > 0 {
		r := f.intents[0]
		f.intents = f.intents[1:]
		return r, nil
	}
	return llm.IntentResult{Intent: llm.IntentUnknown}, nil
}

func (f *fakeLLM) Parse(_ context.Context, _ string) (llm.TradeParams, error) {
	f.parseCalls++
	if len(f.parses) > 0 {
		p := f.parses[0]
		f.parses = f.parses[1:]
		return p, nil
	}
	return llm.TradeParams{}, nil
}

func (f *fakeLLM) ExtractCompanyDetails(_ context.Context, _ string) (llm.CompanyDetails, error) {
	return f.details, nil
}

func (f *fakeLLM) SummarizeArticles(_ context.Context, articles []models.Article, _ string) (string, error) {
	if len(articles) == 0 {
		return "There is nothing to summarize yet.", nil
	}
	if f.summary != "" {
		return f.summary, nil
	}
	return "summary", nil
}

type fakeBroker struct {
	accounts  []models.Account
	orders    []models.Order
	positions []models.Position

	placed   []broker.OrderRequest
	canceled []string

	accountsErr  error
	ordersErr    error
	positionsErr error
	placeErr     error
	cancelErr    error
}

func (f *fakeBroker) ListAccounts(_ context.Context) ([]models.Account, error) {
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	return f.accounts, nil
}

func (f *fakeBroker) GetAccount(_ context.Context, id string) (*models.Account, error) {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			return &f.accounts[i], nil
		}
	}
	return nil, f.accountsErr
}

func (f *fakeBroker) ListOrders(_ context.Context, _, _ string, _ int) ([]models.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return f.orders, nil
}

func (f *fakeBroker) ListPositions(_ context.Context, _ string) ([]models.Position, error) {
	if f.positionsErr != nil {
		return nil, f.positionsErr
	}
	return f.positions, nil
}

func (f *fakeBroker) PlaceOrder(_ context.Context, _ string, req broker.OrderRequest) (*models.Order, error) {
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	f.placed = append(f.placed, req)
	return &models.Order{
		ID:     "ord-new",
		Symbol: req.Symbol,
		Side:   req.Side,
		Qty:    req.Qty,
		Type:   req.Type,
		Status: "accepted",
	}, nil
}

func (f *fakeBroker) CancelOrder(_ context.Context, _, orderID string) (*models.Order, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	f.canceled = append(f.canceled, orderID)
	return &models.Order{ID: orderID, Status: "canceled"}, nil
}

type fakeMarket struct {
	snap    *models.Snapshot
	bars    []models.Bar
	snapErr error
	histErr error
}

func (f *fakeMarket) Snapshot(_ context.Context, _ string) (*models.Snapshot, error) {
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	return f.snap, nil
}

func (f *fakeMarket) History(_ context.Context, _ string, _ int) ([]models.Bar, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.bars, nil
}

type fakeNews struct {
	articles []models.Article
	err      error

	lastQuery  string
	lastSymbol string
	lastName   string
}

func (f *fakeNews) FetchArticles(_ context.Context, query string, _ int, symbol, name string) ([]models.Article, error) {
	f.lastQuery = query
	f.lastSymbol = symbol
	f.lastName = name
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type testEnv struct {
	orc    *Orchestrator
	llm    *fakeLLM
	broker *fakeBroker
	market *fakeMarket
	news   *fakeNews
	sess   *Session
	clock  *time.Time
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		MaxLLMCalls:    20,
		MaxInputChars:  500,
		RateLimitTurns: 20,
		RateWindowSecs: 60,
		HistoryDays:    30,
		NewsLimit:      5,
	}

	fl := &fakeLLM{}
	fb := &fakeBroker{
		accounts: []models.Account{{ID: "acct-1", Status: "ACTIVE"}},
	}
	fm := &fakeMarket{}
	fn := &fakeNews{}

	orc := NewOrchestrator(cfg, fl, fb, fm, fn, nil)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	clock := &now
	orc.now = func() time.Time { return *clock }

	return &testEnv{
		orc:    orc,
		llm:    fl,
		broker: fb,
		market: fm,
		news:   fn,
		sess:   NewSession("test-session"),
		clock:  clock,
	}
}

func (e *testEnv) turn(text string) string {
	return e.orc.HandleTurn(context.Background(), e.sess, text)
}
