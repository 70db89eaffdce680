package marketdata

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/internal/cache"
	"github.com/quantbay/brokerchat/models"
)

// AlpacaProvider reads the Alpaca market-data API (delayed SIP feed on the
// sandbox).
type AlpacaProvider struct {
	http      *resty.Client
	cache     *cache.Manager
	apiKey    string
	secretKey string
}

func NewAlpacaProvider(cfg *config.Config) *AlpacaProvider {
	http := resty.New().
		SetBaseURL(cfg.DataBaseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2)

	return &AlpacaProvider{
		http:      http,
		cache:     cache.New(filepath.Join(cfg.CacheDir, "alpaca"), time.Minute, cfg.CacheEnabled),
		apiKey:    cfg.AlpacaAPIKey,
		secretKey: cfg.AlpacaSecretKey,
	}
}

type alpacaTrade struct {
	Price float64 `json:"p"`
}

type alpacaQuote struct {
	BidPrice float64 `json:"bp"`
	AskPrice float64 `json:"ap"`
	Exchange string  `json:"x"`
}

type alpacaBar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    int64     `json:"v"`
}

type alpacaSnapshot struct {
	LatestTrade  *alpacaTrade `json:"latestTrade"`
	LatestQuote  *alpacaQuote `json:"latestQuote"`
	DailyBar     *alpacaBar   `json:"dailyBar"`
	PrevDailyBar *alpacaBar   `json:"prevDailyBar"`
}

func (p *AlpacaProvider) get(ctx context.Context, path string, params map[string]string, what string) ([]byte, error) {
	if p.apiKey == "" || p.secretKey == "" {
		return nil, errorf("market data credentials are not configured")
	}

	resp, err := p.http.R().SetContext(ctx).
		SetHeader("APCA-API-KEY-ID", p.apiKey).
		SetHeader("APCA-API-SECRET-KEY", p.secretKey).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, errorf("%s request failed: %v", what, err)
	}
	if resp.IsError() {
		return nil, errorf("%s request failed: %d - %s", what, resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func (p *AlpacaProvider) Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errorf("symbol is required to fetch market data")
	}

	var cached models.Snapshot
	if p.cache.Get("alpaca", "snapshot", symbol, &cached) {
		return &cached, nil
	}

	body, err := p.get(ctx, "/stocks/"+symbol+"/snapshot", map[string]string{"feed": "delayed_sip"}, "snapshot")
	if err != nil {
		return nil, err
	}

	var raw alpacaSnapshot
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errorf("parse snapshot payload: %v", err)
	}
	if raw.LatestTrade == nil && raw.DailyBar == nil {
		return nil, errorf("no data returned from snapshot API")
	}

	snap := &models.Snapshot{Symbol: symbol}
	if raw.LatestTrade != nil {
		snap.CurrentPrice = floatPtr(raw.LatestTrade.Price)
	}
	if raw.DailyBar != nil {
		snap.Open = floatPtr(raw.DailyBar.Open)
		snap.High = floatPtr(raw.DailyBar.High)
		snap.Low = floatPtr(raw.DailyBar.Low)
		snap.Volume = int64Ptr(raw.DailyBar.Volume)
	}
	if raw.PrevDailyBar != nil {
		snap.PreviousClose = floatPtr(raw.PrevDailyBar.Close)
	}
	if raw.LatestQuote != nil {
		snap.Bid = floatPtr(raw.LatestQuote.BidPrice)
		snap.Ask = floatPtr(raw.LatestQuote.AskPrice)
		snap.Exchange = raw.LatestQuote.Exchange
	}
	if snap.CurrentPrice != nil && snap.PreviousClose != nil && *snap.PreviousClose != 0 {
		pct := (*snap.CurrentPrice - *snap.PreviousClose) / *snap.PreviousClose * 100
		snap.ChangePct = &pct
	}

	p.cache.Set("alpaca", "snapshot", symbol, snap)
	return snap, nil
}

func (p *AlpacaProvider) History(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errorf("symbol is required to fetch history")
	}

	start := time.Now().AddDate(0, 0, -days)
	cacheKey := map[string]interface{}{"symbol": symbol, "start": start.Format("2006-01-02")}

	var cached []models.Bar
	if p.cache.Get("alpaca", "history", cacheKey, &cached) {
		return cached, nil
	}

	body, err := p.get(ctx, "/stocks/"+symbol+"/bars", map[string]string{
		"timeframe": "1Day",
		"start":     start.Format(time.RFC3339),
		"feed":      "delayed_sip",
		"limit":     "1000",
	}, "history")
	if err != nil {
		return nil, err
	}

	var raw struct {
		Bars []alpacaBar `json:"bars"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errorf("parse history payload: %v", err)
	}
	if len(raw.Bars) == 0 {
		return nil, errorf("no history returned for %s", symbol)
	}

	bars := make([]models.Bar, 0, len(raw.Bars))
	for _, b := range raw.Bars {
		bars = append(bars, models.Bar{
			Date:   b.Timestamp,
			Open:   decimal.NewFromFloat(b.Open),
			High:   decimal.NewFromFloat(b.High),
			Low:    decimal.NewFromFloat(b.Low),
			Close:  decimal.NewFromFloat(b.Close),
			Volume: b.Volume,
		})
	}

	p.cache.Set("alpaca", "history", cacheKey, bars)
	return bars, nil
}

func floatPtr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64     { return &v }
