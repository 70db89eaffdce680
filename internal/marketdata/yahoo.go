package marketdata

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/internal/cache"
	"github.com/quantbay/brokerchat/models"
)

// YahooProvider serves snapshots and history from Yahoo Finance. It needs no
// credentials, which makes it the fallback when the primary feed is not
// configured.
type YahooProvider struct {
	cache *cache.Manager
}

func NewYahooProvider(cfg *config.Config) *YahooProvider {
	return &YahooProvider{
		cache: cache.New(filepath.Join(cfg.CacheDir, "yahoo"), time.Minute, cfg.CacheEnabled),
	}
}

func (p *YahooProvider) Snapshot(_ context.Context, symbol string) (*models.Snapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errorf("symbol is required to fetch market data")
	}

	var cached models.Snapshot
	if p.cache.Get("yahoo", "snapshot", symbol, &cached) {
		return &cached, nil
	}

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, errorf("quote request failed for %s: %v", symbol, err)
	}
	if q == nil {
		return nil, errorf("no quote returned for %s", symbol)
	}

	volume := int64(q.RegularMarketVolume)
	snap := &models.Snapshot{
		Symbol:        symbol,
		CurrentPrice:  floatPtr(q.RegularMarketPrice),
		Open:          floatPtr(q.RegularMarketOpen),
		High:          floatPtr(q.RegularMarketDayHigh),
		Low:           floatPtr(q.RegularMarketDayLow),
		PreviousClose: floatPtr(q.RegularMarketPreviousClose),
		Volume:        &volume,
		ChangePct:     floatPtr(q.RegularMarketChangePercent),
		Bid:           floatPtr(q.Bid),
		Ask:           floatPtr(q.Ask),
		Exchange:      q.FullExchangeName,
	}

	p.cache.Set("yahoo", "snapshot", symbol, snap)
	return snap, nil
}

func (p *YahooProvider) History(_ context.Context, symbol string, days int) ([]models.Bar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errorf("symbol is required to fetch history")
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	cacheKey := map[string]interface{}{"symbol": symbol, "start": start.Format("2006-01-02")}

	var cached []models.Bar
	if p.cache.Get("yahoo", "history", cacheKey, &cached) {
		return cached, nil
	}

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []models.Bar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, models.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, errorf("history request failed for %s: %v", symbol, err)
	}
	if len(bars) == 0 {
		return nil, errorf("no history returned for %s", symbol)
	}

	p.cache.Set("yahoo", "history", cacheKey, bars)
	return bars, nil
}
