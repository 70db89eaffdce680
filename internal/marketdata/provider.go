// Package marketdata provides live snapshots and daily-bar history for a
// symbol, with pluggable providers.
package marketdata

import (
	"context"
	"fmt"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/models"
)

// Error is the distinguished market-data failure: missing credentials,
// non-2xx responses, or empty payloads all surface as this type.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

type Provider interface {
	Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error)
	History(ctx context.Context, symbol string, days int) ([]models.Bar, error)
}

// New selects the configured provider.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.MarketDataProvider {
	case "alpaca":
		return NewAlpacaProvider(cfg), nil
	case "yahoo":
		return NewYahooProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown market data provider: %s", cfg.MarketDataProvider)
	}
}
