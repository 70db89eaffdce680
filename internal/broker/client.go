// Package broker implements the brokerage collaborator: accounts, orders,
// positions, and order placement/cancellation over the broker's REST API.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/models"
)

// OrderRequest is the payload for placing a new order.
type OrderRequest struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
	LimitPrice  string `json:"limit_price,omitempty"`
}

// API is the broker surface the conversation core depends on. Every method
// returns an error on transport or auth failure; the core converts those
// into user-facing replies.
type API interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListOrders(ctx context.Context, accountID, status string, limit int) ([]models.Order, error)
	ListPositions(ctx context.Context, accountID string) ([]models.Position, error)
	PlaceOrder(ctx context.Context, accountID string, req OrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, accountID, orderID string) (*models.Order, error)
}

// Client talks to an Alpaca-shaped broker API. Missing credentials surface
// as request-time errors so the chat loop can still start without them.
type Client struct {
	http       *resty.Client
	configured bool
}

func NewClient(cfg *config.Config) *Client {
	http := resty.New().
		SetBaseURL(cfg.BrokerBaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("APCA-API-KEY-ID", cfg.AlpacaAPIKey).
		SetHeader("APCA-API-SECRET-KEY", cfg.AlpacaSecretKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:       http,
		configured: cfg.AlpacaAPIKey != "" && cfg.AlpacaSecretKey != "",
	}
}

func (c *Client) ready() error {
	if !c.configured {
		return fmt.Errorf("broker credentials are not configured (set ALPACA_API_KEY and ALPACA_SECRET_KEY)")
	}
	return nil
}

func decode(resp *resty.Response, err error, what string, out interface{}) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s: broker API error %d: %s", what, resp.StatusCode(), resp.String())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s: parse response: %w", what, err)
	}
	return nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var accounts []models.Account
	resp, err := c.http.R().SetContext(ctx).Get("/accounts")
	if err := decode(resp, err, "list accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var account models.Account
	resp, err := c.http.R().SetContext(ctx).Get("/accounts/" + accountID)
	if err := decode(resp, err, "get account", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) ListOrders(ctx context.Context, accountID, status string, limit int) ([]models.Order, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var orders []models.Order
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"status": status,
			"limit":  fmt.Sprintf("%d", limit),
		}).
		Get("/trading/accounts/" + accountID + "/orders")
	if err := decode(resp, err, "list orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ListPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var positions []models.Position
	resp, err := c.http.R().SetContext(ctx).
		Get("/trading/accounts/" + accountID + "/positions")
	if err := decode(resp, err, "list positions", &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *Client) PlaceOrder(ctx context.Context, accountID string, req OrderRequest) (*models.Order, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if req.TimeInForce == "" {
		req.TimeInForce = "day"
	}
	var order models.Order
	resp, err := c.http.R().SetContext(ctx).
		SetBody(req).
		Post("/trading/accounts/" + accountID + "/orders")
	if err := decode(resp, err, "place order", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CancelOrder(ctx context.Context, accountID, orderID string) (*models.Order, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	path := "/trading/accounts/" + accountID + "/orders/" + orderID
	resp, err := c.http.R().SetContext(ctx).Delete(path)
	if err := decode(resp, err, "cancel order", nil); err != nil {
		return nil, err
	}

	// Cancellation returns no body; fetch the final order state, falling
	// back to a minimal record if the lookup fails.
	var order models.Order
	resp, err = c.http.R().SetContext(ctx).Get(path)
	if err := decode(resp, err, "get canceled order", &order); err != nil {
		return &models.Order{ID: orderID, Status: "canceled"}, nil
	}
	return &order, nil
}
