package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// coerceAction normalizes a trade direction. "purchase" folds into "buy".
func coerceAction(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "buy", "purchase":
		return "buy", nil
	case "sell":
		return "sell", nil
	}
	return "", fmt.Errorf("action must be buy or sell, got %q", raw)
}

func coerceSymbol(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", fmt.Errorf("symbol cannot be empty")
	}
	return v, nil
}

// coerceQuantity accepts whole positive share counts. "10.0" is fine,
// "10.5" is not.
func coerceQuantity(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	n, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("quantity must be a whole number, got %q", raw)
		}
		n = int(f)
	}
	if n <= 0 {
		return 0, fmt.Errorf("quantity must be greater than zero, got %d", n)
	}
	return n, nil
}

func coercePrice(raw string) (float64, error) {
	v := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("price must be a number, got %q", raw)
	}
	if f <= 0 {
		return 0, fmt.Errorf("price must be greater than zero, got %v", f)
	}
	return f, nil
}

func coerceOrderType(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "market", "limit":
		return v, nil
	}
	return "", fmt.Errorf("order type must be market or limit, got %q", raw)
}

func coerceAccount(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", fmt.Errorf("account cannot be empty")
	}
	return v, nil
}

// applyRawField coerces raw user text into the named trade field. Coercion
// is idempotent: feeding an already-coerced value back through succeeds and
// leaves it unchanged.
func applyRawField(d *TradeDraft, field, raw string) error {
	switch field {
	case "action":
		v, err := coerceAction(raw)
		if err != nil {
			return err
		}
		d.Action = &v
	case "symbol":
		v, err := coerceSymbol(raw)
		if err != nil {
			return err
		}
		d.Symbol = &v
	case "quantity":
		v, err := coerceQuantity(raw)
		if err != nil {
			return err
		}
		d.Quantity = &v
	case "order_type":
		v, err := coerceOrderType(raw)
		if err != nil {
			return err
		}
		d.OrderType = &v
	case "account":
		v, err := coerceAccount(raw)
		if err != nil {
			return err
		}
		d.Account = &v
	case "price":
		v, err := coercePrice(raw)
		if err != nil {
			return err
		}
		d.Price = &v
	default:
		return fmt.Errorf("unknown trade field %q", field)
	}
	return nil
}

// nextMissingField walks the fixed field order and returns the first unset
// field, with price appended for limit orders. Empty means the draft is
// complete.
func nextMissingField(d TradeDraft) string {
	if d.Action == nil {
		return "action"
	}
	if d.Symbol == nil {
		return "symbol"
	}
	if d.Quantity == nil {
		return "quantity"
	}
	if d.OrderType == nil {
		return "order_type"
	}
	if d.Account == nil {
		return "account"
	}
	if d.OrderType != nil && *d.OrderType == "limit" && d.Price == nil {
		return "price"
	}
	return ""
}
