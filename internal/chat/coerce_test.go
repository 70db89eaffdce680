package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceAction(t *testing.T) {
	for raw, want := range map[string]string{
		"buy": "buy", "BUY": "buy", " Purchase ": "buy", "sell": "sell", "Sell": "sell",
	} {
		got, err := coerceAction(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := coerceAction("hold")
	assert.Error(t, err)
}

func TestCoerceQuantity(t *testing.T) {
	for raw, want := range map[string]int{"10": 10, " 3 ": 3, "10.0": 10} {
		got, err := coerceQuantity(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"0", "-5", "10.5", "ten", ""} {
		_, err := coerceQuantity(raw)
		assert.Error(t, err, raw)
	}
}

func TestCoercePrice(t *testing.T) {
	got, err := coercePrice("$189.50")
	require.NoError(t, err)
	assert.Equal(t, 189.5, got)

	for _, raw := range []string{"0", "-1", "cheap"} {
		_, err := coercePrice(raw)
		assert.Error(t, err, raw)
	}
}

func TestCoerceOrderTypeAndAccount(t *testing.T) {
	for raw, want := range map[string]string{"Market": "market", "LIMIT": "limit"} {
		got, err := coerceOrderType(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := coerceOrderType("stop")
	assert.Error(t, err)

	acct, err := coerceAccount("cash")
	require.NoError(t, err)
	assert.Equal(t, "CASH", acct)
}

// Coerced output must survive a second pass unchanged, since parser values
// and raw replies both funnel through the same functions.
func TestCoercionIsIdempotent(t *testing.T) {
	action, _ := coerceAction("Purchase")
	again, err := coerceAction(action)
	require.NoError(t, err)
	assert.Equal(t, action, again)

	symbol, _ := coerceSymbol("aapl")
	again, err = coerceSymbol(symbol)
	require.NoError(t, err)
	assert.Equal(t, symbol, again)

	orderType, _ := coerceOrderType("LIMIT")
	again, err = coerceOrderType(orderType)
	require.NoError(t, err)
	assert.Equal(t, orderType, again)
}

func TestNextMissingFieldOrder(t *testing.T) {
	var d TradeDraft
	order := []string{"action", "symbol", "quantity", "order_type", "account"}

	fill := map[string]func(){
		"action":     func() { d.Action = strp("buy") },
		"symbol":     func() { d.Symbol = strp("AAPL") },
		"quantity":   func() { d.Quantity = intp(10) },
		"order_type": func() { d.OrderType = strp("market") },
		"account":    func() { d.Account = strp("CASH") },
	}

	for _, want := range order {
		assert.Equal(t, want, nextMissingField(d))
		fill[want]()
	}
	assert.Empty(t, nextMissingField(d), "market order needs no price")

	// Switching to limit exposes price as the final field.
	d.OrderType = strp("limit")
	assert.Equal(t, "price", nextMissingField(d))
	d.Price = floatp(189.5)
	assert.Empty(t, nextMissingField(d))
}

func TestConfirmationWordMatching(t *testing.T) {
	affirmative := []string{"yes", "y", "yes please", "yesterday", "yep", "ok", "okay then", "sure", "confirm", "go ahead"}
	for _, text := range affirmative {
		assert.True(t, isAffirmative(text), text)
	}

	notAffirmative := []string{"maybe", "nope", "what"}
	for _, text := range notAffirmative {
		assert.False(t, isAffirmative(text), text)
	}

	negative := []string{"no", "no thanks", "no, forget it", "nah", "cancel", "cancel it", "stop", "don't", "do not", "not now"}
	for _, text := range negative {
		assert.True(t, isNegative(text), text)
	}

	notNegative := []string{"nope", "note to self", "notable", "nothing", "candy"}
	for _, text := range notNegative {
		assert.False(t, isNegative(text), text)
	}
}
