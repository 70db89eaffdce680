package chat

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/internal/llm"
)

func TestStaticIntentReplies(t *testing.T) {
	cases := []struct {
		intent string
		want   string
	}{
		{llm.IntentTransfer, replyTransfer},
		{llm.IntentKYC, replyKYC},
		{llm.IntentHelpFAQ, replyHelpFAQ},
		{llm.IntentUnknown, replyUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.intent, func(t *testing.T) {
			env := newTestEnv()
			env.llm.intents = []llm.IntentResult{{Intent: tc.intent, Confidence: 0.9}}

			got := env.turn("hello there")
			assert.Equal(t, tc.want, got)
			assert.False(t, env.sess.FlowActive())

			// Every turn-away reply leaves the user with worked examples.
			assert.Contains(t, got, "You can try something like:")
			assert.Contains(t, got, "- *Buy 10 shares of AAPL*")
			assert.Contains(t, got, "- *Cancel order for AAPL*")
			assert.Contains(t, got, "- *What is the latest news on Tesla*")
		})
	}
}

func TestBudgetExhaustion(t *testing.T) {
	env := newTestEnv()
	env.orc.maxLLMCalls = 3

	for i := 0; i < 3; i++ {
		got := env.turn("what can you do")
		assert.NotEqual(t, replyExhausted, got)
	}
	require.Equal(t, 3, env.llm.classifyCalls)

	// The 21st-equivalent turn: budget gone, no collaborator calls made.
	got := env.turn("one more thing")
	assert.Equal(t, replyExhausted, got)
	assert.Equal(t, 3, env.llm.classifyCalls)
	assert.Equal(t, 3, env.sess.LLMCalls)
}

func TestUpdateLimitsAppliesWithoutRestart(t *testing.T) {
	env := newTestEnv()

	env.orc.UpdateLimits(&config.Config{
		MaxLLMCalls:    1,
		MaxInputChars:  10,
		RateLimitTurns: 20,
		RateWindowSecs: 60,
		HistoryDays:    30,
		NewsLimit:      5,
	})

	got := env.turn("this line is much longer than ten characters")
	assert.Contains(t, got, "under 10 characters")

	env.turn("hi there")
	got = env.turn("hi again")
	assert.Equal(t, replyExhausted, got)
}

func TestOversizedInputDoesNotConsumeBudget(t *testing.T) {
	env := newTestEnv()

	got := env.turn(strings.Repeat("a", 501))
	assert.Contains(t, got, "too long")
	assert.Contains(t, got, "500")
	assert.Equal(t, 0, env.llm.classifyCalls)
	assert.Equal(t, 0, env.sess.LLMCalls)
}

func TestOversizedInputKeepsActiveFlow(t *testing.T) {
	env := newTestEnv()
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentPlaceTrade, Confidence: 0.9}}
	env.llm.parses = []llm.TradeParams{{Action: strp("buy"), Symbol: strp("AAPL")}}

	env.turn("buy some AAPL")
	require.True(t, env.sess.FlowActive())
	calls := env.sess.LLMCalls

	got := env.turn(strings.Repeat("x", 600))
	assert.Contains(t, got, "too long")
	assert.True(t, env.sess.FlowActive(), "oversized input must not disturb the flow")
	assert.Equal(t, calls, env.sess.LLMCalls)
}

func TestSlidingWindowRateLimit(t *testing.T) {
	env := newTestEnv()
	env.orc.rateTurns = 2
	env.orc.rateWindow = time.Minute

	assert.NotEqual(t, replyRateLimited, env.turn("one"))
	assert.NotEqual(t, replyRateLimited, env.turn("two"))
	assert.Equal(t, replyRateLimited, env.turn("three"))

	// Rejected turns do not extend the window; once the first two age out
	// the user can talk again.
	*env.clock = env.clock.Add(61 * time.Second)
	assert.NotEqual(t, replyRateLimited, env.turn("four"))
}

func TestTurnsAppendToTranscript(t *testing.T) {
	env := newTestEnv()

	env.turn("hello")
	require.Len(t, env.sess.Messages, 2)
	assert.Equal(t, "hello", env.sess.Messages[0].Content)
	assert.Equal(t, replyUnknown, env.sess.Messages[1].Content)
}

func TestFreshIntentStartsFlow(t *testing.T) {
	env := newTestEnv()
	env.llm.intents = []llm.IntentResult{{Intent: llm.IntentMarketData, Confidence: 0.8}}

	got := env.turn("how's the market")
	assert.Contains(t, got, "Which stock symbol")
	require.True(t, env.sess.FlowActive())
	assert.Equal(t, FlowMarketData, env.sess.Flow.Flow)

	// The next turn resumes the flow instead of reclassifying.
	env.market.snapErr = errors.New("feed offline")
	env.turn("what")
	assert.Equal(t, 1, env.llm.classifyCalls)
}

func strp(s string) *string { return &s }

func intp(n int) *int { return &n }

func floatp(f float64) *float64 { return &f }
