package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/uuid"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/internal/broker"
	"github.com/quantbay/brokerchat/internal/chat"
	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/internal/marketdata"
	"github.com/quantbay/brokerchat/internal/news"
	"github.com/quantbay/brokerchat/internal/storage/sqlite"
	"github.com/quantbay/brokerchat/models"
)

// ChatSession wires the orchestrator to the terminal and the transcript
// store for one interactive conversation.
type ChatSession struct {
	cfg     *config.Config
	orc     *chat.Orchestrator
	session *chat.Session
	store   *sqlite.Store
	log     *slog.Logger
}

func NewChatSession(ctx context.Context, cfg *config.Config) (*ChatSession, error) {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	llmClient, err := llm.New(ctx, cfg)
	if err != nil {
		log.Warn("language model unavailable, falling back to rule-based parsing", "error", err)
		llmClient = llm.NewRuleClient()
	}

	market, err := marketdata.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("market data provider: %w", err)
	}

	// Transcript persistence is best-effort; chat still works without it.
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Warn("transcript store unavailable", "error", err)
		store = nil
	}

	sessionID := uuid.NewString()
	if store != nil {
		if id, err := store.CreateSession(ctx); err == nil {
			sessionID = id
		} else {
			log.Warn("could not register session", "error", err)
		}
	}

	orc := chat.NewOrchestrator(cfg, llmClient, broker.NewClient(cfg), market, news.NewClient(cfg), log)

	return &ChatSession{
		cfg:     cfg,
		orc:     orc,
		session: chat.NewSession(sessionID),
		store:   store,
		log:     log,
	}, nil
}

// ReloadConfig applies an edited config file to the running session. Only
// chat budgets change live; API clients keep their startup credentials.
func (c *ChatSession) ReloadConfig(cfg config.Config) {
	c.orc.UpdateLimits(&cfg)
	c.log.Info("configuration reloaded", "max_llm_calls", cfg.MaxLLMCalls, "rate_limit_turns", cfg.RateLimitTurns)
}

// Run drives the read-reply loop until the user exits.
func (c *ChatSession) Run(ctx context.Context) error {
	DisplayWelcomeBanner()

	for {
		var line string
		prompt := &survey.Input{Message: "You:"}
		if err := survey.AskOne(prompt, &line); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				fmt.Println("👋 Goodbye!")
				return c.close()
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			fmt.Println("👋 Goodbye!")
			return c.close()
		}

		chartLen := len(c.session.LastChart)
		reply := c.orc.HandleTurn(ctx, c.session, line)
		c.persist(ctx, line, reply)

		DisplayReply(reply)
		if len(c.session.LastChart) > 0 && len(c.session.LastChart) != chartLen {
			DisplayChart(c.session.LastChartSymbol, c.session.LastChart)
		}
	}
}

func (c *ChatSession) persist(ctx context.Context, userText, reply string) {
	if c.store == nil {
		return
	}
	if err := c.store.AppendMessage(ctx, c.session.ID, models.RoleUser, userText); err != nil {
		c.log.Warn("could not persist user message", "error", err)
	}
	if err := c.store.AppendMessage(ctx, c.session.ID, models.RoleAssistant, reply); err != nil {
		c.log.Warn("could not persist assistant message", "error", err)
	}
}

func (c *ChatSession) close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
