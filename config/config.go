package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir  string `json:"data_dir"`
	CacheDir string `json:"cache_dir"`
	DBPath   string `json:"db_path"`

	LLMProvider   string `json:"llm_provider"`
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"`
	OpenAIModel   string `json:"openai_model"`

	// Broker and market data (Alpaca sandbox by default)
	AlpacaAPIKey    string `json:"alpaca_api_key"`
	AlpacaSecretKey string `json:"alpaca_secret_key"`
	BrokerBaseURL   string `json:"broker_base_url"`
	DataBaseURL     string `json:"data_base_url"`

	MarketDataProvider string `json:"market_data_provider"`
	HistoryDays        int    `json:"history_days"`

	// News provider
	PerigonAPIURL  string `json:"perigon_api_url"`
	PerigonAPIKey  string `json:"perigon_api_key"`
	NewsLimit      int    `json:"news_limit"`
	NewsRecentDays int    `json:"news_recent_days"`

	// Per-session budgets
	MaxLLMCalls    int `json:"max_llm_calls"`
	MaxInputChars  int `json:"max_input_chars"`
	RateLimitTurns int `json:"rate_limit_turns"`
	RateWindowSecs int `json:"rate_window_secs"`

	CacheEnabled bool `json:"cache_enabled"`
	Debug        bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	return DefaultConfigWithRoot(currentDir)
}

func DefaultConfigWithRoot(root string) *Config {
	cfg := &Config{
		DataDir:  filepath.Join(root, "data"),
		CacheDir: filepath.Join(root, "data", "cache"),
		DBPath:   filepath.Join(root, "data", "brokerchat.db"),

		LLMProvider:   "openai",
		OpenAIBaseURL: "https://api.openai.com/v1",
		OpenAIModel:   "gpt-4o-mini",

		BrokerBaseURL: "https://broker-api.sandbox.alpaca.markets/v1",
		DataBaseURL:   "https://data.sandbox.alpaca.markets/v2",

		MarketDataProvider: "alpaca",
		HistoryDays:        30,

		PerigonAPIURL:  "https://api.perigon.io/v1/articles/all",
		NewsLimit:      5,
		NewsRecentDays: 10,

		MaxLLMCalls:    20,
		MaxInputChars:  500,
		RateLimitTurns: 20,
		RateWindowSecs: 60,

		CacheEnabled: true,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("CACHE_DIR"); val != "" {
		c.CacheDir = val
	}
	if val := os.Getenv("BROKERCHAT_DB"); val != "" {
		c.DBPath = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("OPENAI_BASE_URL"); val != "" {
		c.OpenAIBaseURL = val
	}
	if val := os.Getenv("OPENAI_MODEL"); val != "" {
		c.OpenAIModel = val
	}

	if val := os.Getenv("ALPACA_API_KEY"); val != "" {
		c.AlpacaAPIKey = val
	}
	if val := os.Getenv("ALPACA_SECRET_KEY"); val != "" {
		c.AlpacaSecretKey = val
	}
	if val := os.Getenv("BROKER_BASE_URL"); val != "" {
		c.BrokerBaseURL = val
	}
	if val := os.Getenv("DATA_BASE_URL"); val != "" {
		c.DataBaseURL = val
	}
	if val := os.Getenv("MARKET_DATA_PROVIDER"); val != "" {
		c.MarketDataProvider = val
	}

	if val := os.Getenv("PERIGON_API_URL"); val != "" {
		c.PerigonAPIURL = val
	}
	if val := os.Getenv("PERIGON_API_KEY"); val != "" {
		c.PerigonAPIKey = val
	} else if val := os.Getenv("NEWS_API_KEY"); val != "" {
		c.PerigonAPIKey = val
	}

	if val := os.Getenv("MAX_LLM_CALLS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxLLMCalls = v
		}
	}
	if val := os.Getenv("MAX_INPUT_CHARS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxInputChars = v
		}
	}
	if val := os.Getenv("RATE_LIMIT_TURNS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RateLimitTurns = v
		}
	}
	if val := os.Getenv("RATE_WINDOW_SECS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RateWindowSecs = v
		}
	}
	if val := os.Getenv("HISTORY_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.HistoryDays = v
		}
	}
	if val := os.Getenv("NEWS_LIMIT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.NewsLimit = v
		}
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("BROKERCHAT_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) Validate() error {
	if c.MaxLLMCalls <= 0 {
		return fmt.Errorf("max_llm_calls must be positive")
	}
	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max_input_chars must be positive")
	}
	if c.RateLimitTurns <= 0 || c.RateWindowSecs <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive")
	}
	switch c.LLMProvider {
	case "openai", "rules":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	switch c.MarketDataProvider {
	case "alpaca", "yahoo":
	default:
		return fmt.Errorf("unknown market data provider: %s", c.MarketDataProvider)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.CacheDir, filepath.Dir(c.DBPath)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

func loadConfigFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
