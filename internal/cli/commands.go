package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantbay/brokerchat/config"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	var mgr *config.Manager

	rootCmd := &cobra.Command{
		Use:   "brokerchat",
		Short: "BrokerChat - conversational trading assistant",
		Long: `BrokerChat is a conversational assistant for a brokerage account.
It places and cancels trades, shows open orders and positions, pulls live
market data, and researches recent market news, all through chat.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A config file, when given, takes precedence over env and
			// defaults. The file is created on first use.
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				m, err := config.NewManager(
					config.WithConfigPath(path),
					config.WithInitialConfig(cfg),
				)
				if err != nil {
					return fmt.Errorf("load config file: %w", err)
				}
				mgr = m
				*cfg = mgr.Get()
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cfg, mgr)
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cfg, mgr)
		},
	})
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("BrokerChat v1.0.0")
			fmt.Println("Conversational trading assistant")
		},
	}
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

func runChat(cfg *config.Config, mgr *config.Manager) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := NewChatSession(ctx, cfg)
	if err != nil {
		return err
	}
	if mgr != nil {
		// Edits to the config file adjust chat budgets without a restart.
		if err := mgr.Watch(ctx, session.ReloadConfig); err != nil {
			session.log.Warn("config watch unavailable", "error", err)
		}
	}
	return session.Run(ctx)
}

func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current BrokerChat Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.CacheDir)
	fmt.Printf("Transcript DB:        %s\n", cfg.DBPath)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("Model:                %s\n", cfg.OpenAIModel)
	fmt.Printf("Market Data Provider: %s\n", cfg.MarketDataProvider)
	fmt.Printf("Broker URL:           %s\n", cfg.BrokerBaseURL)
	fmt.Println()
	fmt.Printf("Max LLM Calls:        %d\n", cfg.MaxLLMCalls)
	fmt.Printf("Max Input Chars:      %d\n", cfg.MaxInputChars)
	fmt.Printf("Rate Limit:           %d turns / %ds\n", cfg.RateLimitTurns, cfg.RateWindowSecs)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Println()

	fmt.Println("🔌 API Configuration:")
	fmt.Println("─────────────────────")
	printKeyStatus("OpenAI API", cfg.OpenAIAPIKey != "")
	printKeyStatus("Alpaca API", cfg.AlpacaAPIKey != "" && cfg.AlpacaSecretKey != "")
	printKeyStatus("Perigon News API", cfg.PerigonAPIKey != "")
}

func printKeyStatus(name string, configured bool) {
	status := "❌ Not configured"
	if configured {
		status = "✅ Configured"
	}
	fmt.Printf("%-21s %s\n", name+":", status)
}

func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating BrokerChat Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking API keys... ")
	var warnings []string
	if cfg.OpenAIAPIKey == "" && cfg.LLMProvider == "openai" {
		warnings = append(warnings, "OpenAI API key not configured; chat will fall back to rule-based parsing")
	}
	if cfg.AlpacaAPIKey == "" || cfg.AlpacaSecretKey == "" {
		warnings = append(warnings, "Alpaca credentials not configured; trading features will be unavailable")
	}
	if cfg.PerigonAPIKey == "" {
		warnings = append(warnings, "Perigon API key not configured; market research will be unavailable")
	}

	if len(warnings) > 0 {
		fmt.Println("⚠️")
		for _, w := range warnings {
			fmt.Printf("  ⚠️  %s\n", w)
		}
	} else {
		fmt.Println("✅")
	}

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("✅ Configuration validation completed successfully!")
	} else {
		fmt.Printf("⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
	}
	return nil
}
