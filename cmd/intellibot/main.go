package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intellibot/internal/chat"
	"intellibot/internal/completion"
	"intellibot/internal/config"
	"intellibot/internal/conversation"
	"intellibot/internal/cortex"
	"intellibot/internal/logger"
	"intellibot/internal/prompt"
	"intellibot/internal/tui"
)

const rootLongDesc = `IntelliBot is a terminal chat assistant over a curated document corpus.

Questions are grounded with snippets from a hosted search service and answered
by a hosted completion service. Credentials come from the environment (see the
token_env config key); connection details from the YAML config file.

Examples:
  intellibot
  intellibot --config ./config.yaml --debug`

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var debug bool

	cmd := &cobra.Command{
		Use:          "intellibot",
		Short:        "Chat with your documents from the terminal",
		Long:         rootLongDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfgPath, debug)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to YAML config file (default: ./config.yaml, then ~/.config/intellibot/config.yaml)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Start with debug mode enabled")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string, debug bool) error {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if debug {
		cfg.Chat.Debug = true
	}

	log := logger.New(logger.DefaultPath(), cfg.Chat.Debug)
	defer func() { _ = log.Sync() }()

	token, err := cfg.Credentials()
	if err != nil {
		return fmt.Errorf("cannot initialize session: %w (set %s)", err, cfg.Backend.TokenEnv)
	}

	searchClient := cortex.NewClient(cortex.Config{
		BaseURL:  cfg.Backend.BaseURL,
		Token:    token,
		Database: cfg.Backend.Database,
		Schema:   cfg.Backend.Schema,
		Timeout:  cfg.Backend.Timeout(),
	})
	completeClient := completion.NewClient(completion.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   token,
		Timeout: cfg.Backend.Timeout(),
	})

	// Discovery runs once per session. On failure the session still starts,
	// with the chat input disabled and the failure on the status line.
	services, discoveryErr := searchClient.Services(ctx)
	if discoveryErr != nil {
		log.Warn("search service discovery failed", zap.Error(discoveryErr))
		services = nil
	}
	log.Info("session initialized", zap.Int("services", len(services)))

	store := conversation.New()
	builder := prompt.NewBuilder(searchClient, completeClient)
	svc := chat.New(store, builder, completeClient, services, log)

	m := tui.New(svc, cfg, log)
	if discoveryErr != nil {
		m = m.WithStartupError(fmt.Errorf("search service discovery failed: %w", discoveryErr))
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
