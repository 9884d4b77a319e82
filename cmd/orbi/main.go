package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"orbi/internal/agent"
	"orbi/internal/bus"
	"orbi/internal/channel"
	"orbi/internal/config"
	"orbi/internal/dataset"
	"orbi/internal/domain"
	"orbi/internal/faq"
	"orbi/internal/memory"
	"orbi/internal/report"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:     "orbi",
		Short:   "Orbi: affiliate dashboard assistant",
		Long:    "Orbi answers affiliate performance queries and FAQ questions over CLI, Web, and Telegram.",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.orbi/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
		cfg.General.Workspace = config.ExpandPath(cfg.General.Workspace)
		cfg.Data.AffiliatePath = config.ExpandPath(cfg.Data.AffiliatePath)
		cfg.Memory.DBPath = config.ExpandPath(cfg.Memory.DBPath)
	}
	setupLogger(cfg)
	return cfg
}

// setupLogger rebuilds the process logger with the configured level and
// optional log file. A file open failure falls back to stderr.
func setupLogger(cfg *config.Config) {
	out := io.Writer(os.Stderr)
	if cfg.General.LogFile != "" {
		f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Warn("cannot open log file, logging to stderr", "path", cfg.General.LogFile, "err", err)
		} else {
			out = f
		}
	}
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.General.SlogLevel()}))
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config and workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			if err := os.MkdirAll(config.ExpandPath(cfg.General.Workspace), 0o755); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the fixture affiliate dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if out == "" {
				out = cfg.Data.AffiliatePath
			}
			if seed == 0 {
				seed = cfg.Data.Seed
			}

			snap := dataset.Generate(seed, logger)
			if err := dataset.WriteSnapshot(out, snap); err != nil {
				return err
			}
			logger.Info("affiliate data generated",
				"path", out, "clients", len(snap.Clients), "sites", len(snap.Sites), "records", len(snap.Records))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: from config)")
	return cmd
}

// app holds the wired components shared by the chat and serve commands.
type app struct {
	snap      *dataset.Snapshot
	faqs      *faq.Engine
	store     domain.ConversationStore
	assistant *agent.Assistant
	cleanup   func()
}

// buildApp loads the datasets and wires the assistant onto the bus.
// app.cleanup closes the conversation store.
func buildApp(cfg *config.Config, messageBus domain.MessageBus) (*app, error) {
	snap, err := dataset.LoadSnapshot(cfg.Data.AffiliatePath, logger)
	if err != nil {
		return nil, err
	}
	corpus, err := dataset.LoadCorpus(cfg.Data.FAQPath, logger)
	if err != nil {
		return nil, err
	}

	var store domain.ConversationStore
	cleanup := func() {}
	if cfg.Memory.Enabled {
		sqlStore, err := memory.NewSQLiteStore(cfg.Memory.DBPath, logger)
		if err != nil {
			return nil, err
		}
		if _, err := sqlStore.Prune(context.Background(), cfg.Memory.RetentionDays); err != nil {
			logger.Warn("history prune failed", "err", err)
		}
		store = sqlStore
		cleanup = func() { _ = sqlStore.Close() }
	}

	faqEngine := faq.NewEngine(faq.EngineConfig{Corpus: corpus, Logger: logger})

	assistant := agent.New(agent.Config{
		Data:        snap,
		FAQs:        faqEngine,
		Reports:     report.NewService(snap, logger),
		Store:       store,
		Bus:         messageBus,
		Logger:      logger,
		Concurrency: cfg.General.MaxConcurrentMessages,
	})

	return &app{
		snap:      snap,
		faqs:      faqEngine,
		store:     store,
		assistant: assistant,
		cleanup:   cleanup,
	}, nil
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start interactive chat (CLI)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if !cfg.Channels.CLI.Enabled {
				return errors.New("cli channel is disabled: enable channels.cli in config")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			messageBus := bus.New(100, logger)
			defer messageBus.Close()

			a, err := buildApp(cfg, messageBus)
			if err != nil {
				return err
			}
			defer a.cleanup()

			go a.assistant.Run(ctx)

			cli := channel.NewCLI(channel.CLIConfig{
				Logger:   logger,
				Language: cfg.General.DefaultLanguage,
			})
			return cli.Start(ctx, messageBus)
		},
	}
}

// serveChannelNames returns the channels serve will start, in start order.
// At least one of web/telegram must be enabled.
func serveChannelNames(cfg *config.Config) ([]string, error) {
	var names []string
	if cfg.Channels.Web.Enabled {
		names = append(names, "web")
	}
	if cfg.Channels.Telegram.Enabled {
		names = append(names, "telegram")
	}
	if len(names) == 0 {
		return nil, errors.New("no serve channels enabled: enable channels.web or channels.telegram in config")
	}
	return names, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web API and/or Telegram bot (whichever is enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			names, err := serveChannelNames(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			messageBus := bus.New(100, logger)
			defer messageBus.Close()

			a, err := buildApp(cfg, messageBus)
			if err != nil {
				return err
			}
			defer a.cleanup()

			go a.assistant.Run(ctx)
			logger.Info("serving", "channels", names)

			errCh := make(chan error, 2)

			if cfg.Channels.Web.Enabled {
				metricsEndpoint := ""
				if cfg.Metrics.Enabled {
					metricsEndpoint = cfg.Metrics.Endpoint
				}
				web := channel.NewWeb(channel.WebConfig{
					Host:            cfg.Channels.Web.Host,
					Port:            cfg.Channels.Web.Port,
					Logger:          logger,
					Data:            a.snap,
					FAQs:            a.faqs,
					Store:           a.store,
					HistoryLimit:    cfg.Memory.MaxHistoryPerConversation,
					MetricsEndpoint: metricsEndpoint,
				})
				go func() { errCh <- web.Start(ctx, messageBus) }()
			}

			if cfg.Channels.Telegram.Enabled {
				tg := channel.NewTelegram(channel.TelegramConfig{
					Token:     cfg.Channels.Telegram.Token,
					AllowFrom: cfg.Channels.Telegram.AllowFrom,
					ParseMode: cfg.Channels.Telegram.ParseMode,
					Language:  cfg.General.DefaultLanguage,
					Logger:    logger,
				})
				go func() { errCh <- tg.Start(ctx, messageBus) }()
			}

			select {
			case <-ctx.Done():
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print FAQ corpus statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			corpus, err := dataset.LoadCorpus(cfg.Data.FAQPath, logger)
			if err != nil {
				return err
			}
			engine := faq.NewEngine(faq.EngineConfig{Corpus: corpus, Logger: logger})
			stats := engine.Stats()

			fmt.Printf("FAQ entries: %d\n", stats.Total)
			categories := make([]string, 0, len(stats.ByCategory))
			for cat := range stats.ByCategory {
				categories = append(categories, cat)
			}
			sort.Strings(categories)
			for _, cat := range categories {
				fmt.Printf("  %-10s %d\n", cat, stats.ByCategory[cat])
			}
			return nil
		},
	}
}
