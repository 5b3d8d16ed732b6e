package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engeybot/internal/completion"
	"engeybot/internal/config"
	"engeybot/internal/handler"
	"engeybot/internal/metrics"
	"engeybot/internal/poller"
	"engeybot/internal/repository"
	"engeybot/internal/repository/file"
	"engeybot/internal/repository/postgres"
	"engeybot/internal/repository/sqlite"
	"engeybot/internal/service"
	"engeybot/internal/speech"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting EngeyBot",
		zap.String("completion_provider", cfg.Completion.Provider),
		zap.String("registry_backend", cfg.Registry.Backend),
		zap.String("speech_mode", cfg.Speech.Mode),
		zap.Bool("grounding", cfg.Completion.GeminiGrounding),
		zap.Int("allowed_users", len(cfg.AllowedUsers)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize chat registry
	registry, closeRegistry, err := openRegistry(cfg.Registry, logger)
	if err != nil {
		logger.Fatal("Failed to open chat registry", zap.Error(err))
	}
	defer closeRegistry()

	logger.Info("Chat registry ready")

	// Initialize completion client
	completer, closeCompleter, err := newCompleter(ctx, cfg.Completion)
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}
	defer closeCompleter()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: poller.NewRetryPoller(cfg.Telegram.PollTimeout, cfg.Telegram.RetryDelay, logger),
		Client: &http.Client{Timeout: cfg.Telegram.PollTimeout + cfg.Telegram.PlatformTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler returned error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	// Initialize services
	notifier := service.NewAdminNotifier(handler.NewBotSender(bot), cfg.AdminChatID, logger)

	filter := service.NewTriggerFilter(service.TriggerOptions{
		Marker:           cfg.Trigger.Marker,
		CaseInsensitive:  cfg.Trigger.CaseInsensitive,
		Strip:            cfg.Trigger.Strip,
		RespondInPrivate: cfg.Trigger.RespondInPrivate,
	})

	relay := service.NewRelayService(filter, completer, notifier, service.RelayConfig{
		MaxPromptLength:   cfg.Completion.MaxPromptLength,
		CompletionTimeout: cfg.Completion.Timeout,
		SpeechMode:        service.SpeechMode(cfg.Speech.Mode),
		SpeechMarker:      cfg.Speech.Marker,
		SpeechPerformer:   cfg.Speech.Performer,
		SpeechTimeout:     cfg.Speech.Timeout,
	}, logger)

	if cfg.UseModeration() {
		relay.SetModerator(completion.NewOpenAIClient(
			cfg.Completion.OpenAIKey,
			cfg.Completion.OpenAIBaseURL,
			cfg.Completion.OpenAIModel,
			cfg.Completion.SystemPrompt,
		))
	}
	if cfg.Speech.Mode != string(service.SpeechOff) {
		relay.SetSynthesizer(speech.NewOpenAISynthesizer(
			cfg.Completion.OpenAIKey,
			cfg.Completion.OpenAIBaseURL,
			cfg.Speech.Model,
			cfg.Speech.Voice,
		))
	}

	broadcastService := service.NewBroadcastService(registry, handler.NewBotSender(bot), logger)
	statsService := service.NewStatsService(registry, notifier, logger)

	// Initialize handler
	h := handler.NewHandler(bot, handler.Services{
		Relay:     relay,
		Broadcast: broadcastService,
		Stats:     statsService,
		Registry:  registry,
		Notifier:  notifier,
	}, handler.Settings{
		AdminChatID:  cfg.AdminChatID,
		AllowedUsers: cfg.AllowedUsers,
		Marker:       cfg.Trigger.Marker,
		Timeout:      cfg.Telegram.PlatformTimeout,
	}, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start background jobs
	if cfg.MetricsAddr != "" {
		go metrics.Serve(ctx, metrics.NewServer(cfg.MetricsAddr), logger)
	}

	if cfg.StatsInterval > 0 {
		go runStatsJob(ctx, statsService, cfg.StatsInterval, logger)
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// openRegistry builds the configured registry backend and its close function
func openRegistry(cfg config.RegistryConfig, logger *zap.Logger) (repository.ChatRegistry, func(), error) {
	switch cfg.Backend {
	case "postgres":
		db, err := connectDatabase(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrations(db, cfg.MigrationsPath, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewRegistry(db), func() { db.Close() }, nil
	case "sqlite":
		reg, err := sqlite.NewRegistry(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return reg, func() { reg.Close() }, nil
	default:
		return file.NewRegistry(cfg.Path, cfg.LockPath), func() {}, nil
	}
}

// newCompleter builds the configured completion provider and its close function
func newCompleter(ctx context.Context, cfg config.CompletionConfig) (service.Completer, func(), error) {
	if cfg.Provider == "gemini" && cfg.GeminiGrounding {
		client, err := completion.NewGroundedGeminiClient(ctx, completion.GroundedOptions{
			APIKey:       cfg.GeminiKey,
			Model:        cfg.GeminiModel,
			SystemPrompt: cfg.SystemPrompt,
			SourcesLabel: cfg.SourcesLabel,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
	if cfg.Provider == "gemini" {
		client, err := completion.NewGeminiClient(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.SystemPrompt)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	}
	client := completion.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.SystemPrompt)
	return client, func() {}, nil
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations creates the known_chats table when missing
func runMigrations(db *sql.DB, source string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runStatsJob posts the registry summary to the admin chat on every tick
func runStatsJob(ctx context.Context, statsService *service.StatsService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stats job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled stats report")
			if err := statsService.Report(ctx); err != nil {
				logger.Error("Failed to run scheduled stats report", zap.Error(err))
			}
		}
	}
}
