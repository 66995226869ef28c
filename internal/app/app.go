package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coindigest/internal/config"
	"coindigest/internal/digest"
	"coindigest/internal/fetch"
	"coindigest/internal/infrastructure/feeds"
	"coindigest/internal/infrastructure/scheduler"
	"coindigest/internal/infrastructure/summary"
	"coindigest/internal/infrastructure/telegram"
	"coindigest/internal/logging"
	"coindigest/internal/tracker"
	"coindigest/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// Application wires configuration into the update cycle engine and its
// lifecycle.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	scheduler *usecase.Scheduler
	bot       *telegram.Bot
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := fetch.NewRegistry()
	registry.Register(feeds.NewCryptoPanicStrategy(cfg.Source.CryptoPanic, nil))
	registry.Register(feeds.NewRSSStrategy(nil))

	source := feeds.NewStrategySource(registry, cfg.Source, baseLogger.With("component", "source"))

	seen := tracker.New(cfg.Tracker.Capacity)

	provider := summary.NewProvider(cfg.Summary)
	composer := digest.NewComposer(provider, cfg.Digest.TopPerCategory,
		cfg.Summary.Timeout.Std(), baseLogger.With("component", "composer"))

	notifier := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken,
		cfg.Notifications.Telegram.APIBaseURL)

	engine := usecase.NewEngine(usecase.EngineDeps{
		Source:       source,
		Tracker:      seen,
		Composer:     composer,
		Notifier:     notifier,
		Channel:      cfg.Notifications.Telegram.ChatID,
		Categories:   cfg.Source.CategoryNames(),
		Threshold:    cfg.Scheduler.Threshold,
		FetchTimeout: cfg.Scheduler.FetchTimeout.Std(),
		Logger:       baseLogger.With("component", "engine"),
	})

	interval := cfg.Scheduler.Interval.Std()
	driver := scheduler.NewIntervalScheduler(interval, func() time.Duration {
		return usecase.FailurePenalty(engine.ConsecutiveFailures(), interval)
	})
	sched := usecase.NewScheduler(driver, engine, baseLogger.With("component", "scheduler"))

	var bot *telegram.Bot
	if !cfg.Notifications.Telegram.DisableCommands && cfg.Notifications.Telegram.BotToken != "" {
		bot = telegram.NewBot(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.APIBaseURL,
			notifier,
			engine,
			baseLogger.With("component", "bot"),
		)
	}

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		scheduler: sched,
		bot:       bot,
	}
}

// Run starts the periodic scheduler and the command bot, then blocks until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler == nil {
		return fmt.Errorf("application not initialized")
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	if a.bot != nil {
		if err := a.bot.Start(ctx); err != nil {
			return fmt.Errorf("start telegram bot: %w", err)
		}
	}

	a.logger.Info("application started",
		"provider", a.cfg.Source.Provider,
		"categories", len(a.cfg.Source.Categories),
		"interval", a.cfg.Scheduler.Interval.Std().String(),
		"threshold", a.cfg.Scheduler.Threshold,
		"commands", a.bot != nil)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.bot != nil {
		_ = a.bot.Stop(shutdownCtx)
	}
	_ = a.scheduler.Stop(shutdownCtx)

	a.logger.Info("application stopped")
	return nil
}
