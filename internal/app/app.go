package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"metal-rates/internal/alerting"
	"metal-rates/internal/config"
	"metal-rates/internal/fetcher"
	"metal-rates/internal/metrics"
	"metal-rates/internal/scheduler"
	"metal-rates/internal/server"
	"metal-rates/internal/service"
	"metal-rates/internal/state"
	"metal-rates/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting the rolling history.
type ExportOptions struct {
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

func (a *App) openStore(ctx context.Context) (storage.DocumentStore, func(), error) {
	store, err := storage.Open(ctx, a.Config.Storage)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("close store failed")
		}
	}
	return store, closer, nil
}

func (a *App) newLedger(store storage.DocumentStore) *state.HistoryLedger {
	return state.NewHistoryLedger(store, a.Config.History.Unit, a.Logger)
}

func (a *App) newFetcher() fetcher.RateFetcher {
	return fetcher.NewSource(fetcher.SourceOptions{
		URL:       a.Config.Source.URL,
		Timeout:   a.Config.Source.RequestTimeout,
		UserAgent: a.Config.Source.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	var channels alerting.Fanout

	if a.Config.Alerting.OneSignal.Enabled {
		cfg := a.Config.Alerting.OneSignal
		channels = append(channels, alerting.NewOneSignalNotifier(alerting.OneSignalOptions{
			AppID:            cfg.AppID,
			APIKey:           cfg.APIKey,
			AndroidChannelID: cfg.AndroidChannelID,
			APIBase:          cfg.APIBase,
			Timeout:          10 * time.Second,
		}, a.Logger))
	}
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		channels = append(channels, alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger))
	}

	if len(channels) == 0 {
		return nil
	}
	return channels
}

func (a *App) newService(store storage.DocumentStore, m *metrics.Metrics) *service.Service {
	return service.New(
		a.Config,
		a.newFetcher(),
		a.newLedger(store),
		state.NewSnapshotCache(store),
		state.NewNotifyState(store),
		a.newNotifier(),
		m,
		a.Logger,
	)
}

// Run executes the long-running service: HTTP transport plus the scheduled
// ingestion/notification loop.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := a.newService(store, m)

	srv := server.New(a.Config.Server, svc, m, a.Logger)
	sched := scheduler.New(scheduler.Options{
		Interval:        a.Config.Scheduler.Interval,
		AlignToInterval: a.Config.Scheduler.AlignToInterval,
		StartupDelay:    a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Msg("starting metalwatch service")

	errCh := make(chan error, 2)
	go func() { errCh <- srv.Run(ctx) }()
	go func() { errCh <- sched.Run(ctx, svc.Tick) }()

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			if firstErr == nil {
				firstErr = err
			}
			cancel()
		}
	}

	if firstErr != nil {
		a.Logger.Error().Err(firstErr).Msg("service terminated with error")
		return firstErr
	}

	a.Logger.Info().Msg("service stopped")
	return nil
}
