package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"metal-rates/internal/alerting"
	"metal-rates/internal/config"
	"metal-rates/internal/fetcher"
	"metal-rates/internal/metrics"
	"metal-rates/internal/rates"
	"metal-rates/internal/state"
)

// ErrServiceUnavailable indicates there is no live data and no cached
// snapshot to fall back to. It is the only failure surfaced to consumers.
var ErrServiceUnavailable = errors.New("service: no live data and no cached snapshot")

// Service orchestrates ingestion, change detection, caching, and alerting.
type Service struct {
	fetcher     fetcher.RateFetcher
	ledger      *state.HistoryLedger
	cache       *state.SnapshotCache
	notifyState *state.NotifyState
	notifier    alerting.Notifier
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	detector   rates.Detector
	maxEntries int
	unit       string
	sourceName string
	alertsOn   bool
}

// New constructs the orchestrator.
func New(cfg *config.Config, f fetcher.RateFetcher, ledger *state.HistoryLedger, cache *state.SnapshotCache, notifyState *state.NotifyState, notifier alerting.Notifier, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:     f,
		ledger:      ledger,
		cache:       cache,
		notifyState: notifyState,
		notifier:    notifier,
		metrics:     m,
		logger:      logger.With().Str("component", "service").Logger(),
		detector:    rates.Detector{CarryDirection: cfg.History.CarryDirection},
		maxEntries:  cfg.History.MaxEntries,
		unit:        cfg.History.Unit,
		sourceName:  cfg.Source.Name,
		alertsOn:    cfg.Alerting.Enabled,
	}
}

// GetPrices runs one ingestion cycle and returns the consumer payload. Fetch
// and normalization failures degrade to the last cached snapshot marked
// stale; only a missing cache becomes ErrServiceUnavailable.
func (s *Service) GetPrices(ctx context.Context) (*Response, error) {
	reading, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.metrics.IngestFailureTotal.Inc()
		s.logger.Warn().Err(err).Msg("live fetch failed, trying cache")
		return s.fallback(ctx)
	}

	resp := s.ingest(ctx, reading)
	s.metrics.IngestSuccessTotal.Inc()
	return resp, nil
}

// Tick is the scheduler entry point: one full ingestion cycle followed by
// the notification cycle.
func (s *Service) Tick(ctx context.Context, _ time.Time) error {
	_, err := s.RunCycle(ctx)
	return err
}

// RunCycle performs one ingestion cycle followed by the notification cycle
// and returns the built payload. The payload is valid even when notification
// delivery fails.
func (s *Service) RunCycle(ctx context.Context) (*Response, error) {
	reading, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.metrics.IngestFailureTotal.Inc()
		return nil, fmt.Errorf("fetch reading: %w", err)
	}

	resp := s.ingest(ctx, reading)
	s.metrics.IngestSuccessTotal.Inc()

	if err := s.notify(ctx, reading); err != nil {
		return resp, err
	}
	return resp, nil
}

// History returns the most recent N days of the ledger.
func (s *Service) History(ctx context.Context, days int) (*HistoryResponse, error) {
	unit, entries, err := s.ledger.Recent(ctx, days)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{Unit: unit, Days: days, Data: entries}, nil
}

// ingest runs detection and the conditional append as one atomic ledger
// update, then overwrites the snapshot. Persistence failures are logged and
// counted but never abort the in-flight response.
func (s *Service) ingest(ctx context.Context, reading rates.Reading) *Response {
	var resp *Response
	err := s.ledger.Update(ctx, func(h *rates.History) bool {
		prevGold := rates.LastDifferent(h, rates.Gold, reading.Gold)
		prevSilver := rates.LastDifferent(h, rates.Silver, reading.Silver)

		goldChange := s.detector.Change(reading.Gold, prevGold, h.LastDirection(rates.Gold))
		silverChange := s.detector.Change(reading.Silver, prevSilver, h.LastDirection(rates.Silver))

		changed := h.Append(reading, goldChange.Direction, silverChange.Direction, s.maxEntries)

		resp = &Response{
			Source: s.sourceName,
			Status: StatusLive,
			Date:   reading.Date,
			Unit:   s.unit,
			Rates: []Rate{
				s.buildRate(rates.Gold, reading, prevGold, goldChange),
				s.buildRate(rates.Silver, reading, prevSilver, silverChange),
			},
		}
		return changed
	})
	if err != nil {
		s.metrics.PersistFailureTotal.Inc()
		s.logger.Error().Err(err).Msg("history persist failed, response may diverge from stored state")
	}

	doc, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("marshal snapshot failed")
		return resp
	}
	if err := s.cache.Put(ctx, doc); err != nil {
		s.metrics.PersistFailureTotal.Inc()
		s.logger.Error().Err(err).Msg("snapshot persist failed")
	}

	s.logger.Info().
		Str("date", reading.Date).
		Str("gold", reading.Gold.String()).
		Str("silver", reading.Silver.String()).
		Msg("reading ingested")

	return resp
}

func (s *Service) buildRate(m rates.Metal, reading rates.Reading, previous *decimal.Decimal, change rates.Change) Rate {
	return Rate{
		ID:        string(m),
		Title:     metalTitles[m],
		Price:     reading.Price(m),
		Previous:  previous,
		Change:    change.Change,
		Percent:   change.Percent,
		Direction: change.Direction,
	}
}

// fallback serves the last snapshot with a presentation-only stale marker;
// the mutated copy is never written back to the cache.
func (s *Service) fallback(ctx context.Context) (*Response, error) {
	doc, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("cache read failed")
		return nil, ErrServiceUnavailable
	}
	if !ok {
		return nil, ErrServiceUnavailable
	}

	var snap Response
	if err := json.Unmarshal(doc, &snap); err != nil {
		s.logger.Error().Err(err).Msg("cached snapshot corrupt")
		return nil, ErrServiceUnavailable
	}

	snap.Status = StatusStale
	snap.Message = staleMessage
	s.metrics.StaleServedTotal.Inc()
	return &snap, nil
}

// notify runs the dedupe gate and advances NotifyState only after every
// configured channel confirmed the send.
func (s *Service) notify(ctx context.Context, reading rates.Reading) error {
	if !s.alertsOn || s.notifier == nil {
		return nil
	}

	return s.notifyState.Transition(ctx, func(last *rates.Reading) (*rates.Reading, error) {
		decision := alerting.Decide(last, reading)
		if !decision.ShouldNotify {
			return nil, nil
		}

		if err := s.notifier.Notify(ctx, decision.Notification()); err != nil {
			s.metrics.NotificationsFailedTotal.Inc()
			return nil, fmt.Errorf("deliver notification: %w", err)
		}

		s.metrics.NotificationsSentTotal.Inc()
		s.logger.Info().Str("date", reading.Date).Int("messages", len(decision.Messages)).Msg("notification sent")

		next := reading
		return &next, nil
	})
}
