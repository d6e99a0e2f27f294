package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"metal-rates/internal/config"
	"metal-rates/internal/metrics"
	"metal-rates/internal/service"
)

// Server exposes the core read operations over HTTP.
type Server struct {
	cfg     config.ServerConfig
	svc     *service.Service
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// New constructs the HTTP transport.
func New(cfg config.ServerConfig, svc *service.Service, m *metrics.Metrics, logger zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		svc:     svc,
		metrics: m,
		logger:  logger.With().Str("component", "server").Logger(),
	}
}

// Handler assembles the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/prices", s.handlePrices)
	mux.HandleFunc("/market/history/7", s.historyHandler(7))
	mux.HandleFunc("/market/history/30", s.historyHandler(30))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	root := http.NewServeMux()
	root.Handle("/", s.middleware(mux))
	root.Handle("/metrics", promhttp.Handler())

	return root
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Int("port", s.cfg.Port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.GetPrices(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrServiceUnavailable) {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "error",
				"message": "Service unavailable",
			})
			return
		}
		s.logger.Error().Err(err).Msg("prices request failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "internal server error",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) historyHandler(days int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := s.svc.History(r.Context(), days)
		if err != nil {
			s.logger.Error().Err(err).Int("days", days).Msg("history request failed")
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"status":  "error",
				"message": "internal server error",
			})
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("encode response failed")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		s.metrics.HTTPRequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(duration.Seconds())
		s.metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.status)).Inc()

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("http request")
	})
}
