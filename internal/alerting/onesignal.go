package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// OneSignalOptions parameterise the push channel.
type OneSignalOptions struct {
	AppID            string
	APIKey           string
	AndroidChannelID string
	APIBase          string
	Timeout          time.Duration
}

// OneSignalNotifier pushes notifications to all subscribed devices via the
// OneSignal REST API.
type OneSignalNotifier struct {
	opts    OneSignalOptions
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewOneSignalNotifier constructs the push notifier.
func NewOneSignalNotifier(opts OneSignalOptions, logger zerolog.Logger) *OneSignalNotifier {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(opts.APIBase, "/")
	if baseURL == "" {
		baseURL = "https://onesignal.com/api/v1"
	}

	return &OneSignalNotifier{
		opts:    opts,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "alert_onesignal").Logger(),
	}
}

type oneSignalRequest struct {
	AppID             string            `json:"app_id"`
	IncludedSegments  []string          `json:"included_segments"`
	AndroidChannelID  string            `json:"android_channel_id,omitempty"`
	Headings          map[string]string `json:"headings"`
	Contents          map[string]string `json:"contents"`
	Data              map[string]string `json:"data"`
	Priority          int               `json:"priority"`
	AndroidVisibility int               `json:"android_visibility"`
	AndroidSound      string            `json:"android_sound"`
	TTL               int               `json:"ttl"`
}

type oneSignalResponse struct {
	ID     string          `json:"id"`
	Errors json.RawMessage `json:"errors"`
}

// Notify creates a OneSignal notification targeting the All segment.
func (n *OneSignalNotifier) Notify(ctx context.Context, note Notification) error {
	payload := oneSignalRequest{
		AppID:             n.opts.AppID,
		IncludedSegments:  []string{"All"},
		AndroidChannelID:  n.opts.AndroidChannelID,
		Headings:          map[string]string{"en": note.Title},
		Contents:          map[string]string{"en": note.Body},
		Data:              map[string]string{"type": "gold"},
		Priority:          10,
		AndroidVisibility: 1,
		AndroidSound:      "default",
		TTL:               60,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal onesignal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create onesignal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+n.opts.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send onesignal request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("onesignal responded %d", resp.StatusCode)
	}

	var result oneSignalResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if len(result.Errors) > 0 && string(result.Errors) != "null" {
			return fmt.Errorf("onesignal rejected notification: %s", result.Errors)
		}
	}

	n.logger.Info().Str("title", note.Title).Msg("notification sent (OneSignal)")
	return nil
}

var _ Notifier = (*OneSignalNotifier)(nil)
