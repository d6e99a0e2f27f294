package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"metal-rates/internal/rates"
)

var nonDigitPattern = regexp.MustCompile(`[^\d]`)

// SourceOptions parameterise the price-feed fetcher.
type SourceOptions struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// Source fetches and normalizes readings from the upstream JSON feed.
type Source struct {
	opts   SourceOptions
	logger zerolog.Logger
	client *http.Client
	now    func() time.Time
}

// NewSource constructs a feed fetcher.
func NewSource(opts SourceOptions, logger zerolog.Logger) *Source {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Source{
		opts:   opts,
		logger: logger.With().Str("component", "source_fetcher").Logger(),
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

type feedRate struct {
	ID    string          `json:"id"`
	Price json.RawMessage `json:"price"`
}

type feedDocument struct {
	Date  string     `json:"date"`
	Rates []feedRate `json:"rates"`
}

// Fetch retrieves the feed document under a bounded timeout and normalizes it
// into a canonical reading. A timed-out or failed request is abandoned; no
// partial result is returned.
func (s *Source) Fetch(ctx context.Context) (rates.Reading, error) {
	timeout := s.opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.URL, nil)
	if err != nil {
		return rates.Reading{}, fmt.Errorf("%w: create request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(s.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return rates.Reading{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rates.Reading{}, fmt.Errorf("%w: feed responded %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var doc feedDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return rates.Reading{}, fmt.Errorf("%w: decode feed: %v", ErrInvalidPayload, err)
	}

	return s.normalize(doc)
}

func (s *Source) normalize(doc feedDocument) (rates.Reading, error) {
	if len(doc.Rates) == 0 {
		return rates.Reading{}, fmt.Errorf("%w: rates missing", ErrInvalidPayload)
	}

	var gold, silver *decimal.Decimal
	for _, r := range doc.Rates {
		price, err := parsePrice(r.Price)
		if err != nil {
			continue
		}
		switch r.ID {
		case string(rates.Gold):
			gold = &price
		case string(rates.Silver):
			silver = &price
		}
	}

	if gold == nil || silver == nil {
		return rates.Reading{}, fmt.Errorf("%w: gold/silver price missing", ErrInvalidPayload)
	}

	date := normalizeDate(doc.Date, s.now())

	s.logger.Debug().
		Str("date", date).
		Str("gold", gold.String()).
		Str("silver", silver.String()).
		Msg("reading normalized")

	return rates.Reading{Date: date, Gold: *gold, Silver: *silver}, nil
}

// parsePrice accepts a JSON number or a string with currency markup and
// reduces it to a positive decimal.
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Decimal{}, fmt.Errorf("price absent")
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var number float64
		if err := json.Unmarshal(raw, &number); err != nil {
			return decimal.Decimal{}, fmt.Errorf("price not numeric")
		}
		d := decimal.NewFromFloat(number)
		if d.Sign() <= 0 {
			return decimal.Decimal{}, fmt.Errorf("price not positive")
		}
		return d, nil
	}

	digits := nonDigitPattern.ReplaceAllString(text, "")
	if digits == "" {
		return decimal.Decimal{}, fmt.Errorf("price not numeric")
	}
	d, err := decimal.NewFromString(digits)
	if err != nil || d.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("price not positive")
	}
	return d, nil
}

var _ RateFetcher = (*Source)(nil)
