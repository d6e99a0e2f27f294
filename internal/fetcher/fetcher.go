package fetcher

import (
	"context"
	"errors"

	"metal-rates/internal/rates"
)

var (
	// ErrInvalidPayload indicates the upstream document was missing or
	// malformed in a required field.
	ErrInvalidPayload = errors.New("fetcher: invalid payload")
	// ErrUpstreamUnavailable indicates the feed could not be reached or
	// answered with a transport-level failure.
	ErrUpstreamUnavailable = errors.New("fetcher: upstream unavailable")
)

// RateFetcher retrieves a canonical reading from the upstream price feed.
type RateFetcher interface {
	Fetch(ctx context.Context) (rates.Reading, error)
}
