package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"golang.org/x/time/rate"
)

// Suggester produces outfit suggestions for an image and a weather snapshot.
type Suggester interface {
	FetchSuggestions(ctx context.Context, img domain.ClosetImage, weather domain.HourlyRecord) (string, error)
}

// RateLimitedSuggester wraps a Suggester with a token bucket shared by every
// visitor.
type RateLimitedSuggester struct {
	inner   Suggester
	limiter *rate.Limiter
}

// NewRateLimitedSuggester allows rps requests per second with the given burst.
func NewRateLimitedSuggester(inner Suggester, rps float64, burst int) *RateLimitedSuggester {
	return &RateLimitedSuggester{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchSuggestions waits for a token, then forwards to the wrapped Suggester.
// If the wait cannot finish before the context deadline the request is
// rejected with a RequestError the page can show.
func (r *RateLimitedSuggester) FetchSuggestions(ctx context.Context, img domain.ClosetImage, weather domain.HourlyRecord) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("rate limit wait canceled: %w", err)
		}
		return "", &domain.RequestError{Status: http.StatusTooManyRequests, Message: domain.MsgSuggestionsBusy}
	}
	return r.inner.FetchSuggestions(ctx, img, weather)
}

var (
	_ Suggester = (*Client)(nil)
	_ Suggester = (*RateLimitedSuggester)(nil)
)
