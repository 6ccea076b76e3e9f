// Package page implements the chart and weather-to-wear page flows on top of
// per-visitor session state.
package page

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/observability"
	"github.com/couchcryptid/weather-to-wear/internal/preference"
	"github.com/couchcryptid/weather-to-wear/internal/session"
)

// Page names used in metrics and activity events.
const (
	Chart = "chart"
	Wear  = "wear"
)

// ErrNoData is returned when the backend has no hours for a location.
var ErrNoData = errors.New(domain.MsgNoData)

// WeatherFetcher loads hourly forecasts.
type WeatherFetcher interface {
	FetchHourly(ctx context.Context, zipcode string) ([]domain.HourlyRecord, error)
}

// Suggester asks the backend for outfit suggestions.
type Suggester interface {
	FetchSuggestions(ctx context.Context, img domain.ClosetImage, weather domain.HourlyRecord) (string, error)
}

// Options tune a Controller.
type Options struct {
	DefaultLabel   string
	MaxUploadBytes int64
}

// Controller runs page operations against a visitor's session.
type Controller struct {
	weather   WeatherFetcher
	suggester Suggester
	activity  domain.ActivityRecorder
	metrics   *observability.Metrics
	logger    *slog.Logger
	opts      Options
}

// NewController wires a Controller. A nil activity recorder disables
// activity events.
func NewController(weather WeatherFetcher, suggester Suggester, activity domain.ActivityRecorder, metrics *observability.Metrics, logger *slog.Logger, opts Options) *Controller {
	if activity == nil {
		activity = nopRecorder{}
	}
	return &Controller{
		weather:   weather,
		suggester: suggester,
		activity:  activity,
		metrics:   metrics,
		logger:    logger,
		opts:      opts,
	}
}

// Bootstrap loads the stored zipcode into the session and runs the page's
// initial weather fetch.
func (c *Controller) Bootstrap(ctx context.Context, sess *session.Session, prefs preference.Store, page string) error {
	zip, _ := prefs.Get(ctx)
	sess.SetZipcode(zip)
	return c.refresh(ctx, sess, page)
}

// Search applies the location input. Invalid input leaves all state alone
// and makes no request. A valid zipcode is stored and fetched. Empty input
// clears the stored zipcode and fetches the default location.
func (c *Controller) Search(ctx context.Context, sess *session.Session, prefs preference.Store, page, input string) error {
	zip := strings.TrimSpace(input)
	if zip != "" && !domain.ValidZipcode(zip) {
		c.metrics.ValidationErrors.WithLabelValues("zipcode").Inc()
		c.record(ctx, domain.ActivitySearch, page, zip, domain.OutcomeInvalid)
		return &domain.ValidationError{Reason: "zipcode", Message: domain.MsgInvalidZipcode}
	}

	sess.SetZipcode(zip)
	if err := prefs.Set(ctx, zip); err != nil {
		c.logger.Warn("preference write failed, keeping zipcode for this session",
			"session", sess.ID, "zipcode", zip, "error", err)
	}
	c.record(ctx, domain.ActivitySearch, page, zip, domain.OutcomeSuccess)
	return c.refresh(ctx, sess, page)
}

// refresh fetches weather for the session's zipcode. A result that lost the
// race to a newer fetch is dropped without error.
func (c *Controller) refresh(ctx context.Context, sess *session.Session, page string) error {
	zip := sess.Zipcode()
	gen := sess.Begin()

	records, err := c.weather.FetchHourly(ctx, zip)
	if !c.settle(sess, gen, page, records, err) {
		c.metrics.StaleFetches.Inc()
		c.logger.Debug("stale weather fetch dropped", "session", sess.ID, "zipcode", zip)
		return nil
	}

	switch {
	case err != nil:
		c.metrics.PageRenders.WithLabelValues(page, domain.OutcomeError).Inc()
		c.recordRender(ctx, page, zip, domain.OutcomeError)
		c.logger.Error("weather fetch failed", "session", sess.ID, "zipcode", zip, "error", err)
		return asRequestError(err, domain.MsgWeatherFailed)
	case len(records) == 0:
		c.metrics.PageRenders.WithLabelValues(page, domain.OutcomeEmpty).Inc()
		c.recordRender(ctx, page, zip, domain.OutcomeEmpty)
		if page == Chart {
			return ErrNoData
		}
		return nil
	default:
		c.metrics.PageRenders.WithLabelValues(page, domain.OutcomeSuccess).Inc()
		c.recordRender(ctx, page, zip, domain.OutcomeSuccess)
		return nil
	}
}

// settle stores the fetch result if gen is still current. A failed fetch
// clears the chart page but leaves the wear page's snapshot in place so a
// later submit can still use it.
func (c *Controller) settle(sess *session.Session, gen uint64, page string, records []domain.HourlyRecord, err error) bool {
	switch {
	case err == nil:
		return sess.Apply(gen, records)
	case page == Chart:
		return sess.Apply(gen, nil)
	default:
		return sess.Current(gen)
	}
}

func (c *Controller) recordRender(ctx context.Context, page, zip, outcome string) {
	if page == Chart {
		c.record(ctx, domain.ActivityChartRender, page, zip, outcome)
	}
}

func (c *Controller) record(ctx context.Context, kind, page, zip, outcome string) {
	c.activity.Record(ctx, domain.NewActivityEvent(kind, page, zip, outcome))
}

// Banner returns the message to show for err, or "" for nil.
func Banner(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// asRequestError keeps backend errors as they are and wraps anything else
// (transport, decoding) behind a generic message.
func asRequestError(err error, fallback string) error {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return &domain.RequestError{Message: fallback, Err: err}
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, domain.ActivityEvent) {}
