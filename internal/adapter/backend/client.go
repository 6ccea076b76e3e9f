package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/observability"
)

const (
	hourlyPath      = "/api/hourly-data"
	suggestionsPath = "/api/fashion-suggestions"

	endpointHourly      = "hourly"
	endpointSuggestions = "suggestions"
)

// Client talks to the weather backend's hourly-data and fashion-suggestions
// endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchHourly returns the ordered hourly forecast, filtered by zipcode when one
// is given. A non-2xx response yields a *domain.RequestError.
func (c *Client) FetchHourly(ctx context.Context, zipcode string) ([]domain.HourlyRecord, error) {
	u := c.baseURL + hourlyPath
	if zipcode != "" {
		u += "?" + url.Values{"zipcode": {zipcode}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var records []domain.HourlyRecord
	if err := c.do(req, endpointHourly, domain.MsgWeatherFailed, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchSuggestions posts the closet image and the current-hour weather as
// multipart form data and returns the suggestion text.
func (c *Client) FetchSuggestions(ctx context.Context, img domain.ClosetImage, weather domain.HourlyRecord) (string, error) {
	body, contentType, err := encodeSuggestionForm(img, weather)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+suggestionsPath, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var result suggestionsResponse
	if err := c.do(req, endpointSuggestions, domain.MsgSuggestionsFailed, &result); err != nil {
		return "", err
	}
	return result.Suggestions, nil
}

func (c *Client) do(req *http.Request, endpoint, fallback string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.BackendDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.BackendRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.BackendRequests.WithLabelValues(endpoint, "error").Inc()
		var apiErr errorResponse
		// The error body is optional; a missing or malformed one falls back.
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&apiErr)
		reqErr := domain.NewRequestError(resp.StatusCode, apiErr.Error, fallback)
		c.logger.Warn("backend returned error", "endpoint", endpoint, "status", resp.StatusCode, "error", reqErr.Message)
		return reqErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.BackendRequests.WithLabelValues(endpoint, "invalid").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.metrics.BackendRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

// encodeSuggestionForm builds the multipart body with an "image" file part and
// a "weather_data" JSON field.
func encodeSuggestionForm(img domain.ClosetImage, weather domain.HourlyRecord) (io.Reader, string, error) {
	weatherJSON, err := json.Marshal(weather)
	if err != nil {
		return nil, "", fmt.Errorf("encode weather data: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	h.Set("Content-Type", img.MediaType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}

	if err := w.WriteField("weather_data", string(weatherJSON)); err != nil {
		return nil, "", fmt.Errorf("write weather_data field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// Backend response types.

type errorResponse struct {
	Error string `json:"error"`
}

type suggestionsResponse struct {
	Suggestions string `json:"suggestions"`
}
