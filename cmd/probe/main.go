// Command probe checks a running weather backend against the contract the web
// front end relies on: hourly records in order with the expected fields, the
// JSON error shape, and outfit suggestions for a closet photo.
//
// Usage:
//
//	go run ./cmd/probe -backend http://localhost:5000 -zipcode 49503 -image closet.jpg
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/weather-to-wear/internal/adapter/backend"
	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/observability"
	"github.com/couchcryptid/weather-to-wear/internal/upload"
)

// datetimeLayouts are the datetime forms backends are known to send.
var datetimeLayouts = []string{"15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// sampleImage is a minimal PNG used when no -image is given.
var sampleImage = domain.ClosetImage{
	Filename:  "probe.png",
	MediaType: "image/png",
	Data:      []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
}

// phase tracks pass/fail for a contract check.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	backendURL string
	zipcode    string
	badZipcode string
	imagePath  string
	timeout    time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.backendURL, "backend", "http://localhost:5000", "weather backend base URL")
	flag.StringVar(&opts.zipcode, "zipcode", "49503", "zipcode for the filtered forecast check")
	flag.StringVar(&opts.badZipcode, "bad-zipcode", "not-a-zip", "zipcode the backend must reject")
	flag.StringVar(&opts.imagePath, "image", "", "closet photo for the suggestions check (default: built-in sample)")
	flag.DurationVar(&opts.timeout, "timeout", 60*time.Second, "per-request timeout")
	flag.Parse()

	if code := run(context.Background(), os.Stdout, opts); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, out io.Writer, opts options) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := backend.NewClient(opts.backendURL, opts.timeout, observability.NewMetricsForTesting(), logger)

	img := sampleImage
	if opts.imagePath != "" {
		loaded, err := upload.ReadFile(opts.imagePath, 10<<20)
		if err != nil {
			fmt.Fprintf(out, "FATAL: load image: %v\n", err)
			return 1
		}
		img = loaded
	}

	fmt.Fprintf(out, "=== Weather Backend Contract Probe (%s) ===\n\n", opts.backendURL)

	defaultHours, defaultPhase := checkHourly(ctx, client, "Hourly data (default location)", "")
	_, zipPhase := checkHourly(ctx, client, "Hourly data (zipcode "+opts.zipcode+")", opts.zipcode)

	phases := []*phase{
		defaultPhase,
		zipPhase,
		checkErrorShape(ctx, client, opts.badZipcode),
		checkSuggestions(ctx, client, img, defaultHours),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nRecords: %d hourly (default location)\n", len(defaultHours))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll checks passed.")
		return 0
	}
	fmt.Fprintln(out, "\nProbe FAILED.")
	return 1
}

func checkHourly(ctx context.Context, client *backend.Client, name, zipcode string) ([]domain.HourlyRecord, *phase) {
	p := &phase{name: name}

	records, err := client.FetchHourly(ctx, zipcode)
	if err != nil {
		p.errorf("fetch: %v", describe(err))
		return nil, p
	}
	if len(records) == 0 {
		p.errorf("no records returned")
		return nil, p
	}
	if len(records) < domain.ForecastWindow {
		p.errorf("only %d records, pages render %d", len(records), domain.ForecastWindow)
	}

	prevHour := -1
	for i, r := range records {
		t, ok := parseDatetime(r.Datetime)
		if !ok {
			p.errorf("record %d: unrecognized datetime %q", i, r.Datetime)
			prevHour = -1
			continue
		}
		if prevHour >= 0 && t.Hour() != (prevHour+1)%24 {
			p.errorf("record %d: hour %s does not follow %02d:00", i, r.Datetime, prevHour)
		}
		prevHour = t.Hour()
		if r.Humidity < 0 || r.Humidity > 100 {
			p.errorf("record %d: humidity %.1f out of range", i, r.Humidity)
		}
		if r.Windspeed < 0 {
			p.errorf("record %d: negative windspeed %.1f", i, r.Windspeed)
		}
		if r.Precipitation < 0 {
			p.errorf("record %d: negative precipitation %.2f", i, r.Precipitation)
		}
	}
	return records, p
}

func checkErrorShape(ctx context.Context, client *backend.Client, badZipcode string) *phase {
	p := &phase{name: "Error shape (rejected zipcode)"}

	_, err := client.FetchHourly(ctx, badZipcode)
	if err == nil {
		p.errorf("zipcode %q was accepted", badZipcode)
		return p
	}

	var reqErr *domain.RequestError
	switch {
	case !errors.As(err, &reqErr):
		p.errorf("expected an error response, got %v", err)
	case reqErr.Status < 400 || reqErr.Status >= 500:
		p.errorf("status %d, want 4xx", reqErr.Status)
	case reqErr.Message == domain.MsgWeatherFailed:
		p.errorf("status %d without an {\"error\": ...} body", reqErr.Status)
	}
	return p
}

func checkSuggestions(ctx context.Context, client *backend.Client, img domain.ClosetImage, hours []domain.HourlyRecord) *phase {
	p := &phase{name: "Fashion suggestions"}

	current, ok := domain.Snapshot(hours)
	if !ok {
		p.errorf("skipped: no current-hour weather to send")
		return p
	}

	text, err := client.FetchSuggestions(ctx, img, current)
	if err != nil {
		p.errorf("fetch: %v", describe(err))
		return p
	}
	if len(domain.FormatSuggestions(text)) == 0 {
		p.errorf("empty suggestions text")
	}
	return p
}

func parseDatetime(s string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func describe(err error) string {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.String()
	}
	return err.Error()
}
