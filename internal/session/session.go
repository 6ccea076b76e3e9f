// Package session holds per-visitor page state between requests.
package session

import (
	"sync"

	"github.com/couchcryptid/weather-to-wear/internal/chart"
	"github.com/couchcryptid/weather-to-wear/internal/domain"
)

// Session is one visitor's page state. All methods are safe for concurrent
// use; a visitor may have several requests in flight.
type Session struct {
	ID string

	mu          sync.Mutex
	zipcode     string
	weather     []domain.HourlyRecord
	generation  uint64
	overlay     chart.Overlay
	upload      *domain.ClosetImage
	loading     bool
	suggestions string
}

// Zipcode returns the value last entered in the location input.
func (s *Session) Zipcode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zipcode
}

// SetZipcode records the location input value.
func (s *Session) SetZipcode(z string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zipcode = z
}

// Begin starts a weather fetch. It closes the overlay and returns a
// generation number to pass to Apply or Current.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.overlay = chart.Overlay{}
	return s.generation
}

// Current reports whether gen is still the latest fetch. A failed fetch uses
// it in place of Apply to keep the weather already loaded.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// Apply stores the result of fetch gen. It returns false and leaves state
// untouched when a newer fetch has begun since.
func (s *Session) Apply(gen uint64, records []domain.HourlyRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.weather = domain.Window(records)
	return true
}

// Weather returns a copy of the loaded forecast window.
func (s *Session) Weather() []domain.HourlyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Window(s.weather)
}

// Snapshot returns the current-hour record, if weather is loaded.
func (s *Session) Snapshot() (domain.HourlyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot(s.weather)
}

// OpenHour opens the detail overlay for bar i. It returns false when i does
// not name a loaded hour.
func (s *Session) OpenHour(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.weather) {
		return false
	}
	s.overlay.Open(i)
	return true
}

// CloseHour starts dismissing the detail overlay.
func (s *Session) CloseHour() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Close()
}

// Overlay returns the overlay state and the hour it shows.
func (s *Session) Overlay() (chart.OverlayState, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.State(), s.overlay.Last()
}

// Chart lays out the loaded weather with the overlay's emphasis applied.
func (s *Session) Chart() chart.Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := chart.Build(s.weather)
	s.overlay.Apply(&c)
	return c
}

// SetUpload replaces the selected closet photo. Nil clears it.
func (s *Session) SetUpload(img *domain.ClosetImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = img
}

// Upload returns the selected closet photo, if any.
func (s *Session) Upload() (domain.ClosetImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upload == nil {
		return domain.ClosetImage{}, false
	}
	return *s.upload, true
}

// SetLoading flags a suggestion request in flight.
func (s *Session) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// Loading reports whether a suggestion request is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetSuggestions stores the latest suggestion text. Empty clears it.
func (s *Session) SetSuggestions(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = text
}

// Suggestions returns the latest suggestion text.
func (s *Session) Suggestions() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions
}
