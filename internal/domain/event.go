package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity kinds published to the activity topic.
const (
	ActivitySearch      = "search"
	ActivityChartRender = "chart_render"
	ActivitySuggestions = "suggestions"
)

// Activity outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// ActivityEvent records one user-visible action on a page.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Page       string    `json:"page"`
	Zipcode    string    `json:"zipcode,omitempty"`
	Outcome    string    `json:"outcome"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewActivityEvent stamps an event with a fresh id and the package clock.
func NewActivityEvent(kind, page, zipcode, outcome string) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Page:       page,
		Zipcode:    zipcode,
		Outcome:    outcome,
		OccurredAt: clock.Now().UTC(),
	}
}

// ActivityRecorder accepts activity events. Implementations must not block the
// caller on a slow sink.
type ActivityRecorder interface {
	Record(ctx context.Context, event ActivityEvent)
}
