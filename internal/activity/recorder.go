// Package activity buffers activity events and ships them in batches.
package activity

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchWriter publishes a batch of activity events.
type BatchWriter interface {
	WriteBatch(ctx context.Context, events []domain.ActivityEvent) error
}

// Recorder queues events from request handlers and writes them from a single
// background loop. Record never blocks: when the buffer is full the event is
// dropped and counted.
type Recorder struct {
	writer        BatchWriter
	logger        *slog.Logger
	metrics       *observability.Metrics
	events        chan domain.ActivityEvent
	batchSize     int
	flushInterval time.Duration
	ready         atomic.Bool
}

// NewRecorder creates a Recorder. The buffer holds four batches.
func NewRecorder(w BatchWriter, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration) *Recorder {
	return &Recorder{
		writer:        w,
		logger:        logger,
		metrics:       metrics,
		events:        make(chan domain.ActivityEvent, batchSize*4),
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Record implements domain.ActivityRecorder.
func (r *Recorder) Record(_ context.Context, event domain.ActivityEvent) {
	select {
	case r.events <- event:
	default:
		r.metrics.ActivityDropped.Inc()
		r.logger.Warn("activity buffer full, dropping event", "kind", event.Kind, "id", event.ID)
	}
}

// CheckReadiness returns nil once the loop is running.
func (r *Recorder) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("activity recorder is not running")
	}
	return nil
}

// Run drains the buffer until ctx is cancelled, writing a batch when it is
// full or when the flush interval passes. Pending events are flushed once more
// on shutdown using a fresh context bounded by the flush interval.
func (r *Recorder) Run(ctx context.Context) error {
	r.logger.Info("activity recorder started", "batch_size", r.batchSize, "flush_interval", r.flushInterval)
	r.metrics.ActivityRunning.Set(1)
	r.ready.Store(true)
	defer func() {
		r.ready.Store(false)
		r.metrics.ActivityRunning.Set(0)
	}()

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.ActivityEvent, 0, r.batchSize)
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("activity recorder stopping", "reason", ctx.Err())
			r.drain(&batch)
			r.flushOnShutdown(batch)
			return nil
		case e := <-r.events:
			batch = append(batch, e)
			if len(batch) < r.batchSize {
				continue
			}
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
		}

		if !r.flush(ctx, &batch, &backoff) {
			r.flushOnShutdown(batch)
			return nil
		}
	}
}

// flush writes the batch, backing off after a failure. The batch is kept on
// failure and retried on the next flush. Returns false if ctx ended.
func (r *Recorder) flush(ctx context.Context, batch *[]domain.ActivityEvent, backoff *time.Duration) bool {
	if err := r.writer.WriteBatch(ctx, *batch); err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.logger.Error("write activity batch failed", "error", err, "batch_size", len(*batch))
		r.trim(batch)
		if !sleepWithContext(ctx, *backoff) {
			return false
		}
		*backoff = nextBackoff(*backoff, maxBackoff)
		return true
	}

	r.metrics.ActivityProduced.Add(float64(len(*batch)))
	r.metrics.ActivityBatch.Observe(float64(len(*batch)))
	*batch = (*batch)[:0]
	*backoff = initialBackoff
	return true
}

// trim drops the oldest events when a failing sink lets the retained batch
// grow past the buffer size.
func (r *Recorder) trim(batch *[]domain.ActivityEvent) {
	limit := cap(r.events)
	if over := len(*batch) - limit; over > 0 {
		r.metrics.ActivityDropped.Add(float64(over))
		*batch = append((*batch)[:0], (*batch)[over:]...)
	}
}

func (r *Recorder) drain(batch *[]domain.ActivityEvent) {
	for {
		select {
		case e := <-r.events:
			*batch = append(*batch, e)
		default:
			return
		}
	}
}

func (r *Recorder) flushOnShutdown(batch []domain.ActivityEvent) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.flushInterval+time.Second)
	defer cancel()
	if err := r.writer.WriteBatch(ctx, batch); err != nil {
		r.metrics.ActivityDropped.Add(float64(len(batch)))
		r.logger.Error("final activity flush failed", "error", err, "batch_size", len(batch))
		return
	}
	r.metrics.ActivityProduced.Add(float64(len(batch)))
	r.metrics.ActivityBatch.Observe(float64(len(batch)))
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
