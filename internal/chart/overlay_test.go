package chart

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
)

func TestOverlay_Lifecycle(t *testing.T) {
	fc := clockwork.NewFakeClock()
	domain.SetClock(fc)
	t.Cleanup(func() { domain.SetClock(nil) })

	var o Overlay
	assert.Equal(t, OverlayClosed, o.State())

	o.Open(3)
	assert.Equal(t, OverlayOpen, o.State())
	i, ok := o.Index()
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	o.Close()
	assert.Equal(t, OverlayClosing, o.State())
	_, ok = o.Index()
	assert.False(t, ok)

	fc.Advance(OverlayCloseDelay - time.Millisecond)
	assert.Equal(t, OverlayClosing, o.State())

	fc.Advance(time.Millisecond)
	assert.Equal(t, OverlayClosed, o.State())
}

func TestOverlay_CloseWhenClosedIsNoop(t *testing.T) {
	var o Overlay
	o.Close()
	assert.Equal(t, OverlayClosed, o.State())
}

func TestOverlay_ReopenWhileClosing(t *testing.T) {
	fc := clockwork.NewFakeClock()
	domain.SetClock(fc)
	t.Cleanup(func() { domain.SetClock(nil) })

	var o Overlay
	o.Open(1)
	o.Close()
	o.Open(5)
	fc.Advance(time.Second)

	i, ok := o.Index()
	assert.True(t, ok)
	assert.Equal(t, 5, i)
}

func TestOverlay_Apply(t *testing.T) {
	c := Build(hours(50, 60, 70))
	var o Overlay

	o.Open(2)
	o.Apply(&c)
	assert.InDelta(t, OpacitySelected, c.Bars[2].Opacity, 1e-9)

	o.Close()
	o.Apply(&c)
	for _, b := range c.Bars {
		assert.InDelta(t, OpacityDefault, b.Opacity, 1e-9)
	}
}

func TestOverlay_LastSurvivesClosing(t *testing.T) {
	var o Overlay
	o.Open(6)
	o.Close()
	assert.Equal(t, 6, o.Last())
}
