package chart

import (
	"time"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
)

// OverlayCloseDelay is how long the detail overlay plays its dismissal
// animation before it is hidden.
const OverlayCloseDelay = 300 * time.Millisecond

// OverlayState is the visibility of the hour detail overlay.
type OverlayState int

const (
	OverlayClosed OverlayState = iota
	OverlayOpen
	OverlayClosing
)

func (s OverlayState) String() string {
	switch s {
	case OverlayOpen:
		return "open"
	case OverlayClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Overlay tracks which hour's detail is shown. The zero value is closed.
type Overlay struct {
	state    OverlayState
	index    int
	closedAt time.Time
}

// Open shows the detail for bar i.
func (o *Overlay) Open(i int) {
	o.state = OverlayOpen
	o.index = i
	o.closedAt = time.Time{}
}

// Close starts the dismissal animation. Closing an overlay that is not open
// is a no-op.
func (o *Overlay) Close() {
	if o.state != OverlayOpen {
		return
	}
	o.state = OverlayClosing
	o.closedAt = domain.Clock().Now()
}

// State reports the current state, settling Closing into Closed once the
// close delay has elapsed.
func (o *Overlay) State() OverlayState {
	if o.state == OverlayClosing && domain.Clock().Since(o.closedAt) >= OverlayCloseDelay {
		o.state = OverlayClosed
	}
	return o.state
}

// Index returns the open bar index and whether a bar is selected.
func (o *Overlay) Index() (int, bool) {
	if o.State() != OverlayOpen {
		return 0, false
	}
	return o.index, true
}

// Last returns the most recently opened bar index, which stays valid while
// the overlay is closing.
func (o *Overlay) Last() int { return o.index }

// Apply sets bar emphasis on c to match the overlay.
func (o *Overlay) Apply(c *Chart) {
	if i, ok := o.Index(); ok {
		c.Select(i)
		return
	}
	c.ResetEmphasis()
}
