package chart

import (
	"math"
	"strconv"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// bandScale maps n ordinal positions onto [0, width] with equal padding
// between and around bands.
type bandScale struct {
	start     float64
	step      float64
	bandwidth float64
}

func newBandScale(n int, width, padding float64) bandScale {
	step := width / math.Max(1, float64(n)-padding+padding*2)
	start := (width - step*(float64(n)-padding)) * 0.5
	return bandScale{
		start:     start,
		step:      step,
		bandwidth: step * (1 - padding),
	}
}

func (b bandScale) x(i int) float64 { return b.start + b.step*float64(i) }

// center is the middle of band i, where its axis tick sits.
func (b bandScale) center(i int) float64 { return b.x(i) + b.bandwidth/2 }

// linearScale maps [d0, d1] onto [r0, r1].
type linearScale struct {
	d0, d1 float64
	r0, r1 float64
}

func (l linearScale) y(v float64) float64 {
	if l.d1 == l.d0 {
		return l.r0
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}

// niceDomain extends [lo, hi] outward to round tick boundaries.
func niceDomain(lo, hi float64, count int) (float64, float64) {
	var prev float64
	for range 10 {
		step := tickIncrement(lo, hi, count)
		if step == prev || step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
			break
		}
		if step > 0 {
			lo = math.Floor(lo/step) * step
			hi = math.Ceil(hi/step) * step
		} else {
			lo = math.Ceil(lo*step) / step
			hi = math.Floor(hi*step) / step
		}
		prev = step
	}
	return lo, hi
}

// tickIncrement returns a 1, 2, or 5 times power-of-ten step that splits
// [lo, hi] into roughly count intervals. Negative results encode the inverse of
// a fractional step.
func tickIncrement(lo, hi float64, count int) float64 {
	step := (hi - lo) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// ticks returns round values within [lo, hi].
func ticks(lo, hi float64, count int) []float64 {
	if lo == hi {
		return []float64{lo}
	}
	step := tickIncrement(lo, hi, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}

	var out []float64
	if step > 0 {
		r0, r1 := math.Round(lo/step), math.Round(hi/step)
		if r0*step < lo {
			r0++
		}
		if r1*step > hi {
			r1--
		}
		for r := r0; r <= r1; r++ {
			out = append(out, r*step)
		}
		return out
	}

	inv := -step
	r0, r1 := math.Round(lo*inv), math.Round(hi*inv)
	if r0/inv < lo {
		r0++
	}
	if r1/inv > hi {
		r1--
	}
	for r := r0; r <= r1; r++ {
		out = append(out, r/inv)
	}
	return out
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
