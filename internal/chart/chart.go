// Package chart lays out the hourly temperature bar chart and renders it as
// SVG.
package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
)

// Layout constants in pixels.
const (
	Width        = 800
	Height       = 400
	MarginTop    = 20
	MarginRight  = 30
	MarginBottom = 40
	MarginLeft   = 40

	bandPadding = 0.1
	tickCount   = 10
)

// Bar opacities.
const (
	OpacityDefault  = 1.0
	OpacitySelected = 0.7
	OpacityHover    = 0.8
)

// GradientID is the fill id shared by every bar.
const GradientID = "barGradient"

// GradientStop is one color stop of the vertical bar gradient.
type GradientStop struct {
	Offset string
	Color  string
}

// Gradient runs top to bottom.
var Gradient = []GradientStop{
	{Offset: "0%", Color: "#f093fb"},
	{Offset: "100%", Color: "#4facfe"},
}

// Bar is one hour's rectangle in plot coordinates.
type Bar struct {
	Index   int
	Label   string
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Opacity float64
	Record  domain.HourlyRecord
}

// Tick is one axis tick.
type Tick struct {
	Pos   float64
	Label string
}

// Chart is a laid-out bar chart for up to domain.ForecastWindow hours.
type Chart struct {
	InnerWidth  float64
	InnerHeight float64
	Baseline    float64
	Bars        []Bar
	XTicks      []Tick
	YTicks      []Tick
}

// Build lays out one bar per record. Records beyond the forecast window are
// ignored. Temperatures below zero hang beneath the zero line.
func Build(records []domain.HourlyRecord) Chart {
	records = domain.Window(records)
	innerW := float64(Width - MarginLeft - MarginRight)
	innerH := float64(Height - MarginTop - MarginBottom)

	lo, hi := 0.0, 0.0
	for _, r := range records {
		lo = math.Min(lo, r.Temp)
		hi = math.Max(hi, r.Temp)
	}
	if lo == hi {
		hi = lo + 1
	}
	lo, hi = niceDomain(lo, hi, tickCount)

	x := newBandScale(len(records), innerW, bandPadding)
	y := linearScale{d0: lo, d1: hi, r0: innerH, r1: 0}
	zero := y.y(0)

	c := Chart{
		InnerWidth:  innerW,
		InnerHeight: innerH,
		Baseline:    zero,
		Bars:        make([]Bar, len(records)),
	}
	for i, r := range records {
		top := y.y(r.Temp)
		c.Bars[i] = Bar{
			Index:   i,
			Label:   r.Datetime,
			X:       x.x(i),
			Y:       math.Min(top, zero),
			Width:   x.bandwidth,
			Height:  math.Abs(zero - top),
			Opacity: OpacityDefault,
			Record:  r,
		}
		c.XTicks = append(c.XTicks, Tick{Pos: x.center(i), Label: r.Datetime})
	}
	for _, v := range ticks(lo, hi, tickCount) {
		c.YTicks = append(c.YTicks, Tick{Pos: y.y(v), Label: formatTick(v)})
	}
	return c
}

// Select resets every bar to the default opacity and emphasizes bar i. It
// returns false when i is out of range, leaving all bars reset.
func (c *Chart) Select(i int) bool {
	c.ResetEmphasis()
	if i < 0 || i >= len(c.Bars) {
		return false
	}
	c.Bars[i].Opacity = OpacitySelected
	return true
}

// ResetEmphasis restores every bar to the default opacity.
func (c *Chart) ResetEmphasis() {
	for i := range c.Bars {
		c.Bars[i].Opacity = OpacityDefault
	}
}

// Empty reports whether the chart has no bars to draw.
func (c Chart) Empty() bool { return len(c.Bars) == 0 }

// SVG renders the chart. Each bar links to hrefPrefix followed by its index.
func (c Chart) SVG(hrefPrefix string) (template.HTML, error) {
	var buf bytes.Buffer
	err := svgTemplate.Execute(&buf, svgData{
		Chart:      c,
		Width:      Width,
		Height:     Height,
		Left:       MarginLeft,
		Top:        MarginTop,
		GradientID: GradientID,
		Gradient:   Gradient,
		HrefPrefix: hrefPrefix,
		Hover:      OpacityHover,
	})
	if err != nil {
		return "", fmt.Errorf("render chart svg: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

type svgData struct {
	Chart
	Width      int
	Height     int
	Left       int
	Top        int
	GradientID string
	Gradient   []GradientStop
	HrefPrefix string
	Hover      float64
}

var svgTemplate = template.Must(template.New("chart").Funcs(template.FuncMap{
	"px": func(f float64) string { return fmt.Sprintf("%.2f", f) },
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="Hourly temperature">
<style>.bar{cursor:pointer;transition:opacity .15s}.bar:hover{opacity:{{.Hover}}}</style>
<defs><linearGradient id="{{.GradientID}}" x1="0%" y1="0%" x2="0%" y2="100%">{{range .Gradient}}<stop offset="{{.Offset}}" stop-color="{{.Color}}"></stop>{{end}}</linearGradient></defs>
<g transform="translate({{.Left}},{{.Top}})">
<g class="bars">{{range .Bars}}<a href="{{$.HrefPrefix}}{{.Index}}"><rect class="bar" data-index="{{.Index}}" x="{{px .X}}" y="{{px .Y}}" width="{{px .Width}}" height="{{px .Height}}" fill="url(#{{$.GradientID}})" opacity="{{.Opacity}}"><title>{{.Label}}</title></rect></a>{{end}}</g>
<g class="x-axis" transform="translate(0,{{px .InnerHeight}})"><path class="domain" stroke="currentColor" d="M0,0H{{px .InnerWidth}}"></path>{{range .XTicks}}<g class="tick" transform="translate({{px .Pos}},0)"><line stroke="currentColor" y2="6"></line><text fill="currentColor" y="9" dy="0.71em" text-anchor="middle">{{.Label}}</text></g>{{end}}</g>
<g class="y-axis"><path class="domain" stroke="currentColor" d="M0,{{px .InnerHeight}}V0"></path>{{range .YTicks}}<g class="tick" transform="translate(0,{{px .Pos}})"><line stroke="currentColor" x2="-6"></line><text fill="currentColor" x="-9" dy="0.32em" text-anchor="end">{{.Label}}</text></g>{{end}}</g>
</g>
</svg>`))
