package page

import (
	"html/template"

	"github.com/couchcryptid/weather-to-wear/internal/chart"
	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/session"
)

const placeholder = "--"

// ChartView is everything the chart page template needs.
type ChartView struct {
	Input    string
	Location string
	Banner   string

	Stats    domain.Stats
	Chart    chart.Chart
	Overlay  chart.OverlayState
	Selected int
	Detail   domain.HourDetail
}

// WearView is everything the weather-to-wear page template needs.
type WearView struct {
	Input    string
	Location string
	Banner   string

	Recommendation string
	HasWeather     bool

	HasUpload     bool
	PreviewURL    string
	Filename      string
	Loading       bool
	SubmitEnabled bool

	Suggestions template.HTML
}

// ChartView renders the session as chart page state.
func (c *Controller) ChartView(sess *session.Session, banner string) ChartView {
	zip := sess.Zipcode()
	v := ChartView{
		Input:    zip,
		Location: domain.LocationLabel(zip, c.opts.DefaultLabel),
		Banner:   banner,
		Stats:    domain.Stats{Temp: placeholder, Humidity: placeholder, Wind: placeholder, Conditions: placeholder},
		Chart:    sess.Chart(),
	}
	weather := sess.Weather()
	if stats, ok := domain.UpdateStats(weather); ok {
		v.Stats = stats
	}
	v.Overlay, v.Selected = sess.Overlay()
	if v.Overlay != chart.OverlayClosed && v.Selected < len(weather) {
		v.Detail = domain.Detail(weather[v.Selected])
	}
	return v
}

// WearView renders the session as weather-to-wear page state.
func (c *Controller) WearView(sess *session.Session, banner string) WearView {
	zip := sess.Zipcode()
	v := WearView{
		Input:          zip,
		Location:       domain.LocationLabel(zip, c.opts.DefaultLabel),
		Banner:         banner,
		Recommendation: placeholder,
		Loading:        sess.Loading(),
	}
	if snap, ok := sess.Snapshot(); ok {
		v.HasWeather = true
		v.Recommendation = domain.ClothingRecommendation(snap.Temp)
	}
	if img, ok := sess.Upload(); ok {
		v.HasUpload = true
		v.PreviewURL = img.DataURL()
		v.Filename = img.Filename
	}
	v.SubmitEnabled = v.HasUpload && !v.Loading
	if text := sess.Suggestions(); text != "" {
		v.Suggestions = domain.SuggestionsHTML(text)
	}
	return v
}
