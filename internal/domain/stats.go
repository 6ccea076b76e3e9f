package domain

import (
	"math"
	"strconv"
)

// Stats holds the formatted stat tiles for the current hour.
type Stats struct {
	Temp       string
	Humidity   string
	Wind       string
	Conditions string
}

// HourDetail holds the formatted values of the detail overlay for one hour.
type HourDetail struct {
	Datetime      string
	Temp          string
	Humidity      string
	Wind          string
	Precipitation string
	Snow          string
	Conditions    string
}

// UpdateStats formats the stat tiles from records[0]. It returns false when
// there is nothing to show.
func UpdateStats(records []HourlyRecord) (Stats, bool) {
	first, ok := Snapshot(records)
	if !ok {
		return Stats{}, false
	}
	return Stats{
		Temp:       FormatTemp(first.Temp),
		Humidity:   FormatPercent(first.Humidity),
		Wind:       FormatWind(first.Windspeed),
		Conditions: conditionsOrDash(first.Conditions),
	}, true
}

// Detail formats every field of a record for the detail overlay. Precipitation
// and snow are shown unrounded.
func Detail(r HourlyRecord) HourDetail {
	return HourDetail{
		Datetime:      r.Datetime,
		Temp:          FormatTemp(r.Temp),
		Humidity:      FormatPercent(r.Humidity),
		Wind:          FormatWind(r.Windspeed),
		Precipitation: strconv.FormatFloat(r.Precipitation, 'f', -1, 64) + "%",
		Snow:          strconv.FormatFloat(r.Snow, 'f', -1, 64) + `"`,
		Conditions:    conditionsOrDash(r.Conditions),
	}
}

// FormatTemp renders a rounded Fahrenheit temperature, e.g. "57°F".
func FormatTemp(f float64) string { return strconv.Itoa(round(f)) + "°F" }

// FormatPercent renders a rounded percentage, e.g. "64%".
func FormatPercent(f float64) string { return strconv.Itoa(round(f)) + "%" }

// FormatWind renders a rounded wind speed, e.g. "12 mph".
func FormatWind(f float64) string { return strconv.Itoa(round(f)) + " mph" }

func conditionsOrDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

// round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func round(f float64) int {
	return int(math.Floor(f + 0.5))
}
