package domain

import "encoding/json"

// ForecastWindow is the number of hours a page renders from a forecast.
const ForecastWindow = 12

// HourlyRecord is one hour of forecast as returned by the weather backend.
type HourlyRecord struct {
	Datetime      string  `json:"datetime"`
	Temp          float64 `json:"temp"`
	Humidity      float64 `json:"humidity"`
	Windspeed     float64 `json:"windspeed"`
	Conditions    string  `json:"conditions"`
	Precipitation float64 `json:"precipitation"`
	Snow          float64 `json:"snow"`
}

// UnmarshalJSON accepts "precip" as an alias of "precipitation" and treats
// null numbers as zero.
func (h *HourlyRecord) UnmarshalJSON(data []byte) error {
	var wire struct {
		Datetime      string   `json:"datetime"`
		Temp          *float64 `json:"temp"`
		Humidity      *float64 `json:"humidity"`
		Windspeed     *float64 `json:"windspeed"`
		Conditions    *string  `json:"conditions"`
		Precipitation *float64 `json:"precipitation"`
		Precip        *float64 `json:"precip"`
		Snow          *float64 `json:"snow"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*h = HourlyRecord{
		Datetime:      wire.Datetime,
		Temp:          deref(wire.Temp),
		Humidity:      deref(wire.Humidity),
		Windspeed:     deref(wire.Windspeed),
		Precipitation: deref(wire.Precipitation),
		Snow:          deref(wire.Snow),
	}
	if wire.Precipitation == nil {
		h.Precipitation = deref(wire.Precip)
	}
	if wire.Conditions != nil {
		h.Conditions = *wire.Conditions
	}
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Window returns at most the first ForecastWindow records. The returned slice
// shares no backing array with the input.
func Window(records []HourlyRecord) []HourlyRecord {
	n := len(records)
	if n > ForecastWindow {
		n = ForecastWindow
	}
	out := make([]HourlyRecord, n)
	copy(out, records[:n])
	return out
}

// Snapshot returns the current-hour record, records[0].
func Snapshot(records []HourlyRecord) (HourlyRecord, bool) {
	if len(records) == 0 {
		return HourlyRecord{}, false
	}
	return records[0], true
}
