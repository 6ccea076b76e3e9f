// Command mockapi serves deterministic hourly forecasts and canned outfit
// suggestions on the weather backend's routes, for running the web front end
// without the real backend.
//
// Usage:
//
//	go run ./cmd/mockapi -addr :5000 -hours 24 -start 2025-01-15T06:00:00Z
//
// Zipcode 00000 returns an empty forecast and a malformed zipcode returns a
// 400 error body, so both failure paths of the pages can be exercised.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
)

// emptyZipcode is answered with an empty forecast.
const emptyZipcode = "00000"

// datetimeLayout matches the backend, which sends the hour of day only.
const datetimeLayout = "15:04:05"

var conditions = []string{"Clear", "Partially cloudy", "Overcast", "Rain, Overcast", "Snow"}

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	hours := flag.Int("hours", 24, "hours per forecast")
	start := flag.String("start", "", "fixed forecast start time (RFC3339); default is the current hour")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			logger.Error("invalid -start", "error", err)
			os.Exit(1)
		}
		domain.SetClock(clockwork.NewFakeClockAt(t))
	}

	logger.Info("mock backend listening", "addr", *addr, "hours", *hours)
	if err := http.ListenAndServe(*addr, newRouter(*hours)); err != nil { //nolint:gosec // local fixture server
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newRouter(hours int) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/hourly-data", func(c *gin.Context) {
		zip := c.Query("zipcode")
		switch {
		case zip == emptyZipcode:
			c.JSON(http.StatusOK, []domain.HourlyRecord{})
		case zip != "" && !domain.ValidZipcode(zip):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location or zipcode."})
		default:
			c.JSON(http.StatusOK, forecast(zip, hours, domain.Clock().Now()))
		}
	})

	r.POST("/api/fashion-suggestions", func(c *gin.Context) {
		if _, err := c.FormFile("image"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
			return
		}
		var weather domain.HourlyRecord
		if err := json.Unmarshal([]byte(c.PostForm("weather_data")), &weather); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weather data"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions(weather)})
	})

	return r
}

// forecast builds a smooth daily temperature curve. The zipcode shifts the
// curve so different locations look different but stay reproducible.
func forecast(zip string, hours int, now time.Time) []domain.HourlyRecord {
	offset := 0.0
	for _, r := range zip {
		offset += float64(r - '0')
	}
	base := now.Truncate(time.Hour)

	out := make([]domain.HourlyRecord, hours)
	for i := range out {
		t := base.Add(time.Duration(i) * time.Hour)
		phase := 2 * math.Pi * float64(t.Hour()-15) / 24
		temp := 48 + offset/2 + 14*math.Cos(phase)
		out[i] = domain.HourlyRecord{
			Datetime:      t.Format(datetimeLayout),
			Temp:          math.Round(temp*10) / 10,
			Humidity:      math.Round(60 - 20*math.Cos(phase)),
			Windspeed:     math.Round((8+4*math.Sin(phase))*10) / 10,
			Conditions:    conditions[(i+int(offset))%len(conditions)],
			Precipitation: float64((i*17 + int(offset)*3) % 100),
			Snow:          snow(temp),
		}
	}
	return out
}

func snow(temp float64) float64 {
	if temp < 32 {
		return 0.5
	}
	return 0
}

func suggestions(w domain.HourlyRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "It is %s and %s right now.\n\n", domain.FormatTemp(w.Temp), strings.ToLower(orDefault(w.Conditions, "calm")))
	sb.WriteString("Tops:\n")
	fmt.Fprintf(&sb, "- %s\n", domain.ClothingRecommendation(w.Temp))
	sb.WriteString("- Layer a neutral shirt from the left side of your closet\n\n")
	sb.WriteString("Accessories:\n")
	if w.Precipitation >= 50 {
		sb.WriteString("• Bring an umbrella\n")
	} else {
		sb.WriteString("• Sunglasses should do\n")
	}
	return sb.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
