package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourly(n int) []map[string]any {
	base := time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{
			"datetime":      base.Add(time.Duration(i) * time.Hour).Format("15:04:05"),
			"temp":          40 + i,
			"humidity":      55,
			"windspeed":     7,
			"conditions":    "Clear",
			"precipitation": 0,
		}
	}
	return out
}

func newBackend(t *testing.T, records []map[string]any, errorBody bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/hourly-data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("zipcode") == "not-a-zip" {
			w.WriteHeader(http.StatusBadRequest)
			if errorBody {
				fmt.Fprint(w, `{"error":"Invalid location or zipcode."}`)
			}
			return
		}
		_ = json.NewEncoder(w).Encode(records)
	})
	mux.HandleFunc("/api/fashion-suggestions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"suggestions": "Tops:\n- Sweater"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func probeOptions(url string) options {
	return options{backendURL: url, zipcode: "49503", badZipcode: "not-a-zip", timeout: 5 * time.Second}
}

func TestRun_AllPass(t *testing.T) {
	srv := newBackend(t, hourly(24), true)

	var out bytes.Buffer
	code := run(context.Background(), &out, probeOptions(srv.URL))

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All checks passed.")
}

func TestRun_OutOfOrderRecords(t *testing.T) {
	records := hourly(12)
	records[3], records[4] = records[4], records[3]
	srv := newBackend(t, records, true)

	var out bytes.Buffer
	code := run(context.Background(), &out, probeOptions(srv.URL))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "does not follow")
}

func TestRun_MissingErrorBody(t *testing.T) {
	srv := newBackend(t, hourly(12), false)

	var out bytes.Buffer
	code := run(context.Background(), &out, probeOptions(srv.URL))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "without an")
}

func TestCheckHourly_Empty(t *testing.T) {
	srv := newBackend(t, nil, true)

	var out bytes.Buffer
	code := run(context.Background(), &out, probeOptions(srv.URL))

	require.Equal(t, 1, code)
	assert.Contains(t, out.String(), "no records returned")
	assert.Contains(t, out.String(), "skipped: no current-hour weather")
}
