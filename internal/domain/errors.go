package domain

import "fmt"

// User-facing messages shown in the error banner.
const (
	MsgInvalidZipcode    = "Please enter a valid 5-digit US zipcode."
	MsgNoData            = "No weather data available for this location."
	MsgNoImage           = "Please select an image first"
	MsgNoWeather         = "Weather data not available. Please refresh the page."
	MsgWeatherFailed     = "Failed to fetch weather data"
	MsgSuggestionsFailed = "Failed to get fashion suggestions"
	MsgUnsupportedImage  = "Please choose a JPEG, PNG, GIF, or WebP image."
	MsgImageTooLarge     = "That image is too large to upload."
	MsgSuggestionsBusy   = "Too many suggestion requests. Please wait a moment and try again."
)

// ValidationError is a local check that failed before any network call.
type ValidationError struct {
	Reason  string // metric label, e.g. "zipcode", "no_image", "no_weather"
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RequestError is a non-success response from the weather backend.
// A zero Status means no response was received; Err then holds the cause.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// NewRequestError builds a RequestError, using fallback when the server sent no
// message.
func NewRequestError(status int, serverMsg, fallback string) *RequestError {
	msg := serverMsg
	if msg == "" {
		msg = fallback
	}
	return &RequestError{Status: status, Message: msg}
}

// String is used in logs.
func (e *RequestError) String() string {
	if e.Err != nil {
		return fmt.Sprintf("backend request failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}
