package preference

import (
	"context"
	"net/http"
	"time"
)

const cookieMaxAge = 365 * 24 * time.Hour

// CookieBinder keeps the zipcode in a cookie on the visitor's browser.
type CookieBinder struct {
	Secure bool
}

// Bind implements Binder.
func (b CookieBinder) Bind(w http.ResponseWriter, r *http.Request) Store {
	return &CookieStore{w: w, r: r, secure: b.Secure}
}

// CookieStore is a Store backed by the userZipcode cookie.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	// written holds a value set during this request, which the request's
	// own cookie header cannot reflect yet.
	written *string
}

func (s *CookieStore) Get(_ context.Context) (string, bool) {
	if s.written != nil {
		return *s.written, *s.written != ""
	}
	c, err := s.r.Cookie(Key)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) Set(_ context.Context, value string) error {
	c := &http.Cookie{
		Name:     Key,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieMaxAge / time.Second),
	}
	if value == "" {
		c.MaxAge = -1
	}
	http.SetCookie(s.w, c)
	s.written = &value
	return nil
}
