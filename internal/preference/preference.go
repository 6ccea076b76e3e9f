// Package preference persists the visitor's preferred zipcode between visits.
//
// A Store is bound to one request. Reads never fail: a storage error is
// logged and treated as no stored preference. Writes report their error so the
// caller can log it and carry on with the value for the current session.
package preference

import (
	"context"
	"net/http"
)

// Key names the stored zipcode, both as a cookie and in repositories.
const Key = "userZipcode"

// Store reads and writes one visitor's zipcode.
type Store interface {
	// Get returns the stored zipcode, or false when none is stored.
	Get(ctx context.Context) (string, bool)
	// Set stores value. An empty value deletes the preference.
	Set(ctx context.Context, value string) error
}

// Binder binds a Store to the visitor making a request.
type Binder interface {
	Bind(w http.ResponseWriter, r *http.Request) Store
}

// Repository stores zipcodes keyed by visitor id.
type Repository interface {
	Load(ctx context.Context, visitorID string) (string, bool, error)
	Save(ctx context.Context, visitorID, zipcode string) error
	Delete(ctx context.Context, visitorID string) error
}
