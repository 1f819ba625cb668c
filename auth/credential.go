package auth

import (
	"context"
	"time"
)

// ExpirySkew is how long before its expiry a credential stops being handed out.
const ExpirySkew = 60 * time.Second

// Scopes requested from Google for a read-only footprint discovery.
var Scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform.read-only",
	"https://www.googleapis.com/auth/cloud-billing.readonly",
	"https://www.googleapis.com/auth/monitoring.read",
}

// Credential is a bearer access token with its absolute expiry.
type Credential struct {
	AccessToken string
	Email       string
	Expiry      time.Time
}

// ValidAt reports whether the credential can still be used at t.
func (c *Credential) ValidAt(t time.Time) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}

	return t.Before(c.Expiry.Add(-ExpirySkew))
}

// Source produces a fresh credential, e.g. from the developer proxy or application default credentials.
//
//go:generate mockery --name Source --output ./mocks
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Credential, error)
}
