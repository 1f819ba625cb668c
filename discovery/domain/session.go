package domain

import "time"

const (
	SessionStateIdle    = "idle"
	SessionStateLoading = "loading"
	SessionStateSuccess = "success"
	SessionStateError   = "error"
)

const (
	ErrorKindSessionExpired  = "session_expired"
	ErrorKindDiscoveryFailed = "discovery_failed"
)

// SessionStatus is the observable state of the discovery session.
type SessionStatus struct {
	State          string     `json:"state"`
	RunID          string     `json:"runId,omitempty"`
	Message        string     `json:"message,omitempty"`
	Done           int        `json:"done"`
	Total          int        `json:"total"`
	Warnings       int        `json:"warnings"`
	LastDiscovered *time.Time `json:"lastDiscovered,omitempty"`
	Error          string     `json:"error,omitempty"`
	ErrorKind      string     `json:"errorKind,omitempty"`
}
