package domain

import "errors"

var (
	// ErrDiscoveryFailed is returned when the billing account or project listing fails.
	ErrDiscoveryFailed = errors.New("discovery failed")

	// ErrAborted is returned when a run is cancelled before it completes.
	ErrAborted = errors.New("discovery aborted")

	// ErrSuperseded is returned to a run whose result was discarded because a newer run started.
	ErrSuperseded = errors.New("discovery superseded by a newer run")

	ErrNoDiscovery      = errors.New("no discovery result available")
	ErrDiscoveryRunning = errors.New("discovery is still running")
)
