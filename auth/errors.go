package auth

import "errors"

var (
	// ErrSessionExpired means no credential is cached and no refresh path succeeded.
	// Callers map it to a re-authentication prompt.
	ErrSessionExpired = errors.New("session expired, please sign in again")

	// ErrSignedOut is joined with ErrSessionExpired while the manual sign-out flag is set.
	ErrSignedOut = errors.New("signed out")

	ErrEmptyToken = errors.New("token source returned an empty token")
)
