package service

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/doitintl/hello/gcp-footprint/auth"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

var ErrInvalidExpiry = errors.New("expiresIn must be positive")

// SignInRequest carries a token obtained through an interactive consent flow.
type SignInRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
	ExpiresIn   int64  `json:"expiresIn" binding:"required"`
	Email       string `json:"email"`
}

// SessionInfo describes the current credential without exposing the token itself.
type SessionInfo struct {
	SignedIn  bool       `json:"signedIn"`
	SignedOut bool       `json:"signedOut"`
	Email     string     `json:"email,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SignOutHook clears state tied to the signed-in principal, e.g. the discovery session.
type SignOutHook func(ctx context.Context) error

type AuthService struct {
	loggerProvider logger.Provider
	tokens         *auth.TokenProvider
	hooks          []SignOutHook
}

func NewAuthService(log logger.Provider, tokens *auth.TokenProvider, hooks ...SignOutHook) *AuthService {
	return &AuthService{
		log,
		tokens,
		hooks,
	}
}

func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (*SessionInfo, error) {
	if req.ExpiresIn <= 0 {
		return nil, ErrInvalidExpiry
	}

	s.tokens.SetToken(req.AccessToken, req.Email, time.Duration(req.ExpiresIn)*time.Second)

	s.loggerProvider(ctx).Infof("signed in %s", req.Email)

	return s.Status(ctx), nil
}

// Refresh obtains a credential through the automatic sources (developer proxy, application default).
func (s *AuthService) Refresh(ctx context.Context) (*SessionInfo, error) {
	if s.tokens.SignedOut() {
		s.tokens.Reset()
	}

	if _, err := s.tokens.ValidCredential(ctx); err != nil {
		return nil, err
	}

	return s.Status(ctx), nil
}

// SignOut drops the credential, blocks automatic refresh and runs every hook.
func (s *AuthService) SignOut(ctx context.Context) error {
	s.tokens.SignOut()

	var merr error

	for _, hook := range s.hooks {
		if err := hook(ctx); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if merr != nil {
		s.loggerProvider(ctx).Warningf("sign out cleanup: %s", merr)
	}

	return merr
}

func (s *AuthService) Status(ctx context.Context) *SessionInfo {
	info := &SessionInfo{SignedOut: s.tokens.SignedOut()}

	if cred := s.tokens.Current(); cred.ValidAt(time.Now()) {
		info.SignedIn = true
		info.Email = cred.Email
		info.ExpiresAt = &cred.Expiry
	}

	return info
}
