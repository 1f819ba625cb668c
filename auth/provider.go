package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/googleapi"

	"github.com/doitintl/hello/gcp-footprint/logger"
)

const refreshKey = "refresh"

// TokenProvider hands out a valid bearer token and refreshes it through its sources.
// Concurrent callers that find the token missing or expired share one in-flight refresh.
type TokenProvider struct {
	loggerProvider logger.Provider
	sources        []Source

	refresh singleflight.Group

	mu        sync.RWMutex
	cred      *Credential
	signedOut bool

	now func() time.Time
}

func NewTokenProvider(log logger.Provider, sources ...Source) *TokenProvider {
	return &TokenProvider{
		loggerProvider: log,
		sources:        sources,
		now:            time.Now,
	}
}

// ValidToken returns the cached token when it is still valid, otherwise waits for a shared refresh.
// A caller giving up on ctx does not cancel the refresh for the other waiters.
func (p *TokenProvider) ValidToken(ctx context.Context) (string, error) {
	cred, err := p.ValidCredential(ctx)
	if err != nil {
		return "", err
	}

	return cred.AccessToken, nil
}

// ValidCredential is ValidToken returning the whole credential.
func (p *TokenProvider) ValidCredential(ctx context.Context) (*Credential, error) {
	p.mu.RLock()
	cred, signedOut := p.cred, p.signedOut
	p.mu.RUnlock()

	if cred.ValidAt(p.now()) {
		return cred, nil
	}

	if signedOut {
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, ErrSignedOut)
	}

	ch := p.refresh.DoChan(refreshKey, func() (interface{}, error) {
		return p.doRefresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*Credential), nil
	}
}

func (p *TokenProvider) doRefresh(ctx context.Context) (*Credential, error) {
	l := p.loggerProvider(ctx)

	if len(p.sources) == 0 {
		return nil, ErrSessionExpired
	}

	var merr error

	for _, s := range p.sources {
		cred, err := s.Fetch(ctx)
		if err == nil && (cred == nil || cred.AccessToken == "") {
			err = ErrEmptyToken
		}

		if err != nil {
			l.Debugf("token source %s failed: %s", s.Name(), err)
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", s.Name(), err))

			continue
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		if p.signedOut {
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, ErrSignedOut)
		}

		p.cred = cred

		l.Infof("refreshed credential from %s, expires %s", s.Name(), cred.Expiry.Format(time.RFC3339))

		return cred, nil
	}

	l.Warningf("credential refresh failed: %s", merr)

	return nil, fmt.Errorf("%w: %w", ErrSessionExpired, merr)
}

// Token implements oauth2.TokenSource.
func (p *TokenProvider) Token() (*oauth2.Token, error) {
	cred, err := p.ValidCredential(context.Background())
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
		Expiry:      cred.Expiry,
	}, nil
}

// SetToken stores a token obtained interactively. It clears the sign-out flag.
func (p *TokenProvider) SetToken(token, email string, expiresIn time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cred = &Credential{
		AccessToken: token,
		Email:       email,
		Expiry:      p.now().Add(expiresIn),
	}
	p.signedOut = false
}

// Invalidate drops the cached credential if it still carries token, so the next call refreshes.
func (p *TokenProvider) Invalidate(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cred != nil && p.cred.AccessToken == token {
		p.cred = nil
	}
}

// SignOut clears the credential and blocks automatic refresh until SetToken or Reset.
func (p *TokenProvider) SignOut() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cred = nil
	p.signedOut = true
}

// Reset clears the credential and the sign-out flag.
func (p *TokenProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cred = nil
	p.signedOut = false
}

func (p *TokenProvider) SignedOut() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.signedOut
}

// Current returns the cached credential without refreshing, or nil.
func (p *TokenProvider) Current() *Credential {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.cred == nil {
		return nil
	}

	c := *p.cred

	return &c
}

// IsSessionExpired reports whether err should prompt the user to sign in again. A Google API
// answering 401 after the transport's retry counts as expired too.
func IsSessionExpired(err error) bool {
	if errors.Is(err, ErrSessionExpired) {
		return true
	}

	var apiErr *googleapi.Error

	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}
