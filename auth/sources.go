package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/google"
)

const (
	proxySourceName  = "token-proxy"
	googleSourceName = "application-default"

	// proxyTokenLifetime is assumed for proxy tokens, which carry no expiry.
	proxyTokenLifetime = time.Hour
)

// ProxyResponse is the payload returned by the local developer-token proxy.
type ProxyResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Error string `json:"error"`
}

// ProxySource fetches a token from a local endpoint that shells out to the gcloud CLI.
type ProxySource struct {
	url     string
	account string
	client  *resty.Client
	now     func() time.Time
}

func NewProxySource(url string, client *resty.Client) *ProxySource {
	if client == nil {
		client = resty.New().SetTimeout(10 * time.Second)
	}

	return &ProxySource{
		url:    url,
		client: client,
		now:    time.Now,
	}
}

// ForAccount asks the proxy for a token of a specific gcloud account.
func (s *ProxySource) ForAccount(email string) *ProxySource {
	s.account = email
	return s
}

func (s *ProxySource) Name() string {
	return proxySourceName
}

func (s *ProxySource) Fetch(ctx context.Context) (*Credential, error) {
	var body ProxyResponse

	req := s.client.R().
		SetContext(ctx).
		SetResult(&body).
		SetError(&body)

	if s.account != "" {
		req.SetQueryParam("account", s.account)
	}

	resp, err := req.Get(s.url)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		if body.Error != "" {
			return nil, fmt.Errorf("proxy returned %d: %s", resp.StatusCode(), body.Error)
		}

		return nil, fmt.Errorf("proxy returned %d", resp.StatusCode())
	}

	if body.Token == "" {
		if body.Error != "" {
			return nil, errors.New(body.Error)
		}

		return nil, ErrEmptyToken
	}

	return &Credential{
		AccessToken: body.Token,
		Email:       body.Email,
		Expiry:      s.now().Add(proxyTokenLifetime),
	}, nil
}

// GoogleSource uses application default credentials (gcloud auth application-default login,
// GOOGLE_APPLICATION_CREDENTIALS or the metadata server).
type GoogleSource struct {
	scopes []string
}

func NewGoogleSource(scopes ...string) *GoogleSource {
	if len(scopes) == 0 {
		scopes = Scopes
	}

	return &GoogleSource{scopes: scopes}
}

func (s *GoogleSource) Name() string {
	return googleSourceName
}

func (s *GoogleSource) Fetch(ctx context.Context) (*Credential, error) {
	creds, err := google.FindDefaultCredentials(ctx, s.scopes...)
	if err != nil {
		return nil, err
	}

	tok, err := creds.TokenSource.Token()
	if err != nil {
		return nil, err
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(proxyTokenLifetime)
	}

	return &Credential{
		AccessToken: tok.AccessToken,
		Expiry:      expiry,
	}, nil
}
