package connection

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"google.golang.org/api/option"

	"github.com/doitintl/hello/gcp-footprint/auth"
	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

// Connection holds the clients shared by every handler and service.
type Connection struct {
	Tokens *auth.TokenProvider
	*GoogleClient
	*RedisClient

	httpClient *http.Client
}

// NewConnection initializes the credential provider and the external clients.
func NewConnection(ctx context.Context, log *logger.Logging, cfg *common.Config) (*Connection, error) {
	tokens := auth.NewTokenProvider(log.Logger, tokenSources(cfg)...)

	httpClient := &http.Client{
		Transport: &auth.Transport{Provider: tokens},
		Timeout:   cfg.RequestTimeout,
	}

	gc, err := NewGoogleClient(ctx, log, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	rc, err := NewRedisClient(ctx, log, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}

	return &Connection{
		Tokens:       tokens,
		GoogleClient: gc,
		RedisClient:  rc,
		httpClient:   httpClient,
	}, nil
}

// HTTPClient returns the authorized client used for Google API calls.
func (c *Connection) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Connection) Close() error {
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}

	return nil
}

func tokenSources(cfg *common.Config) []auth.Source {
	var sources []auth.Source

	if cfg.TokenProxyURL != "" {
		sources = append(sources, auth.NewProxySource(cfg.TokenProxyURL, resty.New().SetTimeout(cfg.RequestTimeout)))
	}

	return append(sources, auth.NewGoogleSource(auth.Scopes...))
}
