package iface

import (
	"context"
	"time"

	"github.com/doitintl/hello/gcp-footprint/cache"
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
	"github.com/doitintl/hello/gcp-footprint/findings"
	"github.com/doitintl/hello/gcp-footprint/graph"
)

//go:generate mockery --name Discoverer --output ../mocks
type Discoverer interface {
	DiscoverAll(ctx context.Context, progress domain.ProgressFunc) (*domain.Result, error)
}

//go:generate mockery --name Store --output ../mocks
type Store interface {
	Save(ctx context.Context, result *domain.Result, at time.Time) error
	Load(ctx context.Context) (*cache.Entry, error)
	Clear(ctx context.Context) error
}

//go:generate mockery --name Enricher --output ../mocks
type Enricher interface {
	Analyze(ctx context.Context, accounts []domain.BillingAccount, projects []domain.ProjectDiscovery) (domain.InsightsMap, error)
}

//go:generate mockery --name Session --output ../mocks
type Session interface {
	Start(ctx context.Context) (string, error)
	Discover(ctx context.Context) (*domain.Result, error)
	Status() domain.SessionStatus
	Snapshot() (*domain.Result, error)
	Graph(withServices bool) (*graph.Graph, error)
	Findings() (*findings.Report, error)
	Analyze(ctx context.Context, apiKey string) (domain.InsightsMap, error)
	SignOut(ctx context.Context) error
}
