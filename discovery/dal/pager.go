package dal

import (
	"context"
	"math"

	"golang.org/x/time/rate"

	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

// Pager paces every Google API call made by the fetchers and bounds page-token loops.
type Pager struct {
	loggerProvider logger.Provider
	limiter        *rate.Limiter
	maxPages       int
}

// NewPager returns a pager allowing rps requests per second (rps <= 0 means unlimited)
// and at most maxPages pages per listing.
func NewPager(log logger.Provider, maxPages int, rps float64) *Pager {
	if maxPages <= 0 {
		maxPages = common.DefaultMaxPages
	}

	limit := rate.Inf
	burst := 0

	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(math.Max(1, math.Ceil(rps)))
	}

	return &Pager{
		loggerProvider: log,
		limiter:        rate.NewLimiter(limit, burst),
		maxPages:       maxPages,
	}
}

func (p *Pager) MaxPages() int {
	return p.maxPages
}

func (p *Pager) wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// pageFunc fetches one page and returns its items and the next page token.
type pageFunc[T any] func(ctx context.Context, pageToken string) ([]T, string, error)

// paginate follows the page-token cursor until the server stops returning one. Hitting the
// page cap truncates the listing and logs a warning.
func paginate[T any](ctx context.Context, p *Pager, resource string, fetch pageFunc[T]) ([]T, error) {
	var (
		items     []T
		pageToken string
	)

	for page := 0; page < p.maxPages; page++ {
		if err := p.wait(ctx); err != nil {
			return nil, err
		}

		batch, next, err := fetch(ctx, pageToken)
		if err != nil {
			return nil, err
		}

		items = append(items, batch...)

		if next == "" {
			return items, nil
		}

		pageToken = next
	}

	p.loggerProvider(ctx).Warningf("%s: stopped after %d pages, results truncated", resource, p.maxPages)

	return items, nil
}
