package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

type Option func(*Discoverer)

// WithConcurrency bounds the number of projects fetched at once. Zero or less means unbounded.
func WithConcurrency(n int) Option {
	return func(d *Discoverer) {
		d.concurrency = n
	}
}

// Discoverer runs the two-level discovery plan: billing accounts and projects first, then six
// independent sub-fetches per project.
type Discoverer struct {
	loggerProvider logger.Provider
	fetchers       *Fetchers
	concurrency    int
}

func NewDiscoverer(log logger.Provider, fetchers *Fetchers, opts ...Option) *Discoverer {
	d := &Discoverer{
		loggerProvider: log,
		fetchers:       fetchers,
		concurrency:    common.DefaultDiscoveryConcurrency,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// DiscoverAll fails only when the billing account or project listing fails, or when ctx is
// cancelled. Sub-fetch failures leave the affected field empty and are counted in
// PartialFailureCount. Projects keep their listing order.
func (d *Discoverer) DiscoverAll(ctx context.Context, progress domain.ProgressFunc) (*domain.Result, error) {
	l := d.loggerProvider(ctx)
	report := newReporter(progress)

	report(domain.Progress{Message: "Fetching billing accounts and projects..."})

	accounts, projects, err := d.listTopLevel(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAborted, ctx.Err())
		}

		return nil, fmt.Errorf("%w: %w", domain.ErrDiscoveryFailed, err)
	}

	total := len(projects)

	report(domain.Progress{
		Message: fmt.Sprintf("Found %d billing accounts, %d projects. Fetching details...", len(accounts), total),
		Total:   total,
	})

	results := make([]domain.ProjectDiscovery, total)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
		done int
	)

	var sem *semaphore.Weighted
	if d.concurrency > 0 {
		sem = semaphore.NewWeighted(int64(d.concurrency))
	}

	for i, p := range projects {
		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
		}

		wg.Add(1)

		go func(i int, p domain.Project) {
			defer wg.Done()

			if sem != nil {
				defer sem.Release(1)
			}

			pd, err := d.discoverProject(ctx, p)
			results[i] = pd

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = multierror.Append(errs, err)
			}

			done++

			report(domain.Progress{
				Message: fmt.Sprintf("Loading project %d of %d... (%s)", done, total, p.ProjectID),
				Done:    done,
				Total:   total,
			})
		}(i, p)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAborted, ctx.Err())
	}

	failures := 0
	if errs != nil {
		failures = errs.Len()
		l.Warningf("discovery finished with %d partial failures: %s", failures, errs)
	}

	report(domain.Progress{
		Message: fmt.Sprintf("Discovery complete: %d projects loaded.", total),
		Done:    total,
		Total:   total,
	})

	return &domain.Result{
		BillingAccounts:     accounts,
		Projects:            results,
		PartialFailureCount: failures,
	}, nil
}

func (d *Discoverer) listTopLevel(ctx context.Context) ([]domain.BillingAccount, []domain.Project, error) {
	var (
		accounts []domain.BillingAccount
		projects []domain.Project
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		accounts, err = d.fetchers.Billing.ListBillingAccounts(gctx)

		return err
	})

	g.Go(func() error {
		var err error
		projects, err = d.fetchers.Projects.ListProjects(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return orEmpty(accounts), orEmpty(projects), nil
}

// discoverProject runs the six sub-fetches of one project concurrently. The returned error
// aggregates every failed sub-fetch; the discovery itself is always usable.
func (d *Discoverer) discoverProject(ctx context.Context, p domain.Project) (domain.ProjectDiscovery, error) {
	pid := p.ProjectID

	pd := domain.ProjectDiscovery{
		Project:         p,
		APIKeys:         []domain.APIKey{},
		Services:        []domain.Service{},
		IAMBindings:     []domain.IAMBinding{},
		ServiceAccounts: []domain.ServiceAccount{},
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)

	fail := func(resource string, err error) {
		mu.Lock()
		defer mu.Unlock()

		errs = multierror.Append(errs, fmt.Errorf("%s %s: %w", pid, resource, err))
	}

	run := func(resource string, fetch func() error) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			defer func() {
				if r := recover(); r != nil {
					fail(resource, fmt.Errorf("panic: %v", r))
				}
			}()

			if err := fetch(); err != nil {
				fail(resource, err)
			}
		}()
	}

	run("billing info", func() error {
		info, err := d.fetchers.Billing.GetProjectBillingInfo(ctx, pid)
		if err != nil {
			return err
		}

		pd.BillingInfo = info

		return nil
	})

	run("api keys", func() error {
		keys, err := d.fetchers.APIKeys.ListAPIKeys(ctx, pid)
		if err != nil {
			return err
		}

		pd.APIKeys = orEmpty(keys)

		return nil
	})

	run("services", func() error {
		services, err := d.fetchers.Services.ListEnabledServices(ctx, pid)
		if err != nil {
			return err
		}

		pd.Services = orEmpty(services)

		return nil
	})

	run("usage", func() error {
		usage, err := d.fetchers.Usage.GetProjectUsage(ctx, pid)
		if err != nil {
			return err
		}

		pd.Usage = usage

		return nil
	})

	run("iam policy", func() error {
		bindings, err := d.fetchers.IAM.GetProjectIAMPolicy(ctx, pid)
		if err != nil {
			return err
		}

		pd.IAMBindings = orEmpty(bindings)

		return nil
	})

	run("service accounts", func() error {
		accounts, err := d.fetchers.ServiceAccounts.ListServiceAccounts(ctx, pid)
		if err != nil {
			return err
		}

		pd.ServiceAccounts = orEmpty(accounts)

		return nil
	})

	wg.Wait()

	return pd, errs.ErrorOrNil()
}

// newReporter serializes progress callbacks. A nil callback discards progress.
func newReporter(progress domain.ProgressFunc) domain.ProgressFunc {
	if progress == nil {
		return func(domain.Progress) {}
	}

	var mu sync.Mutex

	return func(p domain.Progress) {
		mu.Lock()
		defer mu.Unlock()

		progress(p)
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
