package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/doitintl/hello/gcp-footprint/auth"
	"github.com/doitintl/hello/gcp-footprint/cache"
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
	"github.com/doitintl/hello/gcp-footprint/discovery/service/iface"
	"github.com/doitintl/hello/gcp-footprint/findings"
	"github.com/doitintl/hello/gcp-footprint/graph"
	"github.com/doitintl/hello/gcp-footprint/insights"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

const (
	triggerStart   = "start"
	triggerSucceed = "succeed"
	triggerFail    = "fail"
	triggerRestore = "restore"
	triggerReset   = "reset"
)

// EnricherFactory returns an insights enricher for the given key and model.
type EnricherFactory func(apiKey, model string) (iface.Enricher, error)

func defaultEnricherFactory(apiKey, model string) (iface.Enricher, error) {
	return insights.NewEnricher(apiKey, model)
}

type SessionOption func(*Session)

// WithStore enables caching of successful discoveries and Restore.
func WithStore(store iface.Store) SessionOption {
	return func(s *Session) {
		s.store = store
	}
}

// WithInsights sets the fallback API key and the model used by Analyze.
func WithInsights(apiKey, model string) SessionOption {
	return func(s *Session) {
		s.apiKey = apiKey
		s.model = model
	}
}

func WithEnricherFactory(f EnricherFactory) SessionOption {
	return func(s *Session) {
		s.newEnricher = f
	}
}

// Session holds the single discovery of this process. At most one run is active: starting a run
// cancels the previous one, whose result is then discarded.
type Session struct {
	loggerProvider logger.Provider
	discoverer     iface.Discoverer
	store          iface.Store
	newEnricher    EnricherFactory
	apiKey         string
	model          string
	now            func() time.Time

	mu             sync.Mutex
	machine        *stateless.StateMachine
	generation     uint64
	cancel         context.CancelFunc
	runID          string
	progress       domain.Progress
	result         *domain.Result
	insights       domain.InsightsMap
	lastDiscovered time.Time
	err            error

	// storeMu orders cache writes after the generation check against SignOut's Clear.
	storeMu sync.Mutex

	wg sync.WaitGroup
}

func NewSession(log logger.Provider, discoverer iface.Discoverer, opts ...SessionOption) *Session {
	s := &Session{
		loggerProvider: log,
		discoverer:     discoverer,
		newEnricher:    defaultEnricherFactory,
		now:            time.Now,
		machine:        newSessionMachine(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func newSessionMachine() *stateless.StateMachine {
	machine := stateless.NewStateMachine(domain.SessionStateIdle)

	machine.Configure(domain.SessionStateIdle).
		Permit(triggerStart, domain.SessionStateLoading).
		Permit(triggerRestore, domain.SessionStateSuccess).
		PermitReentry(triggerReset)

	machine.Configure(domain.SessionStateLoading).
		PermitReentry(triggerStart).
		Permit(triggerSucceed, domain.SessionStateSuccess).
		Permit(triggerFail, domain.SessionStateError).
		Permit(triggerReset, domain.SessionStateIdle)

	machine.Configure(domain.SessionStateSuccess).
		Permit(triggerStart, domain.SessionStateLoading).
		Permit(triggerReset, domain.SessionStateIdle)

	machine.Configure(domain.SessionStateError).
		Permit(triggerStart, domain.SessionStateLoading).
		Permit(triggerReset, domain.SessionStateIdle)

	return machine
}

// Start begins a discovery in the background and returns its run id.
func (s *Session) Start(ctx context.Context) (string, error) {
	l := s.loggerProvider(ctx)

	runCtx, gen, runID, err := s.begin(logger.WithContext(context.Background(), l))
	if err != nil {
		return "", err
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		if _, err := s.run(runCtx, gen); err != nil && !errors.Is(err, domain.ErrSuperseded) {
			l.Warningf("discovery run %s: %s", runID, err)
		}
	}()

	return runID, nil
}

// Discover runs a discovery and waits for it. It returns ErrSuperseded when a newer run
// started meanwhile.
func (s *Session) Discover(ctx context.Context) (*domain.Result, error) {
	runCtx, gen, _, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	return s.run(runCtx, gen)
}

func (s *Session) begin(parent context.Context) (context.Context, uint64, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Fire(triggerStart); err != nil {
		return nil, 0, "", err
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(parent)

	s.cancel = cancel
	s.generation++
	s.runID = uuid.NewString()
	s.progress = domain.Progress{}
	s.err = nil

	return ctx, s.generation, s.runID, nil
}

func (s *Session) run(ctx context.Context, gen uint64) (*domain.Result, error) {
	l := s.loggerProvider(ctx)

	result, err := s.discoverer.DiscoverAll(ctx, func(p domain.Progress) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if gen == s.generation {
			s.progress = p
		}
	})

	s.mu.Lock()

	if gen != s.generation {
		s.mu.Unlock()
		l.Debugf("discarding superseded discovery run")

		return nil, domain.ErrSuperseded
	}

	s.cancel()
	s.cancel = nil

	switch {
	case errors.Is(err, domain.ErrAborted):
		// an aborted run leaves the previous snapshot in place
		trigger := triggerReset
		if s.result != nil {
			trigger = triggerSucceed
		}

		s.fire(ctx, trigger)
		s.mu.Unlock()

		return nil, err
	case err != nil:
		s.err = err
		s.fire(ctx, triggerFail)
		s.mu.Unlock()

		return nil, err
	}

	at := s.now()

	s.result = result
	s.insights = nil
	s.lastDiscovered = at
	s.fire(ctx, triggerSucceed)
	s.mu.Unlock()

	s.persist(context.WithoutCancel(ctx), gen, result, at)

	return result, nil
}

// persist caches a run's result unless a newer run or a sign-out has happened since.
func (s *Session) persist(ctx context.Context, gen uint64, result *domain.Result, at time.Time) {
	if s.store == nil {
		return
	}

	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	s.mu.Lock()
	current := gen == s.generation
	s.mu.Unlock()

	if !current {
		return
	}

	if err := s.store.Save(ctx, result, at); err != nil {
		s.loggerProvider(ctx).Warningf("cache discovery result: %s", err)
	}
}

// fire must be called with s.mu held.
func (s *Session) fire(ctx context.Context, trigger string) {
	if err := s.machine.Fire(trigger); err != nil {
		s.loggerProvider(ctx).Errorf("session transition %s from %v: %s", trigger, s.machine.MustState(), err)
	}
}

func (s *Session) state() string {
	return s.machine.MustState().(string)
}

func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := domain.SessionStatus{
		State:   s.state(),
		RunID:   s.runID,
		Message: s.progress.Message,
		Done:    s.progress.Done,
		Total:   s.progress.Total,
	}

	if s.result != nil {
		status.Warnings = s.result.PartialFailureCount

		at := s.lastDiscovered
		status.LastDiscovered = &at
	}

	if s.err != nil {
		status.Error = s.err.Error()
		status.ErrorKind = domain.ErrorKindDiscoveryFailed

		if auth.IsSessionExpired(s.err) {
			status.ErrorKind = domain.ErrorKindSessionExpired
		}
	}

	return status
}

// Snapshot returns the last successful discovery. It must be treated as read-only.
func (s *Session) Snapshot() (*domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return nil, domain.ErrNoDiscovery
	}

	return s.result, nil
}

// Graph builds the positioned graph of the last discovery with any insights attached.
func (s *Session) Graph(withServices bool) (*graph.Graph, error) {
	s.mu.Lock()
	result, insightsMap := s.result, s.insights
	s.mu.Unlock()

	if result == nil {
		return nil, domain.ErrNoDiscovery
	}

	var opts []graph.Option
	if withServices {
		opts = append(opts, graph.WithServiceNodes())
	}

	return graph.BuildGraph(result.BillingAccounts, result.Projects, insightsMap, opts...), nil
}

func (s *Session) Findings() (*findings.Report, error) {
	result, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	return findings.NewReport(result, s.now()), nil
}

// Analyze enriches the last discovery with model insights. An empty apiKey falls back to the
// configured one. The insights are dropped if a newer discovery replaced the snapshot meanwhile.
func (s *Session) Analyze(ctx context.Context, apiKey string) (domain.InsightsMap, error) {
	result, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	if apiKey == "" {
		apiKey = s.apiKey
	}

	enricher, err := s.newEnricher(apiKey, s.model)
	if err != nil {
		return nil, err
	}

	insightsMap, err := enricher.Analyze(ctx, result.BillingAccounts, result.Projects)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == result {
		s.insights = insightsMap
	}

	return insightsMap, nil
}

// Restore loads a cached discovery when the session has none. Missing, expired and malformed
// entries leave the session empty.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	l := s.loggerProvider(ctx)

	entry, err := s.store.Load(ctx)
	if err != nil {
		switch {
		case errors.Is(err, cache.ErrCacheMiss), errors.Is(err, cache.ErrExpiredEntry):
			l.Debugf("no cached discovery to restore: %s", err)
			return nil
		case errors.Is(err, cache.ErrMalformedEntry):
			l.Warningf("discarded cached discovery: %s", err)
			return nil
		}

		return fmt.Errorf("restore discovery: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state() != domain.SessionStateIdle {
		return nil
	}

	s.result = entry.Result()
	s.lastDiscovered = entry.Timestamp
	s.fire(ctx, triggerRestore)

	l.Infof("restored discovery of %d projects from %s", len(s.result.Projects), entry.Timestamp.Format(time.RFC3339))

	return nil
}

// SignOut discards any running discovery, the snapshot, insights and the cache entry.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.generation++
	s.runID = ""
	s.progress = domain.Progress{}
	s.result = nil
	s.insights = nil
	s.lastDiscovered = time.Time{}
	s.err = nil
	s.fire(ctx, triggerReset)
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}

	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	return s.store.Clear(ctx)
}

// Close cancels the running discovery and waits for background runs to return.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}
