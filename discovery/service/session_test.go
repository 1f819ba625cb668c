package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doitintl/hello/gcp-footprint/auth"
	"github.com/doitintl/hello/gcp-footprint/cache"
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
	"github.com/doitintl/hello/gcp-footprint/discovery/service/iface"
	"github.com/doitintl/hello/gcp-footprint/discovery/service/mocks"
	"github.com/doitintl/hello/gcp-footprint/graph"
	"github.com/doitintl/hello/gcp-footprint/insights"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

var sessionNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(discoverer iface.Discoverer, opts ...SessionOption) *Session {
	s := NewSession(logger.FromContext, discoverer, opts...)
	s.now = func() time.Time { return sessionNow }

	return s
}

func sampleResult(ids ...string) *domain.Result {
	res := &domain.Result{
		BillingAccounts: testAccounts(),
		Projects:        []domain.ProjectDiscovery{},
	}

	for _, p := range testProjects(ids...) {
		res.Projects = append(res.Projects, fullDiscovery(p))
	}

	return res
}

// memoryStore keeps one encoded entry like the redis store does and, like go-redis, refuses
// to write on a done context.
type memoryStore struct {
	mu   sync.Mutex
	data []byte
	ops  []string

	saving  chan struct{}
	release chan struct{}
}

func (m *memoryStore) Save(ctx context.Context, result *domain.Result, at time.Time) error {
	if m.saving != nil {
		close(m.saving)
		<-m.release
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := cache.Encode(cache.NewEntry(result, at))
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = data
	m.ops = append(m.ops, "save")

	return nil
}

func (m *memoryStore) Load(ctx context.Context) (*cache.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, cache.ErrCacheMiss
	}

	return cache.Decode(m.data)
}

func (m *memoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = nil
	m.ops = append(m.ops, "clear")

	return nil
}

func (m *memoryStore) history() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.ops...)
}

func TestSession_Discover(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	store := mocks.NewStore(t)
	result := sampleResult("alpha")
	result.PartialFailureCount = 2

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).
		Return(func(_ context.Context, progress domain.ProgressFunc) (*domain.Result, error) {
			progress(domain.Progress{Message: "Discovery complete: 1 projects loaded.", Done: 1, Total: 1})
			return result, nil
		}).Once()
	store.On("Save", mock.Anything, result, sessionNow).Return(nil).Once()

	s := newTestSession(discoverer, WithStore(store))

	_, err := s.Snapshot()
	assert.ErrorIs(t, err, domain.ErrNoDiscovery)
	assert.Equal(t, domain.SessionStateIdle, s.Status().State)

	got, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Same(t, result, got)

	snapshot, err := s.Snapshot()
	require.NoError(t, err)
	assert.Same(t, result, snapshot)

	status := s.Status()
	assert.Equal(t, domain.SessionStateSuccess, status.State)
	assert.NotEmpty(t, status.RunID)
	assert.Equal(t, 2, status.Warnings)
	assert.Equal(t, 1, status.Done)
	assert.Equal(t, "Discovery complete: 1 projects loaded.", status.Message)
	require.NotNil(t, status.LastDiscovered)
	assert.Equal(t, sessionNow, *status.LastDiscovered)
	assert.Empty(t, status.ErrorKind)
}

func TestSession_SaveFailureIsNotFatal(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	store := mocks.NewStore(t)
	result := sampleResult("alpha")

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(result, nil).Once()
	store.On("Save", mock.Anything, result, sessionNow).Return(errors.New("redis down")).Once()

	s := newTestSession(discoverer, WithStore(store))

	_, err := s.Discover(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, domain.SessionStateSuccess, s.Status().State)
}

func TestSession_DiscoveryIsCachedForNextSession(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	store := &memoryStore{}
	result := sampleResult("alpha", "beta")

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(result, nil).Once()

	s := newTestSession(discoverer, WithStore(store))

	_, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"save"}, store.history())

	next := newTestSession(mocks.NewDiscoverer(t), WithStore(store))
	require.NoError(t, next.Restore(context.Background()))

	restored, err := next.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, result, restored)
	assert.Equal(t, domain.SessionStateSuccess, next.Status().State)
}

func TestSession_SignOutWaitsForInFlightSave(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	store := &memoryStore{saving: make(chan struct{}), release: make(chan struct{})}

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(sampleResult("alpha"), nil).Once()

	s := newTestSession(discoverer, WithStore(store))

	runErr := make(chan error, 1)

	go func() {
		_, err := s.Discover(context.Background())
		runErr <- err
	}()

	<-store.saving

	signedOut := make(chan error, 1)

	go func() {
		signedOut <- s.SignOut(context.Background())
	}()

	select {
	case <-signedOut:
		t.Fatal("sign-out cleared the cache while a save was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)

	require.NoError(t, <-runErr)
	require.NoError(t, <-signedOut)

	assert.Equal(t, []string{"save", "clear"}, store.history())

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestSession_SaveSkippedAfterSignOut(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	store := &memoryStore{}

	s := newTestSession(discoverer, WithStore(store))

	_, gen, _, err := s.begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.SignOut(context.Background()))

	s.persist(context.Background(), gen, sampleResult("alpha"), sessionNow)

	assert.Equal(t, []string{"clear"}, store.history())

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestSession_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
	}{
		{
			name:     "listing failure",
			err:      fmt.Errorf("%w: %w", domain.ErrDiscoveryFailed, errBoom),
			wantKind: domain.ErrorKindDiscoveryFailed,
		},
		{
			name:     "session expired",
			err:      fmt.Errorf("%w: %w", domain.ErrDiscoveryFailed, auth.ErrSessionExpired),
			wantKind: domain.ErrorKindSessionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discoverer := mocks.NewDiscoverer(t)
			discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			s := newTestSession(discoverer)

			_, err := s.Discover(context.Background())
			assert.ErrorIs(t, err, tt.err)

			status := s.Status()
			assert.Equal(t, domain.SessionStateError, status.State)
			assert.Equal(t, tt.wantKind, status.ErrorKind)
			assert.Equal(t, tt.err.Error(), status.Error)
			assert.Nil(t, status.LastDiscovered)
		})
	}
}

func TestSession_RetryAfterError(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	result := sampleResult("alpha")

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(nil, domain.ErrDiscoveryFailed).Once()
	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(result, nil).Once()

	s := newTestSession(discoverer)

	_, err := s.Discover(context.Background())
	assert.Error(t, err)

	_, err = s.Discover(context.Background())
	require.NoError(t, err)

	status := s.Status()
	assert.Equal(t, domain.SessionStateSuccess, status.State)
	assert.Empty(t, status.Error)
}

func TestSession_NewerRunSupersedesOlder(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	store := mocks.NewStore(t)
	older, newer := sampleResult("older"), sampleResult("newer")
	started := make(chan struct{})

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, progress domain.ProgressFunc) (*domain.Result, error) {
			close(started)
			<-ctx.Done()
			progress(domain.Progress{Message: "stale"})

			// the older run completes anyway; its result must never be observable
			return older, nil
		}).Once()
	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(newer, nil).Once()
	store.On("Save", mock.Anything, newer, sessionNow).Return(nil).Once()

	s := newTestSession(discoverer, WithStore(store))

	olderErr := make(chan error, 1)

	go func() {
		_, err := s.Discover(context.Background())
		olderErr <- err
	}()

	<-started

	got, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Same(t, newer, got)

	assert.ErrorIs(t, <-olderErr, domain.ErrSuperseded)

	snapshot, err := s.Snapshot()
	require.NoError(t, err)
	assert.Same(t, newer, snapshot)

	status := s.Status()
	assert.Equal(t, domain.SessionStateSuccess, status.State)
	assert.NotEqual(t, "stale", status.Message)
}

func TestSession_SupersededFailureIsDiscarded(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	started := make(chan struct{})
	release := make(chan struct{})
	newer := sampleResult("newer")

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ domain.ProgressFunc) (*domain.Result, error) {
			close(started)
			<-release

			return nil, domain.ErrDiscoveryFailed
		}).Once()
	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(newer, nil).Once()

	s := newTestSession(discoverer)

	olderErr := make(chan error, 1)

	go func() {
		_, err := s.Discover(context.Background())
		olderErr <- err
	}()

	<-started

	_, err := s.Discover(context.Background())
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-olderErr, domain.ErrSuperseded)

	status := s.Status()
	assert.Equal(t, domain.SessionStateSuccess, status.State)
	assert.Empty(t, status.Error)
}

func TestSession_AbortKeepsPreviousSnapshot(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	result := sampleResult("alpha")

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(result, nil).Once()
	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ domain.ProgressFunc) (*domain.Result, error) {
			<-ctx.Done()
			return nil, fmt.Errorf("%w: %w", domain.ErrAborted, ctx.Err())
		}).Once()

	s := newTestSession(discoverer)

	_, err := s.Discover(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = s.Discover(ctx)
	assert.ErrorIs(t, err, domain.ErrAborted)

	assert.Equal(t, domain.SessionStateSuccess, s.Status().State)

	snapshot, err := s.Snapshot()
	require.NoError(t, err)
	assert.Same(t, result, snapshot)
}

func TestSession_StartRunsInBackground(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	result := sampleResult("alpha")

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(result, nil).Once()

	s := newTestSession(discoverer)

	runID, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	assert.Eventually(t, func() bool {
		return s.Status().State == domain.SessionStateSuccess
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, runID, s.Status().RunID)

	s.Close()
}

func TestSession_CloseCancelsRun(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	started := make(chan struct{})

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ domain.ProgressFunc) (*domain.Result, error) {
			close(started)
			<-ctx.Done()

			return nil, fmt.Errorf("%w: %w", domain.ErrAborted, ctx.Err())
		}).Once()

	s := newTestSession(discoverer)

	_, err := s.Start(context.Background())
	require.NoError(t, err)

	<-started
	s.Close()

	assert.Equal(t, domain.SessionStateIdle, s.Status().State)
}

func TestSession_Restore(t *testing.T) {
	cached := sampleResult("alpha")
	at := sessionNow.Add(-5 * time.Minute)

	tests := []struct {
		name      string
		load      func(store *mocks.Store)
		wantState string
		wantErr   bool
	}{
		{
			name: "fresh entry",
			load: func(store *mocks.Store) {
				store.On("Load", mock.Anything).Return(cache.NewEntry(cached, at), nil).Once()
			},
			wantState: domain.SessionStateSuccess,
		},
		{
			name: "miss",
			load: func(store *mocks.Store) {
				store.On("Load", mock.Anything).Return(nil, cache.ErrCacheMiss).Once()
			},
			wantState: domain.SessionStateIdle,
		},
		{
			name: "expired",
			load: func(store *mocks.Store) {
				store.On("Load", mock.Anything).Return(nil, cache.ErrExpiredEntry).Once()
			},
			wantState: domain.SessionStateIdle,
		},
		{
			name: "malformed",
			load: func(store *mocks.Store) {
				store.On("Load", mock.Anything).Return(nil, fmt.Errorf("%w: bad json", cache.ErrMalformedEntry)).Once()
			},
			wantState: domain.SessionStateIdle,
		},
		{
			name: "store unreachable",
			load: func(store *mocks.Store) {
				store.On("Load", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()
			},
			wantState: domain.SessionStateIdle,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore(t)
			tt.load(store)

			s := newTestSession(mocks.NewDiscoverer(t), WithStore(store))

			err := s.Restore(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			status := s.Status()
			assert.Equal(t, tt.wantState, status.State)

			if tt.wantState == domain.SessionStateSuccess {
				require.NotNil(t, status.LastDiscovered)
				assert.True(t, at.Equal(*status.LastDiscovered))

				g, err := s.Graph(false)
				require.NoError(t, err)
				assert.Len(t, g.Nodes, 3)
			}
		})
	}
}

func TestSession_RestoreWithoutStore(t *testing.T) {
	s := newTestSession(mocks.NewDiscoverer(t))

	assert.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, domain.SessionStateIdle, s.Status().State)
}

func TestSession_SignOut(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	store := mocks.NewStore(t)
	result := sampleResult("alpha")

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(result, nil).Once()
	store.On("Save", mock.Anything, result, sessionNow).Return(nil).Once()
	store.On("Clear", mock.Anything).Return(nil).Once()

	s := newTestSession(discoverer, WithStore(store))

	_, err := s.Discover(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.SignOut(context.Background()))

	_, err = s.Snapshot()
	assert.ErrorIs(t, err, domain.ErrNoDiscovery)
	assert.Equal(t, domain.SessionStatus{State: domain.SessionStateIdle}, s.Status())
}

func TestSession_SignOutDiscardsRunningDiscovery(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	started := make(chan struct{})

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ domain.ProgressFunc) (*domain.Result, error) {
			close(started)
			<-ctx.Done()

			return sampleResult("alpha"), nil
		}).Once()

	s := newTestSession(discoverer)

	runErr := make(chan error, 1)

	go func() {
		_, err := s.Discover(context.Background())
		runErr <- err
	}()

	<-started
	require.NoError(t, s.SignOut(context.Background()))

	assert.ErrorIs(t, <-runErr, domain.ErrSuperseded)

	_, err := s.Snapshot()
	assert.ErrorIs(t, err, domain.ErrNoDiscovery)
}

func TestSession_Analyze(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	enricher := mocks.NewEnricher(t)
	result := sampleResult("alpha")
	insightsMap := domain.InsightsMap{
		graph.ProjectNodeID("alpha"): {Severity: domain.InsightRed, Summary: "owner is a user", Suggestions: []string{}},
	}

	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(result, nil).Once()
	enricher.On("Analyze", mock.Anything, result.BillingAccounts, result.Projects).Return(insightsMap, nil).Once()

	var gotKey, gotModel string

	s := newTestSession(discoverer,
		WithInsights("configured-key", "test-model"),
		WithEnricherFactory(func(apiKey, model string) (iface.Enricher, error) {
			gotKey, gotModel = apiKey, model
			return enricher, nil
		}),
	)

	_, err := s.Analyze(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoDiscovery)

	_, err = s.Discover(context.Background())
	require.NoError(t, err)

	got, err := s.Analyze(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, insightsMap, got)
	assert.Equal(t, "configured-key", gotKey)
	assert.Equal(t, "test-model", gotModel)

	g, err := s.Graph(false)
	require.NoError(t, err)

	var insight *domain.Insight

	for _, n := range g.Nodes {
		if n.ID == graph.ProjectNodeID("alpha") {
			insight = n.Insight()
		}
	}

	require.NotNil(t, insight)
	assert.Equal(t, domain.InsightRed, insight.Severity)
}

func TestSession_AnalyzeMissingKey(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(sampleResult("alpha"), nil).Once()

	s := newTestSession(discoverer)

	_, err := s.Discover(context.Background())
	require.NoError(t, err)

	_, err = s.Analyze(context.Background(), "")
	assert.ErrorIs(t, err, insights.ErrMissingAPIKey)
}

func TestSession_Findings(t *testing.T) {
	discoverer := mocks.NewDiscoverer(t)
	discoverer.On("DiscoverAll", mock.Anything, mock.Anything).Return(sampleResult("alpha", "beta"), nil).Once()

	s := newTestSession(discoverer)

	_, err := s.Findings()
	assert.ErrorIs(t, err, domain.ErrNoDiscovery)

	_, err = s.Discover(context.Background())
	require.NoError(t, err)

	report, err := s.Findings()
	require.NoError(t, err)

	// each sample key carries no restrictions
	assert.Len(t, report.Findings, 2)
	assert.Equal(t, 2, report.Summary.Projects)
	assert.Equal(t, 70, report.Summary.HealthScore)
}

func TestSessionMachine(t *testing.T) {
	tests := []struct {
		name     string
		triggers []string
		want     string
		wantErr  bool
	}{
		{name: "start", triggers: []string{triggerStart}, want: domain.SessionStateLoading},
		{name: "restart while loading", triggers: []string{triggerStart, triggerStart}, want: domain.SessionStateLoading},
		{name: "success", triggers: []string{triggerStart, triggerSucceed}, want: domain.SessionStateSuccess},
		{name: "error", triggers: []string{triggerStart, triggerFail}, want: domain.SessionStateError},
		{name: "retry", triggers: []string{triggerStart, triggerFail, triggerStart}, want: domain.SessionStateLoading},
		{name: "restore", triggers: []string{triggerRestore}, want: domain.SessionStateSuccess},
		{name: "reset", triggers: []string{triggerStart, triggerSucceed, triggerReset}, want: domain.SessionStateIdle},
		{name: "succeed without run", triggers: []string{triggerSucceed}, wantErr: true},
		{name: "restore over result", triggers: []string{triggerStart, triggerSucceed, triggerRestore}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := newSessionMachine()

			var err error
			for _, trigger := range tt.triggers {
				if err = machine.Fire(trigger); err != nil {
					break
				}
			}

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, machine.MustState())
		})
	}
}
