package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

var (
	openAccount   = domain.BillingAccount{Name: "billingAccounts/AAA-111", DisplayName: "Main", Open: true, CurrencyCode: "USD"}
	closedAccount = domain.BillingAccount{Name: "billingAccounts/BBB-222", DisplayName: "Legacy"}
)

func linkedTo(account string) *domain.BillingInfo {
	return &domain.BillingInfo{BillingAccountName: account, BillingEnabled: true}
}

func discovery(projectID string, billing *domain.BillingInfo, keys ...domain.APIKey) domain.ProjectDiscovery {
	return domain.ProjectDiscovery{
		Project:         domain.Project{ProjectID: projectID, DisplayName: projectID, State: domain.ProjectStateActive},
		BillingInfo:     billing,
		APIKeys:         keys,
		Services:        []domain.Service{},
		IAMBindings:     []domain.IAMBinding{},
		ServiceAccounts: []domain.ServiceAccount{},
	}
}

func nodeIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}

	return ids
}

func edgeIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		ids = append(ids, e.ID)
	}

	return ids
}

func TestBuildGraph(t *testing.T) {
	accounts := []domain.BillingAccount{openAccount, closedAccount}
	projects := []domain.ProjectDiscovery{
		discovery("alpha", linkedTo(openAccount.Name), domain.APIKey{Name: "projects/1/locations/global/keys/k1", UID: "k1"}),
		discovery("beta", linkedTo(closedAccount.Name)),
		discovery("gamma", &domain.BillingInfo{BillingAccountName: openAccount.Name}),
		discovery("delta", linkedTo("billingAccounts/NOT-VISIBLE")),
	}

	g := BuildGraph(accounts, projects, nil)

	assert.Equal(t, []string{
		"billing-AAA-111",
		"billing-BBB-222",
		"project-alpha",
		"apikey-k1",
		"project-beta",
		"project-gamma",
		"project-delta",
	}, nodeIDs(g))

	assert.Equal(t, []Edge{
		{ID: "e-billing-AAA-111-project-alpha", Source: "billing-AAA-111", Target: "project-alpha"},
		{ID: "e-project-alpha-apikey-k1", Source: "project-alpha", Target: "apikey-k1"},
		{ID: "e-billing-BBB-222-project-beta", Source: "billing-BBB-222", Target: "project-beta"},
	}, g.Edges)

	ids := make(map[string]bool)
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}

	for _, e := range g.Edges {
		assert.True(t, ids[e.Source], "edge %s has a dangling source", e.ID)
		assert.True(t, ids[e.Target], "edge %s has a dangling target", e.ID)
	}

	billing, ok := g.Nodes[0].Data.(*BillingAccountData)
	require.True(t, ok)
	assert.Equal(t, 1, billing.ProjectCount)

	project, ok := g.Nodes[2].Data.(*ProjectData)
	require.True(t, ok)
	assert.Equal(t, 1, project.APIKeyCount)
	assert.Equal(t, 0, project.ServiceCount)
}

func TestBuildGraph_DeterministicIDsAndDedup(t *testing.T) {
	dup := domain.APIKey{Name: "projects/1/locations/global/keys/first", UID: "same", DisplayName: "first"}
	again := domain.APIKey{Name: "projects/1/locations/global/keys/second", UID: "same", DisplayName: "second"}
	noUID := domain.APIKey{Name: "projects/1/locations/global/keys/legacy"}

	projects := []domain.ProjectDiscovery{
		discovery("alpha", linkedTo(openAccount.Name), dup, again, noUID),
		discovery("alpha", nil),
	}

	first := BuildGraph([]domain.BillingAccount{openAccount, openAccount}, projects, nil)
	second := BuildGraph([]domain.BillingAccount{openAccount, openAccount}, projects, nil)

	if diff := cmp.Diff(nodeIDs(first), nodeIDs(second)); diff != "" {
		t.Errorf("node ids differ between builds (-first +second):\n%s", diff)
	}

	if diff := cmp.Diff(first.Edges, second.Edges); diff != "" {
		t.Errorf("edges differ between builds (-first +second):\n%s", diff)
	}

	assert.Equal(t, []string{
		"billing-AAA-111",
		"project-alpha",
		"apikey-same",
		"apikey-projects/1/locations/global/keys/legacy",
	}, nodeIDs(first))

	key, ok := first.Nodes[2].Data.(*APIKeyData)
	require.True(t, ok)
	assert.Equal(t, "first", key.APIKey.DisplayName)

	assert.Len(t, first.Edges, 3)
}

func TestBuildGraph_BillingInfoMissing(t *testing.T) {
	projects := []domain.ProjectDiscovery{
		discovery("alpha", nil, domain.APIKey{Name: "k", UID: "k"}),
	}

	g := BuildGraph([]domain.BillingAccount{openAccount}, projects, nil)

	for _, e := range g.Edges {
		assert.NotEqual(t, "project-alpha", e.Target)
	}

	assert.Equal(t, []string{"e-project-alpha-apikey-k"}, edgeIDs(g))
}

func TestBuildGraph_Insights(t *testing.T) {
	insights := domain.InsightsMap{
		"project-alpha": {Severity: domain.InsightRed, Summary: "public bucket", Suggestions: []string{"remove allUsers"}},
		"apikey-k":      {Severity: domain.InsightGreen, Summary: "restricted"},
	}

	g := BuildGraph(nil, []domain.ProjectDiscovery{discovery("alpha", nil, domain.APIKey{Name: "k", UID: "k"})}, insights)

	require.Len(t, g.Nodes, 2)
	require.NotNil(t, g.Nodes[0].Insight())
	assert.Equal(t, domain.InsightRed, g.Nodes[0].Insight().Severity)
	assert.Equal(t, "restricted", g.Nodes[1].Insight().Summary)
}

func TestBuildGraph_WithServiceNodes(t *testing.T) {
	pd := discovery("alpha", nil)
	pd.Services = []domain.Service{
		{Name: "projects/1/services/compute.googleapis.com", Config: domain.ServiceConfig{Name: "compute.googleapis.com"}},
		{Name: "projects/1/services/broken"},
	}

	plain := BuildGraph(nil, []domain.ProjectDiscovery{pd}, nil)
	assert.Equal(t, []string{"project-alpha"}, nodeIDs(plain))

	g := BuildGraph(nil, []domain.ProjectDiscovery{pd}, nil, WithServiceNodes())
	assert.Equal(t, []string{"project-alpha", "service-alpha-compute.googleapis.com"}, nodeIDs(g))
	assert.Equal(t, []string{"e-project-alpha-service-alpha-compute.googleapis.com"}, edgeIDs(g))
}

func TestNodeHelpers(t *testing.T) {
	count := int64(1200)

	g := BuildGraph(
		[]domain.BillingAccount{openAccount},
		[]domain.ProjectDiscovery{func() domain.ProjectDiscovery {
			pd := discovery("alpha", linkedTo(openAccount.Name), domain.APIKey{Name: "projects/1/locations/global/keys/k", UID: "uid-0123456789abcdef"})
			pd.Services = []domain.Service{{Name: "projects/1/services/run.googleapis.com", Config: domain.ServiceConfig{Name: "run.googleapis.com"}}}
			pd.Usage = &domain.UsageData{ProjectID: "alpha", RequestCount: &count}

			return pd
		}()},
		nil,
		WithServiceNodes(),
	)

	tests := []struct {
		id         string
		label      string
		tooltip    string
		consoleURL string
		copyID     string
	}{
		{
			id:         "billing-AAA-111",
			label:      "Main",
			tooltip:    "Main\nOpen · 1 projects",
			consoleURL: "https://console.cloud.google.com/billing/AAA-111",
			copyID:     "billingAccounts/AAA-111",
		},
		{
			id:         "project-alpha",
			label:      "alpha",
			tooltip:    "alpha\n1 keys · 1 services\n1200 req/30d",
			consoleURL: "https://console.cloud.google.com/home/dashboard?project=alpha",
			copyID:     "alpha",
		},
		{
			id:         "apikey-uid-0123456789abcdef",
			label:      "uid-0123456789abcdef",
			tooltip:    "uid-01234567\nUnrestricted",
			consoleURL: "https://console.cloud.google.com/apis/credentials?project=alpha",
			copyID:     "uid-0123456789abcdef",
		},
		{
			id:         "service-alpha-run.googleapis.com",
			label:      "run.googleapis.com",
			tooltip:    "run.googleapis.com",
			consoleURL: "https://console.cloud.google.com/apis/api/run.googleapis.com/overview?project=alpha",
			copyID:     "run.googleapis.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			i := slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == tt.id })
			require.GreaterOrEqual(t, i, 0)

			n := g.Nodes[i]
			assert.Equal(t, tt.label, n.Label())
			assert.Equal(t, tt.tooltip, n.Tooltip())
			assert.Equal(t, tt.consoleURL, n.ConsoleURL())
			assert.Equal(t, tt.copyID, n.CopyID())
		})
	}

	assert.Empty(t, Node{}.Label())
	assert.Empty(t, Node{}.ConsoleURL())
	assert.Nil(t, Node{}.Insight())
}
