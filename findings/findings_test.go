package findings

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) string {
	return now.Add(-time.Duration(d) * day).Add(-time.Hour).Format(time.RFC3339)
}

func restricted() *domain.APIKeyRestrictions {
	return &domain.APIKeyRestrictions{APITargets: []domain.APITarget{{Service: "maps.googleapis.com"}}}
}

func services(n int) []domain.Service {
	res := make([]domain.Service, n)
	for i := range res {
		res[i] = domain.Service{Name: "s", State: domain.ServiceStateEnabled}
	}

	return res
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		accounts []domain.BillingAccount
		project  domain.ProjectDiscovery
		want     []Finding
	}{
		{
			name: "healthy project",
			project: domain.ProjectDiscovery{
				Project:     domain.Project{ProjectID: "p1", DisplayName: "Prod"},
				BillingInfo: &domain.BillingInfo{BillingEnabled: true, BillingAccountName: "billingAccounts/A"},
				APIKeys:     []domain.APIKey{{UID: "k1", CreateTime: daysAgo(10), Restrictions: restricted()}},
				Services:    services(8),
			},
			want: []Finding{},
		},
		{
			name: "unrestricted key",
			project: domain.ProjectDiscovery{
				Project: domain.Project{ProjectID: "p1", DisplayName: "Prod"},
				APIKeys: []domain.APIKey{{UID: "0123456789abcdef", Name: "projects/1/locations/global/keys/x"}},
			},
			want: []Finding{{
				Severity: SeverityCritical,
				NodeID:   "apikey-0123456789abcdef",
				Title:    "Unrestricted key: 0123456789ab",
				Body:     "Prod: add API target or IP restrictions immediately",
			}},
		},
		{
			name: "key age thresholds",
			project: domain.ProjectDiscovery{
				Project: domain.Project{ProjectID: "p1"},
				APIKeys: []domain.APIKey{
					{UID: "young", DisplayName: "young", CreateTime: daysAgo(90), Restrictions: restricted()},
					{UID: "mid", DisplayName: "mid", CreateTime: daysAgo(91), Restrictions: restricted()},
					{UID: "old", DisplayName: "old", CreateTime: daysAgo(200), Restrictions: restricted()},
					{UID: "unknown", DisplayName: "unknown", Restrictions: restricted()},
				},
			},
			want: []Finding{
				{Severity: SeverityCritical, NodeID: "apikey-old", Title: "Key 200d old: old", Body: "p1: rotate this key (over 180 days old)"},
				{Severity: SeverityWarning, NodeID: "apikey-mid", Title: "Key 91d old: mid", Body: "p1: schedule rotation (over 90 days old)"},
			},
		},
		{
			name: "iam hygiene",
			project: domain.ProjectDiscovery{
				Project: domain.Project{ProjectID: "p1"},
				IAMBindings: []domain.IAMBinding{
					{Role: "roles/owner", Members: []string{"user:a@example.com", "serviceAccount:ci@p1.iam.gserviceaccount.com"}},
					{Role: "roles/viewer", Members: []string{"deleted:user:b@example.com?uid=1", "allUsers", "serviceAccount:old@p1.iam.gserviceaccount.com"}},
					{Role: "roles/editor", Members: []string{"deleted:serviceAccount:c@p1.iam.gserviceaccount.com?uid=2", "serviceAccount:other@q.iam.gserviceaccount.com"}},
				},
				ServiceAccounts: []domain.ServiceAccount{
					{Email: "ci@p1.iam.gserviceaccount.com"},
					{Email: "old@p1.iam.gserviceaccount.com", Disabled: true},
				},
			},
			want: []Finding{
				{Severity: SeverityCritical, NodeID: "project-p1", Title: "Stale IAM: 2 deleted principal(s)", Body: "p1: clean up deleted: entries from IAM policy"},
				{Severity: SeverityCritical, NodeID: "project-p1", Title: "Public IAM binding", Body: "p1: allUsers or allAuthenticatedUsers has a role"},
				{Severity: SeverityWarning, NodeID: "project-p1", Title: "SA has owner", Body: "p1: ci@p1.iam.gserviceaccount.com has elevated privileges"},
				{Severity: SeverityWarning, NodeID: "project-p1", Title: "Disabled SA in IAM", Body: "p1: old@p1.iam.gserviceaccount.com is disabled but has role viewer"},
			},
		},
		{
			name: "zombie project",
			project: domain.ProjectDiscovery{
				Project:     domain.Project{ProjectID: "p1"},
				BillingInfo: &domain.BillingInfo{BillingEnabled: false},
				Services:    services(6),
			},
			want: []Finding{
				{Severity: SeverityWarning, NodeID: "project-p1", Title: "Zombie: 6 services, billing off", Body: "p1: disable unused services or re-attach billing"},
			},
		},
		{
			name: "five services without billing is fine",
			project: domain.ProjectDiscovery{
				Project:  domain.Project{ProjectID: "p1"},
				Services: services(5),
			},
			want: []Finding{},
		},
		{
			name: "closed billing account with linked project",
			accounts: []domain.BillingAccount{
				{Name: "billingAccounts/CLOSED", DisplayName: "Legacy", Open: false},
				{Name: "billingAccounts/EMPTY", DisplayName: "Unused", Open: false},
			},
			project: domain.ProjectDiscovery{
				Project:     domain.Project{ProjectID: "p1"},
				BillingInfo: &domain.BillingInfo{BillingAccountName: "billingAccounts/CLOSED", BillingEnabled: false},
			},
			want: []Finding{
				{Severity: SeverityWarning, NodeID: "billing-CLOSED", Title: "Closed billing, 1 linked project(s)", Body: "Legacy: projects may fail if billing is required"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.accounts, []domain.ProjectDiscovery{tt.project}, now)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_SortIsStable(t *testing.T) {
	projects := []domain.ProjectDiscovery{
		{
			Project:  domain.Project{ProjectID: "a"},
			Services: services(6),
		},
		{
			Project: domain.Project{ProjectID: "b"},
			APIKeys: []domain.APIKey{{UID: "kb"}},
		},
		{
			Project:  domain.Project{ProjectID: "c"},
			Services: services(7),
			APIKeys:  []domain.APIKey{{UID: "kc"}},
		},
	}

	got := Compute(nil, projects, now)

	var ids []string
	for _, f := range got {
		ids = append(ids, f.NodeID)
	}

	assert.Equal(t, []string{"apikey-kb", "apikey-kc", "project-a", "project-c"}, ids)
}

func TestHealthScore(t *testing.T) {
	critical := Finding{Severity: SeverityCritical}
	warning := Finding{Severity: SeverityWarning}

	tests := []struct {
		name     string
		findings []Finding
		want     int
	}{
		{name: "no findings", want: 100},
		{name: "mixed", findings: []Finding{critical, warning, warning}, want: 75},
		{name: "healthy entries do not count", findings: []Finding{{Severity: SeverityHealthy}}, want: 100},
		{name: "clamped at zero", findings: []Finding{critical, critical, critical, critical, critical, critical, critical}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HealthScore(tt.findings))
		})
	}
}

func TestSummarize(t *testing.T) {
	result := &domain.Result{
		BillingAccounts: []domain.BillingAccount{
			{Name: "billingAccounts/A", Open: true},
			{Name: "billingAccounts/B", Open: false},
		},
		Projects: []domain.ProjectDiscovery{
			{
				Project:         domain.Project{ProjectID: "p1"},
				BillingInfo:     &domain.BillingInfo{BillingAccountName: "billingAccounts/A", BillingEnabled: true},
				APIKeys:         []domain.APIKey{{UID: "k1"}, {UID: "k2", Restrictions: restricted()}},
				Services:        services(3),
				IAMBindings:     []domain.IAMBinding{{Role: "roles/owner"}, {Role: "roles/viewer"}},
				ServiceAccounts: []domain.ServiceAccount{{Email: "a@p1.iam.gserviceaccount.com"}},
			},
			{
				Project: domain.Project{ProjectID: "p2"},
			},
		},
		PartialFailureCount: 2,
	}

	got := Summarize(result, Compute(result.BillingAccounts, result.Projects, now))

	want := Summary{
		HealthScore:            85,
		Critical:               1,
		BillingAccounts:        2,
		OpenBillingAccounts:    1,
		Projects:               2,
		ProjectsWithoutBilling: 1,
		APIKeys:                2,
		UnrestrictedAPIKeys:    1,
		EnabledServices:        3,
		IAMBindings:            2,
		ServiceAccounts:        1,
		PartialFailures:        2,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}
