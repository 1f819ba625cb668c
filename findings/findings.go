package findings

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
	"github.com/doitintl/hello/gcp-footprint/graph"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityHealthy  Severity = "healthy"
)

const (
	keyCriticalAge = 180
	keyWarningAge  = 90

	zombieServiceCount = 5

	day = 24 * time.Hour
)

var elevatedRole = regexp.MustCompile(`(?i)owner|admin`)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

type Finding struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"nodeId"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
}

// Compute evaluates every rule against the discovery and returns the findings, critical first.
// Findings of equal severity keep their evaluation order.
func Compute(accounts []domain.BillingAccount, projects []domain.ProjectDiscovery, now time.Time) []Finding {
	res := []Finding{}

	for _, pd := range projects {
		res = append(res, projectFindings(pd, now)...)
	}

	for _, ba := range accounts {
		if ba.Open {
			continue
		}

		linked := 0

		for _, pd := range projects {
			if pd.BillingInfo != nil && pd.BillingInfo.BillingAccountName == ba.Name {
				linked++
			}
		}

		if linked > 0 {
			res = append(res, Finding{
				Severity: SeverityWarning,
				NodeID:   graph.BillingNodeID(ba),
				Title:    fmt.Sprintf("Closed billing, %d linked project(s)", linked),
				Body:     ba.DisplayName + ": projects may fail if billing is required",
			})
		}
	}

	slices.SortStableFunc(res, func(a, b Finding) int {
		return a.Severity.rank() - b.Severity.rank()
	})

	return res
}

func projectFindings(pd domain.ProjectDiscovery, now time.Time) []Finding {
	var res []Finding

	name := pd.Project.Title()
	projectNodeID := graph.ProjectNodeID(pd.Project.ProjectID)

	for _, key := range pd.APIKeys {
		if key.Restrictions.Unrestricted() {
			res = append(res, Finding{
				Severity: SeverityCritical,
				NodeID:   graph.APIKeyNodeID(key),
				Title:    "Unrestricted key: " + key.Title(),
				Body:     name + ": add API target or IP restrictions immediately",
			})
		}
	}

	for _, key := range pd.APIKeys {
		created, ok := key.CreatedAt()
		if !ok {
			continue
		}

		age := int(now.Sub(created) / day)

		switch {
		case age > keyCriticalAge:
			res = append(res, Finding{
				Severity: SeverityCritical,
				NodeID:   graph.APIKeyNodeID(key),
				Title:    fmt.Sprintf("Key %dd old: %s", age, key.Title()),
				Body:     name + ": rotate this key (over 180 days old)",
			})
		case age > keyWarningAge:
			res = append(res, Finding{
				Severity: SeverityWarning,
				NodeID:   graph.APIKeyNodeID(key),
				Title:    fmt.Sprintf("Key %dd old: %s", age, key.Title()),
				Body:     name + ": schedule rotation (over 90 days old)",
			})
		}
	}

	deleted := 0
	public := false

	for _, b := range pd.IAMBindings {
		for _, m := range b.Members {
			if strings.HasPrefix(m, "deleted:") {
				deleted++
			}

			if m == "allUsers" || m == "allAuthenticatedUsers" {
				public = true
			}
		}
	}

	if deleted > 0 {
		res = append(res, Finding{
			Severity: SeverityCritical,
			NodeID:   projectNodeID,
			Title:    fmt.Sprintf("Stale IAM: %d deleted principal(s)", deleted),
			Body:     name + ": clean up deleted: entries from IAM policy",
		})
	}

	if public {
		res = append(res, Finding{
			Severity: SeverityCritical,
			NodeID:   projectNodeID,
			Title:    "Public IAM binding",
			Body:     name + ": allUsers or allAuthenticatedUsers has a role",
		})
	}

	billingEnabled := pd.BillingInfo != nil && pd.BillingInfo.BillingEnabled
	if !billingEnabled && len(pd.Services) > zombieServiceCount {
		res = append(res, Finding{
			Severity: SeverityWarning,
			NodeID:   projectNodeID,
			Title:    fmt.Sprintf("Zombie: %d services, billing off", len(pd.Services)),
			Body:     name + ": disable unused services or re-attach billing",
		})
	}

	accounts := make(map[string]domain.ServiceAccount, len(pd.ServiceAccounts))
	for _, sa := range pd.ServiceAccounts {
		accounts[sa.Member()] = sa
	}

	for _, b := range pd.IAMBindings {
		if !elevatedRole.MatchString(b.Role) {
			continue
		}

		for _, m := range b.Members {
			sa, ok := accounts[m]
			if !ok {
				continue
			}

			res = append(res, Finding{
				Severity: SeverityWarning,
				NodeID:   projectNodeID,
				Title:    "SA has " + shortRole(b.Role),
				Body:     fmt.Sprintf("%s: %s has elevated privileges", name, sa.Email),
			})
		}
	}

	for _, b := range pd.IAMBindings {
		for _, m := range b.Members {
			sa, ok := accounts[m]
			if !ok || !sa.Disabled {
				continue
			}

			res = append(res, Finding{
				Severity: SeverityWarning,
				NodeID:   projectNodeID,
				Title:    "Disabled SA in IAM",
				Body:     fmt.Sprintf("%s: %s is disabled but has role %s", name, sa.Email, shortRole(b.Role)),
			})
		}
	}

	return res
}

// shortRole strips the "roles/" style prefix.
func shortRole(role string) string {
	return role[strings.LastIndex(role, "/")+1:]
}
