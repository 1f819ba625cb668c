package findings

import (
	"time"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

const (
	criticalPenalty = 15
	warningPenalty  = 5
)

type Summary struct {
	HealthScore            int `json:"healthScore"`
	Critical               int `json:"critical"`
	Warnings               int `json:"warnings"`
	BillingAccounts        int `json:"billingAccounts"`
	OpenBillingAccounts    int `json:"openBillingAccounts"`
	Projects               int `json:"projects"`
	ProjectsWithoutBilling int `json:"projectsWithoutBilling"`
	APIKeys                int `json:"apiKeys"`
	UnrestrictedAPIKeys    int `json:"unrestrictedApiKeys"`
	EnabledServices        int `json:"enabledServices"`
	IAMBindings            int `json:"iamBindings"`
	ServiceAccounts        int `json:"serviceAccounts"`
	PartialFailures        int `json:"partialFailures"`
}

// HealthScore is 100 minus 15 per critical and 5 per warning finding, clamped to [0, 100].
func HealthScore(findings []Finding) int {
	critical, warnings := count(findings)

	score := 100 - criticalPenalty*critical - warningPenalty*warnings
	if score < 0 {
		return 0
	}

	if score > 100 {
		return 100
	}

	return score
}

func count(findings []Finding) (critical, warnings int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			critical++
		case SeverityWarning:
			warnings++
		}
	}

	return critical, warnings
}

// Summarize computes the overview counters of a discovery.
func Summarize(result *domain.Result, findings []Finding) Summary {
	s := Summary{
		HealthScore:     HealthScore(findings),
		BillingAccounts: len(result.BillingAccounts),
		Projects:        len(result.Projects),
		PartialFailures: result.PartialFailureCount,
	}

	s.Critical, s.Warnings = count(findings)

	for _, ba := range result.BillingAccounts {
		if ba.Open {
			s.OpenBillingAccounts++
		}
	}

	for _, pd := range result.Projects {
		if pd.BillingInfo == nil || !pd.BillingInfo.BillingEnabled {
			s.ProjectsWithoutBilling++
		}

		for _, k := range pd.APIKeys {
			s.APIKeys++

			if k.Restrictions.Unrestricted() {
				s.UnrestrictedAPIKeys++
			}
		}

		s.EnabledServices += len(pd.Services)
		s.IAMBindings += len(pd.IAMBindings)
		s.ServiceAccounts += len(pd.ServiceAccounts)
	}

	return s
}

// Report is the findings view of a discovery.
type Report struct {
	Findings []Finding `json:"findings"`
	Summary  Summary   `json:"summary"`
}

func NewReport(result *domain.Result, now time.Time) *Report {
	f := Compute(result.BillingAccounts, result.Projects, now)

	return &Report{
		Findings: f,
		Summary:  Summarize(result, f),
	}
}
