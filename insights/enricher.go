package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/goccy/go-json"

	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
	"github.com/doitintl/hello/gcp-footprint/graph"
)

const (
	maxTokens         = 4096
	errorExcerptChars = 500
)

type messagesClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Enricher asks the model for per-node insights over a compact summary of a discovery.
type Enricher struct {
	messages messagesClient
	model    string
}

// NewEnricher returns an enricher for the given key. The key is kept in memory only.
func NewEnricher(apiKey, model string) (*Enricher, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if model == "" {
		model = common.DefaultInsightsModel
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Enricher{
		messages: &client.Messages,
		model:    model,
	}, nil
}

// Analyze returns insights keyed by graph node id. Entries with an unknown severity are dropped.
func (e *Enricher) Analyze(ctx context.Context, accounts []domain.BillingAccount, projects []domain.ProjectDiscovery) (domain.InsightsMap, error) {
	payload, err := json.MarshalIndent(newSummary(accounts, projects), "", "  ")
	if err != nil {
		return nil, err
	}

	msg, err := e.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(payload))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("insights request: %w", err)
	}

	var text strings.Builder

	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return parseInsights(text.String())
}

// parseInsights reads the JSON object spanning the first "{" to the last "}" of the reply.
// A reply without an object yields no insights.
func parseInsights(text string) (domain.InsightsMap, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start < 0 || end < start {
		return domain.InsightsMap{}, nil
	}

	var raw map[string]domain.Insight
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w: %s", ErrMalformedResponse, err, excerpt(text))
	}

	insights := make(domain.InsightsMap, len(raw))

	for nodeID, insight := range raw {
		if !insight.Severity.Valid() {
			continue
		}

		if insight.Suggestions == nil {
			insight.Suggestions = []string{}
		}

		insights[nodeID] = insight
	}

	return insights, nil
}

type accountSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Open     bool   `json:"open"`
	Currency string `json:"currency"`
}

type keySummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Restrictions []string `json:"restrictions"`
	Created      string   `json:"created"`
}

type serviceAccountSummary struct {
	Email    string `json:"email"`
	Disabled bool   `json:"disabled"`
}

type bindingSummary struct {
	Role             string `json:"role"`
	MemberCount      int    `json:"memberCount"`
	HasExternalUsers bool   `json:"hasExternalUsers"`
	HasAllUsers      bool   `json:"hasAllUsers"`
}

type projectSummary struct {
	ID              string                  `json:"id"`
	ProjectID       string                  `json:"projectId"`
	Name            string                  `json:"name"`
	BillingEnabled  bool                    `json:"billingEnabled"`
	BillingAccount  *string                 `json:"billingAccount"`
	APIKeys         []keySummary            `json:"apiKeys"`
	EnabledServices []string                `json:"enabledServices"`
	Usage           *domain.UsageData       `json:"usage"`
	ServiceAccounts []serviceAccountSummary `json:"serviceAccounts"`
	IAMBindings     []bindingSummary        `json:"iamBindings"`
}

type summary struct {
	BillingAccounts []accountSummary `json:"billingAccounts"`
	Projects        []projectSummary `json:"projects"`
}

func newSummary(accounts []domain.BillingAccount, projects []domain.ProjectDiscovery) summary {
	s := summary{
		BillingAccounts: make([]accountSummary, 0, len(accounts)),
		Projects:        make([]projectSummary, 0, len(projects)),
	}

	for _, ba := range accounts {
		s.BillingAccounts = append(s.BillingAccounts, accountSummary{
			ID:       graph.BillingNodeID(ba),
			Name:     ba.DisplayName,
			Open:     ba.Open,
			Currency: ba.CurrencyCode,
		})
	}

	for _, pd := range projects {
		p := projectSummary{
			ID:              graph.ProjectNodeID(pd.Project.ProjectID),
			ProjectID:       pd.Project.ProjectID,
			Name:            pd.Project.DisplayName,
			APIKeys:         make([]keySummary, 0, len(pd.APIKeys)),
			EnabledServices: make([]string, 0, len(pd.Services)),
			Usage:           pd.Usage,
			ServiceAccounts: make([]serviceAccountSummary, 0, len(pd.ServiceAccounts)),
			IAMBindings:     make([]bindingSummary, 0, len(pd.IAMBindings)),
		}

		if pd.BillingInfo != nil {
			p.BillingEnabled = pd.BillingInfo.BillingEnabled
			p.BillingAccount = &pd.BillingInfo.BillingAccountName
		}

		for _, k := range pd.APIKeys {
			targets := []string{}
			if k.Restrictions != nil {
				for _, t := range k.Restrictions.APITargets {
					targets = append(targets, t.Service)
				}
			}

			p.APIKeys = append(p.APIKeys, keySummary{
				ID:           graph.APIKeyNodeID(k),
				Name:         k.DisplayName,
				Restrictions: targets,
				Created:      k.CreateTime,
			})
		}

		for _, svc := range pd.Services {
			if svc.Config.Name != "" {
				p.EnabledServices = append(p.EnabledServices, svc.Config.Name)
			}
		}

		for _, sa := range pd.ServiceAccounts {
			p.ServiceAccounts = append(p.ServiceAccounts, serviceAccountSummary{Email: sa.Email, Disabled: sa.Disabled})
		}

		for _, b := range pd.IAMBindings {
			bs := bindingSummary{Role: b.Role, MemberCount: len(b.Members)}

			for _, m := range b.Members {
				if strings.HasPrefix(m, "user:") {
					bs.HasExternalUsers = true
				}

				if m == "allUsers" || m == "allAuthenticatedUsers" {
					bs.HasAllUsers = true
				}
			}

			p.IAMBindings = append(p.IAMBindings, bs)
		}

		s.Projects = append(s.Projects, p)
	}

	return s
}

// excerpt cuts text to at most errorExcerptChars runes.
func excerpt(text string) string {
	n := 0
	for i := range text {
		if n == errorExcerptChars {
			return text[:i]
		}
		n++
	}

	return text
}
