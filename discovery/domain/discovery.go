package domain

import (
	"strings"
	"time"
)

const (
	ProjectStateActive          = "ACTIVE"
	ProjectStateDeleteRequested = "DELETE_REQUESTED"

	ServiceStateEnabled = "ENABLED"
)

type BillingAccount struct {
	// Name is the resource name, "billingAccounts/XXXXXX-XXXXXX-XXXXXX".
	Name                 string `json:"name" validate:"required"`
	DisplayName          string `json:"displayName"`
	Open                 bool   `json:"open"`
	CurrencyCode         string `json:"currencyCode,omitempty"`
	MasterBillingAccount string `json:"masterBillingAccount,omitempty"`
}

// ID returns the account id, the second segment of the resource name.
func (b BillingAccount) ID() string {
	_, id, found := strings.Cut(b.Name, "/")
	if !found {
		return b.Name
	}

	id, _, _ = strings.Cut(id, "/")

	return id
}

type Project struct {
	// Name is "projects/<number>".
	Name        string            `json:"name"`
	Parent      string            `json:"parent,omitempty"`
	ProjectID   string            `json:"projectId" validate:"required"`
	State       string            `json:"state"`
	DisplayName string            `json:"displayName"`
	CreateTime  string            `json:"createTime,omitempty"`
	UpdateTime  string            `json:"updateTime,omitempty"`
	Etag        string            `json:"etag,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

func (p Project) Active() bool {
	return p.State == ProjectStateActive
}

// Title is the display name, or the project id when the project has none.
func (p Project) Title() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}

	return p.ProjectID
}

type BillingInfo struct {
	Name               string `json:"name"`
	ProjectID          string `json:"projectId"`
	BillingAccountName string `json:"billingAccountName"`
	BillingEnabled     bool   `json:"billingEnabled"`
}

// Linked reports whether billing is enabled through a named billing account.
func (b *BillingInfo) Linked() bool {
	return b != nil && b.BillingEnabled && b.BillingAccountName != ""
}

type APITarget struct {
	Service string   `json:"service"`
	Methods []string `json:"methods,omitempty"`
}

type BrowserKeyRestrictions struct {
	AllowedReferrers []string `json:"allowedReferrers"`
}

type ServerKeyRestrictions struct {
	AllowedIPs []string `json:"allowedIps"`
}

type APIKeyRestrictions struct {
	APITargets             []APITarget             `json:"apiTargets,omitempty"`
	BrowserKeyRestrictions *BrowserKeyRestrictions `json:"browserKeyRestrictions,omitempty"`
	ServerKeyRestrictions  *ServerKeyRestrictions  `json:"serverKeyRestrictions,omitempty"`
}

// Unrestricted reports whether the key can call any API from anywhere.
func (r *APIKeyRestrictions) Unrestricted() bool {
	return r == nil || (len(r.APITargets) == 0 && r.BrowserKeyRestrictions == nil && r.ServerKeyRestrictions == nil)
}

type APIKey struct {
	// Name is "projects/<project>/locations/global/keys/<key>".
	Name         string              `json:"name" validate:"required"`
	UID          string              `json:"uid"`
	DisplayName  string              `json:"displayName"`
	CreateTime   string              `json:"createTime,omitempty"`
	UpdateTime   string              `json:"updateTime,omitempty"`
	Restrictions *APIKeyRestrictions `json:"restrictions,omitempty"`
	Etag         string              `json:"etag,omitempty"`
	ProjectID    string              `json:"projectId,omitempty"`
}

// Key is the natural key of the API key: its uid, or its resource name when the uid is missing.
func (k APIKey) Key() string {
	if k.UID != "" {
		return k.UID
	}

	return k.Name
}

// Title is the display name, or the first 12 characters of the uid.
func (k APIKey) Title() string {
	if k.DisplayName != "" {
		return k.DisplayName
	}

	if len(k.UID) > 12 {
		return k.UID[:12]
	}

	return k.UID
}

// CreatedAt parses the creation timestamp.
func (k APIKey) CreatedAt() (time.Time, bool) {
	if k.CreateTime == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, k.CreateTime)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

type ServiceConfig struct {
	// Name is the service DNS name, e.g. "compute.googleapis.com".
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type Service struct {
	// Name is "projects/<number>/services/<api>".
	Name      string        `json:"name"`
	Config    ServiceConfig `json:"config"`
	State     string        `json:"state"`
	ProjectID string        `json:"projectId,omitempty"`
}

type IAMBinding struct {
	Role    string   `json:"role" validate:"required"`
	Members []string `json:"members"`
}

type ServiceAccount struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"required"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled"`
	ProjectID   string `json:"projectId"`
}

// Member is the IAM member identifier of the service account.
func (s ServiceAccount) Member() string {
	return "serviceAccount:" + s.Email
}

type TimeSeriesPoint struct {
	// Date is YYYY-MM-DD.
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

type UsageData struct {
	ProjectID             string            `json:"projectId"`
	TokenCount            *int64            `json:"tokenCount,omitempty"`
	RequestCount          *int64            `json:"requestCount,omitempty"`
	RequestBreakdown      map[string]int64  `json:"requestBreakdown,omitempty"`
	TokenBreakdown        map[string]int64  `json:"tokenBreakdown,omitempty"`
	ResponseCodeBreakdown map[string]int64  `json:"responseCodeBreakdown,omitempty"`
	RequestTimeSeries     []TimeSeriesPoint `json:"requestTimeSeries,omitempty"`
	TokenTimeSeries       []TimeSeriesPoint `json:"tokenTimeSeries,omitempty"`
}

// ProjectDiscovery is everything discovered about one project. Every field except Project
// independently defaults to empty when its fetch fails.
type ProjectDiscovery struct {
	Project         Project          `json:"project"`
	BillingInfo     *BillingInfo     `json:"billingInfo"`
	APIKeys         []APIKey         `json:"apiKeys" validate:"dive"`
	Services        []Service        `json:"services"`
	Usage           *UsageData       `json:"usage,omitempty"`
	IAMBindings     []IAMBinding     `json:"iamBindings" validate:"dive"`
	ServiceAccounts []ServiceAccount `json:"serviceAccounts" validate:"dive"`
}

// Result is the consolidated output of one discovery run.
type Result struct {
	BillingAccounts     []BillingAccount   `json:"billingAccounts" validate:"dive"`
	Projects            []ProjectDiscovery `json:"projects" validate:"dive"`
	PartialFailureCount int                `json:"partialFailureCount"`
}

type Progress struct {
	Message string `json:"message"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
}

type ProgressFunc func(Progress)
