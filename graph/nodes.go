package graph

import (
	"fmt"
	"strings"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

const consoleURL = "https://console.cloud.google.com"

type Kind string

const (
	KindBillingAccount Kind = "billingAccount"
	KindProject        Kind = "project"
	KindAPIKey         Kind = "apiKey"
	KindService        Kind = "service"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload of a node. It is implemented only by the four payload types below.
type NodeData interface {
	kind() Kind
}

type BillingAccountData struct {
	BillingAccount domain.BillingAccount `json:"billingAccount"`
	ProjectCount   int                   `json:"projectCount"`
	Insight        *domain.Insight       `json:"insight,omitempty"`
}

type ProjectData struct {
	Project         domain.Project          `json:"project"`
	BillingInfo     *domain.BillingInfo     `json:"billingInfo"`
	APIKeyCount     int                     `json:"apiKeyCount"`
	ServiceCount    int                     `json:"serviceCount"`
	Services        []domain.Service        `json:"services"`
	Usage           *domain.UsageData       `json:"usage,omitempty"`
	IAMBindings     []domain.IAMBinding     `json:"iamBindings"`
	ServiceAccounts []domain.ServiceAccount `json:"serviceAccounts"`
	Insight         *domain.Insight         `json:"insight,omitempty"`
}

type APIKeyData struct {
	APIKey    domain.APIKey   `json:"apiKey"`
	ProjectID string          `json:"projectId"`
	Insight   *domain.Insight `json:"insight,omitempty"`
}

type ServiceData struct {
	Service   domain.Service  `json:"service"`
	ProjectID string          `json:"projectId"`
	Insight   *domain.Insight `json:"insight,omitempty"`
}

func (*BillingAccountData) kind() Kind { return KindBillingAccount }
func (*ProjectData) kind() Kind        { return KindProject }
func (*APIKeyData) kind() Kind         { return KindAPIKey }
func (*ServiceData) kind() Kind        { return KindService }

type Node struct {
	ID       string   `json:"id"`
	Type     Kind     `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

func newNode(id string, data NodeData) Node {
	return Node{ID: id, Type: data.kind(), Data: data}
}

type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Label is the human readable name of the node.
func (n Node) Label() string {
	switch d := n.Data.(type) {
	case *BillingAccountData:
		return d.BillingAccount.DisplayName
	case *ProjectData:
		return d.Project.Title()
	case *APIKeyData:
		if d.APIKey.DisplayName != "" {
			return d.APIKey.DisplayName
		}

		return d.APIKey.UID
	case *ServiceData:
		return d.Service.Config.Name
	default:
		return ""
	}
}

// Tooltip is a short multi-line description of the node.
func (n Node) Tooltip() string {
	switch d := n.Data.(type) {
	case *BillingAccountData:
		state := "Closed"
		if d.BillingAccount.Open {
			state = "Open"
		}

		return fmt.Sprintf("%s\n%s · %d projects", d.BillingAccount.DisplayName, state, d.ProjectCount)
	case *ProjectData:
		text := fmt.Sprintf("%s\n%d keys · %d services", d.Project.Title(), d.APIKeyCount, d.ServiceCount)
		if d.Usage != nil && d.Usage.RequestCount != nil && *d.Usage.RequestCount > 0 {
			text += fmt.Sprintf("\n%d req/30d", *d.Usage.RequestCount)
		}

		return text
	case *APIKeyData:
		state := "Restricted"
		if d.APIKey.Restrictions.Unrestricted() {
			state = "Unrestricted"
		}

		return d.APIKey.Title() + "\n" + state
	case *ServiceData:
		return d.Service.Config.Name
	default:
		return ""
	}
}

// ConsoleURL links the node to its page in the Cloud Console.
func (n Node) ConsoleURL() string {
	switch d := n.Data.(type) {
	case *BillingAccountData:
		return consoleURL + "/billing/" + d.BillingAccount.ID()
	case *ProjectData:
		return consoleURL + "/home/dashboard?project=" + d.Project.ProjectID
	case *APIKeyData:
		return consoleURL + "/apis/credentials?project=" + d.ProjectID
	case *ServiceData:
		name := d.Service.Config.Name
		if name == "" {
			name = d.Service.Name[strings.LastIndex(d.Service.Name, "/")+1:]
		}

		return consoleURL + "/apis/api/" + name + "/overview?project=" + d.ProjectID
	default:
		return ""
	}
}

// CopyID is the natural identifier a user would paste into gcloud.
func (n Node) CopyID() string {
	switch d := n.Data.(type) {
	case *BillingAccountData:
		return d.BillingAccount.Name
	case *ProjectData:
		return d.Project.ProjectID
	case *APIKeyData:
		return d.APIKey.UID
	case *ServiceData:
		return d.Service.Config.Name
	default:
		return ""
	}
}

// Insight returns the insight attached to the node, if any.
func (n Node) Insight() *domain.Insight {
	switch d := n.Data.(type) {
	case *BillingAccountData:
		return d.Insight
	case *ProjectData:
		return d.Insight
	case *APIKeyData:
		return d.Insight
	case *ServiceData:
		return d.Insight
	default:
		return nil
	}
}
