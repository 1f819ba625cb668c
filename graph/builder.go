package graph

import (
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

type options struct {
	serviceNodes bool
}

type Option func(*options)

// WithServiceNodes adds one node per enabled service under its project.
func WithServiceNodes() Option {
	return func(o *options) {
		o.serviceNodes = true
	}
}

type builder struct {
	nodes   []Node
	edges   []Edge
	nodeIDs map[string]bool
	edgeIDs map[string]bool
}

func newBuilder() *builder {
	return &builder{
		nodes:   []Node{},
		edges:   []Edge{},
		nodeIDs: make(map[string]bool),
		edgeIDs: make(map[string]bool),
	}
}

// addNode keeps the first node seen for an id.
func (b *builder) addNode(n Node) {
	if b.nodeIDs[n.ID] {
		return
	}

	b.nodeIDs[n.ID] = true
	b.nodes = append(b.nodes, n)
}

func (b *builder) addEdge(source, target string) {
	id := EdgeID(source, target)
	if b.edgeIDs[id] {
		return
	}

	b.edgeIDs[id] = true
	b.edges = append(b.edges, Edge{ID: id, Source: source, Target: target})
}

// BuildGraph turns a discovery into positioned nodes and edges. The same input always yields
// the same graph.
func BuildGraph(accounts []domain.BillingAccount, projects []domain.ProjectDiscovery, insights domain.InsightsMap, opts ...Option) *Graph {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	projectCounts := make(map[string]int)

	for _, pd := range projects {
		if pd.BillingInfo.Linked() {
			projectCounts[pd.BillingInfo.BillingAccountName]++
		}
	}

	b := newBuilder()

	for _, ba := range accounts {
		id := BillingNodeID(ba)

		b.addNode(newNode(id, &BillingAccountData{
			BillingAccount: ba,
			ProjectCount:   projectCounts[ba.Name],
			Insight:        lookup(insights, id),
		}))
	}

	for _, pd := range projects {
		projectID := pd.Project.ProjectID
		projectNodeID := ProjectNodeID(projectID)

		b.addNode(newNode(projectNodeID, &ProjectData{
			Project:         pd.Project,
			BillingInfo:     pd.BillingInfo,
			APIKeyCount:     len(pd.APIKeys),
			ServiceCount:    len(pd.Services),
			Services:        pd.Services,
			Usage:           pd.Usage,
			IAMBindings:     pd.IAMBindings,
			ServiceAccounts: pd.ServiceAccounts,
			Insight:         lookup(insights, projectNodeID),
		}))

		if pd.BillingInfo.Linked() {
			// only accounts the caller can see have a node to hang the project from
			if billingID := billingNodeIDFromName(pd.BillingInfo.BillingAccountName); b.nodeIDs[billingID] {
				b.addEdge(billingID, projectNodeID)
			}
		}

		for _, key := range pd.APIKeys {
			keyID := APIKeyNodeID(key)

			b.addNode(newNode(keyID, &APIKeyData{
				APIKey:    key,
				ProjectID: projectID,
				Insight:   lookup(insights, keyID),
			}))
			b.addEdge(projectNodeID, keyID)
		}

		if !o.serviceNodes {
			continue
		}

		for _, svc := range pd.Services {
			if svc.Config.Name == "" {
				continue
			}

			serviceID := ServiceNodeID(projectID, svc.Config.Name)

			b.addNode(newNode(serviceID, &ServiceData{
				Service:   svc,
				ProjectID: projectID,
				Insight:   lookup(insights, serviceID),
			}))
			b.addEdge(projectNodeID, serviceID)
		}
	}

	return &Graph{
		Nodes: ApplyTreeLayout(b.nodes, b.edges),
		Edges: b.edges,
	}
}

func lookup(insights domain.InsightsMap, nodeID string) *domain.Insight {
	insight, ok := insights[nodeID]
	if !ok {
		return nil
	}

	return &insight
}
