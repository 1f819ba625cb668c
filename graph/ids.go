package graph

import "github.com/doitintl/hello/gcp-footprint/discovery/domain"

const (
	billingPrefix = "billing-"
	projectPrefix = "project-"
	apiKeyPrefix  = "apikey-"
	servicePrefix = "service-"
	edgePrefix    = "e-"
)

// BillingNodeID is "billing-" followed by the account id from the resource name.
func BillingNodeID(ba domain.BillingAccount) string {
	return billingPrefix + ba.ID()
}

func billingNodeIDFromName(name string) string {
	return BillingNodeID(domain.BillingAccount{Name: name})
}

func ProjectNodeID(projectID string) string {
	return projectPrefix + projectID
}

// APIKeyNodeID is "apikey-" followed by the key uid, or its resource name when the uid is empty.
func APIKeyNodeID(k domain.APIKey) string {
	return apiKeyPrefix + k.Key()
}

func ServiceNodeID(projectID, serviceName string) string {
	return servicePrefix + projectID + "-" + serviceName
}

func EdgeID(source, target string) string {
	return edgePrefix + source + "-" + target
}
