package service

import (
	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/discovery/dal"
	"github.com/doitintl/hello/gcp-footprint/discovery/dal/iface"
	"github.com/doitintl/hello/gcp-footprint/framework/connection"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

// Fetchers are the resource fetchers a discovery run reads from.
type Fetchers struct {
	Billing         iface.BillingDAL
	Projects        iface.ProjectsDAL
	APIKeys         iface.APIKeysDAL
	Services        iface.ServicesDAL
	IAM             iface.IAMDAL
	ServiceAccounts iface.ServiceAccountsDAL
	Usage           iface.UsageDAL
}

// NewFetchers builds the Google API fetchers. They share one pager so the rate limit
// applies across all of them.
func NewFetchers(log logger.Provider, conn *connection.Connection, cfg *common.Config) *Fetchers {
	pager := dal.NewPager(log, cfg.MaxPages, cfg.RequestsPerSecond)

	return &Fetchers{
		Billing:         dal.NewBillingDAL(pager, conn.Billing),
		Projects:        dal.NewProjectsDAL(pager, conn.ResourceManager),
		APIKeys:         dal.NewAPIKeysDAL(pager, conn.APIKeys),
		Services:        dal.NewServicesDAL(pager, conn.ServiceUsage),
		IAM:             dal.NewIAMDAL(pager, conn.ResourceManager),
		ServiceAccounts: dal.NewServiceAccountsDAL(pager, conn.IAM),
		Usage:           dal.NewUsageDAL(pager, conn.Monitoring, cfg.UsageWindow),
	}
}
