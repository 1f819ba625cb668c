package iface

import (
	"context"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

//go:generate mockery --name BillingDAL --output ../mocks
type BillingDAL interface {
	ListBillingAccounts(ctx context.Context) ([]domain.BillingAccount, error)
	GetProjectBillingInfo(ctx context.Context, projectID string) (*domain.BillingInfo, error)
}

//go:generate mockery --name ProjectsDAL --output ../mocks
type ProjectsDAL interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

//go:generate mockery --name APIKeysDAL --output ../mocks
type APIKeysDAL interface {
	ListAPIKeys(ctx context.Context, projectID string) ([]domain.APIKey, error)
}

//go:generate mockery --name ServicesDAL --output ../mocks
type ServicesDAL interface {
	ListEnabledServices(ctx context.Context, projectID string) ([]domain.Service, error)
}

//go:generate mockery --name IAMDAL --output ../mocks
type IAMDAL interface {
	GetProjectIAMPolicy(ctx context.Context, projectID string) ([]domain.IAMBinding, error)
}

//go:generate mockery --name ServiceAccountsDAL --output ../mocks
type ServiceAccountsDAL interface {
	ListServiceAccounts(ctx context.Context, projectID string) ([]domain.ServiceAccount, error)
}

//go:generate mockery --name UsageDAL --output ../mocks
type UsageDAL interface {
	GetProjectUsage(ctx context.Context, projectID string) (*domain.UsageData, error)
}
