package dal

import (
	"context"
	"fmt"

	"google.golang.org/api/iam/v1"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

const serviceAccountsPageSize = 100

type ServiceAccountsDAL struct {
	pager *Pager
	iam   *iam.Service
}

func NewServiceAccountsDAL(pager *Pager, iamService *iam.Service) *ServiceAccountsDAL {
	return &ServiceAccountsDAL{
		pager: pager,
		iam:   iamService,
	}
}

func (d *ServiceAccountsDAL) ListServiceAccounts(ctx context.Context, projectID string) ([]domain.ServiceAccount, error) {
	name := "projects/" + projectID

	accounts, err := paginate(ctx, d.pager, "service accounts "+projectID, func(ctx context.Context, pageToken string) ([]domain.ServiceAccount, string, error) {
		call := d.iam.Projects.ServiceAccounts.List(name).PageSize(serviceAccountsPageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}

		page := make([]domain.ServiceAccount, 0, len(resp.Accounts))

		for _, sa := range resp.Accounts {
			page = append(page, domain.ServiceAccount{
				Name:        sa.Name,
				Email:       sa.Email,
				DisplayName: sa.DisplayName,
				Description: sa.Description,
				Disabled:    sa.Disabled,
				ProjectID:   projectID,
			})
		}

		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list service accounts for %s: %w", projectID, err)
	}

	return accounts, nil
}
