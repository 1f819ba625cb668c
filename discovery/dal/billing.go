package dal

import (
	"context"
	"fmt"

	"google.golang.org/api/cloudbilling/v1"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

type BillingDAL struct {
	pager   *Pager
	billing *cloudbilling.APIService
}

func NewBillingDAL(pager *Pager, billing *cloudbilling.APIService) *BillingDAL {
	return &BillingDAL{
		pager:   pager,
		billing: billing,
	}
}

// ListBillingAccounts lists every billing account visible to the caller.
func (d *BillingDAL) ListBillingAccounts(ctx context.Context) ([]domain.BillingAccount, error) {
	accounts, err := paginate(ctx, d.pager, "billing accounts", func(ctx context.Context, pageToken string) ([]domain.BillingAccount, string, error) {
		call := d.billing.BillingAccounts.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}

		page := make([]domain.BillingAccount, 0, len(resp.BillingAccounts))
		for _, ba := range resp.BillingAccounts {
			page = append(page, toBillingAccount(ba))
		}

		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list billing accounts: %w", err)
	}

	return accounts, nil
}

// GetProjectBillingInfo returns the billing account link of a project.
func (d *BillingDAL) GetProjectBillingInfo(ctx context.Context, projectID string) (*domain.BillingInfo, error) {
	if err := d.pager.wait(ctx); err != nil {
		return nil, err
	}

	info, err := d.billing.Projects.GetBillingInfo("projects/" + projectID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get billing info for %s: %w", projectID, err)
	}

	return &domain.BillingInfo{
		Name:               info.Name,
		ProjectID:          info.ProjectId,
		BillingAccountName: info.BillingAccountName,
		BillingEnabled:     info.BillingEnabled,
	}, nil
}

func toBillingAccount(ba *cloudbilling.BillingAccount) domain.BillingAccount {
	return domain.BillingAccount{
		Name:                 ba.Name,
		DisplayName:          ba.DisplayName,
		Open:                 ba.Open,
		CurrencyCode:         ba.CurrencyCode,
		MasterBillingAccount: ba.MasterBillingAccount,
	}
}
