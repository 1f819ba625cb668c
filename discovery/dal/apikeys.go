package dal

import (
	"context"
	"fmt"

	"google.golang.org/api/apikeys/v2"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

type APIKeysDAL struct {
	pager *Pager
	keys  *apikeys.Service
}

func NewAPIKeysDAL(pager *Pager, keys *apikeys.Service) *APIKeysDAL {
	return &APIKeysDAL{
		pager: pager,
		keys:  keys,
	}
}

func (d *APIKeysDAL) ListAPIKeys(ctx context.Context, projectID string) ([]domain.APIKey, error) {
	parent := "projects/" + projectID + "/locations/global"

	keys, err := paginate(ctx, d.pager, "api keys "+projectID, func(ctx context.Context, pageToken string) ([]domain.APIKey, string, error) {
		call := d.keys.Projects.Locations.Keys.List(parent).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}

		page := make([]domain.APIKey, 0, len(resp.Keys))
		for _, k := range resp.Keys {
			page = append(page, toAPIKey(projectID, k))
		}

		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list api keys for %s: %w", projectID, err)
	}

	return keys, nil
}

func toAPIKey(projectID string, k *apikeys.V2Key) domain.APIKey {
	key := domain.APIKey{
		Name:        k.Name,
		UID:         k.Uid,
		DisplayName: k.DisplayName,
		CreateTime:  k.CreateTime,
		UpdateTime:  k.UpdateTime,
		Etag:        k.Etag,
		ProjectID:   projectID,
	}

	r := k.Restrictions
	if r == nil {
		return key
	}

	restrictions := &domain.APIKeyRestrictions{}

	for _, t := range r.ApiTargets {
		restrictions.APITargets = append(restrictions.APITargets, domain.APITarget{
			Service: t.Service,
			Methods: t.Methods,
		})
	}

	if r.BrowserKeyRestrictions != nil {
		restrictions.BrowserKeyRestrictions = &domain.BrowserKeyRestrictions{
			AllowedReferrers: r.BrowserKeyRestrictions.AllowedReferrers,
		}
	}

	if r.ServerKeyRestrictions != nil {
		restrictions.ServerKeyRestrictions = &domain.ServerKeyRestrictions{
			AllowedIPs: r.ServerKeyRestrictions.AllowedIps,
		}
	}

	key.Restrictions = restrictions

	return key
}
