package dal

import (
	"context"
	"fmt"

	"google.golang.org/api/serviceusage/v1"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

const servicesPageSize = 200

type ServicesDAL struct {
	pager        *Pager
	serviceUsage *serviceusage.Service
}

func NewServicesDAL(pager *Pager, serviceUsage *serviceusage.Service) *ServicesDAL {
	return &ServicesDAL{
		pager:        pager,
		serviceUsage: serviceUsage,
	}
}

func (d *ServicesDAL) ListEnabledServices(ctx context.Context, projectID string) ([]domain.Service, error) {
	parent := "projects/" + projectID

	services, err := paginate(ctx, d.pager, "services "+projectID, func(ctx context.Context, pageToken string) ([]domain.Service, string, error) {
		call := d.serviceUsage.Services.List(parent).
			Filter("state:" + domain.ServiceStateEnabled).
			PageSize(servicesPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}

		page := make([]domain.Service, 0, len(resp.Services))
		for _, s := range resp.Services {
			page = append(page, toService(projectID, s))
		}

		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list enabled services for %s: %w", projectID, err)
	}

	return services, nil
}

func toService(projectID string, s *serviceusage.GoogleApiServiceusageV1Service) domain.Service {
	service := domain.Service{
		Name:      s.Name,
		State:     s.State,
		ProjectID: projectID,
	}

	if c := s.Config; c != nil {
		service.Config = domain.ServiceConfig{
			Name:  c.Name,
			Title: c.Title,
		}

		if c.Documentation != nil {
			service.Config.Summary = c.Documentation.Summary
		}
	}

	return service
}
