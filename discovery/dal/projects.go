package dal

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/cloudresourcemanager/v1"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

type ProjectsDAL struct {
	pager *Pager
	crm   *cloudresourcemanager.Service
}

func NewProjectsDAL(pager *Pager, crm *cloudresourcemanager.Service) *ProjectsDAL {
	return &ProjectsDAL{
		pager: pager,
		crm:   crm,
	}
}

// ListProjects lists the ACTIVE projects visible to the caller, in listing order.
func (d *ProjectsDAL) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := paginate(ctx, d.pager, "projects", func(ctx context.Context, pageToken string) ([]domain.Project, string, error) {
		call := d.crm.Projects.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}

		page := make([]domain.Project, 0, len(resp.Projects))

		for _, p := range resp.Projects {
			project := toProject(p)
			if !project.Active() {
				continue
			}

			page = append(page, project)
		}

		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}

func toProject(p *cloudresourcemanager.Project) domain.Project {
	project := domain.Project{
		Name:        "projects/" + strconv.FormatInt(p.ProjectNumber, 10),
		ProjectID:   p.ProjectId,
		State:       p.LifecycleState,
		DisplayName: p.Name,
		CreateTime:  p.CreateTime,
		Labels:      p.Labels,
	}

	if p.Parent != nil {
		project.Parent = p.Parent.Type + "s/" + p.Parent.Id
	}

	return project
}
