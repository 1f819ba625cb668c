package dal

import (
	"context"
	"fmt"

	"google.golang.org/api/cloudresourcemanager/v1"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

type IAMDAL struct {
	pager *Pager
	crm   *cloudresourcemanager.Service
}

func NewIAMDAL(pager *Pager, crm *cloudresourcemanager.Service) *IAMDAL {
	return &IAMDAL{
		pager: pager,
		crm:   crm,
	}
}

// GetProjectIAMPolicy returns the project's bindings, one per role. Conditional bindings that
// repeat a role are folded into the first binding for that role.
func (d *IAMDAL) GetProjectIAMPolicy(ctx context.Context, projectID string) ([]domain.IAMBinding, error) {
	if err := d.pager.wait(ctx); err != nil {
		return nil, err
	}

	policy, err := d.crm.Projects.GetIamPolicy(projectID, &cloudresourcemanager.GetIamPolicyRequest{}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get iam policy for %s: %w", projectID, err)
	}

	return mergeBindings(policy.Bindings), nil
}

func mergeBindings(bindings []*cloudresourcemanager.Binding) []domain.IAMBinding {
	res := make([]domain.IAMBinding, 0, len(bindings))
	byRole := make(map[string]int, len(bindings))
	seen := make(map[string]map[string]bool, len(bindings))

	for _, b := range bindings {
		i, ok := byRole[b.Role]
		if !ok {
			i = len(res)
			byRole[b.Role] = i
			seen[b.Role] = make(map[string]bool)
			res = append(res, domain.IAMBinding{Role: b.Role, Members: []string{}})
		}

		for _, m := range b.Members {
			if seen[b.Role][m] {
				continue
			}

			seen[b.Role][m] = true
			res[i].Members = append(res[i].Members, m)
		}
	}

	return res
}
