package service

import (
	"slices"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
)

type RBACService struct{}

func NewRBACService() *RBACService { return &RBACService{} }

// PermissionsFromRoles returns the sorted, de-duplicated permission names
// granted by roles.
func (s *RBACService) PermissionsFromRoles(roles []domain.Role) []string {
	set := map[string]struct{}{}
	for _, r := range roles {
		for _, p := range r.Permissions {
			set[p.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (s *RBACService) HasPermission(permissions []string, required string) bool {
	return slices.Contains(permissions, required)
}
