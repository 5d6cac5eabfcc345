package services

import (
	"context"
	"fmt"
	"strings"

	"goerp/internal/domain"
)

type rolePermissionService struct {
	repo domain.RoleRepository
}

// NewRolePermissionService creates a RolePermissionService with the given repository.
func NewRolePermissionService(repo domain.RoleRepository) domain.RolePermissionService {
	return &rolePermissionService{repo: repo}
}

func (s *rolePermissionService) CreateRole(ctx context.Context, r *domain.Role) error {
	if err := validateRole(r); err != nil {
		return err
	}
	r.Permissions = dedupeNames(r.Permissions)
	return s.repo.CreateRole(ctx, r)
}

func (s *rolePermissionService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *rolePermissionService) UpdateRole(ctx context.Context, r *domain.Role) error {
	if err := validateRole(r); err != nil {
		return err
	}
	r.Permissions = dedupeNames(r.Permissions)
	return s.repo.UpdateRole(ctx, r)
}

func (s *rolePermissionService) DeleteRole(ctx context.Context, id int64) error {
	role, err := s.repo.GetRoleByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem() {
		return domain.ErrSystemRole
	}
	return s.repo.DeleteRole(ctx, id)
}

func (s *rolePermissionService) CreatePermission(ctx context.Context, p *domain.Permission) error {
	if err := validatePermission(p); err != nil {
		return err
	}
	return s.repo.CreatePermission(ctx, p)
}

func (s *rolePermissionService) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *rolePermissionService) UpdatePermission(ctx context.Context, p *domain.Permission) error {
	if err := validatePermission(p); err != nil {
		return err
	}
	return s.repo.UpdatePermission(ctx, p)
}

func (s *rolePermissionService) DeletePermission(ctx context.Context, id int64) error {
	return s.repo.DeletePermission(ctx, id)
}

func validateRole(r *domain.Role) error {
	var problems []string
	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "name is required")
	} else if len(r.Name) > 255 {
		problems = append(problems, "name must be at most 255 characters")
	}
	for _, name := range r.Permissions {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, "permission names cannot be empty")
			break
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRole, strings.Join(problems, "; "))
	}
	return nil
}

func validatePermission(p *domain.Permission) error {
	var problems []string
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	} else if len(p.Name) > 255 {
		problems = append(problems, "name must be at most 255 characters")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		problems = append(problems, "display_name is required")
	} else if len(p.DisplayName) > 255 {
		problems = append(problems, "display_name must be at most 255 characters")
	}
	if len(p.Module) > 255 {
		problems = append(problems, "module must be at most 255 characters")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPermission, strings.Join(problems, "; "))
	}
	return nil
}

// dedupeNames drops repeated permission names, keeping first occurrence order.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
