package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for role and permission operations.
var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrPermissionNotFound  = errors.New("permission not found")
	ErrDuplicateRole       = errors.New("role name already in use")
	ErrDuplicatePermission = errors.New("permission name already in use")
	ErrSystemRole          = errors.New("cannot delete system roles")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidPermission   = errors.New("invalid permission")
)

// Role is a named bundle of permissions assignable to users.
// swagger:model Role
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsSystem reports whether the role is one of the seeded system roles,
// which cannot be deleted.
func (r *Role) IsSystem() bool {
	return r.Name == "Super Admin" || r.Name == "Admin"
}

// Permission is a single grantable capability, named "<module>.<action>".
// swagger:model Permission
type Permission struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	Module      string    `json:"module"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleRepository defines storage for roles, permissions, and their links.
// Role reads return the role with its permission names attached. Writes that
// reference an unknown permission name fail with ErrPermissionNotFound.
type RoleRepository interface {
	CreateRole(ctx context.Context, r *Role) error
	GetRoleByID(ctx context.Context, id int64) (*Role, error)
	ListRoles(ctx context.Context) ([]*Role, error)
	UpdateRole(ctx context.Context, r *Role) error
	DeleteRole(ctx context.Context, id int64) error

	CreatePermission(ctx context.Context, p *Permission) error
	GetPermissionByID(ctx context.Context, id int64) (*Permission, error)
	ListPermissions(ctx context.Context) ([]*Permission, error)
	UpdatePermission(ctx context.Context, p *Permission) error
	DeletePermission(ctx context.Context, id int64) error
}

// RolePermissionService defines business logic for managing roles and
// permissions. UpdateRole replaces the role's permission set with the one
// given. DeleteRole refuses system roles with ErrSystemRole.
type RolePermissionService interface {
	CreateRole(ctx context.Context, r *Role) error
	ListRoles(ctx context.Context) ([]*Role, error)
	UpdateRole(ctx context.Context, r *Role) error
	DeleteRole(ctx context.Context, id int64) error

	CreatePermission(ctx context.Context, p *Permission) error
	ListPermissions(ctx context.Context) ([]*Permission, error)
	UpdatePermission(ctx context.Context, p *Permission) error
	DeletePermission(ctx context.Context, id int64) error
}
