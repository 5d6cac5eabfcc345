package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"goerp/internal/domain"
)

type roleRepository struct {
	DB *sql.DB
}

// NewRoleRepository creates a Postgres-backed role and permission repository.
func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) CreateRole(ctx context.Context, role *domain.Role) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO roles (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, role.Name, role.Description, role.CreatedAt, role.UpdatedAt).Scan(&role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRole
		}
		return err
	}
	if err := syncRolePermissions(ctx, tx, role.ID, role.Permissions); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *roleRepository) GetRoleByID(ctx context.Context, id int64) (*domain.Role, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	role := &domain.Role{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	role.Permissions, err = r.rolePermissionNames(ctx, id)
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role := &domain.Role{Permissions: []string{}}
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkQuery := `
		SELECT rp.role_id, p.name
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		ORDER BY p.name
	`
	linkRows, err := r.DB.QueryContext(ctx, linkQuery)
	if err != nil {
		return nil, err
	}
	defer linkRows.Close()

	byID := make(map[int64]*domain.Role, len(roles))
	for _, role := range roles {
		byID[role.ID] = role
	}
	for linkRows.Next() {
		var roleID int64
		var name string
		if err := linkRows.Scan(&roleID, &name); err != nil {
			return nil, err
		}
		if role, ok := byID[roleID]; ok {
			role.Permissions = append(role.Permissions, name)
		}
	}
	return roles, linkRows.Err()
}

func (r *roleRepository) UpdateRole(ctx context.Context, role *domain.Role) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE roles
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := tx.ExecContext(ctx, query, role.Name, role.Description, role.UpdatedAt, role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRole
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRoleNotFound
	}
	if err := syncRolePermissions(ctx, tx, role.ID, role.Permissions); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *roleRepository) DeleteRole(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *roleRepository) CreatePermission(ctx context.Context, p *domain.Permission) error {
	query := `
		INSERT INTO permissions (name, display_name, description, module, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.Name, p.DisplayName, p.Description, p.Module, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePermission
		}
		return err
	}
	return nil
}

func (r *roleRepository) GetPermissionByID(ctx context.Context, id int64) (*domain.Permission, error) {
	query := `
		SELECT id, name, display_name, description, module, created_at, updated_at
		FROM permissions
		WHERE id = $1
	`
	p := &domain.Permission{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.DisplayName, &p.Description, &p.Module, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	query := `
		SELECT id, name, display_name, description, module, created_at, updated_at
		FROM permissions
		ORDER BY module, name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []*domain.Permission
	for rows.Next() {
		p := &domain.Permission{}
		if err := rows.Scan(&p.ID, &p.Name, &p.DisplayName, &p.Description, &p.Module, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *roleRepository) UpdatePermission(ctx context.Context, p *domain.Permission) error {
	query := `
		UPDATE permissions
		SET name = $1, display_name = $2, description = $3, module = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.DB.ExecContext(ctx, query, p.Name, p.DisplayName, p.Description, p.Module, p.UpdatedAt, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePermission
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

func (r *roleRepository) DeletePermission(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

func (r *roleRepository) rolePermissionNames(ctx context.Context, roleID int64) ([]string, error) {
	query := `
		SELECT p.name
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1
		ORDER BY p.name
	`
	rows, err := r.DB.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// syncRolePermissions replaces the role's permission links with the given
// permission names. Every name must exist; otherwise the whole sync fails
// with ErrPermissionNotFound and the transaction rolls back.
func syncRolePermissions(ctx context.Context, tx *sql.Tx, roleID int64, names []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1, id FROM permissions WHERE name = ANY($2)
	`
	res, err := tx.ExecContext(ctx, query, roleID, pq.Array(names))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != int64(len(names)) {
		return fmt.Errorf("%w: %d of %d permission names unknown", domain.ErrPermissionNotFound, int64(len(names))-affected, len(names))
	}
	return nil
}
