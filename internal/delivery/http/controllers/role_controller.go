package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"goerp/internal/delivery/http/helpers"
	"goerp/internal/domain"
)

// RoleRequest is the request body for creating or updating a role.
type RoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// Validate implements Validator.
func (r RoleRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

func (r RoleRequest) toDomain() *domain.Role {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &domain.Role{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Permissions: perms,
	}
}

// PermissionRequest is the request body for creating or updating a permission.
type PermissionRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Module      string `json:"module"`
}

// Validate implements Validator.
func (p PermissionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		errs = append(errs, "display_name is required")
	}
	return errs
}

func (p PermissionRequest) toDomain() *domain.Permission {
	return &domain.Permission{
		Name:        strings.TrimSpace(p.Name),
		DisplayName: strings.TrimSpace(p.DisplayName),
		Description: strings.TrimSpace(p.Description),
		Module:      strings.TrimSpace(p.Module),
	}
}

// RoleSuccessResponse is the success response envelope for single-role endpoints.
type RoleSuccessResponse struct {
	Data  *domain.Role      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RoleListSuccessResponse is the success response envelope for GET /roles.
type RoleListSuccessResponse struct {
	Data  []*domain.Role    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PermissionListSuccessResponse is the success response envelope for GET /permissions.
type PermissionListSuccessResponse struct {
	Data  []*domain.Permission `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RolePermissionController handles role and permission administration.
type RolePermissionController struct {
	Logger  *slog.Logger
	Service domain.RolePermissionService
}

// NewRolePermissionController creates a RolePermissionController with the given service.
func NewRolePermissionController(logger *slog.Logger, svc domain.RolePermissionService) *RolePermissionController {
	return &RolePermissionController{
		Logger:  logger,
		Service: svc,
	}
}

// ListRoles godoc
// @Summary List roles
// @Description Returns all roles with their permission names.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RoleListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles [get]
func (c *RolePermissionController) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := c.Service.ListRoles(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roles)
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoleRequest true "Role fields"
// @Success 201 {object} controllers.RoleSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles [post]
func (c *RolePermissionController) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	role := req.toDomain()
	now := time.Now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now
	if err := c.Service.CreateRole(r.Context(), role); err != nil {
		c.writeRoleError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, role)
}

// UpdateRole godoc
// @Summary Update a role
// @Description Updates a role and replaces its permission set.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body RoleRequest true "Role fields"
// @Success 200 {object} controllers.RoleSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{id} [put]
func (c *RolePermissionController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid role id")
	if !ok {
		return
	}
	var req RoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	role := req.toDomain()
	role.ID = id
	role.UpdatedAt = time.Now().UTC()
	if err := c.Service.UpdateRole(r.Context(), role); err != nil {
		c.writeRoleError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, role)
}

// DeleteRole godoc
// @Summary Delete a role
// @Description Deletes a role. System roles (Super Admin, Admin) cannot be deleted.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{id} [delete]
func (c *RolePermissionController) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid role id")
	if !ok {
		return
	}
	if err := c.Service.DeleteRole(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrSystemRole) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "cannot delete system roles")
			return
		}
		c.writeRoleError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "role deleted"})
}

// ListPermissions godoc
// @Summary List permissions
// @Description Returns all permissions, grouped by module.
// @Tags permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.PermissionListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /permissions [get]
func (c *RolePermissionController) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := c.Service.ListPermissions(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, perms)
}

// CreatePermission godoc
// @Summary Create a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PermissionRequest true "Permission fields"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /permissions [post]
func (c *RolePermissionController) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req PermissionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	perm := req.toDomain()
	now := time.Now().UTC()
	perm.CreatedAt = now
	perm.UpdatedAt = now
	if err := c.Service.CreatePermission(r.Context(), perm); err != nil {
		c.writePermissionError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, perm)
}

// UpdatePermission godoc
// @Summary Update a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Permission ID"
// @Param body body PermissionRequest true "Permission fields"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /permissions/{id} [put]
func (c *RolePermissionController) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid permission id")
	if !ok {
		return
	}
	var req PermissionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	perm := req.toDomain()
	perm.ID = id
	perm.UpdatedAt = time.Now().UTC()
	if err := c.Service.UpdatePermission(r.Context(), perm); err != nil {
		c.writePermissionError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, perm)
}

// DeletePermission godoc
// @Summary Delete a permission
// @Tags permissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Permission ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /permissions/{id} [delete]
func (c *RolePermissionController) DeletePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid permission id")
	if !ok {
		return
	}
	if err := c.Service.DeletePermission(r.Context(), id); err != nil {
		c.writePermissionError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "permission deleted"})
}

func (c *RolePermissionController) writeRoleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrPermissionNotFound):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrRoleNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "role not found")
	case errors.Is(err, domain.ErrDuplicateRole):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "role name already in use")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

func (c *RolePermissionController) writePermissionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPermission):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrPermissionNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "permission not found")
	case errors.Is(err, domain.ErrDuplicatePermission):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "permission name already in use")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

func pathID(w http.ResponseWriter, r *http.Request, msg string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msg)
		return 0, false
	}
	return id, true
}
