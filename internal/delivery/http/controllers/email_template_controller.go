package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"goerp/internal/delivery/http/helpers"
	"goerp/internal/domain"
)

// EmailTemplateRequest is the request body for creating or updating an email template.
type EmailTemplateRequest struct {
	Name         string            `json:"name"`
	Subject      string            `json:"subject"`
	TemplateType string            `json:"template_type"`
	Content      string            `json:"content"`
	Variables    []string          `json:"variables"`
	Category     string            `json:"category"`
	IsActive     *bool             `json:"is_active"`
	FromEmail    string            `json:"from_email"`
	FromName     string            `json:"from_name"`
	Settings     map[string]string `json:"settings"`
}

// Validate implements Validator.
func (t EmailTemplateRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(t.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if !domain.TemplateType(t.TemplateType).Valid() {
		errs = append(errs, "template_type must be one of: widgets, minty, sunny, ark")
	}
	if strings.TrimSpace(t.Content) == "" {
		errs = append(errs, "content is required")
	}
	if strings.TrimSpace(t.Category) == "" {
		errs = append(errs, "category is required")
	}
	return errs
}

func (t EmailTemplateRequest) toDomain() *domain.EmailTemplate {
	isActive := true
	if t.IsActive != nil {
		isActive = *t.IsActive
	}
	return &domain.EmailTemplate{
		Name:         strings.TrimSpace(t.Name),
		Subject:      t.Subject,
		TemplateType: domain.TemplateType(t.TemplateType),
		Content:      t.Content,
		Variables:    t.Variables,
		Category:     strings.TrimSpace(t.Category),
		IsActive:     isActive,
		FromEmail:    strings.TrimSpace(t.FromEmail),
		FromName:     strings.TrimSpace(t.FromName),
		Settings:     t.Settings,
	}
}

// SendTestRequest is the request body for POST /email-templates/{id}/test.
type SendTestRequest struct {
	TestData map[string]any `json:"test_data"`
}

// SendTestResponse is the response body for POST /email-templates/{id}/test.
// This endpoint does not use the standard envelope: it answers 200 with
// success=true, or 500 with success=false and the error message.
// swagger:model SendTestResponse
type SendTestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TemplateSuccessResponse is the success response envelope for single-template endpoints.
type TemplateSuccessResponse struct {
	Data  *domain.EmailTemplate `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// TemplateListSuccessResponse is the success response envelope for GET /email-templates.
type TemplateListSuccessResponse struct {
	Data  []*domain.EmailTemplate `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// EmailTemplateController handles email template CRUD and test sending.
type EmailTemplateController struct {
	Logger    *slog.Logger
	Templates domain.EmailTemplateService
	Emails    domain.EmailService
}

// NewEmailTemplateController creates an EmailTemplateController with the given services.
func NewEmailTemplateController(logger *slog.Logger, templates domain.EmailTemplateService, emails domain.EmailService) *EmailTemplateController {
	return &EmailTemplateController{
		Logger:    logger,
		Templates: templates,
		Emails:    emails,
	}
}

// List godoc
// @Summary List email templates
// @Description Returns all email templates, newest first.
// @Tags email-templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TemplateListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates [get]
func (c *EmailTemplateController) List(w http.ResponseWriter, r *http.Request) {
	templates, err := c.Templates.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, templates)
}

// Get godoc
// @Summary Get an email template
// @Tags email-templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} controllers.TemplateSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates/{id} [get]
func (c *EmailTemplateController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := templateID(w, r)
	if !ok {
		return
	}
	tmpl, err := c.Templates.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email template not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tmpl)
}

// Create godoc
// @Summary Create an email template
// @Tags email-templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EmailTemplateRequest true "Template fields"
// @Success 201 {object} controllers.TemplateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates [post]
func (c *EmailTemplateController) Create(w http.ResponseWriter, r *http.Request) {
	var req EmailTemplateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tmpl := req.toDomain()
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	if err := c.Templates.Create(r.Context(), tmpl); err != nil {
		if errors.Is(err, domain.ErrInvalidTemplate) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tmpl)
}

// Update godoc
// @Summary Update an email template
// @Tags email-templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param body body EmailTemplateRequest true "Template fields"
// @Success 200 {object} controllers.TemplateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates/{id} [put]
func (c *EmailTemplateController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := templateID(w, r)
	if !ok {
		return
	}
	var req EmailTemplateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tmpl := req.toDomain()
	tmpl.ID = id
	tmpl.UpdatedAt = time.Now().UTC()
	if err := c.Templates.Update(r.Context(), tmpl); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email template not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidTemplate) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tmpl)
}

// Delete godoc
// @Summary Delete an email template
// @Tags email-templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates/{id} [delete]
func (c *EmailTemplateController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := templateID(w, r)
	if !ok {
		return
	}
	if err := c.Templates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email template not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "email template deleted"})
}

// SendTest godoc
// @Summary Send a test email for a template
// @Description Sends the template to the address in test_data.test_email (or the configured test recipient) with the given variable overrides. Responds 200 with success=true, or 500 with success=false and the error message.
// @Tags email-templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param body body SendTestRequest false "Variable overrides"
// @Success 200 {object} controllers.SendTestResponse
// @Failure 500 {object} controllers.SendTestResponse
// @Router /email-templates/{id}/test [post]
func (c *EmailTemplateController) SendTest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeSendTestResult(w, http.StatusInternalServerError, "Failed to send test email: invalid template id")
		return
	}
	var req SendTestRequest
	if r.Body != nil && r.ContentLength != 0 {
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			writeSendTestResult(w, http.StatusInternalServerError, "Failed to send test email: "+decodeErr.Error())
			return
		}
	}
	if err := c.Emails.SendByTemplateID(r.Context(), id, req.TestData, "", ""); err != nil {
		c.Logger.ErrorContext(r.Context(), "test email failed", "template_id", id, "err", err)
		writeSendTestResult(w, http.StatusInternalServerError, "Failed to send test email: "+err.Error())
		return
	}
	writeSendTestResult(w, http.StatusOK, "Test email sent successfully")
}

func writeSendTestResult(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SendTestResponse{
		Success: status == http.StatusOK,
		Message: message,
	})
}

func templateID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid template id")
		return 0, false
	}
	return id, true
}
