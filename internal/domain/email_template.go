package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for email template operations and sending.
var (
	ErrTemplateNotFound    = errors.New("email template not found")
	ErrTemplateInactive    = errors.New("email template is inactive")
	ErrNoTemplateAvailable = errors.New("no email template available for category")
	ErrRenderFailed        = errors.New("failed to render email template")
	ErrDispatchFailed      = errors.New("failed to dispatch email")
	ErrInvalidTemplateType = errors.New("invalid template type")
	ErrInvalidTemplate     = errors.New("invalid email template")
)

// TemplateType selects the presentational skin whose partials a template's
// @include directives resolve against.
type TemplateType string

const (
	TemplateTypeWidgets TemplateType = "widgets"
	TemplateTypeMinty   TemplateType = "minty"
	TemplateTypeSunny   TemplateType = "sunny"
	TemplateTypeArk     TemplateType = "ark"
)

// TemplateTypes lists all valid template types.
func TemplateTypes() []TemplateType {
	return []TemplateType{TemplateTypeWidgets, TemplateTypeMinty, TemplateTypeSunny, TemplateTypeArk}
}

// Valid reports whether t is one of the known template types.
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateTypeWidgets, TemplateTypeMinty, TemplateTypeSunny, TemplateTypeArk:
		return true
	}
	return false
}

// PartialRoot returns the directory under which this skin's partials live.
// Total over valid types; invalid types map to their raw string, which will
// fail include resolution at render time.
func (t TemplateType) PartialRoot() string {
	return string(t)
}

// Template categories used for category-based sending. Category is a free
// string column; these are the ones with built-in fallbacks or editor entries.
const (
	CategoryGeneral      = "general"
	CategoryWelcome      = "welcome"
	CategoryNotification = "notification"
	CategoryInvoice      = "invoice"
	CategoryPassword     = "password"
	CategoryVerification = "verification"
)

// EmailTemplate represents a stored, editable email template.
// swagger:model EmailTemplate
type EmailTemplate struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Subject      string            `json:"subject"`
	TemplateType TemplateType      `json:"template_type"`
	Content      string            `json:"content"`
	Variables    []string          `json:"variables"`
	Category     string            `json:"category"`
	IsActive     bool              `json:"is_active"`
	FromEmail    string            `json:"from_email"`
	FromName     string            `json:"from_name"`
	Settings     map[string]string `json:"settings"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// EmailTemplateRepository defines the interface for email template storage.
// FindActiveByCategory returns the earliest-created (lowest id) active template
// in the category, or ErrTemplateNotFound when none matches. GetByID does not
// filter on is_active; the send path enforces the active gate itself.
type EmailTemplateRepository interface {
	Create(ctx context.Context, t *EmailTemplate) error
	GetByID(ctx context.Context, id int64) (*EmailTemplate, error)
	List(ctx context.Context) ([]*EmailTemplate, error)
	Update(ctx context.Context, t *EmailTemplate) error
	Delete(ctx context.Context, id int64) error
	FindActiveByCategory(ctx context.Context, category string) (*EmailTemplate, error)
}

// EmailTemplateService defines business logic for managing email templates.
type EmailTemplateService interface {
	Create(ctx context.Context, t *EmailTemplate) error
	GetByID(ctx context.Context, id int64) (*EmailTemplate, error)
	List(ctx context.Context) ([]*EmailTemplate, error)
	Update(ctx context.Context, t *EmailTemplate) error
	Delete(ctx context.Context, id int64) error
}
