package services

import "goerp/internal/domain"

// ContextBuilderConfig carries the application identity used to populate
// category defaults.
type ContextBuilderConfig struct {
	CompanyName        string
	BaseURL            string
	ResetExpiryMinutes int
}

// ContextBuilder assembles the variable context for one send: fixed defaults
// per category, shallow-merged with caller overrides (overrides win).
type ContextBuilder struct {
	cfg ContextBuilderConfig
}

// NewContextBuilder creates a ContextBuilder with the given app identity.
func NewContextBuilder(cfg ContextBuilderConfig) *ContextBuilder {
	return &ContextBuilder{cfg: cfg}
}

// Build returns the category defaults merged with overrides. An unknown
// category has no defaults, so overrides alone form the context.
func (b *ContextBuilder) Build(category string, overrides map[string]any) map[string]any {
	return mergeContext(b.defaults(category), overrides)
}

func (b *ContextBuilder) defaults(category string) map[string]any {
	switch category {
	case domain.CategoryWelcome:
		return map[string]any{
			"company_name": b.cfg.CompanyName,
			"login_url":    b.cfg.BaseURL + "/login",
		}
	case domain.CategoryPassword:
		return map[string]any{
			"company_name": b.cfg.CompanyName,
			"reset_url":    b.cfg.BaseURL + "/reset-password",
			"expires_in":   b.cfg.ResetExpiryMinutes,
		}
	case domain.CategoryNotification:
		return map[string]any{
			"company_name":         b.cfg.CompanyName,
			"notification_title":   "Notification",
			"notification_message": "",
			"additional_info":      "",
		}
	case domain.CategoryVerification:
		return map[string]any{
			"company_name":     b.cfg.CompanyName,
			"verification_url": b.cfg.BaseURL + "/verify-email",
		}
	default:
		return map[string]any{}
	}
}
