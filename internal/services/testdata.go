package services

import "goerp/internal/domain"

// sampleData maps every variable name used by the built-in and seeded
// templates to a plausible test value. Used by the admin "send test email"
// feature and the email:test command.
var sampleData = map[string]any{
	"user_name":            "John Doe",
	"user_email":           "john.doe@example.com",
	"company_name":         "GoERP",
	"login_url":            "http://localhost/login",
	"reset_url":            "http://localhost/reset-password?token=test123",
	"verification_url":     "http://localhost/verify-email?token=test123",
	"expires_in":           60,
	"notification_title":   "System Maintenance",
	"notification_message": "Scheduled maintenance will occur on Sunday at 2 AM.",
	"additional_info":      "This maintenance is expected to last 2 hours.",
	"invoice_number":       "INV-2024-001",
	"amount":               "$299.99",
	"due_date":             "2024-12-31",
	"status":               "Pending",
	"updated_fields":       "Email address, Phone number",
	"account_url":          "http://localhost/profile",
	"new_features":         "Enhanced dashboard with analytics",
	"system_updates":       "Performance improvements and bug fixes",
	"announcements":        "New mobile app coming soon!",
	"dashboard_url":        "http://localhost/dashboard",
	"test_email":           "test@example.com",
}

// GenerateTestData returns sample values for the variables the template
// declares, plus test_email. Variables with no known sample value are
// omitted; their tokens stay verbatim in the rendered preview.
func GenerateTestData(tmpl *domain.EmailTemplate) map[string]any {
	out := make(map[string]any, len(tmpl.Variables)+1)
	for _, name := range tmpl.Variables {
		if v, ok := sampleData[name]; ok {
			out[name] = v
		}
	}
	out["test_email"] = sampleData["test_email"]
	return out
}
