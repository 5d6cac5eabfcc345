package services

import (
	"testing"

	"goerp/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTestData(t *testing.T) {
	t.Run("returns samples for declared variables", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Variables: []string{"user_name", "company_name", "invoice_number"},
		}
		got := GenerateTestData(tmpl)
		assert.Equal(t, "John Doe", got["user_name"])
		assert.Equal(t, "GoERP", got["company_name"])
		assert.Equal(t, "INV-2024-001", got["invoice_number"])
	})

	t.Run("always includes test_email", func(t *testing.T) {
		got := GenerateTestData(&domain.EmailTemplate{})
		assert.Equal(t, "test@example.com", got["test_email"])
	})

	t.Run("unknown variables are omitted", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{Variables: []string{"user_name", "no_such_sample"}}
		got := GenerateTestData(tmpl)
		assert.Contains(t, got, "user_name")
		assert.NotContains(t, got, "no_such_sample")
	})

	t.Run("undeclared variables are not included", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{Variables: []string{"user_name"}}
		got := GenerateTestData(tmpl)
		assert.NotContains(t, got, "invoice_number")
		assert.Len(t, got, 2) // user_name + test_email
	})

	t.Run("covers every variable declared by the default template set", func(t *testing.T) {
		// Variable lists from migrations/002_seed_templates.sql. A test send
		// against any seeded template must not leave tokens unexpanded.
		seeded := [][]string{
			{"user_name", "company_name", "login_url"},
			{"user_name", "company_name", "reset_url", "expires_in"},
			{"user_name", "company_name", "verification_url"},
			{"user_name", "company_name", "notification_title", "notification_message", "additional_info"},
			{"user_name", "company_name", "invoice_number", "amount", "due_date", "status"},
			{"user_name", "company_name", "updated_fields", "account_url"},
			{"user_name", "company_name", "new_features", "system_updates", "announcements", "dashboard_url"},
		}
		for _, vars := range seeded {
			got := GenerateTestData(&domain.EmailTemplate{Variables: vars})
			for _, name := range vars {
				assert.Contains(t, got, name)
			}
		}
	})
}
