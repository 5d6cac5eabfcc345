package services

import (
	"context"
	"strings"
	"testing"

	"goerp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTemplate() *domain.EmailTemplate {
	return &domain.EmailTemplate{
		Name:         "Welcome Email",
		Subject:      "Welcome to {{company_name}}!",
		TemplateType: domain.TemplateTypeWidgets,
		Content:      "<p>Hello {{user_name}}</p>",
		Category:     domain.CategoryWelcome,
		IsActive:     true,
	}
}

func TestEmailTemplateServiceCreateValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*domain.EmailTemplate)
		wantErr string
		errIs   error
	}{
		{
			name:   "valid template passes",
			mutate: func(t *domain.EmailTemplate) {},
		},
		{
			name:    "missing name",
			mutate:  func(t *domain.EmailTemplate) { t.Name = "  " },
			wantErr: "name is required",
		},
		{
			name:    "name too long",
			mutate:  func(t *domain.EmailTemplate) { t.Name = strings.Repeat("x", 256) },
			wantErr: "name must be at most 255 characters",
		},
		{
			name:    "missing subject",
			mutate:  func(t *domain.EmailTemplate) { t.Subject = "" },
			wantErr: "subject is required",
		},
		{
			name:    "unknown template type",
			mutate:  func(t *domain.EmailTemplate) { t.TemplateType = "fancy" },
			wantErr: "template_type must be one of",
			errIs:   domain.ErrInvalidTemplateType,
		},
		{
			name:    "missing content",
			mutate:  func(t *domain.EmailTemplate) { t.Content = "" },
			wantErr: "content is required",
		},
		{
			name:    "missing category",
			mutate:  func(t *domain.EmailTemplate) { t.Category = "" },
			wantErr: "category is required",
		},
		{
			name:    "bad from_email",
			mutate:  func(t *domain.EmailTemplate) { t.FromEmail = "not-an-email" },
			wantErr: "from_email must be a valid email address",
		},
		{
			name:   "empty from_email allowed",
			mutate: func(t *domain.EmailTemplate) { t.FromEmail = "" },
		},
		{
			name: "malformed include data literal rejected at save time",
			mutate: func(t *domain.EmailTemplate) {
				t.Content = `@include('minty.button', ['text' => env('SECRET')])`
			},
			wantErr: "include",
		},
		{
			name: "well-formed include data literal accepted",
			mutate: func(t *domain.EmailTemplate) {
				t.Content = `@include('minty.button', ['text' => 'Go', 'link' => '{{url}}'])`
			},
		},
		{
			name: "multiple problems reported together",
			mutate: func(t *domain.EmailTemplate) {
				t.Name = ""
				t.Subject = ""
			},
			wantErr: "name is required; subject is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTemplateRepo()
			svc := NewEmailTemplateService(repo)

			tmpl := validTemplate()
			tt.mutate(tmpl)
			err := svc.Create(ctx, tmpl)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotZero(t, tmpl.ID)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
			assert.Contains(t, err.Error(), "invalid email template")
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			assert.Empty(t, repo.byID, "invalid template must not be stored")
		})
	}
}

func TestEmailTemplateServiceUpdateValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTemplateRepo()
	svc := NewEmailTemplateService(repo)

	tmpl := validTemplate()
	require.NoError(t, svc.Create(ctx, tmpl))

	tmpl.Subject = ""
	err := svc.Update(ctx, tmpl)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
	assert.Contains(t, err.Error(), "subject is required")

	tmpl.Subject = "Fixed"
	require.NoError(t, svc.Update(ctx, tmpl))

	missing := validTemplate()
	missing.ID = 999
	assert.ErrorIs(t, svc.Update(ctx, missing), domain.ErrTemplateNotFound)
}
