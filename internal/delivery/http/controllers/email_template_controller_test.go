package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goerp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmailService implements domain.EmailService for controller tests.
type fakeEmailService struct {
	sendErr   error
	lastID    int64
	lastData  map[string]any
	sendCalls int
}

func (f *fakeEmailService) SendByTemplateID(ctx context.Context, id int64, overrides map[string]any, to, subject string) error {
	f.sendCalls++
	f.lastID = id
	f.lastData = overrides
	return f.sendErr
}
func (f *fakeEmailService) SendByCategory(ctx context.Context, category string, overrides map[string]any, to string) error {
	return f.sendErr
}
func (f *fakeEmailService) SendWelcomeEmail(ctx context.Context, user *domain.User, overrides map[string]any) error {
	return f.sendErr
}
func (f *fakeEmailService) SendPasswordResetEmail(ctx context.Context, user *domain.User, resetURL string, overrides map[string]any) error {
	return f.sendErr
}
func (f *fakeEmailService) SendNotificationEmail(ctx context.Context, user *domain.User, n *domain.Notification, overrides map[string]any) error {
	return f.sendErr
}

// fakeTemplateService implements domain.EmailTemplateService for controller tests.
type fakeTemplateService struct {
	byID      map[int64]*domain.EmailTemplate
	getErr    error
	createErr error
}

func (f *fakeTemplateService) Create(ctx context.Context, t *domain.EmailTemplate) error {
	return f.createErr
}
func (f *fakeTemplateService) GetByID(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTemplateNotFound
}
func (f *fakeTemplateService) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	return nil, nil
}
func (f *fakeTemplateService) Update(ctx context.Context, t *domain.EmailTemplate) error { return nil }
func (f *fakeTemplateService) Delete(ctx context.Context, id int64) error                { return nil }

func newTemplateController(emails *fakeEmailService, templates *fakeTemplateService) *EmailTemplateController {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEmailTemplateController(logger, templates, emails)
}

func TestEmailTemplateController_SendTest(t *testing.T) {
	t.Run("success responds 200 with success true", func(t *testing.T) {
		emails := &fakeEmailService{}
		c := newTemplateController(emails, &fakeTemplateService{})

		req := httptest.NewRequest(http.MethodPost, "/email-templates/7/test", strings.NewReader(`{"test_data":{"user_name":"Dana"}}`))
		req.SetPathValue("id", "7")
		rec := httptest.NewRecorder()
		c.SendTest(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp SendTestResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Test email sent successfully", resp.Message)
		assert.Equal(t, int64(7), emails.lastID)
		assert.Equal(t, map[string]any{"user_name": "Dana"}, emails.lastData)
	})

	t.Run("empty body is allowed", func(t *testing.T) {
		emails := &fakeEmailService{}
		c := newTemplateController(emails, &fakeTemplateService{})

		req := httptest.NewRequest(http.MethodPost, "/email-templates/7/test", nil)
		req.SetPathValue("id", "7")
		rec := httptest.NewRecorder()
		c.SendTest(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, emails.sendCalls)
	})

	t.Run("send failure responds 500 with success false", func(t *testing.T) {
		emails := &fakeEmailService{sendErr: domain.ErrTemplateInactive}
		c := newTemplateController(emails, &fakeTemplateService{})

		req := httptest.NewRequest(http.MethodPost, "/email-templates/7/test", nil)
		req.SetPathValue("id", "7")
		rec := httptest.NewRecorder()
		c.SendTest(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp SendTestResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "Failed to send test email")
		assert.Contains(t, resp.Message, domain.ErrTemplateInactive.Error())
	})

	t.Run("invalid id responds 500 in the same shape", func(t *testing.T) {
		emails := &fakeEmailService{}
		c := newTemplateController(emails, &fakeTemplateService{})

		req := httptest.NewRequest(http.MethodPost, "/email-templates/abc/test", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()
		c.SendTest(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp SendTestResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, 0, emails.sendCalls)
	})
}

func TestEmailTemplateController_Create(t *testing.T) {
	body := `{"name":"Welcome","subject":"Hi","template_type":"widgets","content":"<p>Hi</p>","category":"welcome"}`

	t.Run("validation failure responds 400", func(t *testing.T) {
		templates := &fakeTemplateService{
			createErr: fmt.Errorf("%w: from_email must be a valid email address", domain.ErrInvalidTemplate),
		}
		c := newTemplateController(&fakeEmailService{}, templates)

		req := httptest.NewRequest(http.MethodPost, "/email-templates", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.Create(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bad_request")
		assert.Contains(t, rec.Body.String(), "from_email must be a valid email address")
	})

	t.Run("other service failure responds 500", func(t *testing.T) {
		templates := &fakeTemplateService{createErr: errors.New("connection refused")}
		c := newTemplateController(&fakeEmailService{}, templates)

		req := httptest.NewRequest(http.MethodPost, "/email-templates", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.Create(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success responds 201", func(t *testing.T) {
		c := newTemplateController(&fakeEmailService{}, &fakeTemplateService{})

		req := httptest.NewRequest(http.MethodPost, "/email-templates", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestEmailTemplateController_Get(t *testing.T) {
	t.Run("found returns the template in an envelope", func(t *testing.T) {
		templates := &fakeTemplateService{byID: map[int64]*domain.EmailTemplate{
			3: {ID: 3, Name: "Welcome", TemplateType: domain.TemplateTypeWidgets},
		}}
		c := newTemplateController(&fakeEmailService{}, templates)

		req := httptest.NewRequest(http.MethodGet, "/email-templates/3", nil)
		req.SetPathValue("id", "3")
		rec := httptest.NewRecorder()
		c.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data  *domain.EmailTemplate `json:"data"`
			Error any                   `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Data)
		assert.Equal(t, "Welcome", resp.Data.Name)
		assert.Nil(t, resp.Error)
	})

	t.Run("missing template responds 404", func(t *testing.T) {
		c := newTemplateController(&fakeEmailService{}, &fakeTemplateService{})

		req := httptest.NewRequest(http.MethodGet, "/email-templates/99", nil)
		req.SetPathValue("id", "99")
		rec := httptest.NewRecorder()
		c.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id responds 400", func(t *testing.T) {
		c := newTemplateController(&fakeEmailService{}, &fakeTemplateService{})

		req := httptest.NewRequest(http.MethodGet, "/email-templates/abc", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()
		c.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
