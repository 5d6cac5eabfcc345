package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"goerp/internal/domain"
)

// EmailConfig holds sender identity and dispatch settings for the email service.
type EmailConfig struct {
	FromEmail     string
	FromName      string
	TestRecipient string
	SpoolDir      string
	SendTimeout   time.Duration
}

type emailService struct {
	repo     domain.EmailTemplateRepository
	mailer   domain.Mailer
	renderer *Renderer
	context  *ContextBuilder
	cfg      EmailConfig
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that renders stored templates and
// dispatches them through the given mailer. All collaborators are injected;
// the service holds no global state.
func NewEmailService(repo domain.EmailTemplateRepository, mailer domain.Mailer, renderer *Renderer, builder *ContextBuilder, cfg EmailConfig, logger *slog.Logger) domain.EmailService {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &emailService{
		repo:     repo,
		mailer:   mailer,
		renderer: renderer,
		context:  builder,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *emailService) SendByTemplateID(ctx context.Context, id int64, overrides map[string]any, to, subject string) error {
	tmpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return err
		}
		return fmt.Errorf("lookup template %d: %w", id, err)
	}
	if !tmpl.IsActive {
		return domain.ErrTemplateInactive
	}
	data := s.context.Build(tmpl.Category, overrides)
	return s.send(ctx, tmpl, data, to, subject)
}

func (s *emailService) SendByCategory(ctx context.Context, category string, overrides map[string]any, to string) error {
	tmpl, err := s.repo.FindActiveByCategory(ctx, category)
	if err != nil {
		if !errors.Is(err, domain.ErrTemplateNotFound) {
			return fmt.Errorf("lookup template for category %q: %w", category, err)
		}
		fallback, ok := builtinTemplate(category)
		if !ok {
			return domain.ErrNoTemplateAvailable
		}
		tmpl = fallback
	}
	data := s.context.Build(category, overrides)
	return s.send(ctx, tmpl, data, to, "")
}

func (s *emailService) SendWelcomeEmail(ctx context.Context, user *domain.User, overrides map[string]any) error {
	data := mergeContext(map[string]any{
		"user_name":  user.Name,
		"user_email": user.Email,
	}, overrides)
	return s.SendByCategory(ctx, domain.CategoryWelcome, data, user.Email)
}

func (s *emailService) SendPasswordResetEmail(ctx context.Context, user *domain.User, resetURL string, overrides map[string]any) error {
	data := mergeContext(map[string]any{
		"user_name":  user.Name,
		"user_email": user.Email,
		"reset_url":  resetURL,
	}, overrides)
	return s.SendByCategory(ctx, domain.CategoryPassword, data, user.Email)
}

func (s *emailService) SendNotificationEmail(ctx context.Context, user *domain.User, n *domain.Notification, overrides map[string]any) error {
	if n == nil {
		n = &domain.Notification{}
	}
	title := n.Title
	if title == "" {
		title = "Notification"
	}
	data := mergeContext(map[string]any{
		"user_name":            user.Name,
		"user_email":           user.Email,
		"notification_title":   title,
		"notification_message": n.Message,
		"additional_info":      n.AdditionalInfo,
	}, overrides)
	return s.SendByCategory(ctx, domain.CategoryNotification, data, user.Email)
}

// send renders the template, resolves sender and recipient, spools the body
// to a uniquely named temp file for the duration of the dispatch, and sends.
// The spool file is removed on every exit path.
func (s *emailService) send(ctx context.Context, tmpl *domain.EmailTemplate, data map[string]any, to, subject string) error {
	rendered, err := s.renderer.Render(tmpl, data)
	if err != nil {
		return err
	}

	if subject == "" {
		subject = rendered.Subject
	}
	if to == "" {
		if v, ok := data["test_email"].(string); ok && v != "" {
			to = v
		} else {
			to = s.cfg.TestRecipient
		}
	}
	fromEmail := tmpl.FromEmail
	if fromEmail == "" {
		fromEmail = s.cfg.FromEmail
	}
	fromName := tmpl.FromName
	if fromName == "" {
		fromName = s.cfg.FromName
	}

	spool, err := os.CreateTemp(s.cfg.SpoolDir, "email_*.html")
	if err != nil {
		return fmt.Errorf("create spool file: %w", err)
	}
	defer os.Remove(spool.Name())
	if _, err := spool.WriteString(rendered.Body); err != nil {
		spool.Close()
		return fmt.Errorf("write spool file: %w", err)
	}
	if err := spool.Close(); err != nil {
		return fmt.Errorf("close spool file: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	msg := &domain.Message{
		FromEmail: fromEmail,
		FromName:  fromName,
		To:        to,
		Subject:   subject,
		HTMLBody:  rendered.Body,
	}
	if err := s.mailer.Send(sendCtx, msg); err != nil {
		return errors.Join(domain.ErrDispatchFailed, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", tmpl.Name, "category", tmpl.Category, "to", to)
	return nil
}
