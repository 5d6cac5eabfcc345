package domain

import "context"

// Message is a fully-prepared outbound email.
type Message struct {
	FromEmail string
	FromName  string
	To        string
	Subject   string
	HTMLBody  string
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// EmailService defines the contract for template-driven email sending.
// Overrides take precedence over category defaults on key collision.
// Terminal outcomes are nil or exactly one of ErrTemplateNotFound,
// ErrTemplateInactive, ErrNoTemplateAvailable, ErrRenderFailed,
// ErrDispatchFailed.
type EmailService interface {
	// SendByTemplateID sends using an explicit template. to and subject are
	// optional; an empty to falls back to overrides["test_email"] and then the
	// configured test recipient, an empty subject uses the template's subject.
	SendByTemplateID(ctx context.Context, id int64, overrides map[string]any, to, subject string) error

	// SendByCategory sends the first active template in the category, falling
	// back to the built-in template when none exists.
	SendByCategory(ctx context.Context, category string, overrides map[string]any, to string) error

	SendWelcomeEmail(ctx context.Context, user *User, overrides map[string]any) error
	SendPasswordResetEmail(ctx context.Context, user *User, resetURL string, overrides map[string]any) error
	SendNotificationEmail(ctx context.Context, user *User, n *Notification, overrides map[string]any) error
}

// Notification carries the content of a system notification email.
type Notification struct {
	Title          string
	Message        string
	AdditionalInfo string
}
