package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"goerp/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type emailTemplateService struct {
	repo domain.EmailTemplateRepository
}

// NewEmailTemplateService creates an EmailTemplateService with the given repository.
func NewEmailTemplateService(repo domain.EmailTemplateRepository) domain.EmailTemplateService {
	return &emailTemplateService{repo: repo}
}

func (s *emailTemplateService) Create(ctx context.Context, t *domain.EmailTemplate) error {
	if err := validateTemplate(t); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return fmt.Errorf("create email template: %w", err)
	}
	return nil
}

func (s *emailTemplateService) GetByID(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *emailTemplateService) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	return s.repo.List(ctx)
}

func (s *emailTemplateService) Update(ctx context.Context, t *domain.EmailTemplate) error {
	if err := validateTemplate(t); err != nil {
		return err
	}
	return s.repo.Update(ctx, t)
}

func (s *emailTemplateService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// validateTemplate enforces save-time rules: required fields, the closed
// template-type enumeration, a well-formed from address, and parseable
// inline-data literals on every include directive. Catching a bad literal
// here means authors hear about it at save time instead of send time.
func validateTemplate(t *domain.EmailTemplate) error {
	var problems []string
	if strings.TrimSpace(t.Name) == "" {
		problems = append(problems, "name is required")
	} else if len(t.Name) > 255 {
		problems = append(problems, "name must be at most 255 characters")
	}
	if strings.TrimSpace(t.Subject) == "" {
		problems = append(problems, "subject is required")
	} else if len(t.Subject) > 255 {
		problems = append(problems, "subject must be at most 255 characters")
	}
	if !t.TemplateType.Valid() {
		problems = append(problems, fmt.Sprintf("template_type must be one of %v", domain.TemplateTypes()))
	}
	if strings.TrimSpace(t.Content) == "" {
		problems = append(problems, "content is required")
	}
	if strings.TrimSpace(t.Category) == "" {
		problems = append(problems, "category is required")
	} else if len(t.Category) > 255 {
		problems = append(problems, "category must be at most 255 characters")
	}
	if t.FromEmail != "" && !emailRegexp.MatchString(t.FromEmail) {
		problems = append(problems, "from_email must be a valid email address")
	}
	if t.FromName != "" && len(t.FromName) > 255 {
		problems = append(problems, "from_name must be at most 255 characters")
	}
	for _, groups := range includePattern.FindAllStringSubmatch(t.Content, -1) {
		if groups[2] == "" {
			continue
		}
		if _, err := ParseDataLiteral(groups[2]); err != nil {
			problems = append(problems, fmt.Sprintf("include %q: %v", groups[1], err))
		}
	}
	if len(problems) > 0 {
		err := fmt.Errorf("%w: %s", domain.ErrInvalidTemplate, strings.Join(problems, "; "))
		if !t.TemplateType.Valid() {
			err = fmt.Errorf("%w: %w", domain.ErrInvalidTemplateType, err)
		}
		return err
	}
	return nil
}
