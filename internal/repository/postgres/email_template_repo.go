package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"goerp/internal/domain"
)

type emailTemplateRepository struct {
	DB *sql.DB
}

// NewEmailTemplateRepository creates a Postgres-backed email template repository.
func NewEmailTemplateRepository(db *sql.DB) domain.EmailTemplateRepository {
	return &emailTemplateRepository{DB: db}
}

func (r *emailTemplateRepository) Create(ctx context.Context, t *domain.EmailTemplate) error {
	variables, settings, err := marshalTemplateJSON(t)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO email_templates (name, subject, template_type, content, variables, category, is_active, from_email, from_name, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		t.Name, t.Subject, string(t.TemplateType), t.Content, variables, t.Category,
		t.IsActive, t.FromEmail, t.FromName, settings, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func (r *emailTemplateRepository) GetByID(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	query := `
		SELECT id, name, subject, template_type, content, variables, category, is_active, from_email, from_name, settings, created_at, updated_at
		FROM email_templates
		WHERE id = $1
	`
	return r.scanTemplate(r.DB.QueryRowContext(ctx, query, id))
}

func (r *emailTemplateRepository) FindActiveByCategory(ctx context.Context, category string) (*domain.EmailTemplate, error) {
	query := `
		SELECT id, name, subject, template_type, content, variables, category, is_active, from_email, from_name, settings, created_at, updated_at
		FROM email_templates
		WHERE category = $1 AND is_active = true
		ORDER BY id ASC
		LIMIT 1
	`
	return r.scanTemplate(r.DB.QueryRowContext(ctx, query, category))
}

func (r *emailTemplateRepository) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	query := `
		SELECT id, name, subject, template_type, content, variables, category, is_active, from_email, from_name, settings, created_at, updated_at
		FROM email_templates
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.EmailTemplate
	for rows.Next() {
		t, err := r.scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *emailTemplateRepository) Update(ctx context.Context, t *domain.EmailTemplate) error {
	variables, settings, err := marshalTemplateJSON(t)
	if err != nil {
		return err
	}
	query := `
		UPDATE email_templates
		SET name = $1, subject = $2, template_type = $3, content = $4, variables = $5, category = $6, is_active = $7, from_email = $8, from_name = $9, settings = $10, updated_at = $11
		WHERE id = $12
	`
	res, err := r.DB.ExecContext(ctx, query,
		t.Name, t.Subject, string(t.TemplateType), t.Content, variables, t.Category,
		t.IsActive, t.FromEmail, t.FromName, settings, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *emailTemplateRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *emailTemplateRepository) scanTemplate(row rowScanner) (*domain.EmailTemplate, error) {
	t := &domain.EmailTemplate{}
	var templateType string
	var variables, settings []byte
	err := row.Scan(
		&t.ID, &t.Name, &t.Subject, &templateType, &t.Content, &variables,
		&t.Category, &t.IsActive, &t.FromEmail, &t.FromName, &settings,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	t.TemplateType = domain.TemplateType(templateType)
	if len(variables) > 0 {
		if err := json.Unmarshal(variables, &t.Variables); err != nil {
			return nil, fmt.Errorf("unmarshal template variables: %w", err)
		}
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &t.Settings); err != nil {
			return nil, fmt.Errorf("unmarshal template settings: %w", err)
		}
	}
	return t, nil
}

func marshalTemplateJSON(t *domain.EmailTemplate) (variables, settings []byte, err error) {
	vars := t.Variables
	if vars == nil {
		vars = []string{}
	}
	variables, err = json.Marshal(vars)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal template variables: %w", err)
	}
	set := t.Settings
	if set == nil {
		set = map[string]string{}
	}
	settings, err = json.Marshal(set)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal template settings: %w", err)
	}
	return variables, settings, nil
}
