package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"goerp/config"
	"goerp/internal/adapters/email"
	"goerp/internal/repository/postgres"
	"goerp/internal/services"
)

// emailtest sends each active email template (or a single one selected by
// -template) to the given address using generated sample data. Useful for
// checking layouts against a real inbox without going through the API.
func main() {
	var (
		templateName = flag.String("template", "", "send only the template with this name")
		recipient    = flag.String("to", "", "recipient address (default: TEST_EMAIL_RECIPIENT)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	to := *recipient
	if to == "" {
		to = cfg.TestRecipient
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	templateRepo := postgres.NewEmailTemplateRepository(db)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider: cfg.MailProvider,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create mailer: %v\n", err)
		os.Exit(1)
	}
	renderer := services.NewRenderer(email.NewPartialStore())
	builder := services.NewContextBuilder(services.ContextBuilderConfig{
		CompanyName:        cfg.AppName,
		BaseURL:            cfg.BaseURL,
		ResetExpiryMinutes: cfg.ResetExpiryMinutes,
	})
	emailSvc := services.NewEmailService(templateRepo, mailer, renderer, builder, services.EmailConfig{
		FromEmail:     cfg.FromEmail,
		FromName:      cfg.FromName,
		TestRecipient: cfg.TestRecipient,
		SpoolDir:      cfg.SpoolDir,
		SendTimeout:   cfg.SendTimeout,
	}, logger)

	ctx := context.Background()
	templates, err := templateRepo.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list templates: %v\n", err)
		os.Exit(1)
	}

	sent, failed := 0, 0
	for _, tmpl := range templates {
		if *templateName != "" && tmpl.Name != *templateName {
			continue
		}
		if !tmpl.IsActive {
			fmt.Printf("skip %q (inactive)\n", tmpl.Name)
			continue
		}
		data := services.GenerateTestData(tmpl)
		if err := emailSvc.SendByTemplateID(ctx, tmpl.ID, data, to, ""); err != nil {
			fmt.Printf("FAIL %q: %v\n", tmpl.Name, err)
			failed++
			continue
		}
		fmt.Printf("sent %q to %s\n", tmpl.Name, to)
		sent++
	}

	fmt.Printf("done: %d sent, %d failed\n", sent, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
