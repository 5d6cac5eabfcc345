package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"goerp/config"
	_ "goerp/docs"
	"goerp/internal/adapters/auth"
	"goerp/internal/adapters/email"
	delivery "goerp/internal/delivery/http"
	"goerp/internal/delivery/http/controllers"
	"goerp/internal/delivery/http/middleware"
	"goerp/internal/repository/postgres"
	"goerp/internal/services"
)

// @title GoERP Admin API
// @version 1.0
// @description Admin back office API: users, products, roles and permissions, and email templates with test sending.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	templateRepo := postgres.NewEmailTemplateRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(0) // 0 selects bcrypt's default cost
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenExpiry)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider: cfg.MailProvider,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
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
	userSvc := services.NewUserService(userRepo, hasher, issuer, cfg.TokenExpiry, emailSvc)
	productSvc := services.NewProductService(productRepo)
	templateSvc := services.NewEmailTemplateService(templateRepo)
	roleSvc := services.NewRolePermissionService(roleRepo)

	// Controllers
	userCtrl := controllers.NewUserController(logger, userSvc)
	productCtrl := controllers.NewProductController(logger, productSvc)
	templateCtrl := controllers.NewEmailTemplateController(logger, templateSvc, emailSvc)
	roleCtrl := controllers.NewRolePermissionController(logger, roleSvc)

	mux := delivery.NewRouter(logger, verifier, userCtrl, productCtrl, templateCtrl, roleCtrl)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}
