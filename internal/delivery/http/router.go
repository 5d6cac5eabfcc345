package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"goerp/internal/delivery/http/controllers"
	"goerp/internal/delivery/http/middleware"
	"goerp/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Admin routes require a Bearer token.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	users *controllers.UserController,
	products *controllers.ProductController,
	templates *controllers.EmailTemplateController,
	roles *controllers.RolePermissionController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/login", users.Login)

	// Users
	mux.HandleFunc("GET /users", auth(users.List))
	mux.HandleFunc("POST /users", auth(users.Create))
	mux.HandleFunc("GET /users/{id}", auth(users.Get))
	mux.HandleFunc("PATCH /users/{id}", auth(users.Update))
	mux.HandleFunc("DELETE /users/{id}", auth(users.Delete))

	// Products
	mux.HandleFunc("GET /products", auth(products.List))
	mux.HandleFunc("POST /products", auth(products.Create))
	mux.HandleFunc("GET /products/{id}", auth(products.Get))
	mux.HandleFunc("PUT /products/{id}", auth(products.Update))
	mux.HandleFunc("DELETE /products/{id}", auth(products.Delete))

	// Roles and permissions
	mux.HandleFunc("GET /roles", auth(roles.ListRoles))
	mux.HandleFunc("POST /roles", auth(roles.CreateRole))
	mux.HandleFunc("PUT /roles/{id}", auth(roles.UpdateRole))
	mux.HandleFunc("DELETE /roles/{id}", auth(roles.DeleteRole))
	mux.HandleFunc("GET /permissions", auth(roles.ListPermissions))
	mux.HandleFunc("POST /permissions", auth(roles.CreatePermission))
	mux.HandleFunc("PUT /permissions/{id}", auth(roles.UpdatePermission))
	mux.HandleFunc("DELETE /permissions/{id}", auth(roles.DeletePermission))

	// Email templates
	mux.HandleFunc("GET /email-templates", auth(templates.List))
	mux.HandleFunc("POST /email-templates", auth(templates.Create))
	mux.HandleFunc("GET /email-templates/{id}", auth(templates.Get))
	mux.HandleFunc("PUT /email-templates/{id}", auth(templates.Update))
	mux.HandleFunc("DELETE /email-templates/{id}", auth(templates.Delete))
	mux.HandleFunc("POST /email-templates/{id}/test", auth(templates.SendTest))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
