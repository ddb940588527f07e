package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
)

// Services are the business services exposed over HTTP.
type Services struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Reviews  *services.ReviewService
}

// SetupRoutes mounts every API route under /api.
func SetupRoutes(app *fiber.App, svc Services, logger hclog.Logger) {
	validate := middleware.NewValidator()
	auth := middleware.AuthRequired(svc.Auth, logger.Named("auth"))

	api := app.Group("/api")
	NewAuthHandler(svc.Auth, validate, logger.Named("auth-handler")).RegisterRoutes(api, auth)
	NewProductHandler(svc.Products, validate).RegisterRoutes(api, auth)
	NewReviewHandler(svc.Reviews, validate).RegisterRoutes(api, auth)
}
