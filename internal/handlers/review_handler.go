package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewRequest is the body of review create and update requests.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"max=100"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

func (r *ReviewRequest) input() services.ReviewInput {
	return services.ReviewInput{Rating: r.Rating, Title: r.Title, Comment: r.Comment}
}

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService, validate *validator.Validate) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validate,
	}
}

// RegisterRoutes registers the review routes.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	body := middleware.ValidateBody[ReviewRequest](h.validate)

	router.Get("/products/:id/reviews", h.HandleGetProductReviews)
	router.Post("/products/:id/reviews", auth, body, h.HandleCreateReview)

	reviewRoutes := router.Group("/reviews", auth)
	reviewRoutes.Put("/:id", body, h.HandleUpdateReview)
	reviewRoutes.Delete("/:id", h.HandleDeleteReview)
}

// HandleGetProductReviews lists the approved reviews of a product.
func (h *ReviewHandler) HandleGetProductReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewService.ListProductReviews(c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Product")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}

// HandleCreateReview adds the caller's review of a product.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	req := middleware.Body[ReviewRequest](c)
	review, err := h.reviewService.CreateReview(middleware.Actor(c), c.Params("id"), req.input())
	if err != nil {
		return serviceError(c, err, "Product")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// HandleUpdateReview changes one of the caller's reviews.
func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	req := middleware.Body[ReviewRequest](c)
	review, err := h.reviewService.UpdateReview(middleware.Actor(c), c.Params("id"), req.input())
	if err != nil {
		return serviceError(c, err, "Review")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// HandleDeleteReview removes one of the caller's reviews.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	if err := h.reviewService.DeleteReview(middleware.Actor(c), c.Params("id")); err != nil {
		return serviceError(c, err, "Review")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review deleted",
	})
}
