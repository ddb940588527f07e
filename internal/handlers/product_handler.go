package handlers

import (
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ImageRequest is a hosted image attached to a product.
type ImageRequest struct {
	URL        string `json:"url" validate:"required,url"`
	ExternalID string `json:"externalId" validate:"max=255"`
}

// ProductRequest is the body of product create and update requests.
type ProductRequest struct {
	Name          string         `json:"name" validate:"required,min=2,max=200"`
	Description   string         `json:"description" validate:"max=2000"`
	Price         *float64       `json:"price" validate:"required,gte=0"`
	OriginalPrice *float64       `json:"originalPrice" validate:"omitempty,gte=0"`
	Category      string         `json:"category" validate:"required,category"`
	Stock         int            `json:"stock" validate:"gte=0"`
	Status        string         `json:"status" validate:"omitempty,oneof=active inactive pending"`
	IsActive      *bool          `json:"isActive"`
	Images        []ImageRequest `json:"images" validate:"omitempty,max=10,dive"`
}

func (r *ProductRequest) input() services.ProductInput {
	in := services.ProductInput{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Price:         *r.Price,
		OriginalPrice: r.OriginalPrice,
		Category:      r.Category,
		Stock:         r.Stock,
		Status:        r.Status,
		IsActive:      r.IsActive,
	}
	for i, img := range r.Images {
		in.Images = append(in.Images, models.ProductImage{Position: i, URL: img.URL, ExternalID: img.ExternalID})
	}
	return in
}

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validate,
	}
}

// RegisterRoutes registers the product routes. auth must authenticate the
// request and store the caller's claims.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	sellers := middleware.RequireRoles(models.RoleVendor, models.RoleAdmin)
	body := middleware.ValidateBody[ProductRequest](h.validate)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/vendor/my-products", auth, sellers, h.HandleGetVendorProducts)
	productRoutes.Get("/admin/all", auth, middleware.RequireRoles(models.RoleAdmin), h.HandleGetAllProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", auth, sellers, body, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, sellers, body, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, sellers, h.HandleDeleteProduct)
}

// HandleGetProducts lists listable products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := h.productService.ListProducts(listingParams(c, catalog.DefaultLimit))
	if err != nil {
		return err
	}
	return pageResponse(c, page)
}

// HandleSearchProducts lists listable products matching the q text query.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	params := listingParams(c, catalog.DefaultLimit)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		params.Search = q
	}
	page, err := h.productService.SearchProducts(params)
	if err != nil {
		return err
	}
	return pageResponse(c, page)
}

// HandleGetVendorProducts lists the caller's own products.
func (h *ProductHandler) HandleGetVendorProducts(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	page, err := h.productService.ListVendorProducts(actor.UserID, listingParams(c, catalog.VendorDefaultLimit))
	if err != nil {
		return err
	}
	return pageResponse(c, page)
}

// HandleGetAllProducts lists every product, optionally by status.
func (h *ProductHandler) HandleGetAllProducts(c *fiber.Ctx) error {
	page, err := h.productService.ListAllProducts(listingParams(c, catalog.DefaultLimit), strings.TrimSpace(c.Query("status")))
	if err != nil {
		return err
	}
	return pageResponse(c, page)
}

// HandleGetProduct returns one product and counts the view.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Product")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// HandleCreateProduct creates a product owned by the caller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	req := middleware.Body[ProductRequest](c)
	product, err := h.productService.CreateProduct(middleware.Actor(c), req.input())
	if err != nil {
		return serviceError(c, err, "Product")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// HandleUpdateProduct replaces the editable fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	req := middleware.Body[ProductRequest](c)
	product, err := h.productService.UpdateProduct(middleware.Actor(c), c.Params("id"), req.input())
	if err != nil {
		return serviceError(c, err, "Product")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// HandleDeleteProduct deletes a product with its images and reviews.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return serviceError(c, err, "Product")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted",
	})
}
