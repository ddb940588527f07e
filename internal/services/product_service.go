package services

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/hashicorp/go-hclog"
)

// ProductInput carries the vendor-editable fields of a product.
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	OriginalPrice *float64
	Category      string
	Stock         int
	Status        string
	IsActive      *bool
	Images        []models.ProductImage
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	reviewRepo repositories.ReviewRepository
	images     ImageStore
	publisher  EventPublisher
	logger     hclog.Logger
}

// NewProductService creates a new ProductService. images and publisher may be nil.
func NewProductService(repo repositories.ProductRepository, reviewRepo repositories.ReviewRepository, images ImageStore, publisher EventPublisher, logger hclog.Logger) *ProductService {
	return &ProductService{
		repo:       repo,
		reviewRepo: reviewRepo,
		images:     images,
		publisher:  publisher,
		logger:     logger,
	}
}

// ListProducts returns a page of listable products.
func (s *ProductService) ListProducts(p catalog.Params) (catalog.Page, error) {
	return s.list(catalog.BuildQuery(p, catalog.PublicScope()))
}

// SearchProducts returns a page of listable products matching p.Search.
func (s *ProductService) SearchProducts(p catalog.Params) (catalog.Page, error) {
	return s.list(catalog.BuildQuery(p, catalog.PublicScope()))
}

// ListVendorProducts returns a vendor's own products, whatever their status,
// newest first.
func (s *ProductService) ListVendorProducts(vendorID string, p catalog.Params) (catalog.Page, error) {
	p = catalog.Params{Page: p.Page, Limit: p.Limit, Sort: catalog.SortNewest}
	return s.list(catalog.BuildQuery(p, catalog.VendorScope(vendorID)))
}

// ListAllProducts returns every product for administration, optionally
// narrowed to one status.
func (s *ProductService) ListAllProducts(p catalog.Params, status string) (catalog.Page, error) {
	return s.list(catalog.BuildQuery(p, catalog.AdminScope(status)))
}

func (s *ProductService) list(q catalog.Query) (catalog.Page, error) {
	items, total, err := s.repo.List(q)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("failed to list products: %w", err)
	}
	return catalog.NewPage(items, total, q), nil
}

// GetProduct records a view of the product and returns it.
func (s *ProductService) GetProduct(id string) (*models.Product, error) {
	if err := s.repo.IncrementViewCount(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// CreateProduct stores a new product owned by the actor.
func (s *ProductService) CreateProduct(actor Actor, in ProductInput) (*models.Product, error) {
	product := &models.Product{
		VendorID: actor.UserID,
		Status:   models.StatusActive,
		IsActive: true,
	}
	applyInput(product, in)

	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info("product created", "product_id", product.ID, "vendor_id", product.VendorID)
	s.publish("product.created", product.ID, product.VendorID)
	return product, nil
}

// UpdateProduct replaces the editable fields of a product. Only the owning
// vendor or an admin may do so.
func (s *ProductService) UpdateProduct(actor Actor, id string, in ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(product.VendorID) && !actor.IsAdmin() {
		return nil, fmt.Errorf("user %s may not update product %s: %w", actor.UserID, id, ErrUnauthorized)
	}

	applyInput(product, in)
	product.UpdatedAt = time.Now()
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.publish("product.updated", product.ID, product.VendorID)
	return s.repo.GetByID(id)
}

// DeleteProduct removes a product, its image assets and its reviews. Only
// the owning vendor or an admin may do so. Image deletion failures are
// logged and do not stop the deletion.
func (s *ProductService) DeleteProduct(ctx context.Context, actor Actor, id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !actor.Owns(product.VendorID) && !actor.IsAdmin() {
		return fmt.Errorf("user %s may not delete product %s: %w", actor.UserID, id, ErrUnauthorized)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}
	// The product is gone, so leftover reviews and images are unreachable.
	if err := s.reviewRepo.DeleteByProduct(id); err != nil {
		s.logger.Warn("failed to delete product reviews", "product_id", id, "error", err)
	}
	if s.images != nil {
		for _, img := range product.Images {
			if err := s.images.DeleteImage(ctx, img.ExternalID); err != nil {
				s.logger.Warn("failed to delete product image", "product_id", id, "external_id", img.ExternalID, "error", err)
			}
		}
	}
	s.logger.Info("product deleted", "product_id", id, "by", actor.UserID)
	s.publish("product.deleted", id, product.VendorID)
	return nil
}

func applyInput(p *models.Product, in ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.Category = in.Category
	p.Stock = in.Stock
	p.Images = in.Images

	if in.Status != "" {
		p.Status = in.Status
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func (s *ProductService) publish(routingKey, productID, vendorID string) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"productId": productID,
		"vendorId":  vendorID,
		"at":        time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(routingKey, event); err != nil {
		s.logger.Warn("failed to publish event", "routing_key", routingKey, "product_id", productID, "error", err)
	}
}
