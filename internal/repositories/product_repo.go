package repositories

import (
	"storefront/internal/catalog"
	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns one page of products matching q and the number of
	// matching products across all pages.
	List(q catalog.Query) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	// Update writes the editable fields and images of product. Rating and
	// view count are left alone.
	Update(product *models.Product) error
	Delete(id string) error
	IncrementViewCount(id string) error
	UpdateRating(id string, rating models.Rating) error
}
