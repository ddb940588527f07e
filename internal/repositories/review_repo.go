package repositories

import "storefront/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	Update(review *models.Review) error
	Delete(id string) error
	DeleteByProduct(productID string) error
	// ListByProduct returns approved reviews, newest first.
	ListByProduct(productID string) ([]models.Review, error)
	FindByProductAndUser(productID, userID string) (*models.Review, error)
	// RatingStats averages the approved reviews of a product.
	RatingStats(productID string) (average float64, count int, err error)
}
