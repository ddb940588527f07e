package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create creates a new review. A second review of the same product by the
// same user violates the unique index and yields ErrDuplicate.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("review of product %s by user %s: %w", review.ProductID, review.UserID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by its ID.
func (r *GORMReviewRepository) GetByID(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// Update writes the rating, title and comment of a review.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Model(review).Select("rating", "title", "comment", "updated_at").Updates(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %s: %w", review.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a review by its ID.
func (r *GORMReviewRepository) Delete(id string) error {
	res := r.db.Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByProduct deletes every review of a product.
func (r *GORMReviewRepository) DeleteByProduct(productID string) error {
	if err := r.db.Where("product_id = ?", productID).Delete(&models.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete reviews of product %s: %w", productID, err)
	}
	return nil
}

// ListByProduct returns the approved reviews of a product, newest first.
func (r *GORMReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of product %s: %w", productID, err)
	}
	return reviews, nil
}

// FindByProductAndUser returns the review a user left on a product.
func (r *GORMReviewRepository) FindByProductAndUser(productID, userID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "product_id = ? AND user_id = ?", productID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review of product %s by user %s: %w", productID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

// RatingStats averages the approved reviews of a product.
func (r *GORMReviewRepository) RatingStats(productID string) (float64, int, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate reviews of product %s: %w", productID, err)
	}
	return row.Average, row.Count, nil
}
