package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryReviewRepository is an in-memory implementation of ReviewRepository.
type MemoryReviewRepository struct {
	reviews map[string]models.Review
	mu      sync.RWMutex
}

// NewMemoryReviewRepository creates a new instance of MemoryReviewRepository.
func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{
		reviews: make(map[string]models.Review),
	}
}

// Create adds a new review, enforcing one review per product and user.
func (r *MemoryReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.ProductID == review.ProductID && existing.UserID == review.UserID {
			return fmt.Errorf("review of product %s by user %s: %w", review.ProductID, review.UserID, ErrDuplicate)
		}
	}
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now
	r.reviews[review.ID] = *review
	return nil
}

// GetByID returns a review by its ID.
func (r *MemoryReviewRepository) GetByID(id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	return &review, nil
}

// Update writes the rating, title and comment of a review.
func (r *MemoryReviewRepository) Update(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.reviews[review.ID]
	if !ok {
		return fmt.Errorf("review with ID %s: %w", review.ID, ErrNotFound)
	}
	stored.Rating = review.Rating
	stored.Title = review.Title
	stored.Comment = review.Comment
	stored.UpdatedAt = time.Now()
	r.reviews[review.ID] = stored
	return nil
}

// Delete removes a review by its ID.
func (r *MemoryReviewRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	delete(r.reviews, id)
	return nil
}

// DeleteByProduct removes every review of a product.
func (r *MemoryReviewRepository) DeleteByProduct(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, review := range r.reviews {
		if review.ProductID == productID {
			delete(r.reviews, id)
		}
	}
	return nil
}

// ListByProduct returns the approved reviews of a product, newest first.
func (r *MemoryReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviews := []models.Review{}
	for _, review := range r.reviews {
		if review.ProductID == productID && review.IsApproved {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID < reviews[j].ID
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

// FindByProductAndUser returns the review a user left on a product.
func (r *MemoryReviewRepository) FindByProductAndUser(productID, userID string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, review := range r.reviews {
		if review.ProductID == productID && review.UserID == userID {
			return &review, nil
		}
	}
	return nil, fmt.Errorf("review of product %s by user %s: %w", productID, userID, ErrNotFound)
}

// RatingStats averages the approved reviews of a product.
func (r *MemoryReviewRepository) RatingStats(productID string) (float64, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum, count := 0, 0
	for _, review := range r.reviews {
		if review.ProductID == productID && review.IsApproved {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
