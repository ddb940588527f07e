package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/hashicorp/go-hclog"
)

// ReviewInput carries the user-editable fields of a review.
type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

// ReviewService handles business logic related to reviews. Every change to
// a review recomputes the rating aggregate of its product.
type ReviewService struct {
	repo        repositories.ReviewRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
	logger      hclog.Logger
}

// NewReviewService creates a new ReviewService. publisher may be nil.
func NewReviewService(repo repositories.ReviewRepository, productRepo repositories.ProductRepository, publisher EventPublisher, logger hclog.Logger) *ReviewService {
	return &ReviewService{
		repo:        repo,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// ListProductReviews returns the approved reviews of a product.
func (s *ReviewService) ListProductReviews(productID string) ([]models.Review, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	return s.repo.ListByProduct(productID)
}

// CreateReview stores the actor's review of a product. A user may review a
// product only once.
func (s *ReviewService) CreateReview(actor Actor, productID string, in ReviewInput) (*models.Review, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByProductAndUser(productID, actor.UserID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s reviewed product %s: %w", actor.UserID, productID, ErrAlreadyReviewed)
	}

	review := &models.Review{
		ProductID:  productID,
		UserID:     actor.UserID,
		Rating:     in.Rating,
		Title:      in.Title,
		Comment:    in.Comment,
		IsApproved: true,
	}
	if err := s.repo.Create(review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("user %s reviewed product %s: %w", actor.UserID, productID, ErrAlreadyReviewed)
		}
		return nil, err
	}

	s.refreshRating(productID)
	s.publish("review.created", review)
	return review, nil
}

// UpdateReview changes a review. Only its author may do so.
func (s *ReviewService) UpdateReview(actor Actor, id string, in ReviewInput) (*models.Review, error) {
	review, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(review.UserID) {
		return nil, fmt.Errorf("user %s may not update review %s: %w", actor.UserID, id, ErrUnauthorized)
	}

	review.Rating = in.Rating
	review.Title = in.Title
	review.Comment = in.Comment
	review.UpdatedAt = time.Now()
	if err := s.repo.Update(review); err != nil {
		return nil, err
	}

	s.refreshRating(review.ProductID)
	s.publish("review.updated", review)
	return review, nil
}

// DeleteReview removes a review. Only its author may do so.
func (s *ReviewService) DeleteReview(actor Actor, id string) error {
	review, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !actor.Owns(review.UserID) {
		return fmt.Errorf("user %s may not delete review %s: %w", actor.UserID, id, ErrUnauthorized)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.refreshRating(review.ProductID)
	s.publish("review.deleted", review)
	return nil
}

// RecomputeRating averages the approved reviews of a product and stores the
// result on the product. The average is rounded to one decimal.
func (s *ReviewService) RecomputeRating(productID string) (models.Rating, error) {
	avg, count, err := s.repo.RatingStats(productID)
	if err != nil {
		return models.Rating{}, err
	}
	rating := models.Rating{Average: math.Round(avg*10) / 10, Count: count}
	if err := s.productRepo.UpdateRating(productID, rating); err != nil {
		return models.Rating{}, err
	}
	return rating, nil
}

// refreshRating recomputes the aggregate after a review change has already
// been stored, so a failure here is logged rather than returned.
func (s *ReviewService) refreshRating(productID string) {
	rating, err := s.RecomputeRating(productID)
	if err != nil {
		s.logger.Error("failed to recompute product rating", "product_id", productID, "error", err)
		return
	}
	s.logger.Debug("product rating recomputed", "product_id", productID, "average", rating.Average, "count", rating.Count)
}

func (s *ReviewService) publish(routingKey string, review *models.Review) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"reviewId":  review.ID,
		"productId": review.ProductID,
		"userId":    review.UserID,
		"rating":    review.Rating,
		"at":        time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(routingKey, event); err != nil {
		s.logger.Warn("failed to publish event", "routing_key", routingKey, "review_id", review.ID, "error", err)
	}
}
