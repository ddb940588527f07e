package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// List filters, sorts and pages the stored products.
func (r *MemoryProductRepository) List(q catalog.Query) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if q.Filter.Matches(&p) {
			matched = append(matched, cloneProduct(p))
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return q.Sort.Less(&matched[i], &matched[j])
	})
	return catalog.Window(matched, q), int64(len(matched)), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	product = cloneProduct(product)
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrDuplicate)
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	for i := range product.Images {
		product.Images[i].ProductID = product.ID
		product.Images[i].Position = i
	}
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

// Update replaces the editable fields of an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	stored.Name = product.Name
	stored.Description = product.Description
	stored.Price = product.Price
	stored.OriginalPrice = product.OriginalPrice
	stored.Category = product.Category
	stored.Stock = product.Stock
	stored.Status = product.Status
	stored.IsActive = product.IsActive
	stored.Images = make([]models.ProductImage, len(product.Images))
	copy(stored.Images, product.Images)
	for i := range stored.Images {
		stored.Images[i].ProductID = product.ID
		stored.Images[i].Position = i
	}
	stored.UpdatedAt = time.Now()
	r.products[product.ID] = cloneProduct(stored)
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// IncrementViewCount adds one to the view count under the write lock.
func (r *MemoryProductRepository) IncrementViewCount(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	product.ViewCount++
	r.products[id] = product
	return nil
}

// UpdateRating stores a recomputed rating aggregate.
func (r *MemoryProductRepository) UpdateRating(id string, rating models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	product.Rating = rating
	r.products[id] = product
	return nil
}

// cloneProduct copies the slices and pointers of p so callers cannot mutate
// stored state.
func cloneProduct(p models.Product) models.Product {
	if p.Images != nil {
		p.Images = append([]models.ProductImage(nil), p.Images...)
	}
	if p.OriginalPrice != nil {
		price := *p.OriginalPrice
		p.OriginalPrice = &price
	}
	return p
}
