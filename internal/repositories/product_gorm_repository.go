package repositories

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List counts the products matching q, then fetches the requested page.
// The two statements are not run in one transaction.
func (r *GORMProductRepository) List(q catalog.Query) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.Model(&models.Product{}).Scopes(r.filter(q.Filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	err := r.db.Model(&models.Product{}).
		Scopes(r.filter(q.Filter)).
		Preload("Images", orderImages).
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.Sort.Field}, Desc: q.Sort.Desc}).
		Order("id").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (r *GORMProductRepository) filter(f catalog.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ActiveOnly {
			db = db.Where("status = ? AND is_active = ?", models.StatusActive, true)
		}
		if f.VendorID != "" {
			db = db.Where("vendor_id = ?", f.VendorID)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.MinPrice != nil {
			db = db.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("price <= ?", *f.MaxPrice)
		}
		if f.MinRating != nil {
			db = db.Where("rating_average >= ?", *f.MinRating)
		}
		if f.Search != "" {
			db = r.textSearch(db, f.Search)
		}
		return db
	}
}

// textSearch uses PostgreSQL full-text search when available and falls back
// to matching any term against name or description elsewhere.
func (r *GORMProductRepository) textSearch(db *gorm.DB, search string) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return db.Where(
			"to_tsvector('simple', coalesce(name, '') || ' ' || coalesce(description, '')) @@ plainto_tsquery('simple', ?)",
			search,
		)
	}

	terms := catalog.SearchTerms(search)
	if len(terms) == 0 {
		return db
	}
	conds := make([]string, 0, len(terms))
	args := make([]interface{}, 0, 2*len(terms))
	for _, term := range terms {
		pattern := "%" + likeEscaper.Replace(term) + "%"
		conds = append(conds, `LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern)
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Images", orderImages).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product and its images in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Images {
		product.Images[i].Position = i
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates the editable columns of a product and replaces its images.
func (r *GORMProductRepository) Update(product *models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(product).
			Select("name", "description", "price", "original_price", "category", "stock", "status", "is_active", "updated_at").
			Updates(product)
		if res.Error != nil {
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to clear images of product %s: %w", product.ID, err)
		}
		for i := range product.Images {
			product.Images[i].ID = 0
			product.Images[i].ProductID = product.ID
			product.Images[i].Position = i
		}
		if len(product.Images) > 0 {
			if err := tx.Create(&product.Images).Error; err != nil {
				return fmt.Errorf("failed to store images of product %s: %w", product.ID, err)
			}
		}
		return nil
	})
}

// Delete deletes a product and its image rows from the database.
func (r *GORMProductRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// IncrementViewCount adds one to the view count in a single statement.
func (r *GORMProductRepository) IncrementViewCount(id string) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment view count of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateRating stores a recomputed rating aggregate.
func (r *GORMProductRepository) UpdateRating(id string, rating models.Rating) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"rating_average": rating.Average,
		"rating_count":   rating.Count,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update rating of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
