package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type productRepoFactory func(t *testing.T) repositories.ProductRepository

func productRepoFactories() map[string]productRepoFactory {
	return map[string]productRepoFactory{
		"gorm": func(t *testing.T) repositories.ProductRepository {
			return repositories.NewGORMProductRepository(openTestDB(t))
		},
		"memory": func(t *testing.T) repositories.ProductRepository {
			return repositories.NewMemoryProductRepository()
		},
	}
}

// seedCatalog stores three active electronics products, one inactive
// electronics product and one active book.
func seedCatalog(t *testing.T, repo repositories.ProductRepository) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	products := []models.Product{
		{Name: "Budget Earbuds", Description: "Wireless earbuds", Price: 10, Category: "electronics", Status: models.StatusActive, IsActive: true, Rating: models.Rating{Average: 3.5, Count: 2}, VendorID: "vendor-1", CreatedAt: base},
		{Name: "Studio Headphones", Description: "Closed back monitoring", Price: 50, Category: "electronics", Status: models.StatusActive, IsActive: true, Rating: models.Rating{Average: 4.8, Count: 9}, VendorID: "vendor-1", CreatedAt: base.Add(time.Minute)},
		{Name: "Smart Speaker", Description: "Voice assistant speaker", Price: 30, Category: "electronics", Status: models.StatusActive, IsActive: true, Rating: models.Rating{Average: 4.1, Count: 4}, VendorID: "vendor-2", CreatedAt: base.Add(2 * time.Minute)},
		{Name: "Golden Phone", Description: "Discontinued luxury phone", Price: 999, Category: "electronics", Status: models.StatusActive, IsActive: false, VendorID: "vendor-1", CreatedAt: base.Add(3 * time.Minute)},
		{Name: "Go Programming", Description: "A book about Go", Price: 20, Category: "books", Status: models.StatusPending, IsActive: true, VendorID: "vendor-2", CreatedAt: base.Add(4 * time.Minute)},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
}

func prices(products []models.Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		out = append(out, p.Price)
	}
	return out
}

func TestProductRepository_ListScenario(t *testing.T) {
	for name, factory := range productRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			seedCatalog(t, repo)

			q := catalog.BuildQuery(catalog.Params{Page: 1, Limit: 2, Category: "electronics", Sort: catalog.SortPriceHigh}, catalog.PublicScope())
			products, total, err := repo.List(q)
			require.NoError(t, err)

			assert.Equal(t, []float64{50, 30}, prices(products))
			assert.Equal(t, int64(3), total)
			assert.Equal(t, 2, catalog.NewPage(products, total, q).Pages)

			q.Page = 2
			products, _, err = repo.List(q)
			require.NoError(t, err)
			assert.Equal(t, []float64{10}, prices(products))
		})
	}
}

func TestProductRepository_ListFilters(t *testing.T) {
	ten, twenty, fifty, four := 10.0, 20.0, 50.0, 4.0

	tests := []struct {
		name   string
		params catalog.Params
		scope  catalog.Scope
		want   []float64
	}{
		{"baseline only", catalog.Params{Sort: catalog.SortPriceLow}, catalog.PublicScope(), []float64{10, 30, 50}},
		{"price range", catalog.Params{MinPrice: &ten, MaxPrice: &twenty, Sort: catalog.SortPriceLow}, catalog.PublicScope(), []float64{10}},
		{"inverted range", catalog.Params{MinPrice: &fifty, MaxPrice: &ten}, catalog.PublicScope(), []float64{}},
		{"min rating", catalog.Params{MinRating: &four, Sort: catalog.SortRating}, catalog.PublicScope(), []float64{50, 30}},
		{"text search", catalog.Params{Search: "voice monitoring", Sort: catalog.SortPriceLow}, catalog.PublicScope(), []float64{30, 50}},
		{"unknown category", catalog.Params{Category: "garden"}, catalog.PublicScope(), []float64{}},
		{"vendor scope sees inactive", catalog.Params{Sort: catalog.SortPriceLow}, catalog.VendorScope("vendor-1"), []float64{10, 50, 999}},
		{"admin status", catalog.Params{}, catalog.AdminScope(models.StatusPending), []float64{20}},
		{"newest", catalog.Params{}, catalog.PublicScope(), []float64{30, 50, 10}},
		{"percent is literal", catalog.Params{Search: "%"}, catalog.PublicScope(), []float64{}},
		{"underscore is literal", catalog.Params{Search: "_"}, catalog.PublicScope(), []float64{}},
	}

	for name, factory := range productRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			seedCatalog(t, repo)

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					q := catalog.BuildQuery(tt.params, tt.scope)
					products, total, err := repo.List(q)
					require.NoError(t, err)
					assert.Equal(t, tt.want, prices(products))
					assert.Equal(t, int64(len(tt.want)), total)
				})
			}
		})
	}
}

func TestProductRepository_ListHugePagePastTheEnd(t *testing.T) {
	for name, factory := range productRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			seedCatalog(t, repo)

			for _, page := range []int{9, 100000000000000000} {
				q := catalog.BuildQuery(catalog.Params{Page: page, Limit: catalog.MaxLimit}, catalog.PublicScope())
				products, total, err := repo.List(q)
				require.NoError(t, err)
				assert.Empty(t, products)
				assert.Equal(t, int64(3), total)
			}

			// A query that skips the parser still lands past the end.
			q := catalog.BuildQuery(catalog.Params{Limit: catalog.MaxLimit}, catalog.PublicScope())
			q.Page = 100000000000000000
			products, total, err := repo.List(q)
			require.NoError(t, err)
			assert.Empty(t, products)
			assert.Equal(t, int64(3), total)
		})
	}
}

func TestProductRepository_ListPublicOnlyReturnsListable(t *testing.T) {
	for name, factory := range productRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			seedCatalog(t, repo)

			products, _, err := repo.List(catalog.BuildQuery(catalog.Params{Limit: catalog.MaxLimit}, catalog.PublicScope()))
			require.NoError(t, err)
			for _, p := range products {
				assert.Equal(t, models.StatusActive, p.Status)
				assert.True(t, p.IsActive)
			}
		})
	}
}

func TestProductRepository_CRUD(t *testing.T) {
	for name, factory := range productRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)

			product := &models.Product{
				Name:     "Camera",
				Price:    300,
				Category: "electronics",
				Status:   models.StatusActive,
				IsActive: true,
				VendorID: "vendor-1",
				Images: []models.ProductImage{
					{URL: "https://img.example.com/a.jpg", ExternalID: "a"},
					{URL: "https://img.example.com/b.jpg", ExternalID: "b"},
				},
			}
			require.NoError(t, repo.Create(product))
			require.NotEmpty(t, product.ID)

			fetched, err := repo.GetByID(product.ID)
			require.NoError(t, err)
			require.Len(t, fetched.Images, 2)
			assert.Equal(t, "a", fetched.Images[0].ExternalID)

			require.NoError(t, repo.IncrementViewCount(product.ID))
			require.NoError(t, repo.UpdateRating(product.ID, models.Rating{Average: 4.5, Count: 2}))

			fetched.Name = "Mirrorless Camera"
			fetched.IsActive = false
			fetched.Images = []models.ProductImage{{URL: "https://img.example.com/c.jpg", ExternalID: "c"}}
			require.NoError(t, repo.Update(fetched))

			updated, err := repo.GetByID(product.ID)
			require.NoError(t, err)
			assert.Equal(t, "Mirrorless Camera", updated.Name)
			assert.False(t, updated.IsActive)
			assert.Equal(t, int64(1), updated.ViewCount)
			assert.Equal(t, models.Rating{Average: 4.5, Count: 2}, updated.Rating)
			require.Len(t, updated.Images, 1)
			assert.Equal(t, "c", updated.Images[0].ExternalID)

			require.NoError(t, repo.Delete(product.ID))
			_, err = repo.GetByID(product.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(product.ID), repositories.ErrNotFound)
			assert.ErrorIs(t, repo.IncrementViewCount(product.ID), repositories.ErrNotFound)
		})
	}
}

func TestProductRepository_IncrementViewCountTwice(t *testing.T) {
	for name, factory := range productRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			product := &models.Product{Name: "Lamp", Price: 15, Category: "home", Status: models.StatusActive, IsActive: true}
			require.NoError(t, repo.Create(product))

			require.NoError(t, repo.IncrementViewCount(product.ID))
			require.NoError(t, repo.IncrementViewCount(product.ID))

			fetched, err := repo.GetByID(product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), fetched.ViewCount)
		})
	}
}

func TestMemoryProductRepository_UpdateCopiesImages(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	product := &models.Product{Name: "Lamp", Price: 15, Category: "home", Status: models.StatusActive, IsActive: true}
	require.NoError(t, repo.Create(product))

	images := []models.ProductImage{
		{URL: "https://img.example.com/a.jpg", ExternalID: "a", Position: 7},
		{URL: "https://img.example.com/b.jpg", ExternalID: "b", Position: 3},
	}
	update := *product
	update.Images = images
	require.NoError(t, repo.Update(&update))

	assert.Empty(t, images[0].ProductID)
	assert.Equal(t, 7, images[0].Position)
	assert.Equal(t, 3, images[1].Position)

	images[0].URL = "https://img.example.com/changed.jpg"
	fetched, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Images, 2)
	assert.Equal(t, "https://img.example.com/a.jpg", fetched.Images[0].URL)
	assert.Equal(t, product.ID, fetched.Images[0].ProductID)
	assert.Equal(t, 1, fetched.Images[1].Position)
}
