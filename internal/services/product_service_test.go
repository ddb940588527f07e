package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService(repo *MockProductRepository, reviews *MockReviewRepository, images services.ImageStore, publisher services.EventPublisher) *services.ProductService {
	return services.NewProductService(repo, reviews, images, publisher, hclog.NewNullLogger())
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockReviewRepository), nil, nil)

	params := catalog.Params{Page: 1, Limit: 2, Category: "electronics", Sort: catalog.SortPriceHigh}
	expectedQuery := catalog.BuildQuery(params, catalog.PublicScope())
	items := []models.Product{{ID: "1", Price: 50}, {ID: "2", Price: 30}}

	mockRepo.On("List", expectedQuery).Return(items, int64(3), nil).Once()

	page, err := service.ListProducts(params)

	assert.NoError(t, err)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Pages)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockReviewRepository), nil, nil)

	mockRepo.On("List", mock.Anything).Return(nil, int64(0), fmt.Errorf("database error")).Once()

	_, err := service.ListProducts(catalog.Params{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListVendorProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockReviewRepository), nil, nil)

	mockRepo.On("List", mock.MatchedBy(func(q catalog.Query) bool {
		return q.Filter.VendorID == "vendor-1" &&
			!q.Filter.ActiveOnly &&
			q.Filter.Category == "" &&
			q.Sort == catalog.SortFor(catalog.SortNewest) &&
			q.Limit == catalog.VendorDefaultLimit
	})).Return([]models.Product{}, int64(0), nil).Once()

	params := catalog.Params{Page: 1, Limit: catalog.VendorDefaultLimit, Category: "books", Sort: catalog.SortPriceLow}
	page, err := service.ListVendorProducts("vendor-1", params)

	assert.NoError(t, err)
	assert.Equal(t, 0, page.Count)
	assert.Equal(t, 0, page.Pages)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockReviewRepository), nil, nil)

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: 10.0, ViewCount: 1}

	// Test successful retrieval
	mockRepo.On("IncrementViewCount", "1").Return(nil).Once()
	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProduct("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("IncrementViewCount", "99").Return(fmt.Errorf("product with ID 99: %w", repositories.ErrNotFound)).Once()
	product, err = service.GetProduct("99")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newProductService(mockRepo, new(MockReviewRepository), nil, publisher)

	actor := services.Actor{UserID: "vendor-1", Role: models.RoleVendor}
	input := services.ProductInput{Name: "New Product", Price: 50.0, Category: "home", Stock: 20}

	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.VendorID == "vendor-1" && p.Status == models.StatusActive && p.IsActive && p.Name == "New Product"
	})).Return(nil).Once()
	publisher.On("PublishEvent", "product.created", mock.Anything).Return(nil).Once()

	product, err := service.CreateProduct(actor, input)
	assert.NoError(t, err)
	assert.Equal(t, "vendor-1", product.VendorID)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", mock.Anything).Return(fmt.Errorf("database error")).Once()
	_, err = service.CreateProduct(actor, input)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProductPublishFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newProductService(mockRepo, new(MockReviewRepository), nil, publisher)

	mockRepo.On("Create", mock.Anything).Return(nil).Once()
	publisher.On("PublishEvent", "product.created", mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.CreateProduct(services.Actor{UserID: "vendor-1"}, services.ProductInput{Name: "Lamp", Category: "home"})
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockReviewRepository), nil, nil)

	stored := &models.Product{ID: "1", Name: "Product A", Price: 10, Status: models.StatusPending, IsActive: true, VendorID: "vendor-1"}
	inactive := false
	input := services.ProductInput{Name: "Product A Updated", Price: 12, Category: "home", IsActive: &inactive}

	// Test update by the owner
	mockRepo.On("GetByID", "1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Product A Updated" && p.Status == models.StatusPending && !p.IsActive
	})).Return(nil).Once()
	mockRepo.On("GetByID", "1").Return(stored, nil).Once()

	_, err := service.UpdateProduct(services.Actor{UserID: "vendor-1", Role: models.RoleVendor}, "1", input)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test update by another vendor
	mockRepo.On("GetByID", "1").Return(&models.Product{ID: "1", VendorID: "vendor-1"}, nil).Once()
	_, err = service.UpdateProduct(services.Actor{UserID: "vendor-2", Role: models.RoleVendor}, "1", input)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	mockRepo.AssertExpectations(t)

	// Test update by an admin
	mockRepo.On("GetByID", "1").Return(&models.Product{ID: "1", VendorID: "vendor-1"}, nil).Twice()
	mockRepo.On("Update", mock.Anything).Return(nil).Once()
	_, err = service.UpdateProduct(services.Actor{UserID: "admin-1", Role: models.RoleAdmin}, "1", input)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)
	images := new(MockImageStore)
	service := newProductService(mockRepo, reviewRepo, images, nil)
	ctx := context.Background()

	stored := &models.Product{
		ID:       "1",
		VendorID: "vendor-1",
		Images: []models.ProductImage{
			{URL: "https://img.example.com/a.jpg", ExternalID: "a"},
			{URL: "https://img.example.com/b.jpg", ExternalID: "b"},
		},
	}

	// Test successful deletion; a failing image removal does not stop it
	mockRepo.On("GetByID", "1").Return(stored, nil).Once()
	images.On("DeleteImage", ctx, "a").Return(errors.New("timeout")).Once()
	images.On("DeleteImage", ctx, "b").Return(nil).Once()
	reviewRepo.On("DeleteByProduct", "1").Return(nil).Once()
	mockRepo.On("Delete", "1").Return(nil).Once()

	err := service.DeleteProduct(ctx, services.Actor{UserID: "vendor-1", Role: models.RoleVendor}, "1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
	images.AssertExpectations(t)

	// Test deletion by someone else
	mockRepo.On("GetByID", "1").Return(stored, nil).Once()
	err = service.DeleteProduct(ctx, services.Actor{UserID: "customer-1", Role: models.RoleCustomer}, "1")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	mockRepo.AssertExpectations(t)

	// Test deletion of a missing product
	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrNotFound)).Once()
	err = service.DeleteProduct(ctx, services.Actor{UserID: "vendor-1"}, "99")
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProductKeepsReviewsWhenDeleteFails(t *testing.T) {
	mockRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)
	images := new(MockImageStore)
	service := newProductService(mockRepo, reviewRepo, images, nil)

	stored := &models.Product{
		ID:       "1",
		VendorID: "vendor-1",
		Images:   []models.ProductImage{{URL: "https://img.example.com/a.jpg", ExternalID: "a"}},
	}
	mockRepo.On("GetByID", "1").Return(stored, nil).Once()
	mockRepo.On("Delete", "1").Return(errors.New("database is locked")).Once()

	err := service.DeleteProduct(context.Background(), services.Actor{UserID: "vendor-1", Role: models.RoleVendor}, "1")
	assert.EqualError(t, err, "database is locked")
	mockRepo.AssertExpectations(t)
	reviewRepo.AssertNotCalled(t, "DeleteByProduct", mock.Anything)
	images.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
}

func TestProductService_DeleteProductToleratesReviewCleanupFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)
	service := newProductService(mockRepo, reviewRepo, nil, nil)

	mockRepo.On("GetByID", "1").Return(&models.Product{ID: "1", VendorID: "vendor-1"}, nil).Once()
	mockRepo.On("Delete", "1").Return(nil).Once()
	reviewRepo.On("DeleteByProduct", "1").Return(errors.New("connection reset")).Once()

	err := service.DeleteProduct(context.Background(), services.Actor{UserID: "admin-1", Role: models.RoleAdmin}, "1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}
