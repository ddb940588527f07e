package main

import (
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/hashicorp/go-hclog"
)

// seedDemoData registers a demo vendor and lists a few products under it.
// It is a no-op when the vendor already exists.
func seedDemoData(svc handlers.Services, log hclog.Logger) {
	vendor := &models.User{
		Username: "demo-vendor",
		Email:    "vendor@storefront.local",
		Password: "demo-password",
		Role:     models.RoleVendor,
	}
	if err := svc.Auth.RegisterUser(vendor); err != nil {
		log.Info("skipping demo data", "reason", err)
		return
	}

	was := func(v float64) *float64 { return &v }
	products := []services.ProductInput{
		{Name: "Wireless Earbuds", Description: "Bluetooth earbuds with charging case", Price: 59.99, OriginalPrice: was(79.99), Category: "electronics", Stock: 40},
		{Name: "Mechanical Keyboard", Description: "Hot-swappable mechanical keyboard", Price: 89.00, Category: "electronics", Stock: 25},
		{Name: "Running Shoes", Description: "Lightweight shoes for daily runs", Price: 120.00, Category: "sports", Stock: 15},
		{Name: "Linen Shirt", Description: "Breathable linen shirt", Price: 35.50, Category: "fashion", Stock: 60},
		{Name: "Ceramic Vase", Description: "Hand-glazed ceramic vase", Price: 24.00, Category: "home", Stock: 12},
		{Name: "Go in Practice", Description: "A book about practical Go programming", Price: 39.99, Category: "books", Stock: 30},
	}

	actor := services.Actor{UserID: vendor.ID, Role: vendor.Role}
	for _, in := range products {
		product, err := svc.Products.CreateProduct(actor, in)
		if err != nil {
			log.Error("error seeding product", "name", in.Name, "error", err)
			continue
		}
		log.Debug("seeded product", "name", product.Name, "id", product.ID)
	}
	log.Info("demo data seeded", "vendor", vendor.Username, "products", len(products))
}
