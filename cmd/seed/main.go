// Seeds the database with a demo vendor, stores, products and reviews.
// Intended for local development only.
package main

import (
	"log"

	"github.com/bazely/bazely-backend/config"
	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/internal/app/repository"
	"github.com/bazely/bazely-backend/internal/db"
	"github.com/bazely/bazely-backend/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	hash, err := util.HashPassword("password123")
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	vendor := &model.User{Username: "demo_vendor", Email: "vendor@example.com", PasswordHash: hash}
	if err := userRepo.Create(vendor); err != nil {
		log.Fatal("Failed to create vendor:", err)
	}
	customer := &model.User{Username: "demo_customer", Email: "customer@example.com", PasswordHash: hash}
	if err := userRepo.Create(customer); err != nil {
		log.Fatal("Failed to create customer:", err)
	}

	store := &model.Store{
		UserID:      vendor.ID,
		Name:        "Acme Supplies",
		Description: "Everything a busy coyote needs, shipped same day.",
	}
	if err := storeRepo.Create(store); err != nil {
		log.Fatal("Failed to create store:", err)
	}

	products := []*model.Product{
		{StoreID: store.ID, Name: "Rocket Skates", Description: "Self-propelled. No refunds.", Price: 49.99},
		{StoreID: store.ID, Name: "Giant Magnet", Description: "Attracts anything ferrous within a mile.", Price: 129.50},
		{StoreID: store.ID, Name: "Portable Hole", Description: "Folds flat for easy storage.", Price: 9.99},
	}
	for _, p := range products {
		if err := productRepo.Create(p); err != nil {
			log.Fatal("Failed to create product:", err)
		}
	}

	review := &model.Review{
		ProductID: products[0].ID,
		UserID:    customer.ID,
		Rating:    4,
		Comment:   "Fast. Very fast. Brakes would be nice.",
	}
	if err := reviewRepo.Create(review); err != nil {
		log.Fatal("Failed to create review:", err)
	}

	log.Printf("Seeded 2 users, 1 store, %d products, 1 review", len(products))
}
