package repository

import (
	"github.com/bazely/bazely-backend/internal/app/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByProduct(productID uint) ([]model.Review, error)
	// FindByStore returns every review across the store's products,
	// newest first. Vendor-facing aggregate.
	FindByStore(storeID uint) ([]model.Review, error)
	ExistsForReviewer(productID, userID uint) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) FindByProduct(productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) FindByStore(storeID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("User").Preload("Product").
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("products.store_id = ? AND products.deleted_at IS NULL", storeID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ExistsForReviewer(productID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
