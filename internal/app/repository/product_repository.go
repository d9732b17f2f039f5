package repository

import (
	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByStore(storeID uint) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"store_id": product.StoreID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":     product.Name,
			"store_id": product.StoreID,
		})
		return err
	}
	return nil
}

// FindByID preloads the owning store so ownership can be resolved
// transitively without a second query.
func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Store").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByStore(storeID uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product and its reviews in one transaction.
func (r *productRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).
			Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}
