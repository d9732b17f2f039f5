package repository

import (
	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindAll() ([]model.Store, error)
	FindByID(id uint) (*model.Store, error)
	FindByVendor(vendorID uint) ([]model.Store, error)
	Update(store *model.Store) error
	Delete(id uint) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	return r.db.Create(store).Error
}

func (r *storeRepository) FindAll() ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Preload("User").
		Order("created_at DESC").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.Preload("User").First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByVendor(vendorID uint) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Preload("User").
		Where("user_id = ?", vendorID).
		Order("created_at DESC").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepository) Update(store *model.Store) error {
	return r.db.Save(store).Error
}

// Delete removes a store together with its products and every review on
// those products. Done in one transaction so a partial cascade never
// becomes visible.
func (r *storeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var productIDs []uint
		if err := tx.Model(&model.Product{}).
			Where("store_id = ?", id).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).
				Delete(&model.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Where("store_id = ?", id).
				Delete(&model.Product{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.Store{}, id).Error; err != nil {
			return err
		}

		logger.Debug("Store deleted with cascade", map[string]interface{}{
			"store_id":      id,
			"product_count": len(productIDs),
		})
		return nil
	})
}
