package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/internal/app/policy"
	"github.com/bazely/bazely-backend/internal/app/repository"
	"github.com/bazely/bazely-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// maxPrice bounds the integer part to what a DECIMAL(10,2) column holds.
const maxPrice = 100_000_000

// ProductInput carries the client-settable fields of a product. The owning
// store comes from the URL, never from the payload.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

// ProductMutation is a partial update. Nil fields keep their current value.
type ProductMutation struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
}

type ProductService interface {
	GetProductByID(id uint) (*model.Product, error)
	ListStoreProducts(storeID uint) ([]model.Product, error)
	CreateProduct(ctx context.Context, actor policy.Actor, storeID uint, input ProductInput) (*model.Product, error)
	UpdateProduct(actor policy.Actor, productID uint, input ProductMutation) (*model.Product, error)
	DeleteProduct(actor policy.Actor, productID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	announcer   Announcer
}

func NewProductService(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	announcer Announcer,
) ProductService {
	return &productService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		announcer:   announcer,
	}
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) ListStoreProducts(storeID uint) ([]model.Product, error) {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return s.productRepo.FindByStore(storeID)
}

func validateProductFields(name, description string, price float64, checkName, checkDescription, checkPrice bool) fieldErrors {
	violations := validateStoreFields(name, description, checkName, checkDescription)
	if checkPrice {
		if price < 0 {
			violations["price"] = "must not be negative"
		} else if price >= maxPrice {
			violations["price"] = "exceeds the maximum allowed price"
		}
	}
	return violations
}

func (s *productService) CreateProduct(ctx context.Context, actor policy.Actor, storeID uint, input ProductInput) (*model.Product, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if err := validateProductFields(input.Name, input.Description, input.Price, true, true, true).err(); err != nil {
		return nil, err
	}

	if err := decisionError(policy.Evaluate(actor, policy.ActionCreate, store)); err != nil {
		return nil, err
	}

	product := &model.Product{
		StoreID:     storeID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		ImageURL:    input.ImageURL,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"store_id":   storeID,
		"vendor_id":  actor.ID,
	})

	s.announceCreation(newProductAnnouncement(store, product))
	return product, nil
}

func (s *productService) UpdateProduct(actor policy.Actor, productID uint, input ProductMutation) (*model.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	// Ownership is settled before the payload is even looked at: a wrong
	// actor gets the same answer whether the body is valid or not.
	if err := decisionError(policy.Evaluate(actor, policy.ActionUpdate, product)); err != nil {
		return nil, err
	}

	name, description, price := product.Name, product.Description, product.Price
	if input.Name != nil {
		name = *input.Name
	}
	if input.Description != nil {
		description = *input.Description
	}
	if input.Price != nil {
		price = *input.Price
	}
	if err := validateProductFields(name, description, price,
		input.Name != nil, input.Description != nil, input.Price != nil).err(); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(name)
	product.Description = strings.TrimSpace(description)
	product.Price = price
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(actor policy.Actor, productID uint) error {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return err
	}

	if err := decisionError(policy.Evaluate(actor, policy.ActionDelete, product)); err != nil {
		return err
	}

	if err := s.productRepo.Delete(productID); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": productID,
		"vendor_id":  actor.ID,
	})
	return nil
}

// announceCreation mirrors the store service helper for product announcements.
func (s *productService) announceCreation(text string) {
	if s.announcer == nil {
		return
	}
	go func() {
		status := s.announcer.Announce(context.Background(), text)
		logger.Debug("Announcement dispatched", map[string]interface{}{
			"status": string(status),
		})
	}()
}
