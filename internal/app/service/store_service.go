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

var (
	ErrStoreNotFound  = errors.New("store not found")
	ErrVendorNotFound = errors.New("vendor not found")
)

// Name columns are varchar(200), so anything longer would be rejected
// by postgres anyway. Checking here keeps the error a field violation.
const (
	minNameLength = 3
	maxNameLength = 200
)

// StoreInput carries the client-settable fields of a store. The owning
// vendor always comes from the actor, never from the payload.
type StoreInput struct {
	Name        string
	Description string
	LogoURL     string
}

// StoreMutation is a partial update. Nil fields keep their current value;
// supplied fields are validated.
type StoreMutation struct {
	Name        *string
	Description *string
	LogoURL     *string
}

type StoreService interface {
	ListStores() ([]model.Store, error)
	GetStoreByID(id uint) (*model.Store, error)
	GetStoresByVendor(vendorID uint) ([]model.Store, error)
	CreateStore(ctx context.Context, actor policy.Actor, input StoreInput) (*model.Store, error)
	UpdateStore(actor policy.Actor, storeID uint, input StoreMutation) (*model.Store, error)
	DeleteStore(actor policy.Actor, storeID uint) error
	ListStoreReviews(actor policy.Actor, storeID uint) ([]model.Review, error)
}

type storeService struct {
	storeRepo  repository.StoreRepository
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	announcer  Announcer
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	announcer Announcer,
) StoreService {
	return &storeService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		announcer:  announcer,
	}
}

func (s *storeService) ListStores() ([]model.Store, error) {
	stores, err := s.storeRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list stores", err)
		return nil, err
	}
	return stores, nil
}

func (s *storeService) GetStoreByID(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetStoresByVendor(vendorID uint) ([]model.Store, error) {
	if _, err := s.userRepo.FindByID(vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return s.storeRepo.FindByVendor(vendorID)
}

func validateStoreFields(name, description string, checkName, checkDescription bool) fieldErrors {
	violations := fieldErrors{}
	if checkName {
		trimmed := strings.TrimSpace(name)
		if len(trimmed) < minNameLength {
			violations["name"] = "must be at least 3 characters"
		} else if len(trimmed) > maxNameLength {
			violations["name"] = "must be at most 200 characters"
		}
	}
	if checkDescription && strings.TrimSpace(description) == "" {
		violations["description"] = "must not be empty"
	}
	return violations
}

func (s *storeService) CreateStore(ctx context.Context, actor policy.Actor, input StoreInput) (*model.Store, error) {
	if err := validateStoreFields(input.Name, input.Description, true, true).err(); err != nil {
		return nil, err
	}

	if err := decisionError(policy.Evaluate(actor, policy.ActionCreate, policy.Public)); err != nil {
		return nil, err
	}

	store := &model.Store{
		UserID:      actor.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		LogoURL:     input.LogoURL,
	}
	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to create store", err, map[string]interface{}{
			"vendor_id": actor.ID,
			"name":      input.Name,
		})
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id":  store.ID,
		"vendor_id": actor.ID,
	})

	s.announceCreation(newStoreAnnouncement(store))
	return store, nil
}

func (s *storeService) UpdateStore(actor policy.Actor, storeID uint, input StoreMutation) (*model.Store, error) {
	store, err := s.GetStoreByID(storeID)
	if err != nil {
		return nil, err
	}

	// Ownership is settled before the payload is even looked at: a wrong
	// actor gets the same answer whether the body is valid or not.
	if err := decisionError(policy.Evaluate(actor, policy.ActionUpdate, store)); err != nil {
		return nil, err
	}

	name, description := store.Name, store.Description
	if input.Name != nil {
		name = *input.Name
	}
	if input.Description != nil {
		description = *input.Description
	}
	if err := validateStoreFields(name, description, input.Name != nil, input.Description != nil).err(); err != nil {
		return nil, err
	}

	store.Name = strings.TrimSpace(name)
	store.Description = strings.TrimSpace(description)
	if input.LogoURL != nil {
		store.LogoURL = *input.LogoURL
	}

	if err := s.storeRepo.Update(store); err != nil {
		logger.Error("Failed to update store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) DeleteStore(actor policy.Actor, storeID uint) error {
	store, err := s.GetStoreByID(storeID)
	if err != nil {
		return err
	}

	if err := decisionError(policy.Evaluate(actor, policy.ActionDelete, store)); err != nil {
		return err
	}

	if err := s.storeRepo.Delete(storeID); err != nil {
		logger.Error("Failed to delete store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return err
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id":  storeID,
		"vendor_id": actor.ID,
	})
	return nil
}

// ListStoreReviews is the vendor aggregate: every review across the store's
// products, owner only.
func (s *storeService) ListStoreReviews(actor policy.Actor, storeID uint) ([]model.Review, error) {
	store, err := s.GetStoreByID(storeID)
	if err != nil {
		return nil, err
	}

	if err := decisionError(policy.Evaluate(actor, policy.ActionReadReviews, store)); err != nil {
		return nil, err
	}

	return s.reviewRepo.FindByStore(storeID)
}

// announceCreation fires the announcement after the row is committed,
// off the request goroutine. Outcome is logged by the announcer itself.
func (s *storeService) announceCreation(text string) {
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
