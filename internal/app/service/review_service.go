package service

import (
	"errors"
	"strings"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/internal/app/policy"
	"github.com/bazely/bazely-backend/internal/app/repository"
	"github.com/bazely/bazely-backend/pkg/logger"
)

var ErrReviewAlreadyExists = errors.New("review already exists for this product")

type ReviewInput struct {
	Rating  int
	Comment string
}

type ReviewService interface {
	ListProductReviews(productID uint) ([]model.Review, error)
	CreateReview(actor policy.Actor, productID uint, input ReviewInput) (*model.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) ListProductReviews(productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByProduct(productID)
}

func validateReviewFields(rating int, comment string) fieldErrors {
	violations := fieldErrors{}
	if rating < 1 || rating > 5 {
		violations["rating"] = "must be between 1 and 5"
	}
	if strings.TrimSpace(comment) == "" {
		violations["comment"] = "must not be empty"
	}
	return violations
}

func (s *reviewService) CreateReview(actor policy.Actor, productID uint, input ReviewInput) (*model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := validateReviewFields(input.Rating, input.Comment).err(); err != nil {
		return nil, err
	}

	// Any authenticated customer may review; the vendor included.
	if err := decisionError(policy.Evaluate(actor, policy.ActionCreate, policy.Public)); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForReviewer(productID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    actor.ID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		// Concurrent duplicate slips past the existence check and lands on
		// the unique index instead.
		if isDuplicateKey(err) {
			return nil, ErrReviewAlreadyExists
		}
		logger.Error("Failed to create review", err, map[string]interface{}{
			"product_id": productID,
			"user_id":    actor.ID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
		"user_id":    actor.ID,
	})
	return review, nil
}
