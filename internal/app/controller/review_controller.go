package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/internal/errors"
	"github.com/bazely/bazely-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ListProductReviews returns a product's reviews, newest first
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) ListProductReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListProductReviews(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview leaves a review on a product, one per reviewer
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(middleware.ActorFromContext(c), productID, service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}
