package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/internal/errors"
	"github.com/bazely/bazely-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

type CreateStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
}

// ListStores returns every store, newest first
// GET /api/v1/stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	stores, err := ctrl.storeService.ListStores()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// GetStoreByID returns a single store
// GET /api/v1/stores/:id
func (ctrl *StoreController) GetStoreByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	store, err := ctrl.storeService.GetStoreByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// CreateStore opens a new store owned by the caller
// POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	store, err := ctrl.storeService.CreateStore(c.Request.Context(), middleware.ActorFromContext(c), service.StoreInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"store": store})
}

// UpdateStore changes the supplied fields of an owned store
// PUT /api/v1/stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	store, err := ctrl.storeService.UpdateStore(middleware.ActorFromContext(c), id, service.StoreMutation{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// DeleteStore removes an owned store and everything beneath it
// DELETE /api/v1/stores/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.storeService.DeleteStore(middleware.ActorFromContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListStoreReviews returns the owner-only aggregate of reviews across the
// store's products
// GET /api/v1/stores/:id/reviews
func (ctrl *StoreController) ListStoreReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.storeService.ListStoreReviews(middleware.ActorFromContext(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListVendorStores returns the stores of one vendor
// GET /api/v1/vendors/:id/stores
func (ctrl *StoreController) ListVendorStores(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stores, err := ctrl.storeService.GetStoresByVendor(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}
