package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/internal/errors"
	"github.com/bazely/bazely-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

// ListStoreProducts returns a store's products, newest first
// GET /api/v1/stores/:id/products
func (ctrl *ProductController) ListStoreProducts(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	products, err := ctrl.productService.ListStoreProducts(storeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns a single product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct adds a product to an owned store
// POST /api/v1/stores/:id/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), middleware.ActorFromContext(c), storeID, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct changes the supplied fields of a product in an owned store
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.UpdateProduct(middleware.ActorFromContext(c), id, service.ProductMutation{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product and its reviews
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(middleware.ActorFromContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
