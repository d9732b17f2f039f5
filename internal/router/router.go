package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/config"
	"github.com/bazely/bazely-backend/internal/app/controller"
	"github.com/bazely/bazely-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	storeController   *controller.StoreController
	productController *controller.ProductController
	reviewController  *controller.ReviewController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	productController *controller.ProductController,
	reviewController *controller.ReviewController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		storeController:   storeController,
		productController: productController,
		reviewController:  reviewController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

// Setup wires every route. Mutating routes use OptionalAuthenticate so the
// policy layer can distinguish a missing identity (401) from a wrong one
// (403) instead of the router flattening both to 401.
func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/", controller.APIIndex)
	router.GET("/health", controller.HealthCheck)

	optional := r.authMiddleware.OptionalAuthenticate()
	required := r.authMiddleware.Authenticate()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", required, r.authController.Me)
			auth.PUT("/me", required, r.authController.UpdateProfile)
			auth.POST("/logout", required, r.authController.Logout)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", r.storeController.ListStores)
			stores.POST("", optional, r.storeController.CreateStore)
			stores.GET("/:id", r.storeController.GetStoreByID)
			stores.PUT("/:id", optional, r.storeController.UpdateStore)
			stores.DELETE("/:id", optional, r.storeController.DeleteStore)
			stores.GET("/:id/products", r.productController.ListStoreProducts)
			stores.POST("/:id/products", optional, r.productController.CreateProduct)
			stores.GET("/:id/reviews", optional, r.storeController.ListStoreReviews)
		}

		products := v1.Group("/products")
		{
			products.GET("/:id", r.productController.GetProductByID)
			products.PUT("/:id", optional, r.productController.UpdateProduct)
			products.DELETE("/:id", optional, r.productController.DeleteProduct)
			products.GET("/:id/reviews", r.reviewController.ListProductReviews)
			products.POST("/:id/reviews", optional, r.reviewController.CreateReview)
		}

		v1.GET("/vendors/:id/stores", r.storeController.ListVendorStores)

		if r.uploadController != nil {
			v1.POST("/upload/presigned-url", required, r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
