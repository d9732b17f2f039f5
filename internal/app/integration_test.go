package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazely/bazely-backend/config"
	"github.com/bazely/bazely-backend/internal/app/controller"
	"github.com/bazely/bazely-backend/internal/app/repository"
	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/internal/db"
	"github.com/bazely/bazely-backend/internal/middleware"
	"github.com/bazely/bazely-backend/internal/router"
	"github.com/bazely/bazely-backend/pkg/announce"
)

const jwtSecret = "integration-test-secret"

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	// Unconfigured announcer: every announcement is skipped and must not
	// interfere with the requests that trigger it.
	announcer := announce.NewClient(announce.Config{})

	authService := service.NewAuthService(userRepo, jwtSecret, time.Hour, 24*time.Hour)
	storeService := service.NewStoreService(storeRepo, userRepo, reviewRepo, announcer)
	productService := service.NewProductService(productRepo, storeRepo, announcer)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"*"}

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewStoreController(storeService),
		controller.NewProductController(productService),
		controller.NewReviewController(reviewService),
		nil,
		middleware.NewAuthMiddleware(jwtSecret),
		cfg,
	)

	return &TestServer{Router: r.Setup(), DB: testDB}
}

func (s *TestServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestServer) register(t *testing.T, username string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Tokens.AccessToken)
	return resp.Tokens.AccessToken
}

func TestMarketplaceScenario(t *testing.T) {
	s := setupIntegrationTest(t)

	vendorToken := s.register(t, "vendor")
	otherToken := s.register(t, "rival")
	customerToken := s.register(t, "customer")

	// Vendor opens a store.
	w := s.do(t, http.MethodPost, "/api/v1/stores", vendorToken, gin.H{
		"name":        "Acme",
		"description": "quality goods",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var storeResp struct {
		Store struct {
			ID uint `json:"id"`
		} `json:"store"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &storeResp))
	storeID := storeResp.Store.ID

	// Anyone can see it, no auth needed.
	w = s.do(t, http.MethodGet, "/api/v1/stores", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme")

	// Vendor lists a product.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/stores/%d/products", storeID), vendorToken, gin.H{
		"name":        "Widget",
		"description": "does widget things",
		"price":       9.99,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var productResp struct {
		Product struct {
			ID uint `json:"id"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &productResp))
	productID := productResp.Product.ID

	// A rival vendor cannot touch the store: identity present, ownership missing.
	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/stores/%d", storeID), otherToken, gin.H{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Without any identity the same request is a 401, not a 403.
	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/stores/%d", storeID), "", gin.H{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Customer reviews the product.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/reviews", productID), customerToken, gin.H{
		"rating":  5,
		"comment": "excellent",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A second review by the same customer conflicts.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/reviews", productID), customerToken, gin.H{
		"rating":  1,
		"comment": "changed my mind",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The product's reviews are public.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/reviews", productID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "excellent")

	// The store-wide aggregate is for the vendor only.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/stores/%d/reviews", storeID), customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/stores/%d/reviews", storeID), vendorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "excellent")

	// Deleting the store takes the product and its reviews with it.
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/stores/%d", storeID), vendorToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", productID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationReportsEveryField(t *testing.T) {
	s := setupIntegrationTest(t)
	token := s.register(t, "vendor")

	w := s.do(t, http.MethodPost, "/api/v1/stores", token, gin.H{
		"name":        "ab",
		"description": "  ",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_INVALID_INPUT", resp.Error)
	assert.Contains(t, resp.Fields, "name")
	assert.Contains(t, resp.Fields, "description")
}

func TestVendorStoresEndpoint(t *testing.T) {
	s := setupIntegrationTest(t)
	token := s.register(t, "vendor")

	w := s.do(t, http.MethodPost, "/api/v1/stores", token, gin.H{
		"name":        "Acme",
		"description": "quality goods",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var storeResp struct {
		Store struct {
			UserID uint `json:"user_id"`
		} `json:"store"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &storeResp))

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/vendors/%d/stores", storeResp.Store.UserID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme")

	w = s.do(t, http.MethodGet, "/api/v1/vendors/9999/stores", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
