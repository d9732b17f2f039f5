package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/internal/errors"
	"github.com/bazely/bazely-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Email string `json:"email" binding:"required"`
}

// Register creates a new account and returns a token pair
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login authenticates a user and returns a token pair
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the authenticated user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout revokes the presented access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, ok := middleware.GetToken(c)
	if !ok {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
