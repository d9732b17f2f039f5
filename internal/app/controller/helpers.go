package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/internal/errors"
	"github.com/bazely/bazely-backend/internal/middleware"
)

// parseIDParam reads a numeric path parameter. On failure it writes the 400
// response itself and returns false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError translates service sentinels into HTTP responses.
// Unknown errors become an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	switch {
	case stderrors.As(err, &verr):
		errors.RespondWithValidationError(c, verr.Fields)
	case stderrors.Is(err, service.ErrAuthRequired):
		errors.Unauthorized(c, "Authentication required")
	case stderrors.Is(err, service.ErrAccessDenied):
		errors.RespondWithError(c, http.StatusForbidden, errors.AuthzOwnerOnly, "Only the owner may do this")
	case stderrors.Is(err, service.ErrStoreNotFound):
		errors.NotFound(c, errors.StoreNotFound, "Store not found")
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Product not found")
	case stderrors.Is(err, service.ErrVendorNotFound):
		errors.NotFound(c, errors.VendorNotFound, "Vendor not found")
	case stderrors.Is(err, service.ErrUserNotFound):
		errors.NotFound(c, errors.ResourceNotFound, "User not found")
	case stderrors.Is(err, service.ErrReviewAlreadyExists):
		errors.Conflict(c, errors.ReviewAlreadyExists, "You have already reviewed this product")
	case stderrors.Is(err, service.ErrUsernameAlreadyExists):
		errors.Conflict(c, errors.AuthUsernameExists, "Username is already taken")
	case stderrors.Is(err, service.ErrEmailAlreadyExists):
		errors.Conflict(c, errors.AuthEmailExists, "Email is already registered")
	case stderrors.Is(err, service.ErrInvalidCredentials):
		errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Invalid username or password")
	default:
		log.Error("Unhandled service error", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		info := errors.ParseError(err, "")
		errors.RespondWithError(c, statusForCode(info.Code), info.Code, info.Message)
	}
}

// statusForCode picks the HTTP status for codes coming out of ParseError.
func statusForCode(code string) int {
	switch code {
	case errors.StoreNotFound, errors.ProductNotFound, errors.ReviewNotFound,
		errors.VendorNotFound, errors.ResourceNotFound:
		return http.StatusNotFound
	case errors.ReviewAlreadyExists, errors.AuthUsernameExists,
		errors.AuthEmailExists, errors.ResourceAlreadyExists:
		return http.StatusConflict
	case errors.ValidationInvalidInput:
		return http.StatusBadRequest
	case errors.InternalExternalAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
