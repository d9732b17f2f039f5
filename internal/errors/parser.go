package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps persistence and transport errors to a code and a message
// that does not leak internals. context names the entity being operated on
// ("store", "product", "review", "user").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	// Postgres 23505 / SQLite "UNIQUE constraint failed"
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// Postgres 23503
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Referenced resource does not exist",
		}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A dependent service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	if strings.Contains(errStr, "idx_product_reviewer") ||
		strings.Contains(errStr, "product_id") && strings.Contains(errStr, "user_id") {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "You have already reviewed this product",
		}
	}
	if strings.Contains(errStr, "username") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "Username is already taken",
		}
	}
	if strings.Contains(errStr, "email") {
		return ErrorInfo{
			Code:    AuthEmailExists,
			Message: "Email is already registered",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Resource already exists",
	}
}

func notFoundCode(context string) string {
	switch context {
	case "store":
		return StoreNotFound
	case "product":
		return ProductNotFound
	case "review":
		return ReviewNotFound
	case "vendor", "user":
		return VendorNotFound
	default:
		return ResourceNotFound
	}
}

func notFoundMessage(context string) string {
	switch context {
	case "store":
		return "Store not found"
	case "product":
		return "Product not found"
	case "review":
		return "Review not found"
	case "vendor", "user":
		return "Vendor not found"
	default:
		return "Resource not found"
	}
}
