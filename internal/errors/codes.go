package errors

// Error code constants, CATEGORY_SPECIFIC_DETAIL.
// Clients map these codes to their own messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong username/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthEmailExists        = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN" // identity present, ownership missing
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Stores (STORE_) ====================
	StoreNotFound = "STORE_NOT_FOUND"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // one review per reviewer per product

	// ==================== Vendors (VENDOR_) ====================
	VendorNotFound = "VENDOR_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
