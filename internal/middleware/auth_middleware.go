package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/internal/app/policy"
	"github.com/bazely/bazely-backend/internal/errors"
	"github.com/bazely/bazely-backend/pkg/redis"
	"github.com/bazely/bazely-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	TokenKey    = "token"
)

type AuthMiddleware struct {
	jwtSecret string

	// checkRevoked reports whether the token has been blacklisted. Defaults
	// to the Redis lookup; tests swap it out.
	checkRevoked func(ctx context.Context, token string) (bool, error)
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:    jwtSecret,
		checkRevoked: redisRevocationCheck,
	}
}

func redisRevocationCheck(ctx context.Context, token string) (bool, error) {
	if !redis.Enabled() {
		return false, nil
	}
	return redis.IsTokenBlacklisted(ctx, token)
}

// Authenticate validates the JWT token (required).
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := m.validateToken(c, token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			switch err {
			case util.ErrExpiredToken:
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Token has expired")
			case errTokenRevoked:
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Token has been revoked")
			default:
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

// OptionalAuthenticate validates the JWT token if present. Requests without a
// valid token continue anonymously; route handlers decide whether anonymity
// is acceptable.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := m.validateToken(c, token)
		if err != nil {
			log.Debug("Token validation failed, continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

var errTokenRevoked = stderrors.New("token has been revoked")

func (m *AuthMiddleware) validateToken(c *gin.Context, token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := m.checkRevoked(c.Request.Context(), token)
	if err != nil {
		// Fail open: a blacklist outage must not lock every user out, but
		// the degraded revocation check has to show up in logs.
		GetLoggerFromContext(c).Error("Token blacklist lookup failed", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
	} else if revoked {
		return nil, errTokenRevoked
	}
	return claims, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, claims *util.Claims, token string) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UsernameKey, claims.Username)
	c.Set(TokenKey, token)
}

// GetUserID extracts the user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetToken returns the raw bearer token the request authenticated with.
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(TokenKey)
	if !exists {
		return "", false
	}
	t, ok := token.(string)
	return t, ok
}

// ActorFromContext builds the policy actor for the current request. Anonymous
// when no identity was established.
func ActorFromContext(c *gin.Context) policy.Actor {
	id, ok := GetUserID(c)
	if !ok {
		return policy.Anonymous
	}
	return policy.Actor{ID: id, Authenticated: true}
}
