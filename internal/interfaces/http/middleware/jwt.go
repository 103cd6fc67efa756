package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTStoreIDKey = "jwt_store_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Service   *auth.JWTService
	SkipPaths []string
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(service *auth.JWTService) JWTConfig {
	return JWTConfig{
		Service: service,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
		},
	}
}

// JWTAuth creates JWT authentication middleware
func JWTAuth(service *auth.JWTService) gin.HandlerFunc {
	return JWTAuthWithConfig(DefaultJWTConfig(service))
}

// JWTAuthWithConfig creates JWT authentication middleware with custom config
func JWTAuthWithConfig(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)

		claims, err := cfg.Service.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTStoreIDKey, claims.StoreID)
		c.Next()
	}
}

// GetJWTUserID returns the authenticated user ID, empty when unauthenticated
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTStoreID returns the store bound to the token, empty when unbound
func GetJWTStoreID(c *gin.Context) string {
	return c.GetString(JWTStoreIDKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestID))
}
