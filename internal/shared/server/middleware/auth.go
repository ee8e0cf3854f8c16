package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	isAdminKey   = "isAdmin"
	authTokenKey = "authToken"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// TokenVerifier resolves a bearer token to a live identity. Implementations
// check the signature, the session row and the user record.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// DefaultPublicPaths skip authentication. Entries ending in "/" match by prefix.
var DefaultPublicPaths = []string{
	"/api/v1/health",
	"/api/v1/auth/signup",
	"/api/v1/auth/login",
	"/api/v1/auth/google/",
	"/api/v1/payments/webhook",
	"/metrics",
}

// Auth requires a valid bearer token on every non-public path and stores
// the resolved identity in the gin context.
func Auth(verifier TokenVerifier, publicPaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		if isPublicPath(c.Request.URL.Path, publicPaths) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || verifier == nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil || id.UserID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, id.UserID)
		if id.Email != "" {
			c.Set(userEmailKey, id.Email)
		}
		c.Set(isAdminKey, id.IsAdmin)
		c.Set(authTokenKey, token)
		c.Next()
	}
}

// RequireAdmin rejects callers whose identity is not flagged as admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdminFromContext(c) {
			respond.Error(c, http.StatusForbidden, "forbidden", "Admin access required", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	return token, token != ""
}

func isPublicPath(path string, public []string) bool {
	for _, p := range public {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// TokenFromContext returns the raw bearer token of an authenticated request.
func TokenFromContext(c *gin.Context) string {
	return stringFromContext(c, authTokenKey)
}

func IsAdminFromContext(c *gin.Context) bool {
	if c == nil {
		return false
	}
	val, _ := c.Get(isAdminKey)
	admin, _ := val.(bool)
	return admin
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
