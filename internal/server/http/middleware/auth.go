package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	pkgAuth "github.com/PhamQuy48/storefront/internal/pkg/auth"
)

const (
	// IdentityContextKey is a gin context key for the authenticated caller.
	IdentityContextKey = "identity"
	// AuthCookieName is the cookie consulted when no bearer header is sent.
	AuthCookieName  = "storefront_token"
	queryTokenParam = "token"
)

// TokenParser resolves an identity from a raw token.
type TokenParser interface {
	ParseToken(token string) (model.Identity, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return authenticate(parser, false)
}

// StreamAuthRequired is AuthRequired that also accepts the token from the
// query string, since browser event sources cannot set headers.
func StreamAuthRequired(parser TokenParser) gin.HandlerFunc {
	return authenticate(parser, true)
}

func authenticate(parser TokenParser, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, allowQuery)
		if token == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		identity, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abort(c, http.StatusUnauthorized, "invalid auth token")
				return
			}
			abort(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

func abort(c *gin.Context, status int, reason string) {
	c.AbortWithStatusJSON(status, gin.H{"error": reason})
}

func extractToken(c *gin.Context, allowQuery bool) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	if allowQuery {
		return strings.TrimSpace(c.Query(queryTokenParam))
	}
	return ""
}
