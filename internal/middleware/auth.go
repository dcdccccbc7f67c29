package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"fotomuro/api/internal/apperr"
)

// ModeratorKey is where the verified moderator email lands in the gin
// context.
const ModeratorKey = "current_moderator"

// AccessVerifier resolves a session token to a moderator identity, or
// explains why it cannot.
type AccessVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Moderator gates a route on the allow-list. Unauthorized callers get a
// 401 with the categorized reason before any handler runs.
func Moderator(checker AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := checker.Verify(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
			return
		}

		c.Set(ModeratorKey, email)
		c.Next()
	}
}

// TokenFromRequest pulls the session token from the Authorization
// header or, failing that, the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("session"); err == nil {
		return cookie
	}
	return ""
}
