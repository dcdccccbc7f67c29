package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fotomuro/api/internal/apperr"
)

type stubVerifier struct {
	email string
	err   error
	seen  string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (string, error) {
	s.seen = token
	return s.email, s.err
}

func moderatorRouter(verifier AccessVerifier, handled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", Moderator(verifier), func(c *gin.Context) {
		*handled = true
		c.String(http.StatusOK, c.GetString(ModeratorKey))
	})
	return r
}

func TestModeratorPassesVerifiedCaller(t *testing.T) {
	verifier := &stubVerifier{email: "mod@example.com"}
	var handled bool
	r := moderatorRouter(verifier, &handled)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handled)
	assert.Equal(t, "mod@example.com", w.Body.String())
	assert.Equal(t, "tok123", verifier.seen)
}

func TestModeratorBlocksUnauthorizedCaller(t *testing.T) {
	verifier := &stubVerifier{err: apperr.New(apperr.Unauthorized, "not a moderator")}
	var handled bool
	r := moderatorRouter(verifier, &handled)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handled, "handler must not run for rejected callers")
	assert.Contains(t, w.Body.String(), "not a moderator")
}

func TestModeratorDependencyFailureIsNot401(t *testing.T) {
	verifier := &stubVerifier{err: apperr.Wrap(apperr.Dependency, "moderator lookup", errors.New("db down"))}
	var handled bool
	r := moderatorRouter(verifier, &handled)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, handled)
}

func TestTokenFromRequestPrefersBearerHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer from-header")
	c.Request.AddCookie(&http.Cookie{Name: "session", Value: "from-cookie"})
	assert.Equal(t, "from-header", TokenFromRequest(c))

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "session", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(c))

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TokenFromRequest(c))
}
