package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/averarp/community-backend/internal/service"
)

func newAuthTestRouter(tokens *service.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/admin", AuthMiddleware(tokens), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func issueToken(t *testing.T, tokens *service.TokenManager, admin bool) string {
	t.Helper()
	raw, _, err := tokens.Issue(service.Session{
		UserID: "111111111111111111",
		Name:   "Jens",
		Admin:  admin,
	})
	assert.NoError(t, err)
	return raw
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokens := service.NewTokenManager("test-secret-0123456789-0123456789", time.Hour)
	r := newAuthTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokens := service.NewTokenManager("test-secret-0123456789-0123456789", time.Hour)
	r := newAuthTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decodeEnvelope(t, w)["success"])
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenManager("test-secret-0123456789-0123456789", time.Hour)
	r := newAuthTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	tokens := service.NewTokenManager("test-secret-0123456789-0123456789", time.Hour)
	r := newAuthTestRouter(tokens)

	// Валидный токен без админской роли: 403 в конверте ошибки.
	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "недостаточно прав", body["error"])
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	tokens := service.NewTokenManager("test-secret-0123456789-0123456789", time.Hour)
	r := newAuthTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, true))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
