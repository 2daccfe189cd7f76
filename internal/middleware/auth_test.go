package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminRequest(token string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", AdminAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin_id": AdminIDFrom(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	t.Run("valid admin token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "admin-1",
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		w := adminRequest(token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"admin_id":"admin-1"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := adminRequest("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"role": "admin"})

		w := adminRequest(token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"role": "admin",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})

		w := adminRequest(token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin role", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "user-1",
			"role": "customer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		w := adminRequest(token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
