package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{middleware.AuthMiddleware(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RoleMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.GetString("user_id"),
			"employee_id": c.GetString("employee_id"),
			"email":       c.GetString("email"),
			"role":        c.GetString("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid token sets identity", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     "u-1",
			"employee_id": "e-1",
			"email":       "admin@acme.test",
			"role":        "admin",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		w := doRequest(newRouter(), token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"u-1","employee_id":"e-1","email":"admin@acme.test","role":"ADMIN"}`, w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(newRouter(), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token not found")
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})

		w := doRequest(newRouter(), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-1"}).SignedString([]byte("other"))
		require.NoError(t, err)

		w := doRequest(newRouter(), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("missing user id claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"role": "ADMIN"})

		w := doRequest(newRouter(), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	t.Run("allowed role passes", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1", "role": middleware.RoleManager})

		w := doRequest(newRouter(middleware.RoleAdmin, middleware.RoleManager), token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1", "role": middleware.RoleEmployee})

		w := doRequest(newRouter(middleware.RoleAdmin), token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("no role is forbidden", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1"})

		w := doRequest(newRouter(middleware.RoleAdmin), token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
