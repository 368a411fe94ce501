package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/identity"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/testutil"
)

const testSecret = "middleware-secret"

func newRouter(verifier identity.Verifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(verifier)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": GetUserID(c), "email": GetClaims(c).Email})
	})
	r.GET("/private", handlers...)
	return r
}

func issue(t *testing.T, subject string) string {
	t.Helper()
	token, err := identity.NewHMACVerifier([]byte(testSecret), "").Issue(identity.Claims{
		Subject: subject,
		Email:   subject + "@example.com",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	verifier := identity.NewHMACVerifier([]byte(testSecret), "")
	r := newRouter(verifier)

	t.Run("missing header", func(t *testing.T) {
		w := get(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("bad signature", func(t *testing.T) {
		forged, err := identity.NewHMACVerifier([]byte("other"), "").Issue(identity.Claims{Subject: "u1"}, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, forged).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := get(r, issue(t, "u1"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"userID":"u1","email":"u1@example.com"}`, w.Body.String())
	})

	t.Run("nil verifier fails closed", func(t *testing.T) {
		w := get(newRouter(nil), issue(t, "u1"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", OptionalAuth(identity.NewHMACVerifier([]byte(testSecret), "")), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	w := get(r, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = get(r, issue(t, "u2"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
}

func TestRequireRoles(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateAccount(t, db, "admin1", models.RoleAdmin)
	testutil.CreateAccount(t, db, "pro1", models.RoleProfessional)

	verifier := identity.NewHMACVerifier([]byte(testSecret), "")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(DBMiddleware(db))
	r.GET("/private", Auth(verifier), RequireRoles(repositories.NewRoleRepository(), models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, get(r, issue(t, "admin1")).Code)
	assert.Equal(t, http.StatusForbidden, get(r, issue(t, "pro1")).Code)
	assert.Equal(t, http.StatusForbidden, get(r, issue(t, "ghost")).Code)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", RateLimit(nil, 1, time.Minute, KeyByIPAndPath()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, get(r, "").Code)
	}
}
