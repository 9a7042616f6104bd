package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testService() *Service {
	return &Service{
		jwtSecret:   []byte("test-secret"),
		tokenExpiry: time.Hour,
		logger:      zap.NewNop(),
	}
}

func signToken(t *testing.T, secret []byte, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func supplierClaims(expiresAt time.Time) *Claims {
	supplierID := uuid.New()
	return &Claims{
		UserID:     uuid.New(),
		Role:       RoleSupplier,
		SupplierID: &supplierID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	service := testService()
	issued := supplierClaims(time.Now().Add(time.Hour))

	token := signToken(t, service.jwtSecret, issued)
	parsed, err := service.ParseToken(token)

	require.NoError(t, err)
	assert.Equal(t, issued.UserID, parsed.UserID)
	assert.Equal(t, RoleSupplier, parsed.Role)
	require.NotNil(t, parsed.SupplierID)
	assert.Equal(t, *issued.SupplierID, *parsed.SupplierID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	service := testService()
	token := signToken(t, []byte("some-other-secret"), supplierClaims(time.Now().Add(time.Hour)))

	_, err := service.ParseToken(token)

	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	service := testService()
	token := signToken(t, service.jwtSecret, supplierClaims(time.Now().Add(-time.Minute)))

	_, err := service.ParseToken(token)

	assert.Error(t, err)
}

func TestRequireAuthStoresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := testService()
	issued := supplierClaims(time.Now().Add(time.Hour))
	token := signToken(t, service.jwtSecret, issued)

	router := gin.New()
	router.GET("/probe", RequireAuth(service), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		require.NotNil(t, claims)
		assert.Equal(t, issued.UserID, claims.UserID)
		assert.Equal(t, issued.UserID, UserIDFromContext(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/probe", RequireAuth(testService()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/probe", RequireAuth(testService()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := testService()
	token := signToken(t, service.jwtSecret, supplierClaims(time.Now().Add(time.Hour)))

	router := gin.New()
	router.GET("/staff-only", RequireAuth(service), RequireRole(RoleAdmin, RoleOwner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := testService()
	claims := &Claims{
		UserID: uuid.New(),
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := signToken(t, service.jwtSecret, claims)

	router := gin.New()
	router.GET("/staff-only", RequireAuth(service), RequireRole(RoleAdmin, RoleOwner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
