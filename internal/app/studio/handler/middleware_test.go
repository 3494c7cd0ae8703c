package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/repository"
	"studioai/internal/app/studio/util"
)

// setupProtectedRouter строит маршрут, который отвечает личностью
// текущего запроса, если middleware его пропустил
func setupProtectedRouter(mw gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{mw}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": identity.Email, "role": string(identity.Role)})
	})
	router.GET("/protected", handlers...)
	return router
}

func performWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ==================== Authenticate Tests ====================

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	// Arrange
	f := newAuthHandlerFixture()
	user := newActiveUser()

	accessToken, err := f.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	router := setupProtectedRouter(f.middleware.Authenticate())

	// Act
	w := performWithToken(router, accessToken)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.Email)
}

func TestAuthMiddleware_Authenticate_MissingToken(t *testing.T) {
	// Arrange
	f := newAuthHandlerFixture()
	router := setupProtectedRouter(f.middleware.Authenticate())

	// Act
	w := performWithToken(router, "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Authenticate_MalformedHeader(t *testing.T) {
	// Arrange
	f := newAuthHandlerFixture()
	router := setupProtectedRouter(f.middleware.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Невалидная подпись, истёкший токен и деактивированный аккаунт
// дают одинаковый generic 401
func TestAuthMiddleware_Authenticate_Uniform401(t *testing.T) {
	f := newAuthHandlerFixture()
	user := newActiveUser()

	t.Run("garbage token", func(t *testing.T) {
		router := setupProtectedRouter(f.middleware.Authenticate())
		w := performWithToken(router, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-48 * time.Hour)
		expiredManager := util.NewJWTManagerWithClock("test-secret-key", 15*time.Minute, 7*24*time.Hour,
			func() time.Time { return past })
		expiredToken, err := expiredManager.GenerateAccessToken(user.ID, user.Email, user.Role)
		require.NoError(t, err)

		router := setupProtectedRouter(f.middleware.Authenticate())
		w := performWithToken(router, expiredToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated account", func(t *testing.T) {
		fx := newAuthHandlerFixture()
		deactivated := newActiveUser()
		deactivated.IsActive = false

		token, err := fx.jwtManager.GenerateAccessToken(deactivated.ID, deactivated.Email, deactivated.Role)
		require.NoError(t, err)
		fx.userRepo.On("GetByID", mock.Anything, deactivated.ID).Return(deactivated, nil)

		router := setupProtectedRouter(fx.middleware.Authenticate())
		w := performWithToken(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		fx := newAuthHandlerFixture()
		token, err := fx.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
		require.NoError(t, err)
		fx.userRepo.On("GetByID", mock.Anything, user.ID).Return(nil, repository.ErrNotFound)

		router := setupProtectedRouter(fx.middleware.Authenticate())
		w := performWithToken(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// Блокировка - единственный случай, отличимый от generic 401
func TestAuthMiddleware_Authenticate_Banned403(t *testing.T) {
	// Arrange
	f := newAuthHandlerFixture()
	user := newActiveUser()
	user.IsBanned = true

	accessToken, err := f.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	router := setupProtectedRouter(f.middleware.Authenticate())

	// Act
	w := performWithToken(router, accessToken)

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ==================== AuthenticateOptional Tests ====================

func TestAuthMiddleware_AuthenticateOptional_NoToken(t *testing.T) {
	// Arrange
	f := newAuthHandlerFixture()
	router := setupProtectedRouter(f.middleware.AuthenticateOptional())

	// Act
	w := performWithToken(router, "")

	// Assert: запрос проходит без личности
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestAuthMiddleware_AuthenticateOptional_BadTokenIgnored(t *testing.T) {
	// Arrange
	f := newAuthHandlerFixture()
	router := setupProtectedRouter(f.middleware.AuthenticateOptional())

	// Act
	w := performWithToken(router, "garbage")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

// ==================== RequireRole / RequirePermission Tests ====================

func TestAuthMiddleware_RequireRole(t *testing.T) {
	// Arrange
	f := newAuthHandlerFixture()
	user := newActiveUser() // роль USER

	accessToken, err := f.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	router := setupProtectedRouter(f.middleware.Authenticate(),
		f.middleware.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin))

	// Act
	w := performWithToken(router, accessToken)

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	f := newAuthHandlerFixture()
	user := newActiveUser()
	user.Role = auth.RoleAdmin

	accessToken, err := f.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	t.Run("granted", func(t *testing.T) {
		router := setupProtectedRouter(f.middleware.Authenticate(),
			f.middleware.RequirePermission(auth.PermListUsers))
		w := performWithToken(router, accessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denied", func(t *testing.T) {
		// ADMIN не управляет ролями
		router := setupProtectedRouter(f.middleware.Authenticate(),
			f.middleware.RequirePermission(auth.PermManageRoles))
		w := performWithToken(router, accessToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthMiddleware_RequirePermission_WithoutAuthenticate(t *testing.T) {
	// Arrange: проверка разрешений без личности в контексте
	f := newAuthHandlerFixture()
	router := setupProtectedRouter(f.middleware.RequirePermission(auth.PermViewPhotos))

	// Act
	w := performWithToken(router, "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
