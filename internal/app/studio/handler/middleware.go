package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/service"
)

const identityKey = "identity"

// Identity - проверенная личность текущего запроса.
// Роль берётся из живой записи пользователя, а не из токена.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  auth.Role
}

type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate - обязательная аутентификация. Любой дефект
// учётных данных (нет токена, невалиден, истёк, пользователь
// деактивирован) даёт единый generic 401; блокировка - 403.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}

		user, err := m.authService.AuthenticateRequest(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrAccountBanned) {
				respondError(c, http.StatusForbidden, "Forbidden", "Account is banned")
				return
			}
			// Не различаем причину для клиента: невалидная подпись,
			// истёкший срок и деактивированный аккаунт выглядят одинаково
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}

		c.Set(identityKey, Identity{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		})

		c.Next()
	}
}

// AuthenticateOptional проводит ту же проверку, но при любом сбое
// молча продолжает запрос без личности
func (m *AuthMiddleware) AuthenticateOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.authService.AuthenticateRequest(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, Identity{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		})

		c.Next()
	}
}

// RequireRole пропускает только перечисленные роли
func (m *AuthMiddleware) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}

		if !auth.HasRole(identity.Role, roles...) {
			respondError(c, http.StatusForbidden, "Forbidden", "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// RequirePermission проверяет разрешение через статическую таблицу
func (m *AuthMiddleware) RequirePermission(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}

		if !auth.HasPermission(identity.Role, permission) {
			respondError(c, http.StatusForbidden, "Forbidden", "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// RequireAnyPermission пропускает при наличии хотя бы одного разрешения
func (m *AuthMiddleware) RequireAnyPermission(permissions ...auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}

		if !auth.HasAnyPermission(identity.Role, permissions...) {
			respondError(c, http.StatusForbidden, "Forbidden", "Insufficient permissions")
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

func currentIdentity(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}

	identity, ok := value.(Identity)
	return identity, ok
}
