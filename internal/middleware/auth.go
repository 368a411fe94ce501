package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"proconnect_backend/internal/identity"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/pkg/apperrors"
	"proconnect_backend/pkg/contextkeys"
)

// Auth - middleware проверки bearer-токена через identity.Verifier.
// Без верификатора все запросы отклоняются.
func Auth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrMissingToken)
			return
		}
		if !authenticate(c, verifier, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth - как Auth, но запрос без заголовка проходит анонимно.
// Невалидный токен все равно отклоняется.
func OptionalAuth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if !authenticate(c, verifier, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, verifier identity.Verifier, token string) bool {
	if verifier == nil {
		logger.CtxError(c.Request.Context(), "Token verifier is not configured", "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ErrVerifierUnavailable)
		return false
	}

	claims, err := verifier.Verify(c.Request.Context(), token)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "Token verification failed", "error", err.Error())
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return false
	}

	c.Set(contextkeys.UserIDKey, claims.Subject)
	c.Set(contextkeys.ClaimsKey, claims)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.Subject))
	return true
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// RequireRoles пропускает пользователя, у которого есть хотя бы одна из ролей.
// Роли читаются из БД на каждый запрос, поэтому должен стоять после Auth и DBMiddleware.
func RequireRoles(roleRepo repositories.RoleRepository, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			apperrors.HandleError(c, apperrors.ErrMissingToken)
			return
		}

		db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(errors.New("database is not available in context")))
			return
		}

		roleSet, err := roleRepo.FindByUserID(db, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrRoleSetNotFound) {
				apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
				return
			}
			apperrors.HandleError(c, apperrors.InternalError(err))
			return
		}

		for _, role := range roles {
			if roleSet.Has(role) {
				c.Set(contextkeys.RolesKey, roleSet)
				c.Next()
				return
			}
		}

		logger.CtxWarn(c.Request.Context(), "Access denied by role", "required", roles)
		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

// GetClaims возвращает проверенные claims или nil
func GetClaims(c *gin.Context) *identity.Claims {
	v, exists := c.Get(contextkeys.ClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*identity.Claims)
	return claims
}
