package middleware

import (
	"errors"
	"net/http"
	"strings"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/models"
	"jobh_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenParser - проверка access-токена identity-сервиса
type TokenParser interface {
	ParseToken(token string) (auth.Principal, error)
}

// AuthMiddleware кладет auth.Principal в gin и в context запроса.
// allowQueryToken разрешает ?token= для websocket, где браузер не шлет заголовки.
func AuthMiddleware(tokens TokenParser, allowQueryToken bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" && allowQueryToken {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		p, err := tokens.ParseToken(tokenStr)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token expired"
			}
			apperrors.HandleError(c, apperrors.New(apperrors.CodeInvalidToken, "auth", msg, http.StatusUnauthorized))
			return
		}

		c.Set(principalKey, p)
		ctx := auth.WithPrincipal(c.Request.Context(), p)
		ctx = logger.WithUserID(ctx, p.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireRoles пропускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}
		if !roleSet[p.Role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// RequireModerator - ADMIN или SUPER_ADMIN
func RequireModerator() gin.HandlerFunc {
	return RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin)
}

func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	p, _ := GetPrincipal(c)
	return p.ID
}
