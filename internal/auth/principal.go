package auth

import (
	"context"

	"jobh_backend/internal/models"
	"jobh_backend/pkg/contextkeys"
)

// Principal - текущий пользователь, как его увидел identity-слой.
// Ядро доверяет этим данным и не перепроверяет токен.
type Principal struct {
	ID   string          `json:"id"`
	Role models.UserRole `json:"role"`
}

func (p Principal) IsModerator() bool {
	return p.Role.IsModerator()
}

func (p Principal) Authenticated() bool {
	return p.ID != "" && p.Role.Valid()
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextkeys.PrincipalContextKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextkeys.PrincipalContextKey).(Principal)
	return p, ok
}
