package middleware

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

type principalKey struct{}

// WithPrincipal кладет пользователя в контекст
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext пользователь запроса, установленный Auth
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}
