package auth

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ID   string
	Kind models.Kind
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
