package auth

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
)

type principalContextKey struct{}

// WithPrincipal は利用者をコンテキストに格納します。
func WithPrincipal(ctx context.Context, p *tenancy.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext はコンテキストに格納された利用者を返します。
func PrincipalFromContext(ctx context.Context) (*tenancy.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*tenancy.Principal)
	return p, ok && p != nil
}

// ContextIdentityProvider はインターセプタが格納した利用者を返す IdentityProvider です。
type ContextIdentityProvider struct{}

var _ tenancy.IdentityProvider = ContextIdentityProvider{}

// CurrentPrincipal は現在の利用者を返します。
func (ContextIdentityProvider) CurrentPrincipal(ctx context.Context) (*tenancy.Principal, error) {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p, nil
	}
	return nil, tenancy.ErrNoPrincipal
}
