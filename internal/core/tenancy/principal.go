package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RequirePrincipal は IdentityProvider から認証済みの利用者を取得します。
// 利用者がいない場合は ErrUnauthenticated、IdentityProvider 自体の失敗は ErrStoreUnavailable を返します。
func RequirePrincipal(ctx context.Context, idp IdentityProvider) (*Principal, error) {
	principal, err := idp.CurrentPrincipal(ctx)
	if err != nil {
		if errors.Is(err, ErrNoPrincipal) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("identity provider: %w: %w", ErrStoreUnavailable, err)
	}
	if principal == nil || strings.TrimSpace(principal.ID) == "" {
		return nil, ErrUnauthenticated
	}
	return principal, nil
}
