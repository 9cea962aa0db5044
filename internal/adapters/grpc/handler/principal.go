package handler

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
)

func currentPrincipal(ctx context.Context, idp tenancy.IdentityProvider) (*tenancy.Principal, error) {
	return tenancy.RequirePrincipal(ctx, idp)
}
