package tenancy

import "context"

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

// IdentityProvider は現在の利用者を提供します。利用者がいない場合は ErrNoPrincipal を返します。
type IdentityProvider interface {
	CurrentPrincipal(ctx context.Context) (*Principal, error)
}

// Store はテナント解決に必要な読み取りを提供します。
type Store interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetPreferredCompany(ctx context.Context, userID string) (string, error)
	ListMemberships(ctx context.Context, userID string, statuses []MembershipStatus) ([]Membership, error)
}

// Repository は Store に会社の選択の書き込みを加えたものです。
type Repository interface {
	Store
	SetPreferredCompany(ctx context.Context, userID, companyID string) error
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}
