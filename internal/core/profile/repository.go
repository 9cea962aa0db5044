package profile

import "context"

// Repository はプロフィールの永続化を行うインターフェースです。
type Repository interface {
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
}
