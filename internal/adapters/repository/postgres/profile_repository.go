package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/jackisa-office/internal/core/profile"
	pgdb "github.com/ogurasousui/jackisa-office/internal/platform/db/postgres"
)

const profileColumns = `user_id, email, display_name, created_at, updated_at`

// ProfileRepository は PostgreSQL を利用したプロフィール永続化の実装です。
type ProfileRepository struct {
	pool pgdb.Queryer
}

// NewProfileRepository は ProfileRepository を生成します。
func NewProfileRepository(pool pgdb.Queryer) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Upsert はプロフィールを作成し、既存の場合はメールアドレスと表示名を更新します。
func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO profiles (user_id, email, display_name, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE
           SET email = EXCLUDED.email,
               display_name = EXCLUDED.display_name,
               updated_at = EXCLUDED.updated_at
        RETURNING `+profileColumns,
		p.UserID, p.Email, p.DisplayName, p.CreatedAt, p.UpdatedAt)

	saved, err := scanProfile(row)
	if err != nil {
		return nil, translateProfilePgError(err)
	}
	return saved, nil
}

// FindByUserID は利用者 ID でプロフィールを取得します。
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanProfile(exec.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, translateProfilePgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスでプロフィールを取得します。
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanProfile(exec.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
	if err != nil {
		return nil, translateProfilePgError(err)
	}
	return found, nil
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var (
		p         profile.Profile
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&p.UserID, &p.Email, &p.DisplayName, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, err
	}

	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}

func translateProfilePgError(err error) error {
	if pgErr, ok := asPgError(err); ok && pgErr.Code == uniqueViolationCode {
		return profile.ErrEmailAlreadyExists
	}
	return err
}
