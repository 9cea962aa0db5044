package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	pgdb "github.com/ogurasousui/jackisa-office/internal/platform/db/postgres"
)

// SessionStore はテナント解決に必要な読み取りと会社の選択の保存を提供します。
// 読み取りは並行に呼ばれるため、トランザクション外ではプールから直接実行します。
type SessionStore struct {
	pool pgdb.Queryer
}

// NewSessionStore は SessionStore を生成します。
func NewSessionStore(pool pgdb.Queryer) *SessionStore {
	return &SessionStore{pool: pool}
}

var _ tenancy.Repository = (*SessionStore)(nil)

// GetProfile は表示名を取得します。
func (s *SessionStore) GetProfile(ctx context.Context, userID string) (*tenancy.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, s.pool)

	p := tenancy.Profile{UserID: userID}
	if err := exec.QueryRow(ctx, `SELECT display_name FROM profiles WHERE user_id = $1`, userID).Scan(&p.DisplayName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetPreferredCompany は保存された会社の選択を取得します。
func (s *SessionStore) GetPreferredCompany(ctx context.Context, userID string) (string, error) {
	exec := pgdb.QueryerFromContext(ctx, s.pool)

	var companyID string
	if err := exec.QueryRow(ctx, `SELECT company_id FROM user_active_company WHERE user_id = $1`, userID).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", tenancy.ErrPreferenceNotFound
		}
		return "", err
	}
	return companyID, nil
}

// ListMemberships は指定した状態の所属を返します。招待中の所属は招待日時を参加日時として扱います。
func (s *SessionStore) ListMemberships(ctx context.Context, userID string, statuses []tenancy.MembershipStatus) ([]tenancy.Membership, error) {
	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}

	exec := pgdb.QueryerFromContext(ctx, s.pool)
	rows, err := exec.Query(ctx, `
        SELECT company_id, status, COALESCE(joined_at, created_at)
          FROM company_members
         WHERE user_id = $1 AND status = ANY($2)
         ORDER BY (status = 'active') DESC, COALESCE(joined_at, created_at) DESC, company_id ASC
    `, userID, values)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []tenancy.Membership
	for rows.Next() {
		var (
			m        tenancy.Membership
			status   string
			joinedAt time.Time
		)
		if err := rows.Scan(&m.CompanyID, &status, &joinedAt); err != nil {
			return nil, err
		}
		m.Status = tenancy.MembershipStatus(status)
		m.JoinedAt = joinedAt.UTC()
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}

// SetPreferredCompany は会社の選択を保存します。
func (s *SessionStore) SetPreferredCompany(ctx context.Context, userID, companyID string) error {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO user_active_company (user_id, company_id, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE
           SET company_id = EXCLUDED.company_id,
               updated_at = EXCLUDED.updated_at
    `, userID, companyID)
	return err
}
