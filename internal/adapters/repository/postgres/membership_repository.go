package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/jackisa-office/internal/core/membership"
	pgdb "github.com/ogurasousui/jackisa-office/internal/platform/db/postgres"
)

const membershipSelect = `
        SELECT m.id, m.company_id, m.user_id, m.role, m.status, m.joined_at, m.created_at, m.updated_at,
               p.email, p.display_name
          FROM company_members m
          LEFT JOIN profiles p ON p.user_id = m.user_id`

// MembershipRepository は PostgreSQL を利用した所属永続化の実装です。
type MembershipRepository struct {
	pool pgdb.Queryer
}

// NewMembershipRepository は MembershipRepository を生成します。
func NewMembershipRepository(pool pgdb.Queryer) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// Create は所属を新規作成します。
func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO company_members (company_id, user_id, role, status, joined_at, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, company_id, user_id, role, status, joined_at, created_at, updated_at
        )
        SELECT i.id, i.company_id, i.user_id, i.role, i.status, i.joined_at, i.created_at, i.updated_at,
               p.email, p.display_name
          FROM inserted i
          LEFT JOIN profiles p ON p.user_id = i.user_id
    `, m.CompanyID, m.UserID, string(m.Role), string(m.Status), m.JoinedAt, m.CreatedAt, m.UpdatedAt)

	created, err := scanMembership(row)
	if err != nil {
		return nil, translateMembershipPgError(err)
	}
	return created, nil
}

// Update は権限、状態、参加日時を更新します。
func (r *MembershipRepository) Update(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH updated AS (
            UPDATE company_members
               SET role = $1,
                   status = $2,
                   joined_at = $3,
                   updated_at = $4
             WHERE id = $5
            RETURNING id, company_id, user_id, role, status, joined_at, created_at, updated_at
        )
        SELECT u.id, u.company_id, u.user_id, u.role, u.status, u.joined_at, u.created_at, u.updated_at,
               p.email, p.display_name
          FROM updated u
          LEFT JOIN profiles p ON p.user_id = u.user_id
    `, string(m.Role), string(m.Status), m.JoinedAt, m.UpdatedAt, m.ID)

	updated, err := scanMembership(row)
	if err != nil {
		return nil, translateMembershipPgError(err)
	}
	return updated, nil
}

// FindByID は ID で所属を取得します。
func (r *MembershipRepository) FindByID(ctx context.Context, id string) (*membership.Membership, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanMembership(exec.QueryRow(ctx, membershipSelect+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, translateMembershipPgError(err)
	}
	return found, nil
}

// FindByCompanyAndUser は会社と利用者の組で所属を取得します。
func (r *MembershipRepository) FindByCompanyAndUser(ctx context.Context, companyID, userID string) (*membership.Membership, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanMembership(exec.QueryRow(ctx, membershipSelect+` WHERE m.company_id = $1 AND m.user_id = $2`, companyID, userID))
	if err != nil {
		return nil, translateMembershipPgError(err)
	}
	return found, nil
}

// CountActiveOwners は会社の active な owner の数を返します。
func (r *MembershipRepository) CountActiveOwners(ctx context.Context, companyID string) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var count int
	if err := exec.QueryRow(ctx, `
        SELECT COUNT(*) FROM company_members
         WHERE company_id = $1 AND role = $2 AND status = $3
    `, companyID, string(membership.RoleOwner), string(membership.StatusActive)).Scan(&count); err != nil {
		return 0, translateMembershipPgError(err)
	}
	return count, nil
}

// List は会社の所属を参加日時の降順で取得します。招待中の所属は招待日時で並びます。
func (r *MembershipRepository) List(ctx context.Context, filter membership.ListMembershipsFilter) ([]*membership.Membership, string, error) {
	if filter.CompanyID == "" {
		return nil, "", membership.ErrInvalidCompanyID
	}
	if err := validatePage(filter.Page); err != nil {
		return nil, "", err
	}

	var args queryArgs
	conditions := []string{"m.company_id = " + args.add(filter.CompanyID)}
	if filter.Status != nil {
		conditions = append(conditions, "m.status = "+args.add(string(*filter.Status)))
	}
	limit := args.add(filter.Page.Limit + 1)
	offset := args.add(filter.Page.Offset)

	query := membershipSelect + whereClause(conditions) +
		` ORDER BY COALESCE(m.joined_at, m.created_at) DESC, m.id DESC LIMIT ` + limit + ` OFFSET ` + offset

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args.values...)
	if err != nil {
		return nil, "", translateMembershipPgError(err)
	}
	defer rows.Close()

	memberships := make([]*membership.Membership, 0, filter.Page.Limit+1)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, "", translateMembershipPgError(err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateMembershipPgError(err)
	}

	memberships, next := trimPage(memberships, filter.Page)
	return memberships, next, nil
}

func scanMembership(row pgx.Row) (*membership.Membership, error) {
	var (
		m           membership.Membership
		role        string
		status      string
		joinedAt    sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
		email       sql.NullString
		displayName sql.NullString
	)

	if err := row.Scan(&m.ID, &m.CompanyID, &m.UserID, &role, &status, &joinedAt, &createdAt, &updatedAt, &email, &displayName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, membership.ErrMembershipNotFound
		}
		return nil, err
	}

	m.Role = membership.Role(role)
	m.Status = membership.Status(status)
	m.CreatedAt = createdAt.UTC()
	m.UpdatedAt = updatedAt.UTC()
	if joinedAt.Valid {
		joined := joinedAt.Time.UTC()
		m.JoinedAt = &joined
	}
	if email.Valid {
		m.Profile = &membership.ProfileSnapshot{
			UserID:      m.UserID,
			Email:       email.String,
			DisplayName: displayName.String,
		}
	}
	return &m, nil
}

func translateMembershipPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return membership.ErrMembershipNotFound
	}

	pgErr, ok := asPgError(err)
	if !ok {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return membership.ErrAlreadyMember
	case foreignKeyViolationCode:
		return membership.ErrCompanyNotFound
	case checkViolationCode:
		switch pgErr.ConstraintName {
		case "company_members_role_check":
			return membership.ErrInvalidRole
		case "company_members_status_check":
			return membership.ErrInvalidStatus
		}
	}
	return err
}
