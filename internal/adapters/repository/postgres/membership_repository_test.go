package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/jackisa-office/internal/core/membership"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

var membershipColumnNames = []string{"id", "company_id", "user_id", "role", "status", "joined_at", "created_at", "updated_at", "email", "display_name"}

func TestMembershipRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewMembershipRepository(mock)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	input := &membership.Membership{
		CompanyID: "company-1",
		UserID:    "user-1",
		Role:      membership.RoleMember,
		Status:    membership.StatusPendingInvitation,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_members")).
		WithArgs("company-1", "user-1", "member", "pending_invitation", pgxmock.AnyArg(), now, now).
		WillReturnRows(pgxmock.NewRows(membershipColumnNames).
			AddRow("member-1", "company-1", "user-1", "member", "pending_invitation", nil, now, now, "amara@example.com", "Amara"))

	created, err := repo.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "member-1" {
		t.Fatalf("unexpected id: %s", created.ID)
	}
	if created.JoinedAt != nil {
		t.Fatalf("expected pending invitation without joined_at, got %v", created.JoinedAt)
	}
	if created.Profile == nil || created.Profile.DisplayName != "Amara" {
		t.Fatalf("expected profile snapshot, got %+v", created.Profile)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMembershipRepository_Create_TranslatesErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "duplicate", err: &pgconn.PgError{Code: uniqueViolationCode}, want: membership.ErrAlreadyMember},
		{name: "unknown company", err: &pgconn.PgError{Code: foreignKeyViolationCode}, want: membership.ErrCompanyNotFound},
		{name: "role check", err: &pgconn.PgError{Code: checkViolationCode, ConstraintName: "company_members_role_check"}, want: membership.ErrInvalidRole},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock := newMockPool(t)
			repo := NewMembershipRepository(mock)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_members")).
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(tc.err)

			_, err := repo.Create(context.Background(), &membership.Membership{CompanyID: "c", UserID: "u", Role: membership.RoleMember, Status: membership.StatusActive})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMembershipRepository_FindByCompanyAndUser(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewMembershipRepository(mock)

	joined := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.company_id = $1 AND m.user_id = $2")).
		WithArgs("company-1", "user-1").
		WillReturnRows(pgxmock.NewRows(membershipColumnNames).
			AddRow("member-1", "company-1", "user-1", "owner", "active", joined, joined, joined, nil, nil))

	found, err := repo.FindByCompanyAndUser(context.Background(), "company-1", "user-1")
	if err != nil {
		t.Fatalf("FindByCompanyAndUser returned error: %v", err)
	}
	if found.JoinedAt == nil || !found.JoinedAt.Equal(joined) {
		t.Fatalf("unexpected joined_at: %v", found.JoinedAt)
	}
	if found.Profile != nil {
		t.Fatalf("expected no profile snapshot, got %+v", found.Profile)
	}
}

func TestMembershipRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewMembershipRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, membership.ErrMembershipNotFound) {
		t.Fatalf("expected ErrMembershipNotFound, got %v", err)
	}
}

func TestMembershipRepository_CountActiveOwners(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewMembershipRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM company_members")).
		WithArgs("company-1", "owner", "active").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveOwners(context.Background(), "company-1")
	if err != nil {
		t.Fatalf("CountActiveOwners returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 owners, got %d", count)
	}
}

func TestMembershipRepository_List(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewMembershipRepository(mock)
	active := membership.StatusActive

	now := time.Now().UTC()
	rows := pgxmock.NewRows(membershipColumnNames).
		AddRow("member-1", "company-1", "user-1", "owner", "active", now, now, now, "a@example.com", "A").
		AddRow("member-2", "company-1", "user-2", "member", "active", now.Add(-time.Hour), now, now, "b@example.com", "B")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.company_id = $1 AND m.status = $2 ORDER BY COALESCE(m.joined_at, m.created_at) DESC, m.id DESC LIMIT $3 OFFSET $4")).
		WithArgs("company-1", "active", 2, 0).
		WillReturnRows(rows)

	items, next, err := repo.List(context.Background(), membership.ListMembershipsFilter{
		CompanyID: "company-1",
		Status:    &active,
		Page:      shared.Page{Limit: 1},
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "member-1" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if next != "1" {
		t.Fatalf("expected next token '1', got %s", next)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMembershipRepository_List_InvalidArguments(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewMembershipRepository(mock)

	if _, _, err := repo.List(context.Background(), membership.ListMembershipsFilter{Page: shared.Page{Limit: 1}}); !errors.Is(err, membership.ErrInvalidCompanyID) {
		t.Fatalf("expected ErrInvalidCompanyID, got %v", err)
	}
	if _, _, err := repo.List(context.Background(), membership.ListMembershipsFilter{CompanyID: "c"}); !errors.Is(err, membership.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
}
