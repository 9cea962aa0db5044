//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/jackisa-office/internal/adapters/auth"
	repo "github.com/ogurasousui/jackisa-office/internal/adapters/repository/postgres"
	"github.com/ogurasousui/jackisa-office/internal/core/membership"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"github.com/ogurasousui/jackisa-office/internal/platform/config"
	pg "github.com/ogurasousui/jackisa-office/internal/platform/db/postgres"
	"go.uber.org/zap"
)

const (
	migrationsDir = "../assets/migrations"
	seedsDir      = "../assets/seeds"

	seedUserID      = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	demoCompanyID   = "11111111-1111-4111-8111-111111111111"
	lakesideCompany = "22222222-2222-4222-8222-222222222222"
)

func TestSessionResolutionIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := applySeeds(ctx, pool, seedsDir); err != nil {
		t.Fatalf("failed to apply seeds: %v", err)
	}

	store := repo.NewSessionStore(pool)
	txManager := pg.NewTransactionManager(pool)
	svc := tenancy.NewService(auth.ContextIdentityProvider{}, store, txManager, zap.NewNop())

	userCtx := auth.WithPrincipal(ctx, &tenancy.Principal{ID: seedUserID})

	session, err := svc.ResolveSession(userCtx)
	if err != nil {
		t.Fatalf("ResolveSession error: %v", err)
	}
	if !session.HasTenant() || *session.CompanyID != lakesideCompany || session.Source != tenancy.SourceMembership {
		t.Fatalf("expected most recently joined company via membership, got %+v", session)
	}
	if session.DisplayName != "Amara Nakato" {
		t.Fatalf("unexpected display name: %s", session.DisplayName)
	}

	switched, err := svc.SwitchCompany(userCtx, tenancy.SwitchCompanyInput{CompanyID: demoCompanyID})
	if err != nil {
		t.Fatalf("SwitchCompany error: %v", err)
	}
	if *switched.CompanyID != demoCompanyID || switched.Source != tenancy.SourcePreference {
		t.Fatalf("expected preference to win after switch, got %+v", switched)
	}

	if _, err := svc.ResolveSession(ctx); !errors.Is(err, tenancy.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without principal, got %v", err)
	}
}

func TestMembershipInvitationIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := applySeeds(ctx, pool, seedsDir); err != nil {
		t.Fatalf("failed to apply seeds: %v", err)
	}

	members := repo.NewMembershipRepository(pool)
	svc := membership.NewService(members, stubClock{now: time.Now().UTC()}, pg.NewTransactionManager(pool))

	invitee := "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
	invited, err := svc.InviteMember(ctx, membership.InviteMemberInput{ActorID: seedUserID, CompanyID: demoCompanyID, UserID: invitee})
	if err != nil {
		t.Fatalf("InviteMember error: %v", err)
	}
	if invited.Status != membership.StatusPendingInvitation || invited.JoinedAt != nil {
		t.Fatalf("unexpected invitation: %+v", invited)
	}

	if _, err := svc.InviteMember(ctx, membership.InviteMemberInput{ActorID: seedUserID, CompanyID: demoCompanyID, UserID: invitee}); !errors.Is(err, membership.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	accepted, err := svc.AcceptInvitation(ctx, membership.AcceptInvitationInput{ID: invited.ID, UserID: invitee})
	if err != nil {
		t.Fatalf("AcceptInvitation error: %v", err)
	}
	if accepted.Status != membership.StatusActive || accepted.JoinedAt == nil {
		t.Fatalf("unexpected accepted membership: %+v", accepted)
	}

	owners, err := members.CountActiveOwners(ctx, demoCompanyID)
	if err != nil {
		t.Fatalf("CountActiveOwners error: %v", err)
	}
	if owners != 1 {
		t.Fatalf("expected 1 owner, got %d", owners)
	}
}

func resetMigrations(dsn, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func applySeeds(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}
