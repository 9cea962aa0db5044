package company

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

const (
	ownerID = "5e1c2a3b-0c4d-4e5f-8a9b-1c2d3e4f5a01"
	adminID = "5e1c2a3b-0c4d-4e5f-8a9b-1c2d3e4f5a02"
)

var errForbidden = errors.New("forbidden")

type fakeMembers struct {
	roles       map[string]map[string]string
	registerErr error
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{roles: make(map[string]map[string]string)}
}

func (m *fakeMembers) grant(companyID, userID, role string) {
	if m.roles[companyID] == nil {
		m.roles[companyID] = make(map[string]string)
	}
	m.roles[companyID][userID] = role
}

func (m *fakeMembers) RegisterOwner(_ context.Context, companyID, userID string) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.grant(companyID, userID, "owner")
	return nil
}

func (m *fakeMembers) RequireManager(_ context.Context, companyID, userID string) error {
	switch m.roles[companyID][userID] {
	case "owner", "admin":
		return nil
	default:
		return errForbidden
	}
}

func (m *fakeMembers) RequireOwner(_ context.Context, companyID, userID string) error {
	if m.roles[companyID][userID] != "owner" {
		return errForbidden
	}
	return nil
}

type fakeRepo struct {
	companies map[string]*Company
	order     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{companies: make(map[string]*Company)}
}

func (r *fakeRepo) Create(_ context.Context, c *Company) (*Company, error) {
	for _, existing := range r.companies {
		if existing.Code == c.Code {
			return nil, ErrCodeAlreadyExists
		}
	}
	stored := cloneCompany(c)
	stored.ID = uuid.NewString()
	r.companies[stored.ID] = stored
	r.order = append([]string{stored.ID}, r.order...)
	return cloneCompany(stored), nil
}

func (r *fakeRepo) Update(_ context.Context, c *Company) (*Company, error) {
	if _, ok := r.companies[c.ID]; !ok {
		return nil, ErrCompanyNotFound
	}
	r.companies[c.ID] = cloneCompany(c)
	return cloneCompany(c), nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.companies[id]; !ok {
		return ErrCompanyNotFound
	}
	delete(r.companies, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	return cloneCompany(c), nil
}

func (r *fakeRepo) FindByCode(_ context.Context, code string) (*Company, error) {
	for _, c := range r.companies {
		if c.Code == code {
			return cloneCompany(c), nil
		}
	}
	return nil, ErrCompanyNotFound
}

func (r *fakeRepo) List(_ context.Context, filter ListCompaniesFilter) ([]*Company, string, error) {
	var matched []*Company
	for _, id := range r.order {
		c := r.companies[id]
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Country != nil && c.Country != *filter.Country {
			continue
		}
		matched = append(matched, cloneCompany(c))
	}

	if filter.Page.Offset >= len(matched) {
		return nil, "", nil
	}
	end := min(filter.Page.Offset+filter.Page.Limit, len(matched))

	var next string
	if end < len(matched) {
		next = strconv.Itoa(end)
	}
	return matched[filter.Page.Offset:end], next, nil
}

func cloneCompany(c *Company) *Company {
	clone := *c
	if c.Description != nil {
		desc := *c.Description
		clone.Description = &desc
	}
	return &clone
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *stubClock) {
	t.Helper()

	svc, repo, _, clk := newTestServiceWithMembers(t)
	return svc, repo, clk
}

func newTestServiceWithMembers(t *testing.T) (*Service, *fakeRepo, *fakeMembers, *stubClock) {
	t.Helper()

	repo := newFakeRepo()
	members := newFakeMembers()
	clk := &stubClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewService(repo, members, clk, nil), repo, members, clk
}

func mustCreate(t *testing.T, svc *Service, in CreateCompanyInput) *Company {
	t.Helper()

	if in.OwnerID == "" {
		in.OwnerID = ownerID
	}
	created, err := svc.CreateCompany(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateCompany returned error: %v", err)
	}
	return created
}

func TestService_CreateCompany_Success(t *testing.T) {
	t.Parallel()

	svc, _, clk := newTestService(t)
	desc := "  Printing and stationery  "

	created := mustCreate(t, svc, CreateCompanyInput{
		Name:        "  Kampala Print Ltd  ",
		Code:        " KLA-Print ",
		Description: &desc,
	})

	if created.Name != "Kampala Print Ltd" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.Code != "kla-print" {
		t.Fatalf("expected normalized code, got %s", created.Code)
	}
	if created.Country != DefaultCountry || created.Currency != DefaultCurrency {
		t.Fatalf("expected default locale UG/UGX, got %s/%s", created.Country, created.Currency)
	}
	if created.Description == nil || *created.Description != "Printing and stationery" {
		t.Fatalf("expected trimmed description, got %+v", created.Description)
	}
	if created.Status != StatusActive {
		t.Fatalf("expected status active, got %s", created.Status)
	}
	if !created.CreatedAt.Equal(clk.now) || !created.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected timestamps from clock, got %v and %v", created.CreatedAt, created.UpdatedAt)
	}
}

func TestService_CreateCompany_RegistersOwner(t *testing.T) {
	t.Parallel()

	svc, _, members, _ := newTestServiceWithMembers(t)
	created := mustCreate(t, svc, CreateCompanyInput{Name: "Owned", Code: "owned"})

	if members.roles[created.ID][ownerID] != "owner" {
		t.Fatalf("expected creator to be registered as owner, got %+v", members.roles[created.ID])
	}

	members.registerErr = errors.New("membership: invalid user id")
	if _, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "Orphan", Code: "orphan"}); !errors.Is(err, members.registerErr) {
		t.Fatalf("expected register error, got %v", err)
	}
}

func TestService_UpdateAndDelete_RequireMembership(t *testing.T) {
	t.Parallel()

	svc, _, members, _ := newTestServiceWithMembers(t)
	ctx := context.Background()
	created := mustCreate(t, svc, CreateCompanyInput{Name: "Guarded", Code: "guarded"})
	members.grant(created.ID, adminID, "admin")
	outsider := uuid.NewString()

	name := "Hijacked"
	if _, err := svc.UpdateCompany(ctx, UpdateCompanyInput{ActorID: outsider, ID: created.ID, Name: &name}); !errors.Is(err, errForbidden) {
		t.Fatalf("expected forbidden update for outsider, got %v", err)
	}
	if _, err := svc.UpdateCompany(ctx, UpdateCompanyInput{ID: created.ID, Name: &name}); !errors.Is(err, errForbidden) {
		t.Fatalf("expected forbidden update without caller, got %v", err)
	}
	if err := svc.DeleteCompany(ctx, DeleteCompanyInput{ActorID: outsider, ID: created.ID}); !errors.Is(err, errForbidden) {
		t.Fatalf("expected forbidden delete for outsider, got %v", err)
	}
	if err := svc.DeleteCompany(ctx, DeleteCompanyInput{ActorID: adminID, ID: created.ID}); !errors.Is(err, errForbidden) {
		t.Fatalf("expected forbidden delete for admin, got %v", err)
	}

	found, err := svc.GetCompany(ctx, GetCompanyInput{ID: created.ID})
	if err != nil {
		t.Fatalf("GetCompany returned error: %v", err)
	}
	if found.Name != "Guarded" {
		t.Fatalf("expected name unchanged, got %s", found.Name)
	}

	renamed := "Renamed"
	updated, err := svc.UpdateCompany(ctx, UpdateCompanyInput{ActorID: adminID, ID: created.ID, Name: &renamed})
	if err != nil {
		t.Fatalf("admin UpdateCompany returned error: %v", err)
	}
	if updated.Name != renamed {
		t.Fatalf("expected %s, got %s", renamed, updated.Name)
	}

	if err := svc.DeleteCompany(ctx, DeleteCompanyInput{ActorID: uuid.NewString(), ID: uuid.NewString()}); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound for unknown company, got %v", err)
	}
}

func TestService_CreateCompany_Locale(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	created := mustCreate(t, svc, CreateCompanyInput{Name: "Nairobi Branch", Code: "nbo", Country: " ke ", Currency: "kes"})
	if created.Country != "KE" || created.Currency != "KES" {
		t.Fatalf("expected KE/KES, got %s/%s", created.Country, created.Currency)
	}

	if _, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "X", Code: "x", Country: "KEN"}); !errors.Is(err, ErrInvalidCountry) {
		t.Fatalf("expected ErrInvalidCountry, got %v", err)
	}
	if _, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "X", Code: "x", Currency: "K$"}); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestService_CreateCompany_Invalid(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	if _, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "Test", Code: "Invalid Code"}); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if _, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "   ", Code: "valid"}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestService_CreateCompany_DuplicateCode(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	mustCreate(t, svc, CreateCompanyInput{Name: "Test", Code: "dup"})

	if _, err := svc.CreateCompany(context.Background(), CreateCompanyInput{Name: "Another", Code: "DUP"}); !errors.Is(err, ErrCodeAlreadyExists) {
		t.Fatalf("expected ErrCodeAlreadyExists, got %v", err)
	}
}

func TestService_UpdateCompany_Success(t *testing.T) {
	t.Parallel()

	svc, _, clk := newTestService(t)
	created := mustCreate(t, svc, CreateCompanyInput{Name: "Test", Code: "test"})

	newName := "New Name"
	newCode := "new-code"
	inactive := StatusInactive
	currency := "usd"
	empty := ""
	clk.now = clk.now.Add(time.Hour)

	updated, err := svc.UpdateCompany(context.Background(), UpdateCompanyInput{
		ActorID:     ownerID,
		ID:          created.ID,
		Name:        &newName,
		Code:        &newCode,
		Status:      &inactive,
		Currency:    &currency,
		Description: &empty,
	})
	if err != nil {
		t.Fatalf("UpdateCompany returned error: %v", err)
	}

	if updated.Name != newName || updated.Code != newCode || updated.Status != StatusInactive {
		t.Fatalf("unexpected company after update: %+v", updated)
	}
	if updated.Currency != "USD" || updated.Country != DefaultCountry {
		t.Fatalf("expected USD in UG, got %s in %s", updated.Currency, updated.Country)
	}
	if updated.Description != nil {
		t.Fatalf("expected description cleared, got %+v", updated.Description)
	}
	if !updated.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected updated timestamp to match clock, got %v", updated.UpdatedAt)
	}
}

func TestService_UpdateCompany_DuplicateCode(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	first := mustCreate(t, svc, CreateCompanyInput{Name: "First", Code: "first"})
	second := mustCreate(t, svc, CreateCompanyInput{Name: "Second", Code: "second"})

	code := first.Code
	if _, err := svc.UpdateCompany(context.Background(), UpdateCompanyInput{ActorID: ownerID, ID: second.ID, Code: &code}); !errors.Is(err, ErrCodeAlreadyExists) {
		t.Fatalf("expected ErrCodeAlreadyExists, got %v", err)
	}
}

func TestService_UpdateCompany_InvalidStatus(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, CreateCompanyInput{Name: "Test", Code: "test"})

	archived := Status("archived")
	if _, err := svc.UpdateCompany(context.Background(), UpdateCompanyInput{ActorID: ownerID, ID: created.ID, Status: &archived}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestService_InvalidID(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.DeleteCompany(ctx, DeleteCompanyInput{ID: ""}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("DeleteCompany: expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.GetCompany(ctx, GetCompanyInput{ID: "company-1"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("GetCompany: expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.UpdateCompany(ctx, UpdateCompanyInput{ID: "  "}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("UpdateCompany: expected ErrInvalidID, got %v", err)
	}
}

func TestService_GetAndDeleteCompany(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, CreateCompanyInput{Name: "Test", Code: "test"})

	found, err := svc.GetCompany(context.Background(), GetCompanyInput{ID: " " + created.ID + " "})
	if err != nil {
		t.Fatalf("GetCompany returned error: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected ID %s, got %s", created.ID, found.ID)
	}

	if err := svc.DeleteCompany(context.Background(), DeleteCompanyInput{ActorID: ownerID, ID: created.ID}); err != nil {
		t.Fatalf("DeleteCompany returned error: %v", err)
	}
	if _, err := svc.GetCompany(context.Background(), GetCompanyInput{ID: created.ID}); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestService_ListCompanies_Pagination(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		mustCreate(t, svc, CreateCompanyInput{Name: fmt.Sprintf("Company %d", i), Code: fmt.Sprintf("company-%d", i)})
	}

	all, err := svc.ListCompanies(context.Background(), ListCompaniesInput{})
	if err != nil {
		t.Fatalf("ListCompanies returned error: %v", err)
	}
	if len(all.Companies) != 3 || all.NextPageToken != "" {
		t.Fatalf("expected 3 companies and no token, got %d and %q", len(all.Companies), all.NextPageToken)
	}

	first, err := svc.ListCompanies(context.Background(), ListCompaniesInput{PageSize: 2})
	if err != nil {
		t.Fatalf("ListCompanies returned error: %v", err)
	}
	if len(first.Companies) != 2 || first.NextPageToken != "2" {
		t.Fatalf("expected 2 companies and token 2, got %d and %q", len(first.Companies), first.NextPageToken)
	}
}

func TestService_ListCompanies_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	if _, err := svc.ListCompanies(context.Background(), ListCompaniesInput{PageSize: shared.MaxPageSize + 1}); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, err := svc.ListCompanies(context.Background(), ListCompaniesInput{PageToken: "abc"}); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestService_ListCompanies_Filters(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	mustCreate(t, svc, CreateCompanyInput{Name: "Active", Code: "active"})
	kenya := mustCreate(t, svc, CreateCompanyInput{Name: "Kenya", Code: "kenya", Country: "KE"})

	inactive := StatusInactive
	if _, err := svc.UpdateCompany(context.Background(), UpdateCompanyInput{ActorID: ownerID, ID: kenya.ID, Status: &inactive}); err != nil {
		t.Fatalf("UpdateCompany returned error: %v", err)
	}

	byStatus, err := svc.ListCompanies(context.Background(), ListCompaniesInput{Status: &inactive})
	if err != nil {
		t.Fatalf("ListCompanies returned error: %v", err)
	}
	if len(byStatus.Companies) != 1 || byStatus.Companies[0].ID != kenya.ID {
		t.Fatalf("expected only the inactive company, got %+v", byStatus.Companies)
	}

	country := "ug"
	byCountry, err := svc.ListCompanies(context.Background(), ListCompaniesInput{Country: &country})
	if err != nil {
		t.Fatalf("ListCompanies returned error: %v", err)
	}
	if len(byCountry.Companies) != 1 || byCountry.Companies[0].Code != "active" {
		t.Fatalf("expected only the UG company, got %+v", byCountry.Companies)
	}
}
