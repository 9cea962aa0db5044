package company

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

var (
	codePattern     = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	countryPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Service は会社 (テナント) の管理ユースケースをまとめます。
type Service struct {
	repo    Repository
	members Members
	clock   shared.Clock
	tx      shared.TransactionManager
}

// UseCase は会社ユースケースの公開インターフェースです。
type UseCase interface {
	CreateCompany(ctx context.Context, in CreateCompanyInput) (*Company, error)
	GetCompany(ctx context.Context, in GetCompanyInput) (*Company, error)
	ListCompanies(ctx context.Context, in ListCompaniesInput) (*ListCompaniesResult, error)
	UpdateCompany(ctx context.Context, in UpdateCompanyInput) (*Company, error)
	DeleteCompany(ctx context.Context, in DeleteCompanyInput) error
}

// NewService は Service を生成します。members は作成者の登録と権限確認に使われます。
func NewService(repo Repository, members Members, clock shared.Clock, tx shared.TransactionManager) *Service {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if tx == nil {
		tx = shared.NoopTransactionManager{}
	}
	return &Service{repo: repo, members: members, clock: clock, tx: tx}
}

// CreateCompanyInput は会社作成時の入力です。Country と Currency は空の場合に既定値になります。
// OwnerID の利用者が会社の owner として登録されます。
type CreateCompanyInput struct {
	OwnerID     string
	Name        string
	Code        string
	Country     string
	Currency    string
	Description *string
}

// UpdateCompanyInput は会社更新時の入力です。nil のフィールドは変更しません。
// ActorID は会社の active な owner または admin です。
type UpdateCompanyInput struct {
	ActorID     string
	ID          string
	Name        *string
	Code        *string
	Status      *Status
	Country     *string
	Currency    *string
	Description *string
}

// DeleteCompanyInput は会社削除時の入力です。ActorID は会社の active な owner です。
type DeleteCompanyInput struct {
	ActorID string
	ID      string
}

// GetCompanyInput は会社取得時の入力です。
type GetCompanyInput struct {
	ID string
}

// ListCompaniesInput は一覧取得時の入力です。
type ListCompaniesInput struct {
	PageSize  int
	PageToken string
	Status    *Status
	Country   *string
}

// ListCompaniesResult は一覧取得結果を表します。
type ListCompaniesResult struct {
	Companies     []*Company
	NextPageToken string
}

// CreateCompany は新しい会社を作成します。
func (s *Service) CreateCompany(ctx context.Context, in CreateCompanyInput) (*Company, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	code, err := normalizeCode(in.Code)
	if err != nil {
		return nil, err
	}

	country, err := normalizeCountry(in.Country)
	if err != nil {
		return nil, err
	}

	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	var created *Company
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureCodeAvailable(txCtx, code); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Company{
			Name:        name,
			Code:        code,
			Status:      StatusActive,
			Country:     country,
			Currency:    currency,
			Description: normalizeDescription(in.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		if err := s.members.RegisterOwner(txCtx, result.ID, in.OwnerID); err != nil {
			return fmt.Errorf("register owner: %w", err)
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateCompany は会社情報を更新します。
func (s *Service) UpdateCompany(ctx context.Context, in UpdateCompanyInput) (*Company, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var updated *Company
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.members.RequireManager(txCtx, id, in.ActorID); err != nil {
			return err
		}

		if err := s.applyUpdate(txCtx, existing, in); err != nil {
			return err
		}
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) applyUpdate(ctx context.Context, existing *Company, in UpdateCompanyInput) error {
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return err
		}
		existing.Name = name
	}

	if in.Code != nil {
		code, err := normalizeCode(*in.Code)
		if err != nil {
			return err
		}
		if code != existing.Code {
			if err := s.ensureCodeAvailable(ctx, code); err != nil {
				return err
			}
			existing.Code = code
		}
	}

	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return ErrInvalidStatus
		}
		existing.Status = *in.Status
	}

	if in.Country != nil {
		country, err := normalizeCountry(*in.Country)
		if err != nil {
			return err
		}
		existing.Country = country
	}

	if in.Currency != nil {
		currency, err := normalizeCurrency(*in.Currency)
		if err != nil {
			return err
		}
		existing.Currency = currency
	}

	if in.Description != nil {
		existing.Description = normalizeDescription(in.Description)
	}

	return nil
}

// DeleteCompany は会社を削除します。会社の所属も削除されます。
// 会社を参照する業務データが残っている場合は ErrCompanyInUse になります。
func (s *Service) DeleteCompany(ctx context.Context, in DeleteCompanyInput) error {
	id, err := normalizeID(in.ID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindByID(txCtx, id); err != nil {
			return err
		}
		if err := s.members.RequireOwner(txCtx, id, in.ActorID); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
}

// GetCompany は ID で会社を取得します。
func (s *Service) GetCompany(ctx context.Context, in GetCompanyInput) (*Company, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var found *Company
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	return found, nil
}

// ListCompanies は会社の一覧を作成日時の降順で取得します。
func (s *Service) ListCompanies(ctx context.Context, in ListCompaniesInput) (*ListCompaniesResult, error) {
	page, err := shared.ParsePage(in.PageSize, in.PageToken)
	if err != nil {
		return nil, err
	}

	filter := ListCompaniesFilter{Page: page}
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		filter.Status = &status
	}
	if in.Country != nil {
		country, err := normalizeCountry(*in.Country)
		if err != nil {
			return nil, err
		}
		filter.Country = &country
	}

	result := &ListCompaniesResult{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		companies, token, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		result.Companies = companies
		result.NextPageToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) ensureCodeAvailable(ctx context.Context, code string) error {
	found, err := s.repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, ErrCompanyNotFound) {
		return err
	}
	if found != nil {
		return ErrCodeAlreadyExists
	}
	return nil
}

func normalizeID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return id.String(), nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeCode(raw string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if !codePattern.MatchString(lower) {
		return "", ErrInvalidCode
	}
	return lower, nil
}

func normalizeCountry(raw string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" {
		return DefaultCountry, nil
	}
	if !countryPattern.MatchString(upper) {
		return "", ErrInvalidCountry
	}
	return upper, nil
}

func normalizeCurrency(raw string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" {
		return DefaultCurrency, nil
	}
	if !currencyPattern.MatchString(upper) {
		return "", ErrInvalidCurrency
	}
	return upper, nil
}

func normalizeDescription(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}
