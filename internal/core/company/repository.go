package company

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

// Repository は会社の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, company *Company) (*Company, error)
	Update(ctx context.Context, company *Company) (*Company, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Company, error)
	FindByCode(ctx context.Context, code string) (*Company, error)
	List(ctx context.Context, filter ListCompaniesFilter) ([]*Company, string, error)
}

// Members は会社の所属に関する操作のうち会社管理に必要なものです。
type Members interface {
	RegisterOwner(ctx context.Context, companyID, userID string) error
	RequireManager(ctx context.Context, companyID, userID string) error
	RequireOwner(ctx context.Context, companyID, userID string) error
}

// ListCompaniesFilter は一覧取得時の検索条件を表します。
type ListCompaniesFilter struct {
	Page    shared.Page
	Status  *Status
	Country *string
}
