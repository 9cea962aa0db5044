package membership

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

// Repository は所属の永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, m *Membership) (*Membership, error)
	Update(ctx context.Context, m *Membership) (*Membership, error)
	FindByID(ctx context.Context, id string) (*Membership, error)
	FindByCompanyAndUser(ctx context.Context, companyID, userID string) (*Membership, error)
	CountActiveOwners(ctx context.Context, companyID string) (int, error)
	List(ctx context.Context, filter ListMembershipsFilter) ([]*Membership, string, error)
}

// ListMembershipsFilter は一覧取得用フィルタです。
type ListMembershipsFilter struct {
	CompanyID string
	Status    *Status
	Page      shared.Page
}
