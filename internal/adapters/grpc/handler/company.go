package handler

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/company"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const companyServiceName = "jackisa.company.v1.CompanyService"

// CompanyServer は CompanyService のサーバーインターフェースです。
type CompanyServer interface {
	CreateCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCompanies(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CompanyServiceDesc は CompanyService のサービス定義です。
var CompanyServiceDesc = serviceDesc(companyServiceName, "jackisa/company/v1/company.proto", (*CompanyServer)(nil),
	unaryMethod(companyServiceName, "CreateCompany", CompanyServer.CreateCompany),
	unaryMethod(companyServiceName, "GetCompany", CompanyServer.GetCompany),
	unaryMethod(companyServiceName, "ListCompanies", CompanyServer.ListCompanies),
	unaryMethod(companyServiceName, "UpdateCompany", CompanyServer.UpdateCompany),
	unaryMethod(companyServiceName, "DeleteCompany", CompanyServer.DeleteCompany),
)

// RegisterCompanyServer は CompanyService を登録します。
func RegisterCompanyServer(s grpc.ServiceRegistrar, srv CompanyServer) {
	s.RegisterService(CompanyServiceDesc, srv)
}

// CompanyGrpcHandler は CompanyService の gRPC 実装です。
type CompanyGrpcHandler struct {
	svc company.UseCase
	idp tenancy.IdentityProvider
}

// NewCompanyGrpcHandler は CompanyGrpcHandler を生成します。
func NewCompanyGrpcHandler(svc company.UseCase, idp tenancy.IdentityProvider) *CompanyGrpcHandler {
	return &CompanyGrpcHandler{svc: svc, idp: idp}
}

// CreateCompany は会社を作成し、現在の利用者を owner として登録します。
func (h *CompanyGrpcHandler) CreateCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}
	f := fieldsOf(req)

	in := company.CreateCompanyInput{OwnerID: principal.ID}
	if in.Name, err = f.string("name"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Code, err = f.string("code"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Country, err = f.string("country"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Currency, err = f.string("currency"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Description, err = f.optionalString("description"); err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.CreateCompany(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"company": companyFields(created)})
}

// GetCompany は会社を取得します。
func (h *CompanyGrpcHandler) GetCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := currentPrincipal(ctx, h.idp); err != nil {
		return nil, toStatusError(err)
	}

	id, err := fieldsOf(req).string("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	found, err := h.svc.GetCompany(ctx, company.GetCompanyInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"company": companyFields(found)})
}

// ListCompanies は会社の一覧を取得します。
func (h *CompanyGrpcHandler) ListCompanies(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := currentPrincipal(ctx, h.idp); err != nil {
		return nil, toStatusError(err)
	}
	f := fieldsOf(req)

	pageSize, err := f.int("page_size")
	if err != nil {
		return nil, toStatusError(err)
	}
	pageToken, err := f.string("page_token")
	if err != nil {
		return nil, toStatusError(err)
	}
	statusPtr, err := companyStatusField(f)
	if err != nil {
		return nil, toStatusError(err)
	}
	country, err := f.optionalString("country")
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.svc.ListCompanies(ctx, company.ListCompaniesInput{
		PageSize:  pageSize,
		PageToken: pageToken,
		Status:    statusPtr,
		Country:   country,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	companies := make([]any, 0, len(result.Companies))
	for _, c := range result.Companies {
		companies = append(companies, companyFields(c))
	}

	return newStruct(map[string]any{
		"companies":       companies,
		"next_page_token": result.NextPageToken,
	})
}

// UpdateCompany は会社情報を更新します。指定されたフィールドのみ変更します。
func (h *CompanyGrpcHandler) UpdateCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}
	f := fieldsOf(req)

	in := company.UpdateCompanyInput{ActorID: principal.ID}
	if in.ID, err = f.string("id"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Name, err = f.optionalString("name"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Code, err = f.optionalString("code"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Country, err = f.optionalString("country"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Currency, err = f.optionalString("currency"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Description, err = f.optionalString("description"); err != nil {
		return nil, toStatusError(err)
	}
	if in.Status, err = companyStatusField(f); err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.svc.UpdateCompany(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"company": companyFields(updated)})
}

// DeleteCompany は会社を削除します。
func (h *CompanyGrpcHandler) DeleteCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}

	id, err := fieldsOf(req).string("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	if err := h.svc.DeleteCompany(ctx, company.DeleteCompanyInput{ActorID: principal.ID, ID: id}); err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{})
}

func companyStatusField(f fields) (*company.Status, error) {
	raw, err := f.optionalString("status")
	if err != nil || raw == nil {
		return nil, err
	}
	s := company.Status(*raw)
	return &s, nil
}

func companyFields(c *company.Company) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"code":        c.Code,
		"status":      string(c.Status),
		"country":     c.Country,
		"currency":    c.Currency,
		"description": optionalValue(c.Description),
		"created_at":  formatTime(c.CreatedAt),
		"updated_at":  formatTime(c.UpdatedAt),
	}
}
