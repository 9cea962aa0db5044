package handler

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const sessionServiceName = "jackisa.session.v1.SessionService"

// SessionServer は SessionService のサーバーインターフェースです。
type SessionServer interface {
	ResolveSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SwitchCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// SessionServiceDesc は SessionService のサービス定義です。
var SessionServiceDesc = serviceDesc(sessionServiceName, "jackisa/session/v1/session.proto", (*SessionServer)(nil),
	unaryMethod(sessionServiceName, "ResolveSession", SessionServer.ResolveSession),
	unaryMethod(sessionServiceName, "SwitchCompany", SessionServer.SwitchCompany),
)

// RegisterSessionServer は SessionService を登録します。
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(SessionServiceDesc, srv)
}

// SessionGrpcHandler は SessionService の gRPC 実装です。
type SessionGrpcHandler struct {
	svc tenancy.UseCase
}

// NewSessionGrpcHandler は SessionGrpcHandler を生成します。
func NewSessionGrpcHandler(svc tenancy.UseCase) *SessionGrpcHandler {
	return &SessionGrpcHandler{svc: svc}
}

// ResolveSession は現在の利用者のセッション情報を返します。
func (h *SessionGrpcHandler) ResolveSession(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	session, err := h.svc.ResolveSession(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toSessionStruct(session)
}

// SwitchCompany はアクティブな会社を切り替えます。
func (h *SessionGrpcHandler) SwitchCompany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	companyID, err := fieldsOf(req).string("company_id")
	if err != nil {
		return nil, toStatusError(err)
	}

	session, err := h.svc.SwitchCompany(ctx, tenancy.SwitchCompanyInput{CompanyID: companyID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toSessionStruct(session)
}

func toSessionStruct(s *tenancy.SessionContext) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"user_id":      s.UserID,
		"display_name": s.DisplayName,
		"company_id":   optionalValue(s.CompanyID),
		"source":       string(s.Source),
	})
}
