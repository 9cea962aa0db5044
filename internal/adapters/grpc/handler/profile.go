package handler

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/profile"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const profileServiceName = "jackisa.profile.v1.ProfileService"

// ProfileServer は ProfileService のサーバーインターフェースです。
type ProfileServer interface {
	GetMyProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateMyProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ProfileServiceDesc は ProfileService のサービス定義です。
var ProfileServiceDesc = serviceDesc(profileServiceName, "jackisa/profile/v1/profile.proto", (*ProfileServer)(nil),
	unaryMethod(profileServiceName, "GetMyProfile", ProfileServer.GetMyProfile),
	unaryMethod(profileServiceName, "UpdateMyProfile", ProfileServer.UpdateMyProfile),
)

// RegisterProfileServer は ProfileService を登録します。
func RegisterProfileServer(s grpc.ServiceRegistrar, srv ProfileServer) {
	s.RegisterService(ProfileServiceDesc, srv)
}

// ProfileGrpcHandler は ProfileService の gRPC 実装です。操作対象は常に現在の利用者です。
type ProfileGrpcHandler struct {
	svc profile.UseCase
	idp tenancy.IdentityProvider
}

// NewProfileGrpcHandler は ProfileGrpcHandler を生成します。
func NewProfileGrpcHandler(svc profile.UseCase, idp tenancy.IdentityProvider) *ProfileGrpcHandler {
	return &ProfileGrpcHandler{svc: svc, idp: idp}
}

// GetMyProfile は現在の利用者のプロフィールを返します。
func (h *ProfileGrpcHandler) GetMyProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}

	found, err := h.svc.GetProfile(ctx, profile.GetProfileInput{UserID: principal.ID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProfileStruct(found)
}

// UpdateMyProfile は現在の利用者のプロフィールを保存します。email を省略すると認証情報のメールアドレスを使います。
func (h *ProfileGrpcHandler) UpdateMyProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}

	f := fieldsOf(req)
	email, err := f.string("email")
	if err != nil {
		return nil, toStatusError(err)
	}
	if email == "" {
		email = principal.EmailHint
	}
	displayName, err := f.string("display_name")
	if err != nil {
		return nil, toStatusError(err)
	}

	saved, err := h.svc.UpsertProfile(ctx, profile.UpsertProfileInput{
		UserID:      principal.ID,
		Email:       email,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProfileStruct(saved)
}

func toProfileStruct(p *profile.Profile) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"user_id":      p.UserID,
		"email":        p.Email,
		"display_name": p.DisplayName,
		"created_at":   formatTime(p.CreatedAt),
		"updated_at":   formatTime(p.UpdatedAt),
	})
}
