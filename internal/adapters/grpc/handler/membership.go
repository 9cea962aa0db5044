package handler

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/membership"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const membershipServiceName = "jackisa.membership.v1.MembershipService"

// MembershipServer は MembershipService のサーバーインターフェースです。
type MembershipServer interface {
	InviteMember(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AcceptInvitation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateMembership(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetMembership(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListMemberships(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// MembershipServiceDesc は MembershipService のサービス定義です。
var MembershipServiceDesc = serviceDesc(membershipServiceName, "jackisa/membership/v1/membership.proto", (*MembershipServer)(nil),
	unaryMethod(membershipServiceName, "InviteMember", MembershipServer.InviteMember),
	unaryMethod(membershipServiceName, "AcceptInvitation", MembershipServer.AcceptInvitation),
	unaryMethod(membershipServiceName, "UpdateMembership", MembershipServer.UpdateMembership),
	unaryMethod(membershipServiceName, "GetMembership", MembershipServer.GetMembership),
	unaryMethod(membershipServiceName, "ListMemberships", MembershipServer.ListMemberships),
)

// RegisterMembershipServer は MembershipService を登録します。
func RegisterMembershipServer(s grpc.ServiceRegistrar, srv MembershipServer) {
	s.RegisterService(MembershipServiceDesc, srv)
}

// MembershipGrpcHandler は MembershipService の gRPC 実装です。
type MembershipGrpcHandler struct {
	svc membership.UseCase
	idp tenancy.IdentityProvider
}

// NewMembershipGrpcHandler は MembershipGrpcHandler を生成します。
func NewMembershipGrpcHandler(svc membership.UseCase, idp tenancy.IdentityProvider) *MembershipGrpcHandler {
	return &MembershipGrpcHandler{svc: svc, idp: idp}
}

// InviteMember は現在の利用者として会社に利用者を招待します。
func (h *MembershipGrpcHandler) InviteMember(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}
	f := fieldsOf(req)

	companyID, err := f.string("company_id")
	if err != nil {
		return nil, toStatusError(err)
	}
	userID, err := f.string("user_id")
	if err != nil {
		return nil, toStatusError(err)
	}
	role, err := f.string("role")
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.InviteMember(ctx, membership.InviteMemberInput{
		ActorID:   principal.ID,
		CompanyID: companyID,
		UserID:    userID,
		Role:      membership.Role(role),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"membership": membershipFields(created)})
}

// AcceptInvitation は現在の利用者として招待を承認します。
func (h *MembershipGrpcHandler) AcceptInvitation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}

	id, err := fieldsOf(req).string("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	accepted, err := h.svc.AcceptInvitation(ctx, membership.AcceptInvitationInput{ID: id, UserID: principal.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"membership": membershipFields(accepted)})
}

// UpdateMembership は現在の利用者として権限または状態を更新します。
func (h *MembershipGrpcHandler) UpdateMembership(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}
	f := fieldsOf(req)

	id, err := f.string("id")
	if err != nil {
		return nil, toStatusError(err)
	}
	rawRole, err := f.optionalString("role")
	if err != nil {
		return nil, toStatusError(err)
	}
	statusPtr, err := membershipStatusField(f)
	if err != nil {
		return nil, toStatusError(err)
	}

	in := membership.UpdateMembershipInput{ActorID: principal.ID, ID: id, Status: statusPtr}
	if rawRole != nil {
		role := membership.Role(*rawRole)
		in.Role = &role
	}

	updated, err := h.svc.UpdateMembership(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"membership": membershipFields(updated)})
}

// GetMembership は所属を取得します。
func (h *MembershipGrpcHandler) GetMembership(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}

	id, err := fieldsOf(req).string("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	found, err := h.svc.GetMembership(ctx, membership.GetMembershipInput{ActorID: principal.ID, ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"membership": membershipFields(found)})
}

// ListMemberships は会社の所属一覧を取得します。
func (h *MembershipGrpcHandler) ListMemberships(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, err := currentPrincipal(ctx, h.idp)
	if err != nil {
		return nil, toStatusError(err)
	}
	f := fieldsOf(req)

	companyID, err := f.string("company_id")
	if err != nil {
		return nil, toStatusError(err)
	}
	pageSize, err := f.int("page_size")
	if err != nil {
		return nil, toStatusError(err)
	}
	pageToken, err := f.string("page_token")
	if err != nil {
		return nil, toStatusError(err)
	}
	statusPtr, err := membershipStatusField(f)
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.svc.ListMemberships(ctx, membership.ListMembershipsInput{
		ActorID:   principal.ID,
		CompanyID: companyID,
		Status:    statusPtr,
		PageSize:  pageSize,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(result.Memberships))
	for _, m := range result.Memberships {
		items = append(items, membershipFields(m))
	}

	return newStruct(map[string]any{
		"memberships":     items,
		"next_page_token": result.NextPageToken,
	})
}

func membershipStatusField(f fields) (*membership.Status, error) {
	raw, err := f.optionalString("status")
	if err != nil || raw == nil {
		return nil, err
	}
	s := membership.Status(*raw)
	return &s, nil
}

func membershipFields(m *membership.Membership) map[string]any {
	out := map[string]any{
		"id":         m.ID,
		"company_id": m.CompanyID,
		"user_id":    m.UserID,
		"role":       string(m.Role),
		"status":     string(m.Status),
		"joined_at":  optionalTime(m.JoinedAt),
		"created_at": formatTime(m.CreatedAt),
		"updated_at": formatTime(m.UpdatedAt),
		"profile":    nil,
	}
	if m.Profile != nil {
		out["profile"] = map[string]any{
			"email":        m.Profile.Email,
			"display_name": m.Profile.DisplayName,
		}
	}
	return out
}
