package membership

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

// Service は会社への所属に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock shared.Clock
	tx    shared.TransactionManager
}

// UseCase は所属ユースケースの公開インターフェースです。
type UseCase interface {
	InviteMember(ctx context.Context, in InviteMemberInput) (*Membership, error)
	AcceptInvitation(ctx context.Context, in AcceptInvitationInput) (*Membership, error)
	UpdateMembership(ctx context.Context, in UpdateMembershipInput) (*Membership, error)
	GetMembership(ctx context.Context, in GetMembershipInput) (*Membership, error)
	ListMemberships(ctx context.Context, in ListMembershipsInput) (*ListMembershipsResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock shared.Clock, tx shared.TransactionManager) *Service {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if tx == nil {
		tx = shared.NoopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// InviteMemberInput は招待時の入力です。Role が空の場合は member になります。
// ActorID は招待する利用者で、会社の active な owner または admin である必要があります。
type InviteMemberInput struct {
	ActorID   string
	CompanyID string
	UserID    string
	Role      Role
}

// AcceptInvitationInput は招待承認時の入力です。UserID は承認する利用者です。
type AcceptInvitationInput struct {
	ID     string
	UserID string
}

// UpdateMembershipInput は所属更新時の入力です。ActorID は会社の active な owner または admin です。
type UpdateMembershipInput struct {
	ActorID string
	ID      string
	Role    *Role
	Status  *Status
}

// GetMembershipInput は所属取得時の入力です。本人または同じ会社の active な所属者のみ取得できます。
type GetMembershipInput struct {
	ActorID string
	ID      string
}

// ListMembershipsInput は一覧取得時の入力です。ActorID は会社の active な所属者です。
type ListMembershipsInput struct {
	ActorID   string
	CompanyID string
	Status    *Status
	PageSize  int
	PageToken string
}

// ListMembershipsResult は一覧取得結果を表します。
type ListMembershipsResult struct {
	Memberships   []*Membership
	NextPageToken string
}

// InviteMember は利用者を会社に招待します。作成された所属は pending_invitation です。
func (s *Service) InviteMember(ctx context.Context, in InviteMemberInput) (*Membership, error) {
	companyID, err := normalizeUUID(in.CompanyID, ErrInvalidCompanyID)
	if err != nil {
		return nil, err
	}
	userID, err := normalizeUUID(in.UserID, ErrInvalidUserID)
	if err != nil {
		return nil, err
	}
	actorID, err := normalizeUUID(in.ActorID, ErrForbidden)
	if err != nil {
		return nil, err
	}

	role := RoleMember
	if strings.TrimSpace(string(in.Role)) != "" {
		if role, err = normalizeRole(in.Role); err != nil {
			return nil, err
		}
	}

	var created *Membership
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		actor, err := s.managerOf(txCtx, companyID, actorID)
		if err != nil {
			return err
		}
		if role == RoleOwner && actor.Role != RoleOwner {
			return fmt.Errorf("only owners can invite owners: %w", ErrForbidden)
		}

		existing, err := s.repo.FindByCompanyAndUser(txCtx, companyID, userID)
		if err != nil && !errors.Is(err, ErrMembershipNotFound) {
			return err
		}
		if existing != nil {
			return ErrAlreadyMember
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Membership{
			CompanyID: companyID,
			UserID:    userID,
			Role:      role,
			Status:    StatusPendingInvitation,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// AcceptInvitation は招待を承認し、所属を active にします。
func (s *Service) AcceptInvitation(ctx context.Context, in AcceptInvitationInput) (*Membership, error) {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}
	userID, err := normalizeUUID(in.UserID, ErrInvalidUserID)
	if err != nil {
		return nil, err
	}

	var accepted *Membership
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.UserID != userID {
			return ErrNotInvitee
		}
		if existing.Status != StatusPendingInvitation {
			return fmt.Errorf("%s -> %s: %w", existing.Status, StatusActive, ErrInvalidTransition)
		}

		now := s.clock.Now()
		existing.Status = StatusActive
		existing.JoinedAt = &now
		existing.UpdatedAt = now

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		accepted = result
		return nil
	}); err != nil {
		return nil, err
	}

	return accepted, nil
}

// UpdateMembership は権限または状態を変更します。会社には active な owner が少なくとも 1 人残ります。
func (s *Service) UpdateMembership(ctx context.Context, in UpdateMembershipInput) (*Membership, error) {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}
	actorID, err := normalizeUUID(in.ActorID, ErrForbidden)
	if err != nil {
		return nil, err
	}
	var role *Role
	if in.Role != nil {
		normalized, err := normalizeRole(*in.Role)
		if err != nil {
			return nil, err
		}
		role = &normalized
	}
	if in.Status != nil && !isValidStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}

	var updated *Membership
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		actor, err := s.managerOf(txCtx, existing.CompanyID, actorID)
		if err != nil {
			return err
		}
		if actor.Role != RoleOwner && (existing.Role == RoleOwner || (role != nil && *role == RoleOwner)) {
			return fmt.Errorf("only owners can change owner memberships: %w", ErrForbidden)
		}
		wasActiveOwner := existing.Role == RoleOwner && existing.Status == StatusActive

		if in.Status != nil {
			if !CanTransition(existing.Status, *in.Status) {
				return fmt.Errorf("%s -> %s: %w", existing.Status, *in.Status, ErrInvalidTransition)
			}
			existing.Status = *in.Status
		} else if existing.Status == StatusRemoved {
			return fmt.Errorf("removed membership is read-only: %w", ErrInvalidTransition)
		}

		if role != nil {
			existing.Role = *role
		}

		stillActiveOwner := existing.Role == RoleOwner && existing.Status == StatusActive
		if wasActiveOwner && !stillActiveOwner {
			if err := s.ensureAnotherOwner(txCtx, existing.CompanyID); err != nil {
				return err
			}
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

// GetMembership は所属を取得します。
func (s *Service) GetMembership(ctx context.Context, in GetMembershipInput) (*Membership, error) {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}
	actorID, err := normalizeUUID(in.ActorID, ErrForbidden)
	if err != nil {
		return nil, err
	}

	var found *Membership
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if result.UserID != actorID {
			if _, err := s.activeMemberOf(txCtx, result.CompanyID, actorID); err != nil {
				return err
			}
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	return found, nil
}

// ListMemberships は会社の所属を参加日時の降順で取得します。
func (s *Service) ListMemberships(ctx context.Context, in ListMembershipsInput) (*ListMembershipsResult, error) {
	companyID, err := normalizeUUID(in.CompanyID, ErrInvalidCompanyID)
	if err != nil {
		return nil, err
	}
	actorID, err := normalizeUUID(in.ActorID, ErrForbidden)
	if err != nil {
		return nil, err
	}

	page, err := shared.ParsePage(in.PageSize, in.PageToken)
	if err != nil {
		return nil, err
	}

	filter := ListMembershipsFilter{CompanyID: companyID, Page: page}
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		filter.Status = &status
	}

	result := &ListMembershipsResult{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.activeMemberOf(txCtx, companyID, actorID); err != nil {
			return err
		}
		memberships, token, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		result.Memberships = memberships
		result.NextPageToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// RegisterOwner は会社の作成者を active な owner として登録します。
func (s *Service) RegisterOwner(ctx context.Context, companyID, userID string) error {
	companyID, err := normalizeUUID(companyID, ErrInvalidCompanyID)
	if err != nil {
		return err
	}
	userID, err = normalizeUUID(userID, ErrInvalidUserID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		_, err := s.repo.Create(txCtx, &Membership{
			CompanyID: companyID,
			UserID:    userID,
			Role:      RoleOwner,
			Status:    StatusActive,
			JoinedAt:  &now,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
}

// RequireManager は利用者が会社の active な owner または admin であることを確認します。
func (s *Service) RequireManager(ctx context.Context, companyID, userID string) error {
	return s.require(ctx, companyID, userID, RoleOwner, RoleAdmin)
}

// RequireOwner は利用者が会社の active な owner であることを確認します。
func (s *Service) RequireOwner(ctx context.Context, companyID, userID string) error {
	return s.require(ctx, companyID, userID, RoleOwner)
}

func (s *Service) require(ctx context.Context, companyID, userID string, roles ...Role) error {
	companyID, err := normalizeUUID(companyID, ErrInvalidCompanyID)
	if err != nil {
		return err
	}
	userID, err = normalizeUUID(userID, ErrForbidden)
	if err != nil {
		return err
	}

	return s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		actor, err := s.activeMemberOf(txCtx, companyID, userID)
		if err != nil {
			return err
		}
		if !slices.Contains(roles, actor.Role) {
			return fmt.Errorf("role %s: %w", actor.Role, ErrForbidden)
		}
		return nil
	})
}

func (s *Service) managerOf(ctx context.Context, companyID, actorID string) (*Membership, error) {
	actor, err := s.activeMemberOf(ctx, companyID, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != RoleOwner && actor.Role != RoleAdmin {
		return nil, fmt.Errorf("role %s: %w", actor.Role, ErrForbidden)
	}
	return actor, nil
}

func (s *Service) activeMemberOf(ctx context.Context, companyID, actorID string) (*Membership, error) {
	actor, err := s.repo.FindByCompanyAndUser(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return nil, fmt.Errorf("not a member: %w", ErrForbidden)
		}
		return nil, err
	}
	if actor.Status != StatusActive {
		return nil, fmt.Errorf("membership %s: %w", actor.Status, ErrForbidden)
	}
	return actor, nil
}

func (s *Service) ensureAnotherOwner(ctx context.Context, companyID string) error {
	owners, err := s.repo.CountActiveOwners(ctx, companyID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return ErrLastOwner
	}
	return nil
}

func normalizeUUID(raw string, invalid error) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid
	}
	return id.String(), nil
}
