package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
	"go.uber.org/zap"
)

// UseCase はセッション解決ユースケースの公開インターフェースです。
type UseCase interface {
	ResolveSession(ctx context.Context) (*SessionContext, error)
	SwitchCompany(ctx context.Context, in SwitchCompanyInput) (*SessionContext, error)
}

// SwitchCompanyInput は会社切り替え時の入力です。
type SwitchCompanyInput struct {
	CompanyID string
}

// Service はリクエストごとのテナント解決と会社の切り替えを提供します。
type Service struct {
	idp    IdentityProvider
	repo   Repository
	tx     TransactionManager
	logger *zap.Logger
}

// NewService は Service を生成します。
func NewService(idp IdentityProvider, repo Repository, tx TransactionManager, logger *zap.Logger) *Service {
	if tx == nil {
		tx = shared.NoopTransactionManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{idp: idp, repo: repo, tx: tx, logger: logger}
}

// ResolveSession は現在の利用者のセッション情報を解決します。
// 読み取りは並行に行うため、トランザクションの外で実行します。
func (s *Service) ResolveSession(ctx context.Context) (*SessionContext, error) {
	session, err := ResolveSessionContext(ctx, s.idp, s.repo)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			s.logger.Warn("session resolution failed", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Debug("session resolved",
		zap.String("user_id", session.UserID),
		zap.String("source", string(session.Source)),
	)
	return session, nil
}

// SwitchCompany は所属を確認したうえで会社の選択を保存し、解決し直したセッション情報を返します。
func (s *Service) SwitchCompany(ctx context.Context, in SwitchCompanyInput) (*SessionContext, error) {
	companyID, err := normalizeCompanyID(in.CompanyID)
	if err != nil {
		return nil, err
	}

	principal, err := RequirePrincipal(ctx, s.idp)
	if err != nil {
		return nil, err
	}
	userID := strings.TrimSpace(principal.ID)

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		memberships, err := s.repo.ListMemberships(txCtx, userID, ActiveMembershipStatuses)
		if err != nil {
			return fmt.Errorf("list memberships: %w: %w", ErrStoreUnavailable, err)
		}
		if !containsCompany(memberships, companyID) {
			return ErrNotAMember
		}

		if err := s.repo.SetPreferredCompany(txCtx, userID, companyID); err != nil {
			return fmt.Errorf("set preferred company: %w: %w", ErrStoreUnavailable, err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("active company switched",
		zap.String("user_id", userID),
		zap.String("company_id", companyID),
	)

	return s.ResolveSession(ctx)
}

func normalizeCompanyID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("company_id: %w", ErrInvalidCompanyID)
	}
	return id.String(), nil
}

func containsCompany(memberships []Membership, companyID string) bool {
	for _, m := range memberships {
		if isActiveLike(m.Status) && strings.EqualFold(m.CompanyID, companyID) {
			return true
		}
	}
	return false
}
