package profile

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

const maxDisplayNameLength = 120

// Service はプロフィールに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock shared.Clock
	tx    shared.TransactionManager
}

// UseCase はプロフィールユースケースの公開インターフェースです。
type UseCase interface {
	UpsertProfile(ctx context.Context, in UpsertProfileInput) (*Profile, error)
	GetProfile(ctx context.Context, in GetProfileInput) (*Profile, error)
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

// UpsertProfileInput はプロフィール保存時の入力です。DisplayName は空でも構いません。
type UpsertProfileInput struct {
	UserID      string
	Email       string
	DisplayName string
}

// GetProfileInput はプロフィール取得時の入力です。
type GetProfileInput struct {
	UserID string
}

// UpsertProfile はプロフィールを作成または更新します。
func (s *Service) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*Profile, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return nil, ErrInvalidDisplayName
	}

	var saved *Profile
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		owner, err := s.repo.FindByEmail(txCtx, email)
		if err != nil && !errors.Is(err, ErrProfileNotFound) {
			return err
		}
		if owner != nil && owner.UserID != userID {
			return ErrEmailAlreadyExists
		}

		now := s.clock.Now()
		result, err := s.repo.Upsert(txCtx, &Profile{
			UserID:      userID,
			Email:       email,
			DisplayName: displayName,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// GetProfile は利用者 ID でプロフィールを取得します。
func (s *Service) GetProfile(ctx context.Context, in GetProfileInput) (*Profile, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	var found *Profile
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByUserID(txCtx, userID)
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

func normalizeUserID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidUserID
	}
	return id.String(), nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}
