package tenancy

import "time"

// Principal は認証済みの利用者です。ヒントは認証プロバイダが保持する属性で、空の場合があります。
type Principal struct {
	ID              string
	DisplayNameHint string
	EmailHint       string
}

// Profile は利用者の表示名を保持するプロフィールです。
type Profile struct {
	UserID      string
	DisplayName string
}

// MembershipStatus は会社所属の状態を表します。
type MembershipStatus string

const (
	MembershipStatusActive            MembershipStatus = "active"
	MembershipStatusPendingInvitation MembershipStatus = "pending_invitation"
	MembershipStatusSuspended         MembershipStatus = "suspended"
	MembershipStatusRemoved           MembershipStatus = "removed"
)

// ActiveMembershipStatuses はテナント解決の対象になる所属状態です。
var ActiveMembershipStatuses = []MembershipStatus{
	MembershipStatusActive,
	MembershipStatusPendingInvitation,
}

// Membership はテナント解決に必要な所属情報です。
type Membership struct {
	CompanyID string
	Status    MembershipStatus
	JoinedAt  time.Time
}

// Source はアクティブな会社を決定した規則を表します。
type Source string

const (
	SourcePreference Source = "preference"
	SourceMembership Source = "membership"
	SourceNone       Source = "none"
)

// SessionContext は 1 回の解決で得られるセッション情報です。CompanyID が nil の場合、テナントはありません。
type SessionContext struct {
	UserID      string
	DisplayName string
	CompanyID   *string
	Source      Source
}

// HasTenant はアクティブな会社が決まっているかどうかを返します。
func (s *SessionContext) HasTenant() bool {
	return s != nil && s.CompanyID != nil
}
