package membership

import "time"

// Role は会社内での権限です。
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Status は所属の状態を表します。removed は終端状態です。
type Status string

const (
	StatusActive            Status = "active"
	StatusPendingInvitation Status = "pending_invitation"
	StatusSuspended         Status = "suspended"
	StatusRemoved           Status = "removed"
)

// Membership は利用者と会社の所属関係です。(CompanyID, UserID) は一意です。
// JoinedAt は招待を承認した時点で設定されます。
type Membership struct {
	ID        string
	CompanyID string
	UserID    string
	Role      Role
	Status    Status
	JoinedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Profile   *ProfileSnapshot
}

// ProfileSnapshot は所属に紐づくプロフィールのスナップショットです。
type ProfileSnapshot struct {
	UserID      string
	Email       string
	DisplayName string
}
