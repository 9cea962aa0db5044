package profile

import "time"

// Profile は認証プロバイダの利用者に対応するプロフィールです。UserID は認証プロバイダの subject です。
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
