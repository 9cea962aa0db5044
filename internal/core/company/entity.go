package company

import "time"

// Status は会社の状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const (
	// DefaultCountry は国コードが省略された場合の既定値です。
	DefaultCountry = "UG"
	// DefaultCurrency は通貨コードが省略された場合の既定値です。
	DefaultCurrency = "UGX"
)

// Company はテナントとなる会社です。すべての業務データは会社 ID で区切られます。
type Company struct {
	ID          string
	Name        string
	Code        string
	Status      Status
	Country     string
	Currency    string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
