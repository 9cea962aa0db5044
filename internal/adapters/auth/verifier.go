package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
)

var (
	// ErrInvalidToken はアクセストークンの検証に失敗した場合に返却されます。
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrMissingSecret は署名鍵が設定されていない場合に返却されます。
	ErrMissingSecret = errors.New("auth: jwt secret is required")
)

// Config はトークン検証の設定です。Issuer と Audience は空の場合検証しません。
type Config struct {
	Secret   string
	Issuer   string
	Audience string
}

// Verifier は HS256 で署名されたアクセストークンを検証します。
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier は Verifier を生成します。
func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{secret: []byte(cfg.Secret), parser: jwt.NewParser(opts...)}, nil
}

// Verify はトークンを検証し、利用者を返します。subject は UUID でなければなりません。
func (v *Verifier) Verify(raw string) (*tenancy.Principal, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	principal := claims.Principal()
	if _, err := uuid.Parse(principal.ID); err != nil {
		return nil, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}
	principal.ID = strings.ToLower(principal.ID)
	return principal, nil
}
