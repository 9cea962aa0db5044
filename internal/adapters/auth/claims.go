package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
)

// Claims は認証プロバイダが発行するアクセストークンのクレームです。
type Claims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Principal はクレームから利用者を組み立てます。
func (c *Claims) Principal() *tenancy.Principal {
	return &tenancy.Principal{
		ID:              strings.TrimSpace(c.Subject),
		DisplayNameHint: firstMetadata(c.UserMetadata, "full_name", "name", "display_name"),
		EmailHint:       strings.TrimSpace(c.Email),
	}
}

func firstMetadata(metadata map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := metadata[key].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
