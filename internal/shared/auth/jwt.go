package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrNotJWT       = errors.New("token is not a jwt")
)

// Claims are the registered claims the console can show without a key.
type Claims struct {
	SessionID string   `json:"sid"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenInfo summarises an operator token for the session bar.
type TokenInfo struct {
	Subject   string
	Issuer    string
	Algorithm string
	Roles     []string
	ExpiresAt *time.Time
	Expired   bool
}

// TokenInspector decodes operator tokens. The console holds no signing keys,
// so tokens are parsed unverified and only used for display.
type TokenInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

func NewTokenInspector() *TokenInspector {
	return &TokenInspector{parser: jwt.NewParser(), now: time.Now}
}

// Inspect returns ErrNotJWT for opaque tokens such as static API keys.
func (i *TokenInspector) Inspect(token string) (*TokenInfo, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, ErrMissingToken
	}
	if strings.Count(trimmed, ".") != 2 {
		return nil, ErrNotJWT
	}

	claims := &Claims{}
	parsed, _, err := i.parser.ParseUnverified(trimmed, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		Roles:   claims.Roles,
	}
	if parsed.Method != nil {
		info.Algorithm = parsed.Method.Alg()
	}
	if exp := claims.ExpiresAt; exp != nil {
		at := exp.Time.UTC()
		info.ExpiresAt = &at
		info.Expired = !at.After(i.now())
	}
	return info, nil
}
