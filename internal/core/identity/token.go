package identity

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims は JWT に格納するユーザー情報です。
type Claims struct {
	UserID    string  `json:"userId"`
	FullName  string  `json:"fullName"`
	Role      string  `json:"role"`
	CompanyID *string `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer はユーザーに対する資格情報文字列を発行します。
type TokenIssuer interface {
	Issue(user *User) (string, error)
}

// TokenVerifier は資格情報文字列を検証し、Identity に復元します。
type TokenVerifier interface {
	Verify(raw string) (Identity, error)
}

// TokenManager は HS256 署名の JWT を発行・検証します。
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	clock    Clock
}

// NewTokenManager は TokenManager を生成します。
func NewTokenManager(secret string, lifetime time.Duration, clock Clock) *TokenManager {
	if clock == nil {
		clock = realClock{}
	}
	return &TokenManager{secret: []byte(secret), lifetime: lifetime, clock: clock}
}

// Issue はユーザーの識別情報を含むトークンを発行します。
func (m *TokenManager) Issue(user *User) (string, error) {
	now := m.clock.Now()
	claims := Claims{
		UserID:    user.ID,
		FullName:  user.FullName,
		Role:      string(user.Role),
		CompanyID: user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify はトークンを検証して Identity を復元します。
// 欠落・改ざん・期限切れはいずれも ErrInvalidToken になります。
func (m *TokenManager) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	if claims.UserID == "" {
		return Identity{}, ErrInvalidToken
	}

	if role != RoleSuperAdmin && claims.CompanyID == nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		ActorID:   claims.UserID,
		FullName:  claims.FullName,
		Role:      role,
		CompanyID: claims.CompanyID,
	}, nil
}
