package identity

import "time"

// Role は利用者の役割を表します。
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
)

// ParseRole は文字列を Role に変換します。
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleSuperAdmin, RoleAdmin, RoleEmployee:
		return Role(raw), nil
	default:
		return "", ErrInvalidRole
	}
}

// User は認証対象のユーザーエンティティです。
type User struct {
	ID           string
	CompanyID    *string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity は認証済みの操作主体コンテキストです。
// リクエストごとに読み取り専用で扱い、途中で書き換えられることはありません。
// CompanyID が nil になるのは super_admin のみです。
type Identity struct {
	ActorID   string
	FullName  string
	Role      Role
	CompanyID *string
}

// InRoles は自身の役割が許可リストに含まれるかを返します。
func (i Identity) InRoles(roles ...Role) bool {
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}
