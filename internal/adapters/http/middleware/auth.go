package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
)

const identityKey = "auth.identity"

const bearerPrefix = "Bearer "

// AuthMiddleware はリクエストの資格情報を検証し、操作主体をコンテキストへ載せます。
type AuthMiddleware struct {
	verifier identity.TokenVerifier
}

// NewAuthMiddleware は AuthMiddleware を生成します。
func NewAuthMiddleware(verifier identity.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate は Authorization ヘッダーのトークンを検証します。
// 欠落・改ざん・期限切れはいずれも 401 になります。
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}

		id, err := am.verifier.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired token",
			})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRoles は操作主体の役割が許可リストに含まれない場合に 403 を返します。
// Authenticate より後段に配置される前提です。
func (am *AuthMiddleware) RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}

		if !id.InRoles(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "permission denied",
			})
			return
		}

		c.Next()
	}
}

// IdentityFrom はコンテキストから認証済みの操作主体を取り出します。
func IdentityFrom(c *gin.Context) (identity.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return identity.Identity{}, false
	}
	id, ok := value.(identity.Identity)
	return id, ok
}
