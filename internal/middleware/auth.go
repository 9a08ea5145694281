package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wfunc/party-game/internal/auth"
)

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	tokens *auth.Manager
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(tokens *auth.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth 需要认证的中间件
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "NO_TOKEN",
				"message": "缺少认证令牌",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "INVALID_TOKEN",
				"message": "无效的令牌",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 可选认证的中间件（不强制要求登录）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := m.extractToken(c); token != "" {
			if claims, err := m.tokens.Validate(token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("userName", claims.Name)
	c.Set("guest", claims.Guest)
}

// extractToken 从请求中提取令牌
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	// 1. 从Authorization Header获取 (Bearer Token)
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		parts := strings.Split(bearerToken, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// 2. 从X-Access-Token Header获取
	if token := c.GetHeader("X-Access-Token"); token != "" {
		return token
	}

	// 3. 从Query参数获取（浏览器WebSocket无法设置Header）
	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("userID"); exists {
		if id, ok := userID.(string); ok {
			return id, true
		}
	}
	return "", false
}

// GetUserName 从上下文获取用户名
func GetUserName(c *gin.Context) (string, bool) {
	if name, exists := c.Get("userName"); exists {
		if n, ok := name.(string); ok {
			return n, true
		}
	}
	return "", false
}

// IsGuest 检查当前用户是否为游客
func IsGuest(c *gin.Context) bool {
	if guest, exists := c.Get("guest"); exists {
		if g, ok := guest.(bool); ok {
			return g
		}
	}
	return false
}
