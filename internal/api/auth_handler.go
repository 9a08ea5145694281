package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wfunc/party-game/internal/auth"
	"github.com/wfunc/party-game/internal/config"
	"github.com/wfunc/party-game/internal/middleware"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg    *config.Config
	tokens *auth.Manager
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// GuestLoginRequest 游客登录请求
type GuestLoginRequest struct {
	Name string `json:"name" binding:"required,min=1,max=20"`
}

// GuestLogin 游客登录：给昵称换一个带稳定标识的令牌
func (h *AuthHandler) GuestLogin(c *gin.Context) {
	if !h.cfg.Security.AllowGuest {
		c.JSON(http.StatusForbidden, gin.H{
			"code":    "GUEST_DISABLED",
			"message": "游客登录已关闭",
		})
		return
	}

	var req GuestLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_PARAM",
			"message": "昵称不能为空，长度1-20",
		})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_PARAM",
			"message": "昵称不能为空",
		})
		return
	}

	token, userID, err := h.tokens.IssueGuestToken(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "TOKEN_ISSUE_FAILED",
			"message": "令牌签发失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": userID,
		"name":   name,
	})
}

// RefreshToken 续签令牌，保留稳定标识
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "NO_TOKEN",
			"message": "缺少认证令牌",
		})
		return
	}
	name, _ := middleware.GetUserName(c)

	token, err := h.tokens.Generate(userID, name, middleware.IsGuest(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "TOKEN_ISSUE_FAILED",
			"message": "令牌签发失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": userID,
		"name":   name,
	})
}
