package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wfunc/party-game/internal/auth"
	"github.com/wfunc/party-game/internal/config"
	"github.com/wfunc/party-game/internal/middleware"
	ws "github.com/wfunc/party-game/internal/websocket"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	cfg      *config.Config
	hub      *ws.Hub
	tokens   *auth.Manager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(cfg *config.Config, hub *ws.Hub, tokens *auth.Manager, logger *zap.Logger) *WebSocketHandler {
	readBuf := cfg.WebSocket.ReadBufferSize
	if readBuf <= 0 {
		readBuf = 1024
	}
	writeBuf := cfg.WebSocket.WriteBufferSize
	if writeBuf <= 0 {
		writeBuf = 1024
	}

	return &WebSocketHandler{
		cfg:    cfg,
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    readBuf,
			WriteBufferSize:   writeBuf,
			EnableCompression: cfg.WebSocket.EnableCompression,
			CheckOrigin: func(r *http.Request) bool {
				// 房间靠口令保护，Origin不做白名单
				return true
			},
		},
		logger: logger,
	}
}

// GameWebSocket 游戏WebSocket连接
func (h *WebSocketHandler) GameWebSocket(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	name, _ := middleware.GetUserName(c)

	if !ok {
		if !h.cfg.Security.AllowGuest {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "NO_TOKEN",
				"message": "缺少认证令牌",
			})
			return
		}
		// 匿名连接：现场发一个稳定标识，重连需携带令牌才能找回座位
		userID = uuid.NewString()
		if name = c.Query("name"); name == "" {
			name = "游客"
		}
		h.logger.Info("WebSocket匿名连接", zap.String("ip", c.ClientIP()))
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket升级失败",
			zap.String("user_id", userID),
			zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, userID, name)
	client.Register()

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("WebSocket连接建立",
		zap.String("client_id", client.ID),
		zap.String("user_id", userID),
		zap.String("name", name))
}
