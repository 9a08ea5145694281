package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wfunc/party-game/internal/auth"
	"github.com/wfunc/party-game/internal/config"
	"github.com/wfunc/party-game/internal/game"
	"github.com/wfunc/party-game/internal/middleware"
	"github.com/wfunc/party-game/internal/repository"
	ws "github.com/wfunc/party-game/internal/websocket"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	cfg            *config.Config
	manager        *game.Manager
	authHandler    *AuthHandler
	roomHandler    *RoomHandler
	wsHandler      *WebSocketHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// Deps 路由器依赖
type Deps struct {
	Manager    *game.Manager
	Hub        *ws.Hub
	Tokens     *auth.Manager
	RecordRepo repository.GameRecordRepository
	EventRepo  repository.RoomEventRepository
}

// NewRouter 创建路由器
func NewRouter(cfg *config.Config, deps Deps, log *zap.Logger) *Router {
	switch cfg.Server.Mode {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	router := &Router{
		engine:         engine,
		cfg:            cfg,
		manager:        deps.Manager,
		authHandler:    NewAuthHandler(cfg, deps.Tokens),
		roomHandler:    NewRoomHandler(deps.Manager, deps.RecordRepo, deps.EventRepo),
		wsHandler:      NewWebSocketHandler(cfg, deps.Hub, deps.Tokens, log),
		authMiddleware: middleware.NewAuthMiddleware(deps.Tokens),
		log:            log,
	}

	router.setupRoutes()
	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/guest", r.authHandler.GuestLogin)

			authRequired := authGroup.Group("")
			authRequired.Use(r.authMiddleware.RequireAuth())
			{
				authRequired.POST("/refresh", r.authHandler.RefreshToken)
			}
		}

		// 房间大厅（列表可匿名浏览，建房需要令牌）
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", r.roomHandler.ListRooms)
			rooms.GET("/:code", r.roomHandler.GetRoom)

			roomsAuth := rooms.Group("")
			roomsAuth.Use(r.authMiddleware.RequireAuth())
			{
				roomsAuth.POST("", r.roomHandler.CreateRoom)
			}
		}

		// 对局存档
		records := v1.Group("/records")
		{
			records.GET("", r.roomHandler.RecentRecords)
			records.GET("/:code", r.roomHandler.RoomRecords)
			records.GET("/:code/events", r.roomHandler.RoomEvents)
		}
	}

	// WebSocket入口：令牌从query携带，可选（allow_guest时匿名也能连）
	wsPath := r.cfg.WebSocket.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.engine.GET(wsPath, r.authMiddleware.OptionalAuth(), r.wsHandler.GameWebSocket)
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
		"rooms":  r.manager.RoomCount(),
	})
}

// requestLogger 请求日志中间件
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("HTTP请求",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Engine 返回底层Gin引擎
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
