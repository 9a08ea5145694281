package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wfunc/party-game/internal/api"
	"github.com/wfunc/party-game/internal/auth"
	"github.com/wfunc/party-game/internal/config"
	"github.com/wfunc/party-game/internal/database"
	"github.com/wfunc/party-game/internal/errors"
	"github.com/wfunc/party-game/internal/game"
	"github.com/wfunc/party-game/internal/logger"
	"github.com/wfunc/party-game/internal/repository"
	ws "github.com/wfunc/party-game/internal/websocket"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	manager *game.Manager
	hub     *ws.Hub
	router  *api.Router
	httpSrv *http.Server

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	setupSystem(&cfg.System)

	printStartInfo(cfg)

	server := NewServer(cfg)

	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:    cfg,
		logger: logger.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动聚会游戏服务器...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if err := s.initComponents(); err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "初始化组件失败")
	}

	s.startServices()

	config.Watch(func(newCfg *config.Config) {
		s.logger.Info("配置已更新，正在重新加载...")
		s.cfg = newCfg
	})

	s.logger.Info("服务器启动成功",
		zap.String("http", fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)),
		zap.String("websocket", s.cfg.WebSocket.Path),
	)

	return nil
}

// initComponents 初始化组件
func (s *Server) initComponents() error {
	s.logger.Info("初始化组件...")

	if err := s.initDatabase(); err != nil {
		return err
	}

	db := database.GetDB()
	recordRepo := repository.NewGameRecordRepository(db)
	eventRepo := repository.NewRoomEventRepository(db)

	tokens := auth.NewManager(
		s.cfg.Security.JWT.Secret,
		time.Duration(s.cfg.Security.JWT.ExpireHours)*time.Hour,
	)

	s.manager = game.NewManager(s.cfg,
		game.WithRepositories(recordRepo, eventRepo),
	)

	s.hub = ws.NewHub(s.logger)
	s.hub.SetMessageHandler(ws.NewRoomMessageHandler(s.hub, s.manager))

	s.router = api.NewRouter(s.cfg, api.Deps{
		Manager:    s.manager,
		Hub:        s.hub,
		Tokens:     tokens,
		RecordRepo: recordRepo,
		EventRepo:  eventRepo,
	}, s.logger)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.router.Engine(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.logger.Info("所有组件初始化完成")
	return nil
}

// initDatabase 初始化数据库
func (s *Server) initDatabase() error {
	s.logger.Info("初始化数据库...")

	if err := database.Init(&s.cfg.Database); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseConnect, "初始化数据库连接失败")
	}

	if s.cfg.Database.AutoMigrate {
		s.logger.Info("执行数据库自动迁移...")
		if err := database.AutoMigrate(); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseConnect, "数据库迁移失败")
		}
	}

	s.logger.Info("数据库初始化完成")
	return nil
}

// startServices 启动服务
func (s *Server) startServices() {
	s.logger.Info("启动服务...")

	// WebSocket消息分发循环，随进程退出
	go s.hub.Run()

	// 空房间回收
	s.manager.StartCleanupTask(s.ctx)

	// HTTP服务器
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP服务器异常退出", zap.Error(err))
		}
	}()

	s.logger.Info("所有服务启动完成")
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	sig := <-sigCh
	s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 先停HTTP入口，再取消后台任务
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("关闭HTTP服务器失败", zap.Error(err))
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("所有服务已正常关闭")
	case <-shutdownCtx.Done():
		s.logger.Warn("关闭超时，强制退出")
		return errors.New(errors.ErrTimeout, "关闭超时")
	}

	if err := database.Close(); err != nil {
		s.logger.Error("关闭数据库失败", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		fmt.Printf("同步日志失败: %v\n", err)
	}

	return nil
}

// setupSystem 设置系统参数
func setupSystem(cfg *config.SystemConfig) {
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			time.Local = loc
		}
	}

	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}

	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err == nil {
		rLimit.Cur = rLimit.Max
		syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("聚会游戏服务器\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("聚会游戏服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  party-game-server [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  PARTY_GAME_SERVER_MODE   运行模式 (debug/release/test)")
	fmt.Println("  PARTY_GAME_SERVER_PORT   监听端口")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  party-game-server -config=/path/to/config.yaml")
	fmt.Println("  party-game-server -version")
}

// printStartInfo 打印启动信息
func printStartInfo(cfg *config.Config) {
	banner := `
╔═══════════════════════════════════════════════════════════════╗
║                                                               ║
║    ______          _           _____                          ║
║    | ___ \        | |         |  __ \                         ║
║    | |_/ /_ _ _ __| |_ _   _  | |  \/ __ _ _ __ ___   ___     ║
║    |  __/ _` + "`" + ` | '__| __| | | | | | __ / _` + "`" + ` | '_ ` + "`" + ` _ \ / _ \    ║
║    | | | (_| | |  | |_| |_| | | |_\ \ (_| | | | | | |  __/    ║
║    \_|  \__,_|_|   \__|\__, |  \____/\__,_|_| |_| |_|\___|    ║
║                         __/ |                                 ║
║                        |___/   聚会游戏后端服务器             ║
║                                                               ║
╚═══════════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
	fmt.Printf("版本: %s | 模式: %s | PID: %d\n", Version, cfg.Server.Mode, os.Getpid())
	fmt.Println("═══════════════════════════════════════════════════════════════")
}
