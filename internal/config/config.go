package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Room      RoomConfig      `mapstructure:"room"`
	Game      GameConfig      `mapstructure:"game"`
	Log       LogConfig       `mapstructure:"log"`
	Security  SecurityConfig  `mapstructure:"security"`
	System    SystemConfig    `mapstructure:"system"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig 数据库配置（仅用于对局存档，房间状态常驻内存）
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	Path              string        `mapstructure:"path"`
	ReadBufferSize    int           `mapstructure:"read_buffer_size"`
	WriteBufferSize   int           `mapstructure:"write_buffer_size"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	PingInterval      time.Duration `mapstructure:"ping_interval"`
	PongTimeout       time.Duration `mapstructure:"pong_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// RoomConfig 房间配置
type RoomConfig struct {
	CodeLength      int           `mapstructure:"code_length"`
	MaxRooms        int           `mapstructure:"max_rooms"`
	MaxPlayers      int           `mapstructure:"max_players"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	EmptyRoomTTL    time.Duration `mapstructure:"empty_room_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// GameConfig 游戏配置
type GameConfig struct {
	Property PropertyConfig `mapstructure:"property"`
	Sector   SectorConfig   `mapstructure:"sector"`
}

// PropertyConfig 地产玩法配置
type PropertyConfig struct {
	StartingCash  int           `mapstructure:"starting_cash"`
	PassGoBonus   int           `mapstructure:"pass_go_bonus"`
	JailFine      int           `mapstructure:"jail_fine"`
	TurnWarnAfter time.Duration `mapstructure:"turn_warn_after"`
	TurnKickAfter time.Duration `mapstructure:"turn_kick_after"`
}

// SectorConfig 产业玩法配置
type SectorConfig struct {
	StartingCash    int           `mapstructure:"starting_cash"`
	RoundBonus      int           `mapstructure:"round_bonus"`
	AuctionDuration time.Duration `mapstructure:"auction_duration"`
	AuctionExtend   time.Duration `mapstructure:"auction_extend"`
	NewsTTL         time.Duration `mapstructure:"news_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT        JWTConfig `mapstructure:"jwt"`
	AllowGuest bool      `mapstructure:"allow_guest"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret       string `mapstructure:"secret"`
	ExpireHours  int    `mapstructure:"expire_hours"`
	RefreshHours int    `mapstructure:"refresh_hours"`
}

// SystemConfig 系统配置
type SystemConfig struct {
	Timezone string `mapstructure:"timezone"`
	MaxProcs int    `mapstructure:"max_procs"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// Init 初始化配置
func Init(configPath string) error {
	var err error
	once.Do(func() {
		v = viper.New()

		// 设置配置文件路径
		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath("./config")
			v.AddConfigPath(".")
		}

		// 设置环境变量前缀
		v.SetEnvPrefix("PARTY_GAME")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		// 设置默认值
		setDefaults(v)

		// 读取配置文件
		if err = v.ReadInConfig(); err != nil {
			// 如果配置文件不存在，使用默认配置
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				err = nil
			} else {
				return
			}
		}

		// 解析配置到结构体
		cfg = &Config{}
		err = v.Unmarshal(cfg)
	})

	return err
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// 数据库默认配置
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/party-game.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	// WebSocket默认配置
	v.SetDefault("websocket.path", "/ws")
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.max_message_size", 8192)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.enable_compression", true)

	// 房间默认配置
	v.SetDefault("room.code_length", 6)
	v.SetDefault("room.max_rooms", 1000)
	v.SetDefault("room.max_players", 8)
	v.SetDefault("room.tick_interval", "1s")
	v.SetDefault("room.empty_room_ttl", "5m")
	v.SetDefault("room.cleanup_interval", "1m")

	// 地产玩法默认配置
	v.SetDefault("game.property.starting_cash", 1500)
	v.SetDefault("game.property.pass_go_bonus", 200)
	v.SetDefault("game.property.jail_fine", 50)
	v.SetDefault("game.property.turn_warn_after", "60s")
	v.SetDefault("game.property.turn_kick_after", "70s")

	// 产业玩法默认配置
	v.SetDefault("game.sector.starting_cash", 2000)
	v.SetDefault("game.sector.round_bonus", 150)
	v.SetDefault("game.sector.auction_duration", "30s")
	v.SetDefault("game.sector.auction_extend", "10s")
	v.SetDefault("game.sector.news_ttl", "45s")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "both")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "party-game.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)

	// 安全默认配置
	v.SetDefault("security.jwt.secret", "party-game-dev-secret")
	v.SetDefault("security.jwt.expire_hours", 24)
	v.SetDefault("security.jwt.refresh_hours", 168)
	v.SetDefault("security.allow_guest", true)
}

// Get 获取配置实例
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化
func Watch(callback func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		defer mu.Unlock()

		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}

		cfg = newCfg

		if callback != nil {
			callback(cfg)
		}

		fmt.Println("配置已重新加载")
	})
}

// GetString 获取字符串配置
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetDuration 获取时间间隔配置
func GetDuration(key string) time.Duration {
	return v.GetDuration(key)
}

// IsSet 检查配置项是否存在
func IsSet(key string) bool {
	return v.IsSet(key)
}
