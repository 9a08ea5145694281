// Package game 房间注册表与回合定时驱动。
// Manager 是房间码到房间状态的唯一事实来源，房间内的状态修改统一在房间锁下进行。
package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wfunc/party-game/internal/config"
	apperrors "github.com/wfunc/party-game/internal/errors"
	"github.com/wfunc/party-game/internal/game/property"
	"github.com/wfunc/party-game/internal/game/room"
	"github.com/wfunc/party-game/internal/game/sector"
	"github.com/wfunc/party-game/internal/logger"
	"github.com/wfunc/party-game/internal/models"
	"github.com/wfunc/party-game/internal/repository"
)

// roomCodeAlphabet 生成房间码的字符集，去掉易混淆的 0O1I
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// BroadcastFunc 向房间全员推送完整房间快照的回调，由传输层注入
type BroadcastFunc func(roomID string)

// Manager 房间注册表
type Manager struct {
	mu      sync.RWMutex
	rooms   map[string]*room.Room
	drivers map[string]context.CancelFunc

	cfg       *config.Config
	logger    *zap.Logger
	broadcast BroadcastFunc

	recordRepo repository.GameRecordRepository
	eventRepo  repository.RoomEventRepository

	rng *rand.Rand
}

// ManagerOption Manager可选依赖
type ManagerOption func(*Manager)

// WithRepositories 注入归档仓储（缺省时对局结束不落库）
func WithRepositories(record repository.GameRecordRepository, event repository.RoomEventRepository) ManagerOption {
	return func(m *Manager) {
		m.recordRepo = record
		m.eventRepo = event
	}
}

// WithBroadcast 注入快照推送回调
func WithBroadcast(fn BroadcastFunc) ManagerOption {
	return func(m *Manager) {
		m.broadcast = fn
	}
}

// NewManager 创建房间注册表
func NewManager(cfg *config.Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		rooms:     make(map[string]*room.Room),
		drivers:   make(map[string]context.CancelFunc),
		cfg:       cfg,
		logger:    logger.GetLogger(),
		broadcast: func(string) {},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetBroadcast 延迟注入推送回调（传输层在Manager之后构建）
func (m *Manager) SetBroadcast(fn BroadcastFunc) {
	if fn != nil {
		m.broadcast = fn
	}
}

// CreateRoom 创建房间并返回。passcode非空时创建私密房。
func (m *Manager) CreateRoom(gameType room.GameType, passcode string) (*room.Room, error) {
	if !gameType.Valid() {
		return nil, apperrors.New(apperrors.ErrUnknownGameType, "未知的游戏类型")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rooms) >= m.cfg.Room.MaxRooms {
		return nil, apperrors.New(apperrors.ErrRoomLimit, "房间数量已达上限")
	}

	code := m.generateCode()
	r := room.New(code, gameType)
	if passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrUnknown, "口令处理失败")
		}
		r.PasscodeHash = hash
	}
	m.rooms[code] = r

	logger.LogRoomLifecycle("created", code, 0)
	m.writeEvent(code, "created", "", models.JSONMap{"game_type": string(gameType)})
	return r, nil
}

// generateCode 生成未占用的房间码，调用方需持有注册表锁
func (m *Manager) generateCode() string {
	length := m.cfg.Room.CodeLength
	if length <= 0 {
		length = 6
	}
	for {
		buf := make([]byte, length)
		for i := range buf {
			buf[i] = roomCodeAlphabet[m.rng.Intn(len(roomCodeAlphabet))]
		}
		code := string(buf)
		if _, taken := m.rooms[code]; !taken {
			return code
		}
	}
}

// GetRoom 按房间码查找
func (m *Manager) GetRoom(code string) (*room.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// RoomCount 当前房间数
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// RoomSummary 房间列表项，不暴露房间内部状态
type RoomSummary struct {
	Code        string        `json:"code"`
	GameType    room.GameType `json:"gameType"`
	PlayerCount int           `json:"playerCount"`
	Started     bool          `json:"started"`
	HasPasscode bool          `json:"hasPasscode"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ListRooms 房间大厅列表
func (m *Manager) ListRooms() []RoomSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]RoomSummary, 0, len(m.rooms))
	for code, r := range m.rooms {
		r.Lock()
		list = append(list, RoomSummary{
			Code:        code,
			GameType:    r.GameType,
			PlayerCount: len(r.Players),
			Started:     r.Started,
			HasPasscode: len(r.PasscodeHash) > 0,
			CreatedAt:   r.CreatedAt,
		})
		r.Unlock()
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// JoinRoom 加入房间。
// 同一稳定标识重复加入视为断线重连：沿用原座位并迁移引擎内的状态键。
func (m *Manager) JoinRoom(code, passcode string, p *room.Player) (*room.Room, error) {
	r, ok := m.GetRoom(code)
	if !ok {
		return nil, apperrors.New(apperrors.ErrRoomNotFound, "房间不存在")
	}

	r.Lock()

	if len(r.PasscodeHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(r.PasscodeHash, []byte(passcode)); err != nil {
			r.Unlock()
			return nil, apperrors.New(apperrors.ErrRoomPasscode, "房间口令错误")
		}
	}

	if existing := r.FindByUserID(p.UserID); existing != nil {
		oldID := existing.ID
		r.RekeyPlayer(oldID, p.ID)
		if eng, ok := r.Game.(*property.Game); ok {
			eng.ClearAFK(p.ID)
		}
		count := len(r.Players)
		r.Unlock()
		logger.LogRoomLifecycle("reconnected", code, count)
		m.broadcast(code)
		return r, nil
	}

	if r.Started {
		r.Unlock()
		return nil, apperrors.New(apperrors.ErrGameAlreadyStarted, "对局已开始，无法加入")
	}
	if len(r.Players) >= m.cfg.Room.MaxPlayers {
		r.Unlock()
		return nil, apperrors.New(apperrors.ErrRoomFull, "房间已满")
	}

	r.AddPlayer(p)
	count := len(r.Players)
	r.Unlock()

	logger.LogRoomLifecycle("joined", code, count)
	m.writeEvent(code, "joined", p.Name, models.JSONMap{"role": string(p.Role)})
	m.broadcast(code)
	return r, nil
}

// LeaveRoom 离开房间：未开局直接离座，已开局只标记断线保留状态。
// 房间清空时立即回收。
func (m *Manager) LeaveRoom(code, playerID string) {
	r, ok := m.GetRoom(code)
	if !ok {
		return
	}

	r.Lock()
	p := r.FindPlayer(playerID)
	if p == nil {
		r.Unlock()
		return
	}
	name := p.Name
	if r.Started {
		p.Connected = false
	} else {
		r.RemovePlayer(playerID)
	}
	empty := r.Empty()
	count := len(r.Players)
	r.Unlock()

	logger.LogRoomLifecycle("left", code, count)
	m.writeEvent(code, "left", name, nil)
	if empty {
		m.RemoveRoom(code)
		return
	}
	m.broadcast(code)
}

// StartGame 开局：初始化对应引擎并挂载定时驱动
func (m *Manager) StartGame(code, playerID string) error {
	r, ok := m.GetRoom(code)
	if !ok {
		return apperrors.New(apperrors.ErrRoomNotFound, "房间不存在")
	}

	r.Lock()
	if r.Started {
		r.Unlock()
		return apperrors.New(apperrors.ErrGameAlreadyStarted, "对局已开始")
	}
	if r.FindPlayer(playerID) == nil {
		r.Unlock()
		return apperrors.New(apperrors.ErrPlayerNotInRoom, "玩家不在房间内")
	}

	switch r.GameType {
	case room.GameProperty:
		r.Game = property.New(r, m.propertyConfig())
	case room.GameSector:
		r.Game = sector.New(r, m.sectorConfig())
	default:
		// 聚会小游戏没有经济引擎，开局只翻转状态
	}
	r.Started = true
	r.AddLog("对局开始")
	count := len(r.Players)
	r.Unlock()

	if r.Game != nil {
		m.attachDriver(code)
	}
	logger.LogRoomLifecycle("started", code, count)
	m.writeEvent(code, "started", "", models.JSONMap{"game_type": string(r.GameType)})
	m.broadcast(code)
	return nil
}

// RemoveRoom 回收房间：先撤掉全部定时驱动再删除，
// 避免回调触碰已释放的房间状态
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	if !ok {
		m.mu.Unlock()
		return
	}
	if cancel, exists := m.drivers[code]; exists {
		cancel()
		delete(m.drivers, code)
	}
	delete(m.rooms, code)
	m.mu.Unlock()

	if r.Started && r.Game != nil {
		m.archiveGame(r)
	}
	logger.LogRoomLifecycle("removed", code, len(r.Players))
	m.writeEvent(code, "removed", "", nil)
}

// StartCleanupTask 周期回收空房间
func (m *Manager) StartCleanupTask(ctx context.Context) {
	interval := m.cfg.Room.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.logger.Info("停止房间清理任务")
				return
			case <-ticker.C:
				m.cleanupEmptyRooms()
			}
		}
	}()
}

// cleanupEmptyRooms 回收存活超过宽限期的空房间
func (m *Manager) cleanupEmptyRooms() {
	ttl := m.cfg.Room.EmptyRoomTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	m.mu.RLock()
	var stale []string
	for code, r := range m.rooms {
		r.Lock()
		empty := r.Empty() && time.Since(r.CreatedAt) > ttl
		r.Unlock()
		if empty {
			stale = append(stale, code)
		}
	}
	m.mu.RUnlock()

	for _, code := range stale {
		m.RemoveRoom(code)
	}
}

// archiveGame 对局归档，只写不读；失败只记日志，不影响房间回收
func (m *Manager) archiveGame(r *room.Room) {
	if m.recordRepo == nil {
		return
	}

	players := models.JSONMap{}
	for _, p := range r.Players {
		players[p.UserID] = p.Name
	}
	record := &models.GameRecord{
		RoomCode: r.ID,
		GameType: string(r.GameType),
		Players:  players,
		Duration: int(time.Since(r.CreatedAt).Seconds()),
		EndedAt:  time.Now(),
	}
	if eng, ok := r.Game.(*sector.Game); ok {
		record.Rounds = eng.Round
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.recordRepo.Create(ctx, record); err != nil {
			m.logger.Error("对局归档失败",
				zap.String("room", record.RoomCode),
				zap.Error(err))
		}
	}()
}

// writeEvent 房间事件落库，失败只记日志
func (m *Manager) writeEvent(code, eventType, playerName string, detail models.JSONMap) {
	if m.eventRepo == nil {
		return
	}
	event := &models.RoomEvent{
		RoomCode:   code,
		EventType:  eventType,
		PlayerName: playerName,
		Detail:     detail,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.eventRepo.Create(ctx, event); err != nil {
			m.logger.Error("房间事件落库失败",
				zap.String("room", code),
				zap.String("event", eventType),
				zap.Error(err))
		}
	}()
}

// propertyConfig 从全局配置装配地产玩法参数
func (m *Manager) propertyConfig() *property.Config {
	cfg := property.DefaultConfig()
	pc := m.cfg.Game.Property
	if pc.StartingCash > 0 {
		cfg.StartingCash = pc.StartingCash
	}
	if pc.PassGoBonus > 0 {
		cfg.PassGoBonus = pc.PassGoBonus
	}
	if pc.JailFine > 0 {
		cfg.JailFine = pc.JailFine
	}
	if pc.TurnWarnAfter > 0 {
		cfg.TurnWarnAfter = pc.TurnWarnAfter
	}
	if pc.TurnKickAfter > 0 {
		cfg.TurnKickAfter = pc.TurnKickAfter
	}
	return cfg
}

// sectorConfig 从全局配置装配产业玩法参数
func (m *Manager) sectorConfig() *sector.Config {
	cfg := sector.DefaultConfig()
	sc := m.cfg.Game.Sector
	if sc.StartingCash > 0 {
		cfg.StartingCash = sc.StartingCash
	}
	if sc.RoundBonus > 0 {
		cfg.RoundBonus = sc.RoundBonus
	}
	if sc.AuctionDuration > 0 {
		cfg.AuctionDuration = sc.AuctionDuration
	}
	if sc.AuctionExtend > 0 {
		cfg.AuctionExtend = sc.AuctionExtend
	}
	if sc.NewsTTL > 0 {
		cfg.NewsTTL = sc.NewsTTL
	}
	return cfg
}
