package room

import (
	"sync"
	"time"
)

// GameType 游戏类型
type GameType string

const (
	GameProperty  GameType = "property"  // 地产经营
	GameSector    GameType = "sector"    // 产业并购
	GameWord      GameType = "word"      // 猜词（引擎由外部协作方驱动）
	GameCrossword GameType = "crossword" // 填字（同上）
	GameCharades  GameType = "charades"  // 比划猜（同上）
)

// Valid 判断游戏类型是否合法
func (t GameType) Valid() bool {
	switch t {
	case GameProperty, GameSector, GameWord, GameCrossword, GameCharades:
		return true
	}
	return false
}

// Role 玩家角色
type Role string

const (
	RolePlayer Role = "player" // 参与者
	RoleBanker Role = "banker" // 银行家（旁观，不参与回合轮转）
)

// TurnPhase 回合阶段
type TurnPhase string

const (
	PhaseRolling TurnPhase = "rolling" // 等待掷骰
	PhaseActing  TurnPhase = "acting"  // 掷骰后行动
	PhaseAuction TurnPhase = "auction" // 拍卖进行中
)

// MaxLogEntries 交易日志上限
const MaxLogEntries = 50

// Engine 经济引擎状态（Room的一个分支，仅两种经济玩法持有）
type Engine interface {
	// Type 返回引擎对应的游戏类型
	Type() GameType
	// Rekey 重连后把旧连接标识下的玩家状态迁移到新标识
	Rekey(oldID, newID string)
}

// Player 房间内玩家
type Player struct {
	ID        string `json:"id"`      // 连接标识（重连后变化）
	UserID    string `json:"userId"`  // 稳定标识（跨重连不变）
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Score     int    `json:"score"`
	Role      Role   `json:"role"`
	Connected bool   `json:"isConnected"`
}

// Room 房间聚合根，由Manager独占持有
type Room struct {
	ID        string    `json:"id"`
	GameType  GameType  `json:"gameType"`
	Players   []*Player `json:"players"`
	Game      Engine    `json:"game,omitempty"`
	Log       []string  `json:"log"` // 最新在前，上限50条
	Started   bool      `json:"started"`
	CreatedAt time.Time `json:"createdAt"`

	// 私密房口令哈希，不下发给客户端
	PasscodeHash []byte `json:"-"`

	// 房间级串行化点：动作处理与定时器回调都持锁执行，
	// 同一房间的状态永远不会并发修改
	mu sync.Mutex
}

// New 创建房间
func New(id string, gameType GameType) *Room {
	return &Room{
		ID:        id,
		GameType:  gameType,
		Players:   []*Player{},
		Log:       []string{},
		CreatedAt: time.Now(),
	}
}

// Lock 获取房间锁
func (r *Room) Lock() { r.mu.Lock() }

// Unlock 释放房间锁
func (r *Room) Unlock() { r.mu.Unlock() }

// AddLog 追加一条日志（最新在前，超出上限丢弃最旧的）
func (r *Room) AddLog(entry string) {
	r.Log = append([]string{entry}, r.Log...)
	if len(r.Log) > MaxLogEntries {
		r.Log = r.Log[:MaxLogEntries]
	}
}

// LastLog 返回最新一条日志，没有则返回空串
func (r *Room) LastLog() string {
	if len(r.Log) == 0 {
		return ""
	}
	return r.Log[0]
}

// FindPlayer 按连接标识查找玩家
func (r *Room) FindPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindByUserID 按稳定标识查找玩家
func (r *Room) FindByUserID(userID string) *Player {
	for _, p := range r.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// AddPlayer 把玩家加入座位顺序末尾
func (r *Room) AddPlayer(p *Player) {
	r.Players = append(r.Players, p)
}

// RemovePlayer 按连接标识移除玩家，返回是否移除
func (r *Room) RemovePlayer(id string) bool {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

// ActivePlayers 返回按座位顺序的非银行家玩家
func (r *Room) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Role != RoleBanker {
			active = append(active, p)
		}
	}
	return active
}

// Empty 判断房间是否应当回收：无人或全员断线
func (r *Room) Empty() bool {
	if len(r.Players) == 0 {
		return true
	}
	for _, p := range r.Players {
		if p.Connected {
			return false
		}
	}
	return true
}

// RekeyPlayer 重连：把旧连接标识换成新标识，并同步引擎内的玩家状态键
func (r *Room) RekeyPlayer(oldID, newID string) {
	p := r.FindPlayer(oldID)
	if p == nil {
		return
	}
	p.ID = newID
	p.Connected = true
	if r.Game != nil {
		r.Game.Rekey(oldID, newID)
	}
}
