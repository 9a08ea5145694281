// Package sector 实现产业并购玩法引擎。
// 与地产玩法同为房间聚合的一个分支：所有方法都要求调用方已持有房间锁，
// 前置条件不满足时静默忽略。
package sector

import (
	"math/rand"
	"time"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

// Config 产业玩法参数
type Config struct {
	StartingCash    int           `json:"startingCash"`
	RoundBonus      int           `json:"roundBonus"` // 跨过0号位的过圈奖励
	AuctionDuration time.Duration `json:"-"`
	AuctionExtend   time.Duration `json:"-"` // 防狙击：剩余时间低于该值时补足
	NewsTTL         time.Duration `json:"-"`
}

// DefaultConfig 默认参数
func DefaultConfig() *Config {
	return &Config{
		StartingCash:    2000,
		RoundBonus:      150,
		AuctionDuration: 30 * time.Second,
		AuctionExtend:   10 * time.Second,
		NewsTTL:         45 * time.Second,
	}
}

// PlayerState 玩家持仓状态
type PlayerState struct {
	Cash         int                  `json:"cash"`
	Position     int                  `json:"position"`
	Companies    []int                `json:"companies"` // 按购入顺序
	SectorCounts map[board.Sector]int `json:"sectorCounts"`
	Bankrupt     bool                 `json:"isBankrupt"`
}

// CompanyState 公司动态状态：现值随新闻与拍卖漂移
type CompanyState struct {
	OwnerID      string `json:"ownerId,omitempty"`
	CurrentValue int    `json:"currentValue"`
}

// Auction 进行中的拍卖，每个房间同时最多一场
type Auction struct {
	CompanyIndex int       `json:"companyIndex"`
	SellerID     string    `json:"sellerId"`
	FloorBid     int       `json:"floorBid"`
	CurrentBid   int       `json:"currentBid"`
	LeaderID     string    `json:"leaderId,omitempty"`
	EndsAt       time.Time `json:"endsAt"`

	// 开拍前的回合阶段，结算后恢复，未掷骰的玩家不因拍卖丢掷骰机会
	PriorPhase room.TurnPhase `json:"-"`
}

// ActiveNews 生效中的快讯：影响过路费，直到下次掷骰或到期
type ActiveNews struct {
	Event     board.NewsEvent `json:"event"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Game 产业玩法状态树
type Game struct {
	Config       *Config                 `json:"config"`
	Players      map[string]*PlayerState `json:"players"`
	Companies    map[int]*CompanyState   `json:"companies"`
	CurrentTurn  string                  `json:"currentTurnPlayerId"`
	Phase        room.TurnPhase          `json:"turnPhase"`
	LastDice     [2]int                  `json:"lastDice"`
	Round        int                     `json:"round"`
	News         *ActiveNews             `json:"news,omitempty"`
	Auction      *Auction                `json:"auction,omitempty"`
	LastActionAt time.Time               `json:"lastActionTime"`

	rng  *rand.Rand
	roll func() (int, int)
}

// Type 实现room.Engine
func (g *Game) Type() room.GameType { return room.GameSector }

// Rekey 重连后迁移玩家状态键
func (g *Game) Rekey(oldID, newID string) {
	if ps, ok := g.Players[oldID]; ok {
		delete(g.Players, oldID)
		g.Players[newID] = ps
	}
	if g.CurrentTurn == oldID {
		g.CurrentTurn = newID
	}
	for _, cs := range g.Companies {
		if cs.OwnerID == oldID {
			cs.OwnerID = newID
		}
	}
	if g.Auction != nil {
		if g.Auction.SellerID == oldID {
			g.Auction.SellerID = newID
		}
		if g.Auction.LeaderID == oldID {
			g.Auction.LeaderID = newID
		}
	}
}
