// Package property 实现地产经营玩法引擎：回合状态机、移动与落地结算、
// 租金、抵押建房、破产清算、交易与挂机检测。
//
// 引擎方法假定调用方已持有房间锁（动作路由与定时驱动共用同一条变更路径），
// 前置条件不满足时静默不做任何变更。
package property

import (
	"math/rand"
	"time"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

// Config 玩法参数
type Config struct {
	StartingCash  int           `json:"startingCash"`
	PassGoBonus   int           `json:"passGoBonus"`
	JailFine      int           `json:"jailFine"`
	TurnWarnAfter time.Duration `json:"-"`
	TurnKickAfter time.Duration `json:"-"`
}

// DefaultConfig 默认玩法参数
func DefaultConfig() *Config {
	return &Config{
		StartingCash:  1500,
		PassGoBonus:   200,
		JailFine:      50,
		TurnWarnAfter: 60 * time.Second,
		TurnKickAfter: 70 * time.Second,
	}
}

// PlayerState 单个玩家的经济状态，键为连接标识
type PlayerState struct {
	Cash        int                 `json:"cash"` // 可短暂为负，由清算流程收回
	Position    int                 `json:"position"`
	JailTurns   int                 `json:"jailTurns"`
	Properties  []int               `json:"properties"` // 按购入顺序
	GroupCounts map[board.Group]int `json:"groupCounts"`
	Bankrupt    bool                `json:"isBankrupt"`
	AFK         bool                `json:"isAfk"`
}

// PropertyState 可购买格子的动态状态
type PropertyState struct {
	OwnerID   string `json:"ownerId,omitempty"`
	Houses    int    `json:"houses"` // 0-5，5为酒店
	Mortgaged bool   `json:"isMortgaged"`
}

// DrawnCard 最近一次抽到的卡牌（展示用，待客户端确认后清除）
type DrawnCard struct {
	Deck board.DeckKind `json:"deck"`
	Card board.Card     `json:"card"`
}

// TradeOffer 待处理的交易要约，同一房间同时最多一份
type TradeOffer struct {
	FromID            string `json:"fromId"`
	ToID              string `json:"toId"`
	OfferCash         int    `json:"offerCash"`
	OfferProperties   []int  `json:"offerProperties"`
	RequestCash       int    `json:"requestCash"`
	RequestProperties []int  `json:"requestProperties"`
}

// RollResult 掷骰结果，供路由层先行广播动画事件
type RollResult struct {
	Dice    [2]int `json:"dice"`
	Doubles bool   `json:"doubles"`
	Moved   bool   `json:"moved"`
	Jailed  bool   `json:"jailed"`
}

// TimeoutResult 挂机检测结果
type TimeoutResult int

const (
	TimeoutNone TimeoutResult = iota // 无需处理
	TimeoutWarn                      // 已写入一次性警告
	TimeoutKick                      // 当前玩家被标记挂机并跳过
)

// Game 地产玩法引擎状态
type Game struct {
	Config       *Config                   `json:"config"`
	Players      map[string]*PlayerState   `json:"players"`
	Properties   map[int]*PropertyState    `json:"properties"`
	CurrentTurn  string                    `json:"currentTurnPlayerId"`
	Phase        room.TurnPhase            `json:"turnPhase"`
	DoublesCount int                       `json:"doublesCount"`
	LastDice     [2]int                    `json:"lastDice"`
	LastCard     *DrawnCard                `json:"lastCard,omitempty"`
	Trade        *TradeOffer               `json:"trade,omitempty"`
	LastActionAt time.Time                 `json:"lastActionTime"`

	rng  *rand.Rand
	roll func() (int, int) // 测试可注入
}

// Type 实现room.Engine
func (g *Game) Type() room.GameType { return room.GameProperty }

// Rekey 实现room.Engine：重连后迁移玩家状态键
func (g *Game) Rekey(oldID, newID string) {
	ps, ok := g.Players[oldID]
	if !ok {
		return
	}
	delete(g.Players, oldID)
	g.Players[newID] = ps
	ps.AFK = false

	if g.CurrentTurn == oldID {
		g.CurrentTurn = newID
	}
	for _, state := range g.Properties {
		if state.OwnerID == oldID {
			state.OwnerID = newID
		}
	}
	if g.Trade != nil {
		if g.Trade.FromID == oldID {
			g.Trade.FromID = newID
		}
		if g.Trade.ToID == oldID {
			g.Trade.ToID = newID
		}
	}
}
