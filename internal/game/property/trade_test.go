package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/party-game/internal/game/board"
)

// grant 把地产划给玩家并同步持仓与同组计数
func grant(g *Game, playerID string, indexes ...int) {
	ps := g.Players[playerID]
	for _, idx := range indexes {
		g.Properties[idx].OwnerID = playerID
		ps.Properties = append(ps.Properties, idx)
		ps.GroupCounts[board.SpaceAt(idx).Group]++
	}
}

func TestCreateAndAcceptTrade(t *testing.T) {
	r, g := newTestGame(t)
	grant(g, "alice", 1) // 棕色组
	grant(g, "bob", 6)   // 浅蓝组

	g.CreateTrade(r, &TradeOffer{
		FromID:            "alice",
		ToID:              "bob",
		OfferCash:         100,
		OfferProperties:   []int{1},
		RequestCash:       50,
		RequestProperties: []int{6},
	})
	require.NotNil(t, g.Trade)

	g.AcceptTrade(r, "bob")
	assert.Nil(t, g.Trade)
	assert.Equal(t, 1500-100+50, g.Players["alice"].Cash)
	assert.Equal(t, 1500+100-50, g.Players["bob"].Cash)
	assert.Equal(t, "bob", g.Properties[1].OwnerID)
	assert.Equal(t, "alice", g.Properties[6].OwnerID)
	assert.Equal(t, []int{6}, g.Players["alice"].Properties)
	assert.Equal(t, []int{1}, g.Players["bob"].Properties)
	brown := board.SpaceAt(1).Group
	lightBlue := board.SpaceAt(6).Group
	assert.Equal(t, 0, g.Players["alice"].GroupCounts[brown])
	assert.Equal(t, 1, g.Players["bob"].GroupCounts[brown])
	assert.Equal(t, 1, g.Players["alice"].GroupCounts[lightBlue])
	assert.Equal(t, 0, g.Players["bob"].GroupCounts[lightBlue])
}

func TestCreateTradeReplacesPendingOffer(t *testing.T) {
	r, g := newTestGame(t)

	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", OfferCash: 10})
	require.NotNil(t, g.Trade)

	// 新提案覆盖未处理的旧提案
	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", OfferCash: 99})
	require.NotNil(t, g.Trade)
	assert.Equal(t, 99, g.Trade.OfferCash)
}

func TestCreateTradeRejectsInvalidOffer(t *testing.T) {
	r, g := newTestGame(t)
	grant(g, "bob", 3)

	// 现金不足
	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", OfferCash: 9999})
	assert.Nil(t, g.Trade)

	// 索要不属于对方的地产
	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", RequestProperties: []int{1}})
	assert.Nil(t, g.Trade)

	// 有房屋的地产不可交易
	g.Properties[3].Houses = 1
	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", RequestProperties: []int{3}})
	assert.Nil(t, g.Trade)
}

func TestAcceptTradeOnlyByReceiver(t *testing.T) {
	r, g := newTestGame(t)

	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", OfferCash: 100})
	g.AcceptTrade(r, "alice")
	assert.NotNil(t, g.Trade)
	assert.Equal(t, 1500, g.Players["alice"].Cash)
}

func TestAcceptStaleTradeDiscardsWithoutPartialApply(t *testing.T) {
	r, g := newTestGame(t)
	grant(g, "alice", 1)

	g.CreateTrade(r, &TradeOffer{
		FromID:          "alice",
		ToID:            "bob",
		OfferProperties: []int{1},
		RequestCash:     200,
	})
	require.NotNil(t, g.Trade)

	// 接受前受邀方现金跌破索要额，提案作废且双方资产分毫未动
	g.Players["bob"].Cash = 150
	g.AcceptTrade(r, "bob")
	assert.Nil(t, g.Trade)
	assert.Equal(t, "alice", g.Properties[1].OwnerID)
	assert.Equal(t, []int{1}, g.Players["alice"].Properties)
	assert.Equal(t, 1500, g.Players["alice"].Cash)
	assert.Equal(t, 150, g.Players["bob"].Cash)
	assert.Equal(t, "交易提案已失效，自动作废", r.LastLog())
}

func TestRejectTradeByEitherSide(t *testing.T) {
	r, g := newTestGame(t)

	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", OfferCash: 100})
	g.RejectTrade(r, "charlie")
	assert.NotNil(t, g.Trade)

	g.RejectTrade(r, "bob")
	assert.Nil(t, g.Trade)

	g.CreateTrade(r, &TradeOffer{FromID: "alice", ToID: "bob", OfferCash: 100})
	g.RejectTrade(r, "alice")
	assert.Nil(t, g.Trade)
}
