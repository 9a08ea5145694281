package property

import (
	"fmt"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

// CreateTrade 发起交易提案。同一时间只保留一份待处理提案，
// 新提案覆盖未处理的旧提案。
func (g *Game) CreateTrade(r *room.Room, offer *TradeOffer) {
	if offer == nil {
		return
	}
	if !g.tradeValid(offer) {
		return
	}
	g.Trade = offer
	r.AddLog(fmt.Sprintf("%s 向 %s 发起交易提案", playerName(r, offer.FromID), playerName(r, offer.ToID)))
}

// AcceptTrade 受邀方接受提案。接受时重新校验双方资产与现金，
// 提案已失效则静默作废，不做部分交割。
func (g *Game) AcceptTrade(r *room.Room, playerID string) {
	offer := g.Trade
	if offer == nil || playerID != offer.ToID {
		return
	}
	g.Trade = nil
	if !g.tradeValid(offer) {
		r.AddLog("交易提案已失效，自动作废")
		return
	}

	from := g.Players[offer.FromID]
	to := g.Players[offer.ToID]
	from.Cash += offer.RequestCash - offer.OfferCash
	to.Cash += offer.OfferCash - offer.RequestCash
	for _, idx := range offer.OfferProperties {
		g.transferProperty(idx, offer.FromID, offer.ToID)
	}
	for _, idx := range offer.RequestProperties {
		g.transferProperty(idx, offer.ToID, offer.FromID)
	}
	r.AddLog(fmt.Sprintf("%s 与 %s 完成交易", playerName(r, offer.FromID), playerName(r, offer.ToID)))
}

// RejectTrade 受邀方或发起方撤销提案
func (g *Game) RejectTrade(r *room.Room, playerID string) {
	offer := g.Trade
	if offer == nil || (playerID != offer.ToID && playerID != offer.FromID) {
		return
	}
	g.Trade = nil
	r.AddLog(fmt.Sprintf("%s 拒绝了交易提案", playerName(r, playerID)))
}

// tradeValid 校验提案在当前局面下仍可成立：
// 双方在局、现金足额、地产归属正确且无改良
func (g *Game) tradeValid(offer *TradeOffer) bool {
	from := g.Players[offer.FromID]
	to := g.Players[offer.ToID]
	if from == nil || to == nil || from.Bankrupt || to.Bankrupt || offer.FromID == offer.ToID {
		return false
	}
	if offer.OfferCash < 0 || offer.RequestCash < 0 {
		return false
	}
	if from.Cash < offer.OfferCash || to.Cash < offer.RequestCash {
		return false
	}
	for _, idx := range offer.OfferProperties {
		if !g.tradableBy(idx, offer.FromID) {
			return false
		}
	}
	for _, idx := range offer.RequestProperties {
		if !g.tradableBy(idx, offer.ToID) {
			return false
		}
	}
	return true
}

// tradableBy 地产可被该玩家交易：归其所有且无房屋
func (g *Game) tradableBy(spaceIndex int, playerID string) bool {
	state := g.Properties[spaceIndex]
	return state != nil && state.OwnerID == playerID && state.Houses == 0
}

// transferProperty 转移地产归属并同步双方的同组计数
func (g *Game) transferProperty(spaceIndex int, fromID, toID string) {
	state := g.Properties[spaceIndex]
	sp := board.SpaceAt(spaceIndex)
	from := g.Players[fromID]
	to := g.Players[toID]

	state.OwnerID = toID
	from.GroupCounts[sp.Group]--
	to.GroupCounts[sp.Group]++
	for i, owned := range from.Properties {
		if owned == spaceIndex {
			from.Properties = append(from.Properties[:i], from.Properties[i+1:]...)
			break
		}
	}
	to.Properties = append(to.Properties, spaceIndex)
}
