package sector

import (
	"fmt"
	"time"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

// StartAuction 卖家把自己持有的公司挂牌拍卖。
// 每个房间同时只允许一场，期间回合阶段切换为auction，其他回合动作被冻结。
func (g *Game) StartAuction(r *room.Room, sellerID string, companyIndex int) {
	ps := g.Players[sellerID]
	cs := g.Companies[companyIndex]
	if ps == nil || ps.Bankrupt || cs == nil || g.Auction != nil {
		return
	}
	if cs.OwnerID != sellerID || g.Phase == room.PhaseAuction {
		return
	}
	c := board.CompanyAt(companyIndex)

	g.Auction = &Auction{
		CompanyIndex: companyIndex,
		SellerID:     sellerID,
		FloorBid:     cs.CurrentValue / 2,
		EndsAt:       time.Now().Add(g.Config.AuctionDuration),
		PriorPhase:   g.Phase,
	}
	g.Phase = room.PhaseAuction
	g.LastActionAt = time.Now()
	r.AddLog(fmt.Sprintf("%s 挂牌拍卖「%s」，起拍价 %d", playerName(r, sellerID), c.Name, g.Auction.FloorBid))
}

// HandleBid 出价：须为卖家以外的在局玩家、出得起、
// 且严格高于当前领先价（首次出价不低于起拍价）。
// 领先易主后若剩余时间不足则延长，防止压哨狙击。
func (g *Game) HandleBid(r *room.Room, bidderID string, amount int) {
	a := g.Auction
	ps := g.Players[bidderID]
	if a == nil || ps == nil || ps.Bankrupt || bidderID == a.SellerID {
		return
	}
	if ps.Cash < amount {
		return
	}
	if a.LeaderID == "" {
		if amount < a.FloorBid {
			return
		}
	} else if amount <= a.CurrentBid {
		return
	}

	a.CurrentBid = amount
	a.LeaderID = bidderID
	if remaining := time.Until(a.EndsAt); remaining < g.Config.AuctionExtend {
		a.EndsAt = time.Now().Add(g.Config.AuctionExtend)
	}
	r.AddLog(fmt.Sprintf("%s 出价 %d", playerName(r, bidderID), amount))
}

// EndAuction 倒计时归零后由定时驱动调用，原子交割：
// 有领先者则现金与股权同时转移，公司现值重定为成交价；
// 无人出价则一切保持原状
func (g *Game) EndAuction(r *room.Room) {
	a := g.Auction
	if a == nil {
		return
	}
	g.Auction = nil
	g.Phase = a.PriorPhase
	cs := g.Companies[a.CompanyIndex]
	c := board.CompanyAt(a.CompanyIndex)

	if a.LeaderID == "" {
		r.AddLog(fmt.Sprintf("「%s」流拍，维持原状", c.Name))
		return
	}

	seller := g.Players[a.SellerID]
	buyer := g.Players[a.LeaderID]
	if buyer == nil || buyer.Bankrupt || buyer.Cash < a.CurrentBid {
		r.AddLog(fmt.Sprintf("「%s」成交失败，维持原状", c.Name))
		return
	}

	buyer.Cash -= a.CurrentBid
	buyer.Companies = append(buyer.Companies, a.CompanyIndex)
	buyer.SectorCounts[c.Sector]++
	if seller != nil {
		seller.Cash += a.CurrentBid
		seller.SectorCounts[c.Sector]--
		for i, owned := range seller.Companies {
			if owned == a.CompanyIndex {
				seller.Companies = append(seller.Companies[:i], seller.Companies[i+1:]...)
				break
			}
		}
	}
	cs.OwnerID = a.LeaderID
	cs.CurrentValue = a.CurrentBid
	g.LastActionAt = time.Now()
	r.AddLog(fmt.Sprintf("%s 以 %d 拍得「%s」", playerName(r, a.LeaderID), a.CurrentBid, c.Name))
	g.checkControllingInterest(r, a.LeaderID)
}

// AuctionDue 判断拍卖是否到期待结算
func (g *Game) AuctionDue(now time.Time) bool {
	return g.Auction != nil && !now.Before(g.Auction.EndsAt)
}
