package sector

import (
	"fmt"
	"math"
	"time"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

// TriggerNewsflash 一轮结束时随机抽取一条快讯并立即执行：
// 受影响行业的公司现值按倍率缩放（下限保护），
// 现金效果直接作用于持有者；快讯随后保持生效直到下次掷骰或到期
func (g *Game) TriggerNewsflash(r *room.Room) {
	catalog := board.NewsCatalog()
	ev := catalog[g.rng.Intn(len(catalog))]
	g.News = &ActiveNews{Event: ev, ExpiresAt: time.Now().Add(g.Config.NewsTTL)}
	r.AddLog(fmt.Sprintf("【快讯】%s", ev.Headline))
	g.applyNews(r, ev)
}

// applyNews 执行快讯的价值缩放与现金效果
func (g *Game) applyNews(r *room.Room, ev board.NewsEvent) {
	for idx, cs := range g.Companies {
		c := board.CompanyAt(idx)
		if !sectorAffected(ev, c.Sector) {
			continue
		}
		if ev.ValueFactor != 1.0 {
			scaled := int(math.Floor(float64(cs.CurrentValue) * ev.ValueFactor))
			if scaled < board.MinCompanyValue {
				scaled = board.MinCompanyValue
			}
			cs.CurrentValue = scaled
		}
		if ev.CashEffect != 0 && cs.OwnerID != "" {
			owner := g.Players[cs.OwnerID]
			owner.Cash += ev.CashEffect
			if ev.CashEffect < 0 {
				g.settleDebts(r, cs.OwnerID)
			}
		}
	}
}

// ExpireNews 由定时驱动调用：快讯到期即清除，返回是否有变化
func (g *Game) ExpireNews(now time.Time) bool {
	if g.News == nil || now.Before(g.News.ExpiresAt) {
		return false
	}
	g.News = nil
	return true
}

// sectorAffected 判断行业是否在快讯影响范围内
func sectorAffected(ev board.NewsEvent, s board.Sector) bool {
	for _, affected := range ev.Sectors {
		if affected == s {
			return true
		}
	}
	return false
}
