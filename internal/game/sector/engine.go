package sector

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

// New 创建并初始化产业玩法引擎
func New(r *room.Room, cfg *Config) *Game {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	g := &Game{
		Config:    cfg,
		Players:   make(map[string]*PlayerState),
		Companies: make(map[int]*CompanyState),
		Phase:     room.PhaseRolling,
		Round:     1,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.roll = func() (int, int) {
		return g.rng.Intn(6) + 1, g.rng.Intn(6) + 1
	}

	for _, p := range r.ActivePlayers() {
		g.Players[p.ID] = &PlayerState{
			Cash:         cfg.StartingCash,
			Companies:    []int{},
			SectorCounts: make(map[board.Sector]int),
		}
	}
	for _, c := range board.SectorBoard() {
		g.Companies[c.Index] = &CompanyState{CurrentValue: c.BaseValue}
	}
	if active := r.ActivePlayers(); len(active) > 0 {
		g.CurrentTurn = active[0].ID
	}
	g.LastActionAt = time.Now()
	return g
}

// RollDice 当前玩家掷骰并移动。生效中的快讯在本次落点结算后才清除，
// 所以这一掷的过路费仍按快讯规则计算。
func (g *Game) RollDice(r *room.Room, playerID string) bool {
	ps := g.Players[playerID]
	if ps == nil || ps.Bankrupt || playerID != g.CurrentTurn || g.Phase != room.PhaseRolling {
		return false
	}

	d1, d2 := g.roll()
	g.LastDice = [2]int{d1, d2}
	g.LastActionAt = time.Now()
	name := playerName(r, playerID)
	r.AddLog(fmt.Sprintf("%s 掷出 %d + %d", name, d1, d2))

	next := ps.Position + d1 + d2
	if next >= board.SectorBoardSize {
		ps.Cash += g.Config.RoundBonus
		r.AddLog(fmt.Sprintf("%s 完成一圈，获得 %d", name, g.Config.RoundBonus))
	}
	ps.Position = next % board.SectorBoardSize
	g.Phase = room.PhaseActing

	g.chargeFee(r, playerID)
	g.News = nil
	return true
}

// chargeFee 落在他人公司时按档位收取过路费
func (g *Game) chargeFee(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	cs := g.Companies[ps.Position]
	if cs.OwnerID == "" || cs.OwnerID == playerID {
		return
	}
	c := board.CompanyAt(ps.Position)
	fee := g.CalculateFee(ps.Position)
	if fee <= 0 {
		r.AddLog(fmt.Sprintf("%s 落在「%s」，过路费免收", playerName(r, playerID), c.Name))
		return
	}
	owner := g.Players[cs.OwnerID]
	ps.Cash -= fee
	owner.Cash += fee
	r.AddLog(fmt.Sprintf("%s 向 %s 支付过路费 %d（%s）", playerName(r, playerID), playerName(r, cs.OwnerID), fee, c.Name))
	g.settleDebts(r, playerID)
}

// CalculateFee 过路费：现值的百分比档位，同行业持有数决定档位，
// 生效中的快讯可免除或按危机规则修正
func (g *Game) CalculateFee(companyIndex int) int {
	cs := g.Companies[companyIndex]
	if cs.OwnerID == "" {
		return 0
	}
	c := board.CompanyAt(companyIndex)
	owner := g.Players[cs.OwnerID]

	tier := board.FeeTierBase
	switch held := owner.SectorCounts[c.Sector]; {
	case held >= board.CompaniesPerSector:
		tier = board.FeeTierMonopoly
	case held >= board.FeeMajorityHoldings:
		tier = board.FeeTierMajority
	}
	fee := cs.CurrentValue * tier / 100

	if g.News != nil && sectorAffected(g.News.Event, c.Sector) {
		if g.News.Event.SuppressFees {
			return 0
		}
		if g.News.Event.Kind == board.NewsCrisis {
			switch c.Sector {
			case board.SectorEnergy:
				fee = fee * 3 / 2
			case board.SectorRetail:
				fee = fee * 9 / 10
			}
		}
	}
	return fee
}

// PurchaseCompany 以现值买入当前所在公司，成交后检查控股条件
func (g *Game) PurchaseCompany(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	if ps == nil || ps.Bankrupt || playerID != g.CurrentTurn || g.Phase != room.PhaseActing {
		return
	}
	cs := g.Companies[ps.Position]
	if cs.OwnerID != "" || ps.Cash < cs.CurrentValue {
		return
	}
	c := board.CompanyAt(ps.Position)

	ps.Cash -= cs.CurrentValue
	cs.OwnerID = playerID
	ps.Companies = append(ps.Companies, ps.Position)
	ps.SectorCounts[c.Sector]++
	g.LastActionAt = time.Now()
	r.AddLog(fmt.Sprintf("%s 以 %d 收购「%s」", playerName(r, playerID), cs.CurrentValue, c.Name))
	g.checkControllingInterest(r, playerID)
}

// checkControllingInterest 控股判定：集齐≥3个完整行业时记录，不强制终局
func (g *Game) checkControllingInterest(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	full := 0
	for _, count := range ps.SectorCounts {
		if count >= board.CompaniesPerSector {
			full++
		}
	}
	if full >= board.ControllingSectors {
		r.AddLog(fmt.Sprintf("%s 已控股 %d 个行业，达成控股地位！", playerName(r, playerID), full))
	}
}

// EndTurn 结束回合；轮转跨过座位末尾时视为一轮结束，触发快讯
func (g *Game) EndTurn(r *room.Room, playerID string) {
	if playerID != g.CurrentTurn || g.Phase != room.PhaseActing {
		return
	}
	active := r.ActivePlayers()
	if len(active) == 0 {
		return
	}
	cur := 0
	for i, p := range active {
		if p.ID == g.CurrentTurn {
			cur = i
			break
		}
	}
	wrapped := false
	for i := 1; i <= len(active); i++ {
		next := (cur + i) % len(active)
		if next <= cur {
			wrapped = true
		}
		ps := g.Players[active[next].ID]
		if ps != nil && !ps.Bankrupt {
			g.CurrentTurn = active[next].ID
			break
		}
	}
	if wrapped {
		g.TriggerNewsflash(r)
		g.Round++
	}
	g.Phase = room.PhaseRolling
	g.LastActionAt = time.Now()
}

// settleDebts 现金为负时按购入顺序以现值强制出售，售罄仍为负则出局
func (g *Game) settleDebts(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	for ps.Cash < 0 {
		if len(ps.Companies) == 0 {
			g.eliminate(r, playerID)
			return
		}
		idx := ps.Companies[0]
		cs := g.Companies[idx]
		c := board.CompanyAt(idx)
		ps.Cash += cs.CurrentValue
		cs.OwnerID = ""
		ps.Companies = ps.Companies[1:]
		ps.SectorCounts[c.Sector]--
		r.AddLog(fmt.Sprintf("%s 被迫出售「%s」，回收 %d", playerName(r, playerID), c.Name, cs.CurrentValue))
	}
}

// eliminate 出局：清空持仓与现金，轮到该玩家时立即跳过
func (g *Game) eliminate(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	for _, idx := range ps.Companies {
		g.Companies[idx].OwnerID = ""
	}
	ps.Companies = []int{}
	ps.SectorCounts = make(map[board.Sector]int)
	ps.Cash = 0
	ps.Bankrupt = true
	r.AddLog(fmt.Sprintf("%s 资不抵债，出局", playerName(r, playerID)))

	if g.CurrentTurn == playerID {
		g.Phase = room.PhaseActing
		g.EndTurn(r, playerID)
	}
}

// playerName 玩家展示名，查不到时退回连接标识
func playerName(r *room.Room, playerID string) string {
	if p := r.FindPlayer(playerID); p != nil {
		return p.Name
	}
	return playerID
}
