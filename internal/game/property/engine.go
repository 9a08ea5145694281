package property

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

// New 创建并初始化地产玩法引擎
func New(r *room.Room, cfg *Config) *Game {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	g := &Game{
		Config:     cfg,
		Players:    make(map[string]*PlayerState),
		Properties: make(map[int]*PropertyState),
		Phase:      room.PhaseRolling,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.roll = func() (int, int) {
		return g.rng.Intn(6) + 1, g.rng.Intn(6) + 1
	}

	for _, p := range r.ActivePlayers() {
		g.Players[p.ID] = &PlayerState{
			Cash:        cfg.StartingCash,
			Properties:  []int{},
			GroupCounts: make(map[board.Group]int),
		}
	}
	for _, sp := range board.PropertyBoard() {
		if sp.Kind.Purchasable() {
			g.Properties[sp.Index] = &PropertyState{}
		}
	}
	if active := r.ActivePlayers(); len(active) > 0 {
		g.CurrentTurn = active[0].ID
	}
	g.LastActionAt = time.Now()
	return g
}

// RollDice 当前玩家掷骰。非当前玩家或阶段不符时静默忽略，返回nil。
func (g *Game) RollDice(r *room.Room, playerID string) *RollResult {
	ps := g.Players[playerID]
	if ps == nil || ps.Bankrupt || playerID != g.CurrentTurn || g.Phase != room.PhaseRolling {
		return nil
	}

	d1, d2 := g.roll()
	total := d1 + d2
	doubles := d1 == d2
	g.LastDice = [2]int{d1, d2}
	g.LastActionAt = time.Now()
	result := &RollResult{Dice: g.LastDice, Doubles: doubles}

	name := playerName(r, playerID)
	r.AddLog(fmt.Sprintf("%s 掷出 %d + %d", name, d1, d2))

	// 狱中回合：双骰立即获释，否则倒数，数到零缴罚金后用本次点数移动
	if ps.JailTurns > 0 {
		if doubles {
			ps.JailTurns = 0
			r.AddLog(fmt.Sprintf("%s 掷出双骰，获释出狱", name))
		} else {
			ps.JailTurns--
			if ps.JailTurns > 0 {
				g.Phase = room.PhaseActing
				r.AddLog(fmt.Sprintf("%s 仍被关押，跳过移动", name))
				return result
			}
			ps.Cash -= g.Config.JailFine
			r.AddLog(fmt.Sprintf("%s 缴纳罚金 %d 出狱", name, g.Config.JailFine))
			g.settleDebts(r, playerID)
			if ps.Bankrupt {
				return result
			}
		}
		g.moveAndResolve(r, playerID, total, total)
		g.Phase = room.PhaseActing
		result.Moved = true
		return result
	}

	if doubles {
		g.DoublesCount++
	} else {
		g.DoublesCount = 0
	}

	// 连续三次双骰直接入狱，本次移动不生效并强制结束回合
	if g.DoublesCount >= 3 {
		g.sendToJail(r, playerID)
		g.DoublesCount = 0
		result.Jailed = true
		g.advanceTurn(r)
		return result
	}

	g.moveAndResolve(r, playerID, total, total)
	g.Phase = room.PhaseActing
	result.Moved = true
	return result
}

// moveAndResolve 前进并结算落地效果，跨过起点发放奖励。
// diceTotal是本回合实际掷出的点数，公用事业租金按它计算，
// 卡牌移动时与前进步数并不相同
func (g *Game) moveAndResolve(r *room.Room, playerID string, steps, diceTotal int) {
	ps := g.Players[playerID]
	next := ps.Position + steps
	if next >= board.PropertyBoardSize {
		ps.Cash += g.Config.PassGoBonus
		r.AddLog(fmt.Sprintf("%s 经过起点，获得 %d", playerName(r, playerID), g.Config.PassGoBonus))
	}
	ps.Position = next % board.PropertyBoardSize
	g.resolveLanding(r, playerID, diceTotal)
}

// resolveLanding 按格子类型分派落地效果
func (g *Game) resolveLanding(r *room.Room, playerID string, diceTotal int) {
	ps := g.Players[playerID]
	sp := board.SpaceAt(ps.Position)
	name := playerName(r, playerID)

	switch sp.Kind {
	case board.KindGo, board.KindJail, board.KindFreeParking:
		// 无效果

	case board.KindGoToJail:
		g.sendToJail(r, playerID)

	case board.KindTax:
		ps.Cash -= sp.Tax
		r.AddLog(fmt.Sprintf("%s 在「%s」缴税 %d", name, sp.Name, sp.Tax))
		g.settleDebts(r, playerID)

	case board.KindChance:
		g.drawCard(r, playerID, board.DeckChance, diceTotal)

	case board.KindCommunity:
		g.drawCard(r, playerID, board.DeckCommunity, diceTotal)

	case board.KindStreet, board.KindRail, board.KindUtility:
		state := g.Properties[sp.Index]
		if state.OwnerID == "" || state.OwnerID == playerID || state.Mortgaged {
			// 无主（是否购买由客户端决定）、自有或已抵押，不收租
			return
		}
		rent := g.CalculateRent(sp.Index, diceTotal)
		owner := g.Players[state.OwnerID]
		ps.Cash -= rent
		owner.Cash += rent
		r.AddLog(fmt.Sprintf("%s 向 %s 支付租金 %d（%s）", name, playerName(r, state.OwnerID), rent, sp.Name))
		g.settleDebts(r, playerID)
	}
}

// sendToJail 入狱：移动到监狱格并设置三回合刑期
func (g *Game) sendToJail(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	ps.Position = board.JailIndex
	ps.JailTurns = 3
	g.Phase = room.PhaseActing
	r.AddLog(fmt.Sprintf("%s 被送进监狱", playerName(r, playerID)))
}

// PurchaseProperty 购买当前所在格。无主、可购且现金足够才生效。
func (g *Game) PurchaseProperty(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	if ps == nil || ps.Bankrupt || playerID != g.CurrentTurn {
		return
	}
	sp := board.SpaceAt(ps.Position)
	if !sp.Kind.Purchasable() {
		return
	}
	state := g.Properties[sp.Index]
	if state.OwnerID != "" || ps.Cash < sp.Price {
		return
	}

	ps.Cash -= sp.Price
	state.OwnerID = playerID
	ps.Properties = append(ps.Properties, sp.Index)
	ps.GroupCounts[sp.Group]++
	g.LastActionAt = time.Now()
	r.AddLog(fmt.Sprintf("%s 以 %d 购得「%s」", playerName(r, playerID), sp.Price, sp.Name))
}

// EndTurn 结束回合：有双骰未用则同一玩家再掷，否则轮到下一位
func (g *Game) EndTurn(r *room.Room, playerID string) {
	if playerID != g.CurrentTurn || g.Phase != room.PhaseActing {
		return
	}
	if g.DoublesCount > 0 {
		g.Phase = room.PhaseRolling
		g.LastActionAt = time.Now()
		r.AddLog(fmt.Sprintf("%s 掷出双骰，再掷一次", playerName(r, playerID)))
		return
	}
	g.advanceTurn(r)
}

// advanceTurn 按座位顺序轮转到下一位非银行家、未破产、未挂机的玩家
func (g *Game) advanceTurn(r *room.Room) {
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
	for i := 1; i <= len(active); i++ {
		p := active[(cur+i)%len(active)]
		ps := g.Players[p.ID]
		if ps != nil && !ps.Bankrupt && !ps.AFK {
			g.CurrentTurn = p.ID
			break
		}
	}
	g.DoublesCount = 0
	g.Phase = room.PhaseRolling
	g.LastActionAt = time.Now()
}

// Mortgage 抵押：须独自持有、无改良、未抵押
func (g *Game) Mortgage(r *room.Room, playerID string, spaceIndex int) {
	ps := g.Players[playerID]
	state := g.Properties[spaceIndex]
	if ps == nil || ps.Bankrupt || state == nil {
		return
	}
	if state.OwnerID != playerID || state.Houses > 0 || state.Mortgaged {
		return
	}
	sp := board.SpaceAt(spaceIndex)
	state.Mortgaged = true
	ps.Cash += sp.Mortgage
	r.AddLog(fmt.Sprintf("%s 抵押「%s」，获得 %d", playerName(r, playerID), sp.Name, sp.Mortgage))
}

// Unmortgage 赎回：需支付抵押价的110%
func (g *Game) Unmortgage(r *room.Room, playerID string, spaceIndex int) {
	ps := g.Players[playerID]
	state := g.Properties[spaceIndex]
	if ps == nil || ps.Bankrupt || state == nil {
		return
	}
	if state.OwnerID != playerID || !state.Mortgaged {
		return
	}
	sp := board.SpaceAt(spaceIndex)
	cost := sp.Mortgage + sp.Mortgage/10
	if ps.Cash < cost {
		return
	}
	state.Mortgaged = false
	ps.Cash -= cost
	r.AddLog(fmt.Sprintf("%s 以 %d 赎回「%s」", playerName(r, playerID), cost, sp.Name))
}

// BuyHouse 建房：须垄断整组且未达改良上限。不强制整组均衡建房。
func (g *Game) BuyHouse(r *room.Room, playerID string, spaceIndex int) {
	ps := g.Players[playerID]
	state := g.Properties[spaceIndex]
	if ps == nil || ps.Bankrupt || state == nil {
		return
	}
	sp := board.SpaceAt(spaceIndex)
	if sp.Kind != board.KindStreet || state.OwnerID != playerID {
		return
	}
	if ps.GroupCounts[sp.Group] < board.GroupSize(sp.Group) {
		return
	}
	if state.Houses >= board.MaxHouses {
		return
	}
	cost := board.HouseCost(sp.Group)
	if ps.Cash < cost {
		return
	}
	ps.Cash -= cost
	state.Houses++
	r.AddLog(fmt.Sprintf("%s 在「%s」建房（第%d栋）", playerName(r, playerID), sp.Name, state.Houses))
}

// DeclareBankruptcy 主动破产：无条件交还全部资产并清零现金
func (g *Game) DeclareBankruptcy(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	if ps == nil || ps.Bankrupt {
		return
	}
	g.eliminate(r, playerID)
}

// eliminate 资产归还银行、现金清零、标记破产；轮到该玩家时立即跳过
func (g *Game) eliminate(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	for _, idx := range ps.Properties {
		state := g.Properties[idx]
		state.OwnerID = ""
		state.Houses = 0
		state.Mortgaged = false
	}
	ps.Properties = []int{}
	ps.GroupCounts = make(map[board.Group]int)
	ps.Cash = 0
	ps.Bankrupt = true
	r.AddLog(fmt.Sprintf("%s 破产出局", playerName(r, playerID)))

	if g.CurrentTurn == playerID {
		g.advanceTurn(r)
	}

	// 胜负观察：仅剩一名在局玩家时记录，不强制切换状态
	if survivors := g.survivors(r); len(survivors) == 1 {
		r.AddLog(fmt.Sprintf("%s 成为最后的赢家", playerName(r, survivors[0])))
	}
}

// settleDebts 自动清算：现金为负时按购入顺序抵押未抵押资产，
// 抵押殆尽仍为负则出局
func (g *Game) settleDebts(r *room.Room, playerID string) {
	ps := g.Players[playerID]
	for ps.Cash < 0 {
		idx, found := -1, false
		for _, owned := range ps.Properties {
			if !g.Properties[owned].Mortgaged {
				idx, found = owned, true
				break
			}
		}
		if !found {
			g.eliminate(r, playerID)
			return
		}
		sp := board.SpaceAt(idx)
		g.Properties[idx].Mortgaged = true
		ps.Cash += sp.Mortgage
		r.AddLog(fmt.Sprintf("%s 被迫抵押「%s」，回收 %d", playerName(r, playerID), sp.Name, sp.Mortgage))
	}
}

// survivors 返回仍在局的玩家连接标识
func (g *Game) survivors(r *room.Room) []string {
	var alive []string
	for _, p := range r.ActivePlayers() {
		if ps := g.Players[p.ID]; ps != nil && !ps.Bankrupt {
			alive = append(alive, p.ID)
		}
	}
	return alive
}

// Over 判断对局是否已分出胜负
func (g *Game) Over(r *room.Room) bool {
	return len(g.survivors(r)) <= 1
}

// drawCard 抽卡并执行效果
func (g *Game) drawCard(r *room.Room, playerID string, deck board.DeckKind, diceTotal int) {
	cards := board.Deck(deck)
	card := cards[g.rng.Intn(len(cards))]
	g.LastCard = &DrawnCard{Deck: deck, Card: card}
	r.AddLog(fmt.Sprintf("%s 抽到卡牌：%s", playerName(r, playerID), card.Text))
	g.applyCard(r, playerID, card, diceTotal)
}

// applyCard 卡牌效果求值器（效果类型为封闭集合）
func (g *Game) applyCard(r *room.Room, playerID string, card board.Card, diceTotal int) {
	ps := g.Players[playerID]

	switch card.Effect {
	case board.EffectMoveAbsolute:
		// 换算为向前步数并复用移动管线，目标格落地效果同样生效
		steps := (card.Target - ps.Position + board.PropertyBoardSize) % board.PropertyBoardSize
		if steps > 0 {
			g.moveAndResolve(r, playerID, steps, diceTotal)
		}

	case board.EffectMoveRelative:
		// 后退类移动不重复触发落地效果，也不经过起点
		ps.Position = (ps.Position + card.Offset + board.PropertyBoardSize) % board.PropertyBoardSize

	case board.EffectCash:
		ps.Cash += card.Amount
		if card.Amount < 0 {
			g.settleDebts(r, playerID)
		}

	case board.EffectCashEveryone:
		// 正数：每位在局玩家付给抽卡者；负数：抽卡者付给每位在局玩家
		for _, p := range r.ActivePlayers() {
			if p.ID == playerID {
				continue
			}
			other := g.Players[p.ID]
			if other == nil || other.Bankrupt {
				continue
			}
			other.Cash -= card.Amount
			ps.Cash += card.Amount
			if card.Amount > 0 {
				g.settleDebts(r, p.ID)
			}
		}
		if card.Amount < 0 {
			g.settleDebts(r, playerID)
		}

	case board.EffectGoToJail:
		g.sendToJail(r, playerID)
	}
}

// DismissCard 客户端确认后清除展示中的卡牌
func (g *Game) DismissCard(playerID string) {
	if g.LastCard == nil || playerID != g.CurrentTurn {
		return
	}
	g.LastCard = nil
}

// ClearAFK 玩家重新活跃时解除挂机标记
func (g *Game) ClearAFK(playerID string) {
	if ps := g.Players[playerID]; ps != nil {
		ps.AFK = false
	}
}

// CheckTurnTimeout 由外部定时驱动调用的挂机检测。
// 超过警告阈值写入一次性警告（通过检查最新日志去重），
// 超过踢出阈值把当前玩家标记挂机并强制轮转。
func (g *Game) CheckTurnTimeout(r *room.Room, now time.Time) TimeoutResult {
	ps := g.Players[g.CurrentTurn]
	if ps == nil || g.Over(r) {
		return TimeoutNone
	}
	elapsed := now.Sub(g.LastActionAt)

	if elapsed > g.Config.TurnKickAfter {
		ps.AFK = true
		r.AddLog(fmt.Sprintf("%s 长时间未操作，已标记挂机并跳过", playerName(r, g.CurrentTurn)))
		g.advanceTurn(r)
		return TimeoutKick
	}

	if elapsed >= g.Config.TurnWarnAfter {
		warning := fmt.Sprintf("%s 即将超时，请尽快操作", playerName(r, g.CurrentTurn))
		if r.LastLog() == warning {
			return TimeoutNone
		}
		r.AddLog(warning)
		return TimeoutWarn
	}

	return TimeoutNone
}

// playerName 玩家展示名，查不到时退回连接标识
func playerName(r *room.Room, playerID string) string {
	if p := r.FindPlayer(playerID); p != nil {
		return p.Name
	}
	return playerID
}
