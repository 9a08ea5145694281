package property

import "github.com/wfunc/party-game/internal/game/board"

// CalculateRent 计算指定格子的应付租金。
// 铁路按持有条数翻倍，公用事业按骰子点数乘数计费，
// 街道无房时垄断翻倍、有房时查租金表。
func (g *Game) CalculateRent(spaceIndex, diceTotal int) int {
	sp := board.SpaceAt(spaceIndex)
	state := g.Properties[spaceIndex]
	if state == nil || state.OwnerID == "" || state.Mortgaged {
		return 0
	}
	owner := g.Players[state.OwnerID]

	switch sp.Kind {
	case board.KindRail:
		rent := board.RailBaseRent
		for i := 1; i < owner.GroupCounts[board.GroupRail]; i++ {
			rent *= 2
		}
		return rent

	case board.KindUtility:
		if owner.GroupCounts[board.GroupUtility] >= board.GroupSize(board.GroupUtility) {
			return diceTotal * 10
		}
		return diceTotal * 4

	case board.KindStreet:
		if state.Houses > 0 {
			return sp.Rents[state.Houses]
		}
		if owner.GroupCounts[sp.Group] >= board.GroupSize(sp.Group) {
			return sp.Rents[0] * 2
		}
		return sp.Rents[0]
	}
	return 0
}
