package sector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/party-game/internal/game/board"
	"github.com/wfunc/party-game/internal/game/room"
)

func newTestGame(t *testing.T) (*room.Room, *Game) {
	t.Helper()
	r := room.New("R1", room.GameSector)
	r.AddPlayer(&room.Player{ID: "alice", UserID: "u-alice", Name: "小红", Role: room.RolePlayer, Connected: true})
	r.AddPlayer(&room.Player{ID: "bob", UserID: "u-bob", Name: "小蓝", Role: room.RolePlayer, Connected: true})
	g := New(r, nil)
	r.Game = g
	r.Started = true
	return r, g
}

func fixDice(g *Game, rolls ...[2]int) {
	i := 0
	g.roll = func() (int, int) {
		d := rolls[i%len(rolls)]
		i++
		return d[0], d[1]
	}
}

// own 把公司划给玩家并同步持仓计数
func own(g *Game, playerID string, indexes ...int) {
	ps := g.Players[playerID]
	for _, idx := range indexes {
		g.Companies[idx].OwnerID = playerID
		ps.Companies = append(ps.Companies, idx)
		ps.SectorCounts[board.CompanyAt(idx).Sector]++
	}
}

func TestNewGame(t *testing.T) {
	_, g := newTestGame(t)

	assert.Equal(t, room.GameSector, g.Type())
	assert.Equal(t, "alice", g.CurrentTurn)
	assert.Equal(t, 2000, g.Players["alice"].Cash)
	assert.Equal(t, 1, g.Round)
	assert.Len(t, g.Companies, board.SectorBoardSize)
	// 现值初始化为定价
	assert.Equal(t, board.CompanyAt(0).BaseValue, g.Companies[0].CurrentValue)
}

func TestRollMovesWithoutJail(t *testing.T) {
	r, g := newTestGame(t)
	fixDice(g, [2]int{3, 4})

	require.True(t, g.RollDice(r, "alice"))
	assert.Equal(t, 7, g.Players["alice"].Position)
	assert.Equal(t, room.PhaseActing, g.Phase)
	assert.False(t, g.RollDice(r, "bob"))
}

func TestRoundBonusOnWrap(t *testing.T) {
	r, g := newTestGame(t)
	g.Players["alice"].Position = 34
	fixDice(g, [2]int{2, 3})

	g.RollDice(r, "alice")
	assert.Equal(t, 3, g.Players["alice"].Position)
	assert.Equal(t, 2000+150, g.Players["alice"].Cash)
}

func TestPurchaseAtCurrentValue(t *testing.T) {
	r, g := newTestGame(t)
	g.Players["alice"].Position = 5
	g.Phase = room.PhaseActing
	g.Companies[5].CurrentValue = 180 // 现值已偏离定价

	g.PurchaseCompany(r, "alice")
	assert.Equal(t, "alice", g.Companies[5].OwnerID)
	assert.Equal(t, 2000-180, g.Players["alice"].Cash)
	assert.Equal(t, 1, g.Players["alice"].SectorCounts[board.CompanyAt(5).Sector])
}

func TestFeeTiers(t *testing.T) {
	_, g := newTestGame(t)
	// 0、6、12、18、24、30号位同为一个行业
	own(g, "bob", 0)
	g.Companies[0].CurrentValue = 200
	assert.Equal(t, 20, g.CalculateFee(0)) // 10%

	own(g, "bob", 6, 12)
	assert.Equal(t, 60, g.CalculateFee(0)) // 持有3家 → 30%

	own(g, "bob", 18, 24, 30)
	assert.Equal(t, 200, g.CalculateFee(0)) // 垄断 → 100%
}

func TestFeeChargedOnLanding(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "bob", 7)
	g.Companies[7].CurrentValue = 200
	fixDice(g, [2]int{3, 4})

	g.RollDice(r, "alice")
	assert.Equal(t, 2000-20, g.Players["alice"].Cash)
	assert.Equal(t, 2000+20, g.Players["bob"].Cash)
}

func TestNewsSuppressesFees(t *testing.T) {
	_, g := newTestGame(t)
	own(g, "bob", 3) // 零售行业
	g.Companies[3].CurrentValue = 200
	g.News = &ActiveNews{
		Event:     board.NewsEvent{Kind: board.NewsHoliday, Sectors: []board.Sector{board.SectorRetail}, SuppressFees: true},
		ExpiresAt: time.Now().Add(time.Minute),
	}

	assert.Equal(t, 0, g.CalculateFee(3))
}

func TestCrisisFeeMultipliers(t *testing.T) {
	_, g := newTestGame(t)
	own(g, "bob", 1, 3) // 能源与零售各一家
	g.Companies[1].CurrentValue = 200
	g.Companies[3].CurrentValue = 200
	g.News = &ActiveNews{
		Event:     board.NewsEvent{Kind: board.NewsCrisis, Sectors: []board.Sector{board.SectorEnergy, board.SectorRetail}},
		ExpiresAt: time.Now().Add(time.Minute),
	}

	assert.Equal(t, 30, g.CalculateFee(1)) // 能源 +50%
	assert.Equal(t, 18, g.CalculateFee(3)) // 零售 -10%
}

func TestRollClearsNews(t *testing.T) {
	r, g := newTestGame(t)
	g.News = &ActiveNews{ExpiresAt: time.Now().Add(time.Minute)}
	fixDice(g, [2]int{1, 1})

	g.RollDice(r, "alice")
	assert.Nil(t, g.News)
}

func TestNewsAffectsFeeOnClearingRoll(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "bob", 3) // 零售行业
	g.Companies[3].CurrentValue = 200
	g.News = &ActiveNews{
		Event:     board.NewsEvent{Kind: board.NewsHoliday, Sectors: []board.Sector{board.SectorRetail}, SuppressFees: true},
		ExpiresAt: time.Now().Add(time.Minute),
	}
	fixDice(g, [2]int{1, 2})

	// 清除快讯的这一掷，自身落点仍按快讯规则免费
	require.True(t, g.RollDice(r, "alice"))
	assert.Equal(t, 3, g.Players["alice"].Position)
	assert.Equal(t, 2000, g.Players["alice"].Cash)
	assert.Equal(t, 2000, g.Players["bob"].Cash)
	assert.Nil(t, g.News)
}

func TestCrisisFeeOnClearingRoll(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "bob", 7) // 能源行业
	g.Companies[7].CurrentValue = 200
	g.News = &ActiveNews{
		Event:     board.NewsEvent{Kind: board.NewsCrisis, Sectors: []board.Sector{board.SectorEnergy}},
		ExpiresAt: time.Now().Add(time.Minute),
	}
	fixDice(g, [2]int{3, 4})

	require.True(t, g.RollDice(r, "alice"))
	assert.Equal(t, 2000-30, g.Players["alice"].Cash) // 20 × 3/2
	assert.Equal(t, 2000+30, g.Players["bob"].Cash)
	assert.Nil(t, g.News)
}

func TestNewsExpiry(t *testing.T) {
	_, g := newTestGame(t)
	g.News = &ActiveNews{ExpiresAt: time.Now().Add(time.Minute)}

	assert.False(t, g.ExpireNews(time.Now()))
	assert.True(t, g.ExpireNews(time.Now().Add(2*time.Minute)))
	assert.Nil(t, g.News)
	assert.False(t, g.ExpireNews(time.Now()))
}

func TestNewsValueRescaleWithFloor(t *testing.T) {
	r, g := newTestGame(t)
	g.Companies[2].CurrentValue = 200 // 金融
	g.Companies[8].CurrentValue = 25

	ev := board.NewsEvent{Kind: board.NewsSlump, Sectors: []board.Sector{board.SectorFinance}, ValueFactor: 0.7}
	g.applyNews(r, ev)

	assert.Equal(t, 140, g.Companies[2].CurrentValue) // floor(200×0.7)
	assert.Equal(t, board.MinCompanyValue, g.Companies[8].CurrentValue)
}

func TestNewsCashEffectOnOwners(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "bob", 1) // 能源
	ev := board.NewsEvent{Kind: board.NewsLevy, Sectors: []board.Sector{board.SectorEnergy}, ValueFactor: 1.0, CashEffect: -30}

	g.applyNews(r, ev)
	assert.Equal(t, 2000-30, g.Players["bob"].Cash)
	// 无主公司不受现金效果影响
	assert.Equal(t, 2000, g.Players["alice"].Cash)
}

func TestEndTurnWrapTriggersNewsflash(t *testing.T) {
	r, g := newTestGame(t)
	g.Phase = room.PhaseActing
	g.EndTurn(r, "alice")
	assert.Equal(t, "bob", g.CurrentTurn)
	assert.Equal(t, 1, g.Round)
	assert.Nil(t, g.News)

	// 轮转回到首位即一轮结束
	g.Phase = room.PhaseActing
	g.EndTurn(r, "bob")
	assert.Equal(t, "alice", g.CurrentTurn)
	assert.Equal(t, 2, g.Round)
	require.NotNil(t, g.News)
}

func TestAuctionLifecycle(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "alice", 5)
	g.Companies[5].CurrentValue = 200
	g.Phase = room.PhaseActing

	g.StartAuction(r, "alice", 5)
	require.NotNil(t, g.Auction)
	assert.Equal(t, 100, g.Auction.FloorBid)
	assert.Equal(t, room.PhaseAuction, g.Phase)

	// 拍卖期间冻结回合动作
	assert.False(t, g.RollDice(r, "bob"))
	g.EndTurn(r, "alice")
	assert.Equal(t, "alice", g.CurrentTurn)

	// 卖家不能自己出价，低于起拍价被拒
	g.HandleBid(r, "alice", 150)
	assert.Empty(t, g.Auction.LeaderID)
	g.HandleBid(r, "bob", 99)
	assert.Empty(t, g.Auction.LeaderID)

	g.HandleBid(r, "bob", 120)
	assert.Equal(t, "bob", g.Auction.LeaderID)
	// 后续出价必须严格高于当前领先价
	g.HandleBid(r, "bob", 120)
	assert.Equal(t, 120, g.Auction.CurrentBid)

	g.EndAuction(r)
	assert.Nil(t, g.Auction)
	assert.Equal(t, room.PhaseActing, g.Phase)
	assert.Equal(t, "bob", g.Companies[5].OwnerID)
	assert.Equal(t, 120, g.Companies[5].CurrentValue) // 成交价重定现值
	assert.Equal(t, 2000-120, g.Players["bob"].Cash)
	assert.Equal(t, 2000+120, g.Players["alice"].Cash)
	assert.Empty(t, g.Players["alice"].Companies)
	assert.Equal(t, []int{5}, g.Players["bob"].Companies)
}

func TestAuctionNoBidsKeepsState(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "alice", 5)
	g.Phase = room.PhaseActing
	g.StartAuction(r, "alice", 5)

	g.EndAuction(r)
	assert.Nil(t, g.Auction)
	assert.Equal(t, "alice", g.Companies[5].OwnerID)
	assert.Equal(t, 2000, g.Players["alice"].Cash)
}

func TestAuctionRestoresPriorPhase(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "alice", 5)

	// 未掷骰时开拍，结算后当前玩家的掷骰机会保留
	require.Equal(t, room.PhaseRolling, g.Phase)
	g.StartAuction(r, "alice", 5)
	require.Equal(t, room.PhaseAuction, g.Phase)

	g.EndAuction(r)
	assert.Equal(t, room.PhaseRolling, g.Phase)

	fixDice(g, [2]int{1, 1})
	assert.True(t, g.RollDice(r, "alice"))
}

func TestAuctionAntiSnipeExtension(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "alice", 5)
	g.Companies[5].CurrentValue = 200
	g.Phase = room.PhaseActing
	g.StartAuction(r, "alice", 5)
	g.Auction.EndsAt = time.Now().Add(2 * time.Second) // 压哨时刻

	g.HandleBid(r, "bob", 100)
	assert.Greater(t, time.Until(g.Auction.EndsAt), 9*time.Second)
}

func TestAuctionRequiresOwnership(t *testing.T) {
	r, g := newTestGame(t)
	g.Phase = room.PhaseActing
	g.StartAuction(r, "alice", 5)
	assert.Nil(t, g.Auction)

	own(g, "bob", 5)
	g.StartAuction(r, "alice", 5)
	assert.Nil(t, g.Auction)
}

func TestAuctionDue(t *testing.T) {
	_, g := newTestGame(t)
	assert.False(t, g.AuctionDue(time.Now()))
	g.Auction = &Auction{EndsAt: time.Now().Add(time.Second)}
	assert.False(t, g.AuctionDue(time.Now()))
	assert.True(t, g.AuctionDue(time.Now().Add(2*time.Second)))
}

func TestForcedSaleAndElimination(t *testing.T) {
	r, g := newTestGame(t)
	alice := g.Players["alice"]
	own(g, "alice", 5)
	g.Companies[5].CurrentValue = 100

	alice.Cash = -50
	g.settleDebts(r, "alice")
	assert.Equal(t, 50, alice.Cash)
	assert.Equal(t, "", g.Companies[5].OwnerID)
	assert.False(t, alice.Bankrupt)

	alice.Cash = -50
	g.settleDebts(r, "alice")
	assert.True(t, alice.Bankrupt)
	assert.Equal(t, 0, alice.Cash)
	assert.Equal(t, "bob", g.CurrentTurn)
}

func TestRekeyMigratesState(t *testing.T) {
	r, g := newTestGame(t)
	own(g, "alice", 5)
	g.Phase = room.PhaseActing
	g.StartAuction(r, "alice", 5)

	r.RekeyPlayer("alice", "alice-2")
	assert.Nil(t, g.Players["alice"])
	require.NotNil(t, g.Players["alice-2"])
	assert.Equal(t, "alice-2", g.CurrentTurn)
	assert.Equal(t, "alice-2", g.Companies[5].OwnerID)
	assert.Equal(t, "alice-2", g.Auction.SellerID)
}
