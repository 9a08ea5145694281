package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wfunc/party-game/internal/game/property"
	"github.com/wfunc/party-game/internal/game/sector"
)

// attachDriver 为房间挂载回合定时驱动，开局时调用一次。
// RemoveRoom 通过cancel回收驱动，驱动每次触发前都会确认房间仍然存在。
func (m *Manager) attachDriver(code string) {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if old, exists := m.drivers[code]; exists {
		old()
	}
	m.drivers[code] = cancel
	m.mu.Unlock()

	interval := m.cfg.Room.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	go m.runDriver(ctx, code, interval)
}

// runDriver 房间定时循环：每秒在房间锁下执行一次引擎检查
func (m *Manager) runDriver(ctx context.Context, code string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Debug("房间定时驱动启动", zap.String("room", code))
	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("房间定时驱动退出", zap.String("room", code))
			return
		case <-ticker.C:
			m.tick(code)
		}
	}
}

// tick 单次驱动：房间已不存在时直接跳过，绝不触碰已回收的状态
func (m *Manager) tick(code string) {
	r, ok := m.GetRoom(code)
	if !ok || r.Game == nil {
		return
	}

	now := time.Now()
	changed := false

	r.Lock()
	switch eng := r.Game.(type) {
	case *property.Game:
		// 地产玩法只在出现警告或踢出时推送
		if result := eng.CheckTurnTimeout(r, now); result != property.TimeoutNone {
			changed = true
		}

	case *sector.Game:
		// 产业玩法每秒无条件推送：拍卖倒计时与快讯有效期都靠它驱动
		if eng.AuctionDue(now) {
			eng.EndAuction(r)
		}
		eng.ExpireNews(now)
		changed = true
	}
	r.Unlock()

	if changed {
		m.broadcast(code)
	}
}
