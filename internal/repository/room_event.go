package repository

import (
	"context"
	"time"

	"github.com/wfunc/party-game/internal/models"
	"gorm.io/gorm"
)

// RoomEventRepository 房间事件流水仓储接口
type RoomEventRepository interface {
	BaseRepository
	Create(ctx context.Context, event *models.RoomEvent) error
	FindByRoomCode(ctx context.Context, roomCode string, p *Pagination) ([]*models.RoomEvent, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// roomEventRepo 房间事件流水仓储实现
type roomEventRepo struct {
	*BaseRepo
}

// NewRoomEventRepository 创建房间事件流水仓储
func NewRoomEventRepository(db *gorm.DB) RoomEventRepository {
	return &roomEventRepo{BaseRepo: NewBaseRepo(db)}
}

// Create 写入一条房间事件
func (r *roomEventRepo) Create(ctx context.Context, event *models.RoomEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByRoomCode 按房间码分页查询事件流水
func (r *roomEventRepo) FindByRoomCode(ctx context.Context, roomCode string, p *Pagination) ([]*models.RoomEvent, error) {
	var events []*models.RoomEvent
	query := r.db.WithContext(ctx).Model(&models.RoomEvent{}).Where("room_code = ?", roomCode)
	if err := query.Count(&p.Total).Error; err != nil {
		return nil, err
	}
	err := query.Order("created_at DESC").Scopes(Paginate(p)).Find(&events).Error
	return events, err
}

// DeleteOlderThan 清理指定天数之前的流水，返回删除条数
func (r *roomEventRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.RoomEvent{})
	return result.RowsAffected, result.Error
}
