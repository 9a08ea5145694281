package repository

import (
	"context"
	"time"

	"github.com/wfunc/party-game/internal/models"
	"gorm.io/gorm"
)

// GameRecordRepository 对局归档仓储接口
type GameRecordRepository interface {
	BaseRepository
	Create(ctx context.Context, record *models.GameRecord) error
	FindByID(ctx context.Context, id uint) (*models.GameRecord, error)
	FindByRoomCode(ctx context.Context, roomCode string, p *Pagination) ([]*models.GameRecord, error)
	FindRecent(ctx context.Context, limit int) ([]*models.GameRecord, error)
	CountByGameType(ctx context.Context, gameType string, startTime, endTime time.Time) (int64, error)
}

// gameRecordRepo 对局归档仓储实现
type gameRecordRepo struct {
	*BaseRepo
}

// NewGameRecordRepository 创建对局归档仓储
func NewGameRecordRepository(db *gorm.DB) GameRecordRepository {
	return &gameRecordRepo{BaseRepo: NewBaseRepo(db)}
}

// Create 写入一条对局归档
func (r *gameRecordRepo) Create(ctx context.Context, record *models.GameRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByID 根据ID查找
func (r *gameRecordRepo) FindByID(ctx context.Context, id uint) (*models.GameRecord, error) {
	var record models.GameRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByRoomCode 按房间码分页查询历史对局
func (r *gameRecordRepo) FindByRoomCode(ctx context.Context, roomCode string, p *Pagination) ([]*models.GameRecord, error) {
	var records []*models.GameRecord
	query := r.db.WithContext(ctx).Model(&models.GameRecord{}).Where("room_code = ?", roomCode)
	if err := query.Count(&p.Total).Error; err != nil {
		return nil, err
	}
	err := query.Order("ended_at DESC").Scopes(Paginate(p)).Find(&records).Error
	return records, err
}

// FindRecent 查询最近结束的对局
func (r *gameRecordRepo) FindRecent(ctx context.Context, limit int) ([]*models.GameRecord, error) {
	var records []*models.GameRecord
	err := r.db.WithContext(ctx).
		Order("ended_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountByGameType 按玩法统计时间段内的对局数
func (r *gameRecordRepo) CountByGameType(ctx context.Context, gameType string, startTime, endTime time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GameRecord{}).
		Where("game_type = ? AND ended_at BETWEEN ? AND ?", gameType, startTime, endTime).
		Count(&count).Error
	return count, err
}
