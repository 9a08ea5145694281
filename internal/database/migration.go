package database

import (
	"fmt"

	"github.com/wfunc/party-game/internal/logger"
	"github.com/wfunc/party-game/internal/models"
	"go.uber.org/zap"
)

// AutoMigrate 自动迁移归档表结构。
// 房间与对局的实时状态常驻内存，这里只建归档与流水表。
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	migrationModels := []interface{}{
		&models.GameRecord{},
		&models.RoomEvent{},
	}

	for _, model := range migrationModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Error("表结构迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err))
			return fmt.Errorf("迁移失败 %T: %w", model, err)
		}
	}

	logger.Info("数据库迁移完成", zap.Int("tables", len(migrationModels)))
	return nil
}
