package repository

import (
	"github.com/wfunc/party-game/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置内存数据库
func SetupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	if err := db.AutoMigrate(&models.GameRecord{}, &models.RoomEvent{}); err != nil {
		panic(err)
	}
	return db
}
