package models

import (
	"time"
)

// GameRecord 对局归档表：对局结束时写入，只写不读，
// 不参与任何进行中房间的状态恢复
type GameRecord struct {
	BaseModel
	RoomCode   string    `gorm:"index;size:16;not null" json:"room_code"`
	GameType   string    `gorm:"size:20;not null" json:"game_type"` // property, sector, word, crossword, charades
	Players    JSONMap   `gorm:"type:json" json:"players"`          // 参与者名单与终局持仓
	WinnerName string    `gorm:"size:100" json:"winner_name"`
	Rounds     int       `gorm:"default:0" json:"rounds"`
	Duration   int       `json:"duration"` // 秒
	FinalState JSONMap   `gorm:"type:json" json:"final_state"`
	EndedAt    time.Time `json:"ended_at"`
}

// RoomEvent 房间事件流水表：创建、加入、开局、解散等生命周期事件
type RoomEvent struct {
	BaseModel
	RoomCode   string  `gorm:"index;size:16;not null" json:"room_code"`
	EventType  string  `gorm:"size:30;not null" json:"event_type"` // created, joined, left, started, ended, removed
	PlayerName string  `gorm:"size:100" json:"player_name"`
	Detail     JSONMap `gorm:"type:json" json:"detail"`
}
