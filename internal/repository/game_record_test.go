package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/party-game/internal/models"
)

func TestGameRecordCreateAndFind(t *testing.T) {
	db := SetupTestDB()
	repo := NewGameRecordRepository(db)
	ctx := context.Background()

	record := &models.GameRecord{
		RoomCode:   "AB12CD",
		GameType:   "property",
		WinnerName: "小红",
		Rounds:     12,
		Duration:   1800,
		Players:    models.JSONMap{"count": 2},
		EndedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, record))
	require.NotZero(t, record.ID)

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", found.RoomCode)
	assert.Equal(t, "小红", found.WinnerName)
}

func TestGameRecordFindByRoomCode(t *testing.T) {
	db := SetupTestDB()
	repo := NewGameRecordRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.GameRecord{
			RoomCode: "AB12CD",
			GameType: "sector",
			EndedAt:  time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.GameRecord{
		RoomCode: "ZZ99XX",
		GameType: "property",
		EndedAt:  time.Now(),
	}))

	p := NewPagination(1, 10)
	records, err := repo.FindByRoomCode(ctx, "AB12CD", p)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, int64(3), p.Total)
	// 最近结束的在前
	assert.True(t, !records[0].EndedAt.Before(records[1].EndedAt))
}

func TestGameRecordFindRecent(t *testing.T) {
	db := SetupTestDB()
	repo := NewGameRecordRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.GameRecord{
			RoomCode: "AB12CD",
			GameType: "property",
			EndedAt:  time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := repo.FindRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestGameRecordCountByGameType(t *testing.T) {
	db := SetupTestDB()
	repo := NewGameRecordRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &models.GameRecord{RoomCode: "A", GameType: "property", EndedAt: now}))
	require.NoError(t, repo.Create(ctx, &models.GameRecord{RoomCode: "B", GameType: "sector", EndedAt: now}))

	count, err := repo.CountByGameType(ctx, "property", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRoomEventLifecycle(t *testing.T) {
	db := SetupTestDB()
	repo := NewRoomEventRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.RoomEvent{
		RoomCode:   "AB12CD",
		EventType:  "created",
		PlayerName: "小红",
	}))
	require.NoError(t, repo.Create(ctx, &models.RoomEvent{
		RoomCode:   "AB12CD",
		EventType:  "joined",
		PlayerName: "小蓝",
		Detail:     models.JSONMap{"role": "player"},
	}))

	p := NewPagination(1, 10)
	events, err := repo.FindByRoomCode(ctx, "AB12CD", p)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRoomEventDeleteOlderThan(t *testing.T) {
	db := SetupTestDB()
	repo := NewRoomEventRepository(db)
	ctx := context.Background()

	old := &models.RoomEvent{RoomCode: "AB12CD", EventType: "created"}
	require.NoError(t, repo.Create(ctx, old))
	db.Model(old).UpdateColumn("created_at", time.Now().AddDate(0, 0, -30))
	require.NoError(t, repo.Create(ctx, &models.RoomEvent{RoomCode: "AB12CD", EventType: "joined"}))

	deleted, err := repo.DeleteOlderThan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	p := NewPagination(1, 10)
	events, err := repo.FindByRoomCode(ctx, "AB12CD", p)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
