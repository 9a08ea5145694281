package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/party-game/internal/config"
	apperrors "github.com/wfunc/party-game/internal/errors"
	"github.com/wfunc/party-game/internal/game/property"
	"github.com/wfunc/party-game/internal/game/room"
	"github.com/wfunc/party-game/internal/game/sector"
)

func testConfig() *config.Config {
	return &config.Config{
		Room: config.RoomConfig{
			CodeLength:      6,
			MaxRooms:        10,
			MaxPlayers:      8,
			TickInterval:    time.Second,
			EmptyRoomTTL:    time.Minute,
			CleanupInterval: time.Minute,
		},
	}
}

func newPlayer(name string) *room.Player {
	return &room.Player{
		ID:        uuid.NewString(),
		UserID:    "u-" + name,
		Name:      name,
		Role:      room.RolePlayer,
		Connected: true,
	}
}

func TestCreateRoom(t *testing.T) {
	m := NewManager(testConfig())

	r, err := m.CreateRoom(room.GameProperty, "")
	require.NoError(t, err)
	assert.Len(t, r.ID, 6)
	assert.Equal(t, room.GameProperty, r.GameType)
	assert.Equal(t, 1, m.RoomCount())

	_, err = m.CreateRoom("poker", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnknownGameType))
}

func TestCreateRoomLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Room.MaxRooms = 1
	m := NewManager(cfg)

	_, err := m.CreateRoom(room.GameProperty, "")
	require.NoError(t, err)
	_, err = m.CreateRoom(room.GameSector, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrRoomLimit))
}

func TestJoinRoomWithPasscode(t *testing.T) {
	m := NewManager(testConfig())
	r, err := m.CreateRoom(room.GameProperty, "秘密口令")
	require.NoError(t, err)

	_, err = m.JoinRoom(r.ID, "猜错了", newPlayer("小红"))
	assert.True(t, apperrors.Is(err, apperrors.ErrRoomPasscode))

	_, err = m.JoinRoom(r.ID, "秘密口令", newPlayer("小红"))
	assert.NoError(t, err)
}

func TestJoinRoomNotFound(t *testing.T) {
	m := NewManager(testConfig())
	_, err := m.JoinRoom("NOSUCH", "", newPlayer("小红"))
	assert.True(t, apperrors.Is(err, apperrors.ErrRoomNotFound))
}

func TestJoinRoomFull(t *testing.T) {
	cfg := testConfig()
	cfg.Room.MaxPlayers = 2
	m := NewManager(cfg)
	r, _ := m.CreateRoom(room.GameProperty, "")

	_, err := m.JoinRoom(r.ID, "", newPlayer("小红"))
	require.NoError(t, err)
	_, err = m.JoinRoom(r.ID, "", newPlayer("小蓝"))
	require.NoError(t, err)
	_, err = m.JoinRoom(r.ID, "", newPlayer("小绿"))
	assert.True(t, apperrors.Is(err, apperrors.ErrRoomFull))
}

func TestReconnectRekeysEngineState(t *testing.T) {
	m := NewManager(testConfig())
	r, _ := m.CreateRoom(room.GameProperty, "")

	alice := newPlayer("小红")
	bob := newPlayer("小蓝")
	_, err := m.JoinRoom(r.ID, "", alice)
	require.NoError(t, err)
	_, err = m.JoinRoom(r.ID, "", bob)
	require.NoError(t, err)
	require.NoError(t, m.StartGame(r.ID, alice.ID))

	// 同一稳定标识换新连接重进。RekeyPlayer会原地改写座位上的连接标识，
	// 先留存旧标识再比对
	oldID := alice.ID
	again := newPlayer("小红")
	again.UserID = alice.UserID
	_, err = m.JoinRoom(r.ID, "", again)
	require.NoError(t, err)

	assert.Nil(t, r.FindPlayer(oldID))
	require.NotNil(t, r.FindPlayer(again.ID))
	eng := r.Game.(*property.Game)
	assert.NotNil(t, eng.Players[again.ID])
	assert.Nil(t, eng.Players[oldID])
	// 开局后新玩家无法再加入
	_, err = m.JoinRoom(r.ID, "", newPlayer("小绿"))
	assert.True(t, apperrors.Is(err, apperrors.ErrGameAlreadyStarted))
}

func TestStartGameAttachesEngine(t *testing.T) {
	m := NewManager(testConfig())
	r, _ := m.CreateRoom(room.GameSector, "")
	alice := newPlayer("小红")
	_, err := m.JoinRoom(r.ID, "", alice)
	require.NoError(t, err)

	require.NoError(t, m.StartGame(r.ID, alice.ID))
	assert.True(t, r.Started)
	_, ok := r.Game.(*sector.Game)
	assert.True(t, ok)

	// 驱动已挂载
	m.mu.RLock()
	_, hasDriver := m.drivers[r.ID]
	m.mu.RUnlock()
	assert.True(t, hasDriver)

	err = m.StartGame(r.ID, alice.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrGameAlreadyStarted))
}

func TestStartGameWithoutEngineForPartyGames(t *testing.T) {
	m := NewManager(testConfig())
	r, _ := m.CreateRoom(room.GameWord, "")
	alice := newPlayer("小红")
	_, err := m.JoinRoom(r.ID, "", alice)
	require.NoError(t, err)

	require.NoError(t, m.StartGame(r.ID, alice.ID))
	assert.True(t, r.Started)
	assert.Nil(t, r.Game)
}

func TestLeaveRoomBeforeStartRemovesSeat(t *testing.T) {
	m := NewManager(testConfig())
	r, _ := m.CreateRoom(room.GameProperty, "")
	alice := newPlayer("小红")
	bob := newPlayer("小蓝")
	m.JoinRoom(r.ID, "", alice)
	m.JoinRoom(r.ID, "", bob)

	m.LeaveRoom(r.ID, alice.ID)
	assert.Nil(t, r.FindPlayer(alice.ID))
	assert.Len(t, r.Players, 1)
}

func TestLeaveRoomAfterStartKeepsState(t *testing.T) {
	m := NewManager(testConfig())
	r, _ := m.CreateRoom(room.GameProperty, "")
	alice := newPlayer("小红")
	bob := newPlayer("小蓝")
	m.JoinRoom(r.ID, "", alice)
	m.JoinRoom(r.ID, "", bob)
	require.NoError(t, m.StartGame(r.ID, alice.ID))

	m.LeaveRoom(r.ID, alice.ID)
	p := r.FindPlayer(alice.ID)
	require.NotNil(t, p)
	assert.False(t, p.Connected)
	// 引擎状态原样保留，等待重连
	eng := r.Game.(*property.Game)
	assert.NotNil(t, eng.Players[alice.ID])
}

func TestLastPlayerLeavingRemovesRoom(t *testing.T) {
	m := NewManager(testConfig())
	r, _ := m.CreateRoom(room.GameProperty, "")
	alice := newPlayer("小红")
	m.JoinRoom(r.ID, "", alice)

	m.LeaveRoom(r.ID, alice.ID)
	_, ok := m.GetRoom(r.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.RoomCount())
}

func TestRemoveRoomCancelsDriver(t *testing.T) {
	m := NewManager(testConfig())
	r, _ := m.CreateRoom(room.GameProperty, "")
	alice := newPlayer("小红")
	m.JoinRoom(r.ID, "", alice)
	require.NoError(t, m.StartGame(r.ID, alice.ID))

	m.RemoveRoom(r.ID)
	m.mu.RLock()
	_, hasDriver := m.drivers[r.ID]
	m.mu.RUnlock()
	assert.False(t, hasDriver)
	_, ok := m.GetRoom(r.ID)
	assert.False(t, ok)
}

func TestDriverTickSkipsRemovedRoom(t *testing.T) {
	m := NewManager(testConfig())
	// 对不存在的房间触发驱动不应崩溃
	m.tick("GONE42")
}

func TestBroadcastCallbackInvoked(t *testing.T) {
	var calls []string
	m := NewManager(testConfig(), WithBroadcast(func(code string) {
		calls = append(calls, code)
	}))
	r, _ := m.CreateRoom(room.GameProperty, "")
	alice := newPlayer("小红")
	m.JoinRoom(r.ID, "", alice)

	assert.NotEmpty(t, calls)
	assert.Equal(t, r.ID, calls[0])
}

func TestRoomCodesAvoidAmbiguousChars(t *testing.T) {
	m := NewManager(testConfig())
	for i := 0; i < 5; i++ {
		r, err := m.CreateRoom(room.GameProperty, "")
		require.NoError(t, err)
		assert.NotContains(t, r.ID, "0")
		assert.NotContains(t, r.ID, "O")
		assert.NotContains(t, r.ID, "1")
		assert.NotContains(t, r.ID, "I")
	}
}
