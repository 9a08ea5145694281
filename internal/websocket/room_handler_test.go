package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wfunc/party-game/internal/config"
	"github.com/wfunc/party-game/internal/game"
	"github.com/wfunc/party-game/internal/game/room"
)

// newTestHandler 构建不经过真实连接的Hub与路由
func newTestHandler(t *testing.T) (*Hub, *RoomMessageHandler) {
	t.Helper()
	hub := NewHub(zap.NewNop())
	manager := game.NewManager(&config.Config{
		Room: config.RoomConfig{
			CodeLength:   6,
			MaxRooms:     10,
			MaxPlayers:   8,
			TickInterval: time.Second,
		},
	})
	return hub, NewRoomMessageHandler(hub, manager)
}

// newTestClient 直接挂到连接池，不跑读写泵
func newTestClient(hub *Hub, name string) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		UserID: "u-" + name,
		Name:   name,
		Hub:    hub,
		Send:   make(chan []byte, 64),
	}
	hub.clientsMu.Lock()
	hub.clients[c.ID] = c
	hub.clientsMu.Unlock()
	return c
}

// send 构造并投递一条客户端消息
func send(h *RoomMessageHandler, c *Client, msgType string, data interface{}) {
	msg := Message{Type: msgType}
	if data != nil {
		raw, _ := json.Marshal(data)
		msg.Data = raw
	}
	payload, _ := json.Marshal(msg)
	h.HandleClientMessage(c, payload)
}

// drain 读出一个客户端积压的全部消息
func drain(c *Client) []Message {
	var msgs []Message
	for {
		select {
		case raw := <-c.Send:
			var m Message
			if json.Unmarshal(raw, &m) == nil {
				msgs = append(msgs, m)
			}
		default:
			return msgs
		}
	}
}

// lastOfType 取最后一条指定类型的消息
func lastOfType(msgs []Message, msgType string) *Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return &msgs[i]
		}
	}
	return nil
}

func TestCreateRoomFlow(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")

	send(h, alice, MessageTypeCreateRoom, map[string]string{"gameType": "property"})

	msgs := drain(alice)
	state := lastOfType(msgs, MessageTypeRoomState)
	require.NotNil(t, state)
	assert.NotEmpty(t, alice.RoomCode)
	assert.Equal(t, 1, hub.RoomMemberCount(alice.RoomCode))

	var snapshot room.Room
	require.NoError(t, json.Unmarshal(state.Data, &snapshot))
	assert.Equal(t, room.GameProperty, snapshot.GameType)
	assert.Len(t, snapshot.Players, 1)
}

func TestCreateRoomUnknownTypeErrorsToOffenderOnly(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")
	bob := newTestClient(hub, "小蓝")

	send(h, alice, MessageTypeCreateRoom, map[string]string{"gameType": "poker"})

	require.NotNil(t, lastOfType(drain(alice), MessageTypeError))
	assert.Empty(t, drain(bob))
}

func TestJoinRoomAndBroadcast(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")
	bob := newTestClient(hub, "小蓝")

	send(h, alice, MessageTypeCreateRoom, map[string]string{"gameType": "property"})
	code := alice.RoomCode
	drain(alice)

	send(h, bob, MessageTypeJoinRoom, map[string]string{"roomCode": code})

	// 双方都收到最新快照
	require.NotNil(t, lastOfType(drain(alice), MessageTypeRoomState))
	state := lastOfType(drain(bob), MessageTypeRoomState)
	require.NotNil(t, state)
	var snapshot room.Room
	require.NoError(t, json.Unmarshal(state.Data, &snapshot))
	assert.Len(t, snapshot.Players, 2)
}

func TestJoinMissingRoom(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")

	send(h, alice, MessageTypeJoinRoom, map[string]string{"roomCode": "NOSUCH"})
	require.NotNil(t, lastOfType(drain(alice), MessageTypeError))
	assert.Empty(t, alice.RoomCode)
}

func TestRollEmitsDiceEventBeforeSnapshot(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")
	bob := newTestClient(hub, "小蓝")

	send(h, alice, MessageTypeCreateRoom, map[string]string{"gameType": "property"})
	code := alice.RoomCode
	send(h, bob, MessageTypeJoinRoom, map[string]string{"roomCode": code})
	send(h, alice, MessageTypeStartGame, nil)
	drain(alice)
	drain(bob)

	send(h, alice, MessageTypeRoll, nil)

	msgs := drain(bob)
	var diceIdx, stateIdx = -1, -1
	for i, m := range msgs {
		switch m.Type {
		case MessageTypeDiceRolled:
			diceIdx = i
		case MessageTypeRoomState:
			stateIdx = i
		}
	}
	require.GreaterOrEqual(t, diceIdx, 0)
	require.Greater(t, stateIdx, diceIdx)

	var dice struct {
		Dice     [2]int `json:"dice"`
		PlayerID string `json:"playerId"`
	}
	require.NoError(t, json.Unmarshal(msgs[diceIdx].Data, &dice))
	assert.Equal(t, alice.ID, dice.PlayerID)
	assert.InDelta(t, 7, dice.Dice[0]+dice.Dice[1], 5)
}

func TestRollOutOfTurnIsSilent(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")
	bob := newTestClient(hub, "小蓝")

	send(h, alice, MessageTypeCreateRoom, map[string]string{"gameType": "property"})
	send(h, bob, MessageTypeJoinRoom, map[string]string{"roomCode": alice.RoomCode})
	send(h, alice, MessageTypeStartGame, nil)
	drain(alice)
	drain(bob)

	// 非当前回合玩家掷骰：无事件、无错误、无快照
	send(h, bob, MessageTypeRoll, nil)
	assert.Empty(t, drain(bob))
}

func TestMalformedMessageErrorsToOffender(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")

	h.HandleClientMessage(alice, []byte("{not json"))
	require.NotNil(t, lastOfType(drain(alice), MessageTypeError))

	h.HandleClientMessage(alice, []byte(`{"type":""}`))
	require.NotNil(t, lastOfType(drain(alice), MessageTypeError))

	h.HandleClientMessage(alice, []byte(`{"type":"teleport"}`))
	require.NotNil(t, lastOfType(drain(alice), MessageTypeError))
}

func TestLeaveRoomRemovesMembership(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")
	bob := newTestClient(hub, "小蓝")

	send(h, alice, MessageTypeCreateRoom, map[string]string{"gameType": "sector"})
	code := alice.RoomCode
	send(h, bob, MessageTypeJoinRoom, map[string]string{"roomCode": code})
	drain(alice)
	drain(bob)

	send(h, bob, MessageTypeLeaveRoom, nil)
	assert.Equal(t, 1, hub.RoomMemberCount(code))
	// 留下的人收到新快照
	state := lastOfType(drain(alice), MessageTypeRoomState)
	require.NotNil(t, state)
	var snapshot room.Room
	require.NoError(t, json.Unmarshal(state.Data, &snapshot))
	assert.Len(t, snapshot.Players, 1)
}

func TestPingPong(t *testing.T) {
	hub, h := newTestHandler(t)
	alice := newTestClient(hub, "小红")

	send(h, alice, MessageTypePing, nil)
	require.NotNil(t, lastOfType(drain(alice), MessageTypePong))
}
