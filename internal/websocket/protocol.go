package websocket

import "encoding/json"

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`
	RoomCode  string          `json:"roomCode,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// 消息类型
const (
	// 系统消息
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"

	// 房间操作
	MessageTypeCreateRoom = "create_room"
	MessageTypeJoinRoom   = "join_room"
	MessageTypeLeaveRoom  = "leave_room"
	MessageTypeStartGame  = "start_game"
	MessageTypeGetState   = "get_state"

	// 回合动作（两种经济玩法共用的动作面）
	MessageTypeRoll              = "roll"
	MessageTypeBuy               = "buy"
	MessageTypeEndTurn           = "end_turn"
	MessageTypeMortgage          = "mortgage"
	MessageTypeUnmortgage        = "unmortgage"
	MessageTypeBuyHouse          = "buy_house"
	MessageTypeDeclareBankruptcy = "declare_bankruptcy"
	MessageTypeCreateTrade       = "create_trade"
	MessageTypeAcceptTrade       = "accept_trade"
	MessageTypeRejectTrade       = "reject_trade"
	MessageTypeDismissCard       = "dismiss_card"
	MessageTypeStartAuction      = "start_auction"
	MessageTypeBid               = "bid"

	// 服务端推送
	MessageTypeRoomState  = "room_state"  // 完整房间快照
	MessageTypeDiceRolled = "dice_rolled" // 骰子动画事件，先于快照下发
	MessageTypeRoomClosed = "room_closed"
)
