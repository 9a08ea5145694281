package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// 错误定义
var (
	ErrClientNotFound = errors.New("客户端未找到")
	ErrSendBufferFull = errors.New("发送缓冲区已满")
)

// MessageHandler 业务消息处理器，由上层注入
type MessageHandler interface {
	HandleClientMessage(client *Client, data []byte)
	HandleClientDisconnect(client *Client)
}

// Hub WebSocket连接管理中心
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 房间成员映射 roomCode -> clientID集合
	rooms  map[string]map[string]*Client
	roomMu sync.RWMutex

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	messageHandler MessageHandler
	logger         *zap.Logger
}

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// SetMessageHandler 注入业务消息处理器
func (h *Hub) SetMessageHandler(handler MessageHandler) {
	h.messageHandler = handler
}

// Run 运行Hub主循环
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID))

	msg := &Message{
		Type:      MessageTypeConnected,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"clientId":"` + client.ID + `"}`),
	}
	h.SendToClient(client.ID, msg)
}

// unregisterClient 注销客户端并退出所属房间
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	h.LeaveRoom(client.ID)

	if h.messageHandler != nil {
		h.messageHandler.HandleClientDisconnect(client)
	}

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID))
}

// JoinRoom 把客户端并入房间成员组；一个连接同时只属于一个房间
func (h *Hub) JoinRoom(clientID, roomCode string) {
	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()
	if !ok {
		return
	}

	h.roomMu.Lock()
	defer h.roomMu.Unlock()

	if client.RoomCode != "" && client.RoomCode != roomCode {
		h.removeFromRoom(client)
	}
	client.RoomCode = roomCode
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[string]*Client)
	}
	h.rooms[roomCode][clientID] = client
}

// LeaveRoom 把客户端移出所属房间成员组
func (h *Hub) LeaveRoom(clientID string) {
	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()
	if !ok {
		return
	}

	h.roomMu.Lock()
	h.removeFromRoom(client)
	h.roomMu.Unlock()
}

// removeFromRoom 内部方法，需要持有roomMu
func (h *Hub) removeFromRoom(client *Client) {
	if client.RoomCode == "" {
		return
	}
	if members, ok := h.rooms[client.RoomCode]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, client.RoomCode)
		}
	}
	client.RoomCode = ""
}

// SendToRoom 向房间全部成员推送消息
func (h *Hub) SendToRoom(roomCode string, message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.roomMu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomCode]))
	for _, client := range h.rooms[roomCode] {
		members = append(members, client)
	}
	h.roomMu.RUnlock()

	for _, client := range members {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID),
				zap.String("room", roomCode))
		}
	}
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()
	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// ClientCount 在线连接数
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// RoomMemberCount 房间在线成员数
func (h *Hub) RoomMemberCount(roomCode string) int {
	h.roomMu.RLock()
	defer h.roomMu.RUnlock()
	return len(h.rooms[roomCode])
}
