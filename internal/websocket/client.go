package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket配置
const (
	// 写超时
	writeWait = 10 * time.Second

	// 读取pong超时
	pongWait = 60 * time.Second

	// ping发送周期（必须小于pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 64 * 1024 // 64KB
)

// Client WebSocket客户端
type Client struct {
	ID       string          // 连接标识，每次连接都不同
	UserID   string          // 稳定标识，断线重连不变
	Name     string          // 展示名
	RoomCode string          // 所属房间
	Hub      *Hub            // Hub引用
	Conn     *websocket.Conn // WebSocket连接
	Send     chan []byte     // 发送通道
}

// NewClient 创建新客户端
func NewClient(hub *Hub, conn *websocket.Conn, userID, name string) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
}

// Register 注册到Hub
func (c *Client) Register() {
	c.Hub.register <- c
}

// ReadPump 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Error("WebSocket读取错误",
					zap.String("client_id", c.ID),
					zap.Error(err))
			}
			break
		}

		if c.Hub.messageHandler != nil {
			c.Hub.messageHandler.HandleClientMessage(c, message)
		}
	}
}

// WritePump 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub关闭了通道
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// 批量发送队列中的消息
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送类型化消息给客户端
func (c *Client) SendMessage(msgType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	msg := &Message{
		Type:      msgType,
		RoomCode:  c.RoomCode,
		Data:      jsonData,
		Timestamp: time.Now().Unix(),
	}
	return c.Hub.SendToClient(c.ID, msg)
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.Hub.unregister <- c
}
