package websocket

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/wfunc/party-game/internal/game"
	"github.com/wfunc/party-game/internal/game/property"
	"github.com/wfunc/party-game/internal/game/room"
	"github.com/wfunc/party-game/internal/game/sector"
	"github.com/wfunc/party-game/internal/logger"
)

// RoomMessageHandler 房间动作路由：解析客户端消息并分派到对应引擎。
// 前置条件不满足的动作静默忽略（引擎内部兜底），
// 结构性错误只回给出错的连接，绝不影响房间其他成员。
type RoomMessageHandler struct {
	hub     *Hub
	manager *game.Manager
	logger  *zap.Logger
}

// NewRoomMessageHandler 创建房间动作路由
func NewRoomMessageHandler(hub *Hub, manager *game.Manager) *RoomMessageHandler {
	h := &RoomMessageHandler{
		hub:     hub,
		manager: manager,
		logger:  logger.GetLogger(),
	}
	manager.SetBroadcast(h.BroadcastRoom)
	return h
}

// HandleClientMessage 实现MessageHandler
func (h *RoomMessageHandler) HandleClientMessage(client *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Warn("解析消息失败",
			zap.String("client_id", client.ID),
			zap.Error(err))
		h.sendError(client, "消息格式错误")
		return
	}
	if msg.Type == "" {
		h.sendError(client, "消息类型不能为空")
		return
	}

	logger.LogWebSocketMessage("in", msg.Type, client.ID)

	switch msg.Type {
	case MessageTypePing:
		client.SendMessage(MessageTypePong, map[string]int64{"time": time.Now().Unix()})

	case MessageTypeCreateRoom:
		h.handleCreateRoom(client, msg.Data)
	case MessageTypeJoinRoom:
		h.handleJoinRoom(client, msg.Data)
	case MessageTypeLeaveRoom:
		h.handleLeaveRoom(client)
	case MessageTypeStartGame:
		h.handleStartGame(client)
	case MessageTypeGetState:
		h.BroadcastRoom(client.RoomCode)

	case MessageTypeRoll:
		h.handleRoll(client)
	case MessageTypeBuy:
		h.dispatch(client, func(r *room.Room, g *property.Game) {
			g.PurchaseProperty(r, client.ID)
		}, func(r *room.Room, g *sector.Game) {
			g.PurchaseCompany(r, client.ID)
		})
	case MessageTypeEndTurn:
		h.dispatch(client, func(r *room.Room, g *property.Game) {
			g.EndTurn(r, client.ID)
		}, func(r *room.Room, g *sector.Game) {
			g.EndTurn(r, client.ID)
		})
	case MessageTypeMortgage:
		h.handleSpaceAction(client, msg.Data, (*property.Game).Mortgage)
	case MessageTypeUnmortgage:
		h.handleSpaceAction(client, msg.Data, (*property.Game).Unmortgage)
	case MessageTypeBuyHouse:
		h.handleSpaceAction(client, msg.Data, (*property.Game).BuyHouse)
	case MessageTypeDeclareBankruptcy:
		h.dispatch(client, func(r *room.Room, g *property.Game) {
			g.DeclareBankruptcy(r, client.ID)
		}, nil)
	case MessageTypeCreateTrade:
		h.handleCreateTrade(client, msg.Data)
	case MessageTypeAcceptTrade:
		h.dispatch(client, func(r *room.Room, g *property.Game) {
			g.AcceptTrade(r, client.ID)
		}, nil)
	case MessageTypeRejectTrade:
		h.dispatch(client, func(r *room.Room, g *property.Game) {
			g.RejectTrade(r, client.ID)
		}, nil)
	case MessageTypeDismissCard:
		h.dispatch(client, func(r *room.Room, g *property.Game) {
			g.DismissCard(client.ID)
		}, nil)
	case MessageTypeStartAuction:
		h.handleStartAuction(client, msg.Data)
	case MessageTypeBid:
		h.handleBid(client, msg.Data)

	default:
		h.sendError(client, "不支持的消息类型: "+msg.Type)
	}
}

// HandleClientDisconnect 连接断开：保留座位等待重连，房间清空时回收
func (h *RoomMessageHandler) HandleClientDisconnect(client *Client) {
	if client.RoomCode == "" {
		return
	}
	h.manager.LeaveRoom(client.RoomCode, client.ID)
}

// handleCreateRoom 建房并让创建者入座
func (h *RoomMessageHandler) handleCreateRoom(client *Client, data json.RawMessage) {
	var req struct {
		GameType string `json:"gameType"`
		Passcode string `json:"passcode"`
		Avatar   string `json:"avatar"`
		Role     string `json:"role"`
	}
	if data != nil {
		if err := json.Unmarshal(data, &req); err != nil {
			h.sendError(client, "参数格式错误")
			return
		}
	}

	r, err := h.manager.CreateRoom(room.GameType(req.GameType), req.Passcode)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}

	p := h.playerFrom(client, req.Avatar, req.Role)
	if _, err := h.manager.JoinRoom(r.ID, req.Passcode, p); err != nil {
		h.sendError(client, err.Error())
		return
	}
	h.hub.JoinRoom(client.ID, r.ID)
	h.BroadcastRoom(r.ID)
}

// handleJoinRoom 入座或断线重连
func (h *RoomMessageHandler) handleJoinRoom(client *Client, data json.RawMessage) {
	var req struct {
		RoomCode string `json:"roomCode"`
		Passcode string `json:"passcode"`
		Avatar   string `json:"avatar"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.RoomCode == "" {
		h.sendError(client, "参数格式错误")
		return
	}

	p := h.playerFrom(client, req.Avatar, req.Role)
	if _, err := h.manager.JoinRoom(req.RoomCode, req.Passcode, p); err != nil {
		h.sendError(client, err.Error())
		return
	}
	h.hub.JoinRoom(client.ID, req.RoomCode)
	h.BroadcastRoom(req.RoomCode)
}

// handleLeaveRoom 主动离座
func (h *RoomMessageHandler) handleLeaveRoom(client *Client) {
	code := client.RoomCode
	if code == "" {
		return
	}
	h.hub.LeaveRoom(client.ID)
	h.manager.LeaveRoom(code, client.ID)
}

// handleStartGame 开局
func (h *RoomMessageHandler) handleStartGame(client *Client) {
	if client.RoomCode == "" {
		h.sendError(client, "尚未加入房间")
		return
	}
	if err := h.manager.StartGame(client.RoomCode, client.ID); err != nil {
		h.sendError(client, err.Error())
	}
}

// handleRoll 掷骰：快照之前先单发骰子事件，供客户端播放动画
func (h *RoomMessageHandler) handleRoll(client *Client) {
	r, ok := h.manager.GetRoom(client.RoomCode)
	if !ok || r.Game == nil {
		return
	}

	var dice *[2]int
	r.Lock()
	switch eng := r.Game.(type) {
	case *property.Game:
		if res := eng.RollDice(r, client.ID); res != nil {
			dice = &res.Dice
		}
	case *sector.Game:
		if eng.RollDice(r, client.ID) {
			d := eng.LastDice
			dice = &d
		}
	}
	r.Unlock()

	if dice == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{"dice": dice, "playerId": client.ID})
	h.hub.SendToRoom(client.RoomCode, &Message{
		Type:      MessageTypeDiceRolled,
		RoomCode:  client.RoomCode,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	})
	h.BroadcastRoom(client.RoomCode)
}

// handleSpaceAction 带格子参数的地产动作（抵押/赎回/建房）
func (h *RoomMessageHandler) handleSpaceAction(client *Client, data json.RawMessage, action func(*property.Game, *room.Room, string, int)) {
	var req struct {
		SpaceIndex int `json:"spaceIndex"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, "参数格式错误")
		return
	}
	h.dispatch(client, func(r *room.Room, g *property.Game) {
		action(g, r, client.ID, req.SpaceIndex)
	}, nil)
}

// handleCreateTrade 发起交易
func (h *RoomMessageHandler) handleCreateTrade(client *Client, data json.RawMessage) {
	var req struct {
		ToID              string `json:"toId"`
		OfferCash         int    `json:"offerCash"`
		OfferProperties   []int  `json:"offerProperties"`
		RequestCash       int    `json:"requestCash"`
		RequestProperties []int  `json:"requestProperties"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, "参数格式错误")
		return
	}
	h.dispatch(client, func(r *room.Room, g *property.Game) {
		g.CreateTrade(r, &property.TradeOffer{
			FromID:            client.ID,
			ToID:              req.ToID,
			OfferCash:         req.OfferCash,
			OfferProperties:   req.OfferProperties,
			RequestCash:       req.RequestCash,
			RequestProperties: req.RequestProperties,
		})
	}, nil)
}

// handleStartAuction 挂牌拍卖
func (h *RoomMessageHandler) handleStartAuction(client *Client, data json.RawMessage) {
	var req struct {
		CompanyIndex int `json:"companyIndex"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, "参数格式错误")
		return
	}
	h.dispatch(client, nil, func(r *room.Room, g *sector.Game) {
		g.StartAuction(r, client.ID, req.CompanyIndex)
	})
}

// handleBid 拍卖出价
func (h *RoomMessageHandler) handleBid(client *Client, data json.RawMessage) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, "参数格式错误")
		return
	}
	h.dispatch(client, nil, func(r *room.Room, g *sector.Game) {
		g.HandleBid(r, client.ID, req.Amount)
	})
}

// dispatch 在房间锁下分派引擎动作，动作执行后推送完整快照。
// 对应引擎的回调为nil时该动作对这种玩法静默忽略。
func (h *RoomMessageHandler) dispatch(client *Client, onProperty func(*room.Room, *property.Game), onSector func(*room.Room, *sector.Game)) {
	r, ok := h.manager.GetRoom(client.RoomCode)
	if !ok || r.Game == nil {
		return
	}

	r.Lock()
	switch eng := r.Game.(type) {
	case *property.Game:
		if onProperty != nil {
			onProperty(r, eng)
		}
	case *sector.Game:
		if onSector != nil {
			onSector(r, eng)
		}
	}
	r.Unlock()

	h.BroadcastRoom(client.RoomCode)
}

// BroadcastRoom 向房间全员推送完整房间快照
func (h *RoomMessageHandler) BroadcastRoom(code string) {
	if code == "" {
		return
	}
	r, ok := h.manager.GetRoom(code)
	if !ok {
		h.hub.SendToRoom(code, &Message{
			Type:      MessageTypeRoomClosed,
			RoomCode:  code,
			Timestamp: time.Now().Unix(),
		})
		return
	}

	r.Lock()
	payload, err := json.Marshal(r)
	r.Unlock()
	if err != nil {
		h.logger.Error("序列化房间快照失败",
			zap.String("room", code),
			zap.Error(err))
		return
	}

	h.hub.SendToRoom(code, &Message{
		Type:      MessageTypeRoomState,
		RoomCode:  code,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	})
}

// playerFrom 由连接信息装配玩家
func (h *RoomMessageHandler) playerFrom(client *Client, avatar, role string) *room.Player {
	r := room.RolePlayer
	if role == string(room.RoleBanker) {
		r = room.RoleBanker
	}
	return &room.Player{
		ID:        client.ID,
		UserID:    client.UserID,
		Name:      client.Name,
		Avatar:    avatar,
		Role:      r,
		Connected: true,
	}
}

// sendError 错误只回给出错的连接
func (h *RoomMessageHandler) sendError(client *Client, message string) {
	client.SendMessage(MessageTypeError, map[string]string{"error": message})
}
