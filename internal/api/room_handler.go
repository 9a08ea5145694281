package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/wfunc/party-game/internal/errors"
	"github.com/wfunc/party-game/internal/game"
	"github.com/wfunc/party-game/internal/game/room"
	"github.com/wfunc/party-game/internal/repository"
)

// RoomHandler 房间大厅与对局存档处理器
type RoomHandler struct {
	manager    *game.Manager
	recordRepo repository.GameRecordRepository
	eventRepo  repository.RoomEventRepository
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(manager *game.Manager, recordRepo repository.GameRecordRepository, eventRepo repository.RoomEventRepository) *RoomHandler {
	return &RoomHandler{
		manager:    manager,
		recordRepo: recordRepo,
		eventRepo:  eventRepo,
	}
}

// ListRooms 房间大厅列表
func (h *RoomHandler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rooms": h.manager.ListRooms(),
	})
}

// GetRoom 查询单个房间的大厅信息
func (h *RoomHandler) GetRoom(c *gin.Context) {
	code := c.Param("code")
	r, ok := h.manager.GetRoom(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "ROOM_NOT_FOUND",
			"message": "房间不存在",
		})
		return
	}

	r.Lock()
	summary := game.RoomSummary{
		Code:        r.ID,
		GameType:    r.GameType,
		PlayerCount: len(r.Players),
		Started:     r.Started,
		HasPasscode: len(r.PasscodeHash) > 0,
		CreatedAt:   r.CreatedAt,
	}
	r.Unlock()

	c.JSON(http.StatusOK, summary)
}

// CreateRoomRequest 建房请求
type CreateRoomRequest struct {
	GameType string `json:"gameType" binding:"required"`
	Passcode string `json:"passcode"`
}

// CreateRoom 走REST建房，随后通过WebSocket入座
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_PARAM",
			"message": "缺少游戏类型",
		})
		return
	}

	r, err := h.manager.CreateRoom(room.GameType(req.GameType), req.Passcode)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case apperrors.Is(err, apperrors.ErrUnknownGameType):
			status = http.StatusBadRequest
		case apperrors.Is(err, apperrors.ErrRoomLimit):
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"code":    "CREATE_FAILED",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":     r.ID,
		"gameType": r.GameType,
	})
}

// RecentRecords 最近完结的对局
func (h *RoomHandler) RecentRecords(c *gin.Context) {
	if h.recordRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "ARCHIVE_DISABLED",
			"message": "对局存档未启用",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.recordRepo.FindRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "QUERY_FAILED",
			"message": "查询对局存档失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// RoomRecords 某个房间码下的历史对局
func (h *RoomHandler) RoomRecords(c *gin.Context) {
	if h.recordRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "ARCHIVE_DISABLED",
			"message": "对局存档未启用",
		})
		return
	}

	p := paginationFrom(c)
	records, err := h.recordRepo.FindByRoomCode(c.Request.Context(), c.Param("code"), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "QUERY_FAILED",
			"message": "查询对局存档失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records":  records,
		"page":     p.Page,
		"pageSize": p.PageSize,
		"total":    p.Total,
	})
}

// RoomEvents 某个房间码下的事件流水
func (h *RoomHandler) RoomEvents(c *gin.Context) {
	if h.eventRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "ARCHIVE_DISABLED",
			"message": "对局存档未启用",
		})
		return
	}

	p := paginationFrom(c)
	events, err := h.eventRepo.FindByRoomCode(c.Request.Context(), c.Param("code"), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "QUERY_FAILED",
			"message": "查询房间事件失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":   events,
		"page":     p.Page,
		"pageSize": p.PageSize,
		"total":    p.Total,
	})
}

func paginationFrom(c *gin.Context) *repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return repository.NewPagination(page, pageSize)
}
