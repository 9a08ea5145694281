package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wfunc/party-game/internal/auth"
	"github.com/wfunc/party-game/internal/config"
	"github.com/wfunc/party-game/internal/game"
	ws "github.com/wfunc/party-game/internal/websocket"
)

func testRouter(t *testing.T) *Router {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Room: config.RoomConfig{
			CodeLength:      6,
			MaxRooms:        10,
			MaxPlayers:      8,
			TickInterval:    time.Second,
			EmptyRoomTTL:    time.Minute,
			CleanupInterval: time.Minute,
		},
		Security: config.SecurityConfig{
			JWT:        config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
			AllowGuest: true,
		},
	}

	manager := game.NewManager(cfg)
	hub := ws.NewHub(zap.NewNop())
	tokens := auth.NewManager(cfg.Security.JWT.Secret, time.Hour)

	return NewRouter(cfg, Deps{
		Manager: manager,
		Hub:     hub,
		Tokens:  tokens,
	}, zap.NewNop())
}

func doRequest(r *Router, method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func guestToken(t *testing.T, r *Router) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/auth/guest", "", `{"name":"小红"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestHealthCheck(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGuestLogin(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/auth/guest", "", `{"name":"小红"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.NotEmpty(t, resp["userId"])
	assert.Equal(t, "小红", resp["name"])
}

func TestGuestLoginRequiresName(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/auth/guest", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRoomRequiresToken(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/rooms", "", `{"gameType":"property"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndListRooms(t *testing.T) {
	r := testRouter(t)
	token := guestToken(t, r)

	w := doRequest(r, http.MethodPost, "/api/v1/rooms", token, `{"gameType":"property"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created["code"], 6)

	w = doRequest(r, http.MethodGet, "/api/v1/rooms", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Rooms []game.RoomSummary `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Rooms, 1)
	assert.Equal(t, created["code"], listed.Rooms[0].Code)
	assert.False(t, listed.Rooms[0].Started)
	assert.False(t, listed.Rooms[0].HasPasscode)
}

func TestCreateRoomUnknownType(t *testing.T) {
	r := testRouter(t)
	token := guestToken(t, r)

	w := doRequest(r, http.MethodPost, "/api/v1/rooms", token, `{"gameType":"poker"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRoomWithPasscodeHidesHash(t *testing.T) {
	r := testRouter(t)
	token := guestToken(t, r)

	w := doRequest(r, http.MethodPost, "/api/v1/rooms", token, `{"gameType":"sector","passcode":"1234"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(r, http.MethodGet, "/api/v1/rooms/"+created["code"], "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasPasscode":true`)
	assert.NotContains(t, w.Body.String(), "1234")
}

func TestGetMissingRoom(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/rooms/ZZZZZZ", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordsUnavailableWithoutArchive(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/records", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRefreshTokenKeepsUserID(t *testing.T) {
	r := testRouter(t)
	token := guestToken(t, r)

	w := doRequest(r, http.MethodPost, "/api/v1/auth/refresh", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "小红", resp["name"])
}
