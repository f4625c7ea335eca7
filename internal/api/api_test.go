package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ericogr/chimera-descent/internal/catalog"
	"github.com/ericogr/chimera-descent/internal/engine"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/service"
	"github.com/ericogr/chimera-descent/internal/storage"
)

type fakeService struct {
	run       *game.RunSnapshot
	view      service.BattleView
	err       error
	lastReq   service.CreateRunRequest
	lastPlay  string
	lastIndex int
}

func (f *fakeService) CreateRun(_ context.Context, req service.CreateRunRequest) (*game.RunSnapshot, error) {
	f.lastReq = req
	return f.run, f.err
}

func (f *fakeService) GetRun(context.Context, string) (*game.RunSnapshot, error) {
	return f.run, f.err
}

func (f *fakeService) StartBattle(context.Context, string) (service.BattleView, error) {
	return f.view, f.err
}

func (f *fakeService) PlayCard(_ context.Context, _ string, instanceID string, handIndex int) (service.BattleView, error) {
	f.lastPlay, f.lastIndex = instanceID, handIndex
	return f.view, f.err
}

func (f *fakeService) EndTurn(context.Context, string) (service.BattleView, error) {
	return f.view, f.err
}

func (f *fakeService) Abandon(context.Context, string) (service.BattleView, error) {
	return f.view, f.err
}

func (f *fakeService) View(string) (service.BattleView, error) { return f.view, f.err }

func (f *fakeService) Log(string) ([]game.LogEntry, error) {
	return []game.LogEntry{{Message: "battle started"}}, f.err
}

type fakeProfiles struct {
	players   []game.PlayerProfile
	lastLimit int
	err       error
}

func (f *fakeProfiles) GetTopPlayers(_ context.Context, limit int) ([]game.PlayerProfile, error) {
	f.lastLimit = limit
	return f.players, f.err
}

func (f *fakeProfiles) GetProfile(_ context.Context, name string) (*game.PlayerProfile, error) {
	for i := range f.players {
		if f.players[i].PlayerName == name {
			return &f.players[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func setup(svc *fakeService, profiles *fakeProfiles) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewBattleHandler(svc, profiles))
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateRun(t *testing.T) {
	run := &game.RunSnapshot{Model: gorm.Model{ID: 7, CreatedAt: time.Now()}, RunID: "run-1", PlayerName: "ana", Status: game.RunActive}
	svc := &fakeService{run: run}
	r := setup(svc, &fakeProfiles{})

	w := do(t, r, http.MethodPost, "/api/runs", map[string]interface{}{
		"player_name": "  ana ",
		"character":   "warrior",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "run-1", body["run_id"])
	assert.Contains(t, body, "created_at")
	assert.NotContains(t, body, "CreatedAt")
	assert.Equal(t, "ana", svc.lastReq.PlayerName)
}

func TestCreateRunRejectsBadInput(t *testing.T) {
	r := setup(&fakeService{}, &fakeProfiles{})

	w := do(t, r, http.MethodPost, "/api/runs", map[string]interface{}{"player_name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc := &fakeService{err: game.ErrUnknownCharacter}
	r = setup(svc, &fakeProfiles{})
	w = do(t, r, http.MethodPost, "/api/runs", map[string]interface{}{"player_name": "ana", "character": "bard"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"battle missing", service.ErrBattleNotFound, http.StatusNotFound},
		{"busy", engine.ErrBusy, http.StatusConflict},
		{"wrong phase", engine.ErrNotPlayerTurn, http.StatusConflict},
		{"over", engine.ErrBattleOver, http.StatusConflict},
		{"energy", engine.ErrInsufficientEnergy, http.StatusBadRequest},
		{"mismatch", engine.ErrCardMismatch, http.StatusBadRequest},
		{"empty catalog", catalog.ErrNoAdversaries, http.StatusServiceUnavailable},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setup(&fakeService{err: tc.err}, &fakeProfiles{})
			w := do(t, r, http.MethodPost, "/api/battles/b1/end-turn", nil)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, decode(t, w), "error")
		})
	}
}

func TestPlayCard(t *testing.T) {
	svc := &fakeService{view: service.BattleView{View: engine.View{State: engine.State{ID: "b1", Turn: 2}}}}
	r := setup(svc, &fakeProfiles{})

	w := do(t, r, http.MethodPost, "/api/battles/b1/play", map[string]interface{}{"instance_id": "c-3", "hand_index": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c-3", svc.lastPlay)
	assert.Equal(t, 0, svc.lastIndex)
	assert.Equal(t, "b1", decode(t, w)["id"])

	w = do(t, r, http.MethodPost, "/api/battles/b1/play", map[string]interface{}{"instance_id": "c-3"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBattleLog(t *testing.T) {
	r := setup(&fakeService{}, &fakeProfiles{})
	w := do(t, r, http.MethodGet, "/api/battles/b1/log", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []game.LogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "battle started", entries[0].Message)
}

func TestLeaderboard(t *testing.T) {
	profiles := &fakeProfiles{players: []game.PlayerProfile{{PlayerName: "ana", Victories: 3}}}
	r := setup(&fakeService{}, profiles)

	w := do(t, r, http.MethodGet, "/api/leaderboard?limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, profiles.lastLimit)

	w = do(t, r, http.MethodGet, "/api/leaderboard?limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, profiles.lastLimit)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, float64(3), out[0]["victories"])
	assert.Contains(t, out[0], "updated_at")
}

func TestGetPlayer(t *testing.T) {
	profiles := &fakeProfiles{players: []game.PlayerProfile{{PlayerName: "ana"}}}
	r := setup(&fakeService{}, profiles)

	w := do(t, r, http.MethodGet, "/api/players/ana", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/players/bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Player not found", decode(t, w)["error"])
}

func TestVersion(t *testing.T) {
	r := setup(&fakeService{}, &fakeProfiles{})
	w := do(t, r, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dev", decode(t, w)["version"])
}
