package live

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lane_battle/internal/battle"
	"lane_battle/internal/sim"
)

func testParams() Params {
	return Params{
		FPS: 200,
		Init: battle.InitParams{
			Stage: battle.StageMaster{
				StageID:  1,
				Length:   500,
				AICastle: battle.CastleMaster{CastleID: 2, MaxHealth: 1000},
			},
			UnitMasters: []battle.UnitMaster{{
				UnitID: 1, Name: "Footman", Cost: 2, MaxHealth: 50, Power: 5, Speed: 1,
				KnockBackFrames: 5, KnockBackSpeed: 1, Range: 5, AttackFrames: 2, HitFrame: 1,
			}},
			Player: battle.PlayerParams{
				UnitIDs: []int{1},
				Castle:  battle.CastleMaster{CastleID: 1, MaxHealth: 1000},
			},
			Config: battle.NewConfig(battle.ConfigParams{CostRecoveryPerFrame: 1, MaxAvailableCost: 10}),
		},
	}
}

func startHub(t *testing.T, p Params) (*websocket.Conn, context.CancelFunc, chan error) {
	t.Helper()
	h := NewHub(p, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, cancel, done
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(sim.Event) bool) sim.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev sim.Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		if match(ev) {
			return ev
		}
	}
}

func ofType(typ string) func(sim.Event) bool {
	return func(ev sim.Event) bool { return ev.Type == typ }
}

func TestHub_StreamsCost(t *testing.T) {
	conn, _, _ := startHub(t, testParams())
	ev := readUntil(t, conn, ofType(sim.EventCost))
	assert.Greater(t, ev.Frame, 0)
	assert.Equal(t, 10.0, ev.Payload["max"])
}

func TestHub_ResetRespawnsCastles(t *testing.T) {
	conn, _, _ := startHub(t, testParams())
	readUntil(t, conn, ofType(sim.EventCost))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"reset"}`)))
	ev := readUntil(t, conn, ofType(sim.EventCastleSpawn))
	assert.Equal(t, 0, ev.Frame)
}

func TestHub_SpawnCommand(t *testing.T) {
	conn, _, _ := startHub(t, testParams())
	readUntil(t, conn, func(ev sim.Event) bool {
		c, _ := ev.Payload["cost"].(float64)
		return ev.Type == sim.EventCost && c >= 2
	})

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"spawn","unitId":1}`)))

	ev := readUntil(t, conn, ofType(sim.EventSpawn))
	assert.Equal(t, true, ev.Payload["player"])
	assert.Equal(t, "Footman", ev.Payload["name"])
}

func TestHub_StopsOnCancel(t *testing.T) {
	conn, cancel, done := startHub(t, testParams())
	readUntil(t, conn, ofType(sim.EventCost))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("hub did not stop")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var ce *websocket.CloseError
			assert.ErrorAs(t, err, &ce)
			return
		}
	}
}

func TestHub_InitError(t *testing.T) {
	p := testParams()
	p.Init.Player.Castle.MaxHealth = 0
	h := NewHub(p, zerolog.Nop())
	assert.ErrorIs(t, h.Run(context.Background()), battle.ErrNoCastle)
}

func TestHub_LogsSpawnRequests(t *testing.T) {
	var buf bytes.Buffer
	h := NewHub(testParams(), zerolog.New(&buf).Level(zerolog.DebugLevel))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"spawn","unitId":1}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"spawn","unitId":42}`)))
	readUntil(t, conn, func(ev sim.Event) bool { return ev.Frame > 20 })

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	out := buf.String()
	assert.Contains(t, out, `"message":"spawn requested"`)
	assert.Contains(t, out, `"name":"Footman"`)
	assert.Contains(t, out, `"message":"spawn for unknown unit"`)
}
