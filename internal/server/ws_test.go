package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WastelandOps/internal/game"
)

func dialWS(t *testing.T, ts *httptest.Server, mission string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?mission=" + mission
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	return OutboundMessage{Type: msg.Type, Payload: msg.Payload}
}

func TestWSStreamsStateThenResult(t *testing.T) {
	est := game.NewEstimator(game.DefaultBalanceParams(), nil)
	factory := func(missionID string) game.CombatSim {
		return game.NewSimulator(est, game.WithTick(time.Millisecond), game.WithTimeScale(200))
	}
	mgr := game.NewSessionManager(factory, nil)
	srv := NewServer(est, mgr, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	mgr.StartSession("m1",
		[]game.SquadMember{{
			ID: "rifleman",
			Weapon: &game.WeaponSpec{
				Class:         game.WeaponRanged,
				Damage:        20,
				RatePerMinute: 60,
				Accuracy:      80,
				Reliability:   90,
			},
		}},
		[]game.Enemy{{ID: "raider", Health: 5}},
		game.MissionContext{Seed: 3},
	)

	conn := dialWS(t, ts, "m1")

	var sawResult bool
	for i := 0; i < 100 && !sawResult; i++ {
		msg := readMessage(t, conn)
		switch msg.Type {
		case "state":
			var st stateDTO
			require.NoError(t, json.Unmarshal(msg.Payload.(json.RawMessage), &st))
			assert.Equal(t, "m1", st.MissionID)
		case "result":
			var res resultDTO
			require.NoError(t, json.Unmarshal(msg.Payload.(json.RawMessage), &res))
			assert.True(t, res.Victory)
			assert.Equal(t, "m1", res.MissionID)
			sawResult = true
		default:
			t.Fatalf("unexpected frame type %q", msg.Type)
		}
	}
	require.True(t, sawResult, "never received a result frame")
}

func TestWSUnknownMission(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "ghost")
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
}

func TestWSRequiresMissionParam(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, 400, resp.StatusCode)
	}
}
