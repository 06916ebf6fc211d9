package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WastelandOps/internal/game"
)

func newTestServer(t *testing.T) (*Server, *game.SessionManager) {
	t.Helper()
	est := game.NewEstimator(game.DefaultBalanceParams(), nil)
	factory := func(missionID string) game.CombatSim {
		return game.NewSimulator(est, game.WithTick(time.Millisecond))
	}
	mgr := game.NewSessionManager(factory, nil)
	return NewServer(est, mgr, nil), mgr
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestEstimateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/estimate", estimateRequest{
		Squad: []game.SquadMember{{
			ID: "rifleman",
			Weapon: &game.WeaponSpec{
				Class:         game.WeaponRanged,
				Damage:        20,
				RatePerMinute: 60,
				Accuracy:      80,
				Reliability:   90,
			},
		}},
		Enemies:    []game.Enemy{{ID: "raider", Health: 40}},
		Difficulty: 1,
		Location:   "Valley",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res game.CombatEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 14.4, res.SquadDPS, 1e-9)
	assert.Equal(t, 45, res.TravelMinutes)
	assert.Greater(t, res.EstimatedDurationSeconds, 0.0)
}

func TestEstimateEndpointBadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissionLifecycleOverHTTP(t *testing.T) {
	srv, mgr := newTestServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/missions/m1/start", startMissionRequest{
		Squad:   []game.SquadMember{{ID: "rifleman", WeaponID: "none"}},
		Enemies: []game.Enemy{{ID: "behemoth", Health: 1e9}},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, mgr.IsSessionActive("m1"))

	rec = getPath(t, handler, "/api/missions")
	require.Equal(t, http.StatusOK, rec.Code)
	var active activeMissionsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Contains(t, active.MissionIDs, "m1")

	rec = getPath(t, handler, "/api/missions/m1/state")
	require.Equal(t, http.StatusOK, rec.Code)

	// No result yet.
	rec = getPath(t, handler, "/api/missions/m1/result")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Force the session down and read the archived defeat.
	rec = postJSON(t, handler, "/api/missions/m1/force-end", struct{}{})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = getPath(t, handler, "/api/missions/m1/result")
	require.Equal(t, http.StatusOK, rec.Code)
	var res resultDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Victory)
	assert.True(t, res.ForcedEnd)
	assert.Equal(t, "m1", res.MissionID)

	// Live state is gone once the session completed.
	rec = getPath(t, handler, "/api/missions/m1/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartMissionFromEncounterTemplate(t *testing.T) {
	srv, mgr := newTestServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/missions/m2/start", startMissionRequest{
		Squad:     []game.SquadMember{{ID: "scout"}},
		Encounter: "raider-patrol",
		Seed:      7,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, mgr.IsSessionActive("m2"))
	mgr.ForceSessionEnd("m2")
}

func TestStartMissionUnknownEncounter(t *testing.T) {
	srv, mgr := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/api/missions/m3/start", startMissionRequest{
		Encounter: "does-not-exist",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, mgr.IsSessionActive("m3"))
}

func TestUnknownMissionQueries(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rec := getPath(t, handler, "/api/missions/ghost/result")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = getPath(t, handler, "/api/missions/ghost/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Force-ending an unknown mission is a no-op, not an error.
	rec = postJSON(t, handler, "/api/missions/ghost/force-end", struct{}{})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
