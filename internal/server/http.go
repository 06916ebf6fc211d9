package server

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"

	"WastelandOps/internal/game"
)

//go:embed web/index.html
var htmlIndex []byte

//go:embed web/client.js
var jsClient []byte

// resultArchive is the read side of the persistent result store. A nil
// archive means results only live in process memory.
type resultArchive interface {
	Result(missionID string) (game.FinalResult, bool, error)
}

// Server bundles the formula engine, the session manager and the result
// archive behind the HTTP surface.
type Server struct {
	est     *game.Estimator
	mgr     *game.SessionManager
	archive resultArchive
}

// NewServer wires the HTTP surface. The archive may be nil.
func NewServer(est *game.Estimator, mgr *game.SessionManager, archive resultArchive) *Server {
	return &Server{est: est, mgr: mgr, archive: archive}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(htmlIndex)
	})
	mux.HandleFunc("GET /client.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(jsClient)
	})
	mux.HandleFunc("POST /api/estimate", s.handleEstimate)
	mux.HandleFunc("GET /api/missions", s.handleActiveMissions)
	mux.HandleFunc("POST /api/missions/{id}/start", s.handleStartMission)
	mux.HandleFunc("POST /api/missions/{id}/force-end", s.handleForceEnd)
	mux.HandleFunc("GET /api/missions/{id}/result", s.handleResult)
	mux.HandleFunc("GET /api/missions/{id}/state", s.handleState)
	mux.HandleFunc("GET /ws", s.serveWS)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorDTO{Error: msg})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res := s.est.Estimate(req.Squad, req.Enemies, req.Difficulty, req.Location, req.SubTerrain)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleActiveMissions(w http.ResponseWriter, r *http.Request) {
	ids := s.mgr.ActiveMissionIDs()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, activeMissionsDTO{MissionIDs: ids})
}

func (s *Server) handleStartMission(w http.ResponseWriter, r *http.Request) {
	missionID := r.PathValue("id")
	var req startMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enemies := req.Enemies
	if len(enemies) == 0 && req.Encounter != "" {
		template, err := game.GetEncounter(req.Encounter)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		enemies = template.Resolve(req.Seed)
	}

	s.mgr.StartSession(missionID, req.Squad, enemies, game.MissionContext{
		Difficulty: req.Difficulty,
		Location:   req.Location,
		SubTerrain: req.SubTerrain,
		Seed:       req.Seed,
	})
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"missionId": missionID,
		"active":    s.mgr.IsSessionActive(missionID),
	})
}

func (s *Server) handleForceEnd(w http.ResponseWriter, r *http.Request) {
	s.mgr.ForceSessionEnd(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	missionID := r.PathValue("id")
	if res, ok := s.mgr.FinalResult(missionID); ok {
		writeJSON(w, http.StatusOK, resultToDTO(missionID, res))
		return
	}
	if s.archive != nil {
		res, ok, err := s.archive.Result(missionID)
		if err != nil {
			log.Printf("result lookup %s: %v", missionID, err)
			writeError(w, http.StatusInternalServerError, "archive lookup failed")
			return
		}
		if ok {
			writeJSON(w, http.StatusOK, resultToDTO(missionID, res))
			return
		}
	}
	writeError(w, http.StatusNotFound, "no result for mission")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	missionID := r.PathValue("id")
	st, ok := s.mgr.LiveSessionState(missionID)
	if !ok {
		writeError(w, http.StatusNotFound, "no live session for mission")
		return
	}
	writeJSON(w, http.StatusOK, stateToDTO(missionID, st))
}
