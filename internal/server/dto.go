package server

import (
	"time"

	"WastelandOps/internal/game"
)

type estimateRequest struct {
	Squad      []game.SquadMember `json:"squad"`
	Enemies    []game.Enemy       `json:"enemies"`
	Difficulty float64            `json:"difficulty"`
	Location   string             `json:"location"`
	SubTerrain string             `json:"subTerrain,omitempty"`
}

type startMissionRequest struct {
	Squad      []game.SquadMember `json:"squad"`
	Enemies    []game.Enemy       `json:"enemies,omitempty"`
	Encounter  string             `json:"encounter,omitempty"`
	Difficulty float64            `json:"difficulty"`
	Location   string             `json:"location"`
	SubTerrain string             `json:"subTerrain,omitempty"`
	Seed       int64              `json:"seed,omitempty"`
}

type resultDTO struct {
	MissionID             string             `json:"missionId"`
	Victory               bool               `json:"victory"`
	ActualDurationSeconds float64            `json:"actualDurationSeconds"`
	FinalHealth           map[string]float64 `json:"finalHealthByCombatantId"`
	ForcedEnd             bool               `json:"forcedEnd"`
	FinishedAt            time.Time          `json:"finishedAt"`
}

func resultToDTO(missionID string, res game.FinalResult) resultDTO {
	return resultDTO{
		MissionID:             missionID,
		Victory:               res.Victory,
		ActualDurationSeconds: res.Duration.Seconds(),
		FinalHealth:           res.FinalHealth,
		ForcedEnd:             res.ForcedEnd,
		FinishedAt:            res.FinishedAt,
	}
}

type stateDTO struct {
	MissionID  string                 `json:"missionId"`
	Elapsed    float64                `json:"elapsed"`
	Combatants []game.CombatantHealth `json:"combatants"`
}

func stateToDTO(missionID string, st game.SimState) stateDTO {
	return stateDTO{
		MissionID:  missionID,
		Elapsed:    st.Elapsed,
		Combatants: st.Combatants,
	}
}

type activeMissionsDTO struct {
	MissionIDs []string `json:"missionIds"`
}

type errorDTO struct {
	Error string `json:"error"`
}

// OutboundMessage packages WebSocket frames.
type OutboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
