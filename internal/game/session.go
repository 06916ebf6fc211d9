package game

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// CombatSession is the live bookkeeping record for one mission's combat.
type CombatSession struct {
	MissionID string
	Sim       CombatSim
	Complete  bool
	StartedAt time.Time
	Duration  time.Duration
}

// FinalResult is the write-once archived outcome of a mission's combat.
type FinalResult struct {
	Victory     bool               `json:"victory"`
	Duration    time.Duration      `json:"-"`
	FinalHealth map[string]float64 `json:"finalHealthByCombatantId"`
	FinishedAt  time.Time          `json:"finishedAt"`
	ForcedEnd   bool               `json:"forcedEnd"`
}

// CompletionListener is invoked exactly once when a mission's combat
// resolves.
type CompletionListener func(victory bool, actual time.Duration)

// SimFactory builds the combat simulation for one mission.
type SimFactory func(missionID string) CombatSim

// ResultSink receives final results for out-of-process archival. Writes
// are best-effort: a sink error is logged, never propagated.
type ResultSink interface {
	SaveResult(missionID string, res FinalResult) error
}

// SessionManager owns at most one live combat session per mission ID. It
// deduplicates starts, republishes the simulation's terminal event exactly
// once, and archives the outcome forever. Construct one per process (or
// one per test) with NewSessionManager; there is no package-level instance.
type SessionManager struct {
	factory SimFactory
	sink    ResultSink

	mu        sync.Mutex
	sessions  map[string]*CombatSession
	completed map[string]struct{}
	results   map[string]FinalResult
	starting  map[string]struct{}
	listeners map[string][]CompletionListener
}

// NewSessionManager builds an empty registry. The factory must not be nil;
// the sink may be.
func NewSessionManager(factory SimFactory, sink ResultSink) *SessionManager {
	return &SessionManager{
		factory:   factory,
		sink:      sink,
		sessions:  make(map[string]*CombatSession),
		completed: make(map[string]struct{}),
		results:   make(map[string]FinalResult),
		starting:  make(map[string]struct{}),
		listeners: make(map[string][]CompletionListener),
	}
}

// StartSession begins combat for a mission. It is idempotent: if the
// mission has already resolved, is mid-start, or has a live session, the
// call returns without side effects.
func (sm *SessionManager) StartSession(missionID string, squad []SquadMember, enemies []Enemy, ctx MissionContext) {
	sm.mu.Lock()
	if _, done := sm.completed[missionID]; done {
		sm.mu.Unlock()
		return
	}
	if _, locked := sm.starting[missionID]; locked {
		sm.mu.Unlock()
		return
	}
	if _, live := sm.sessions[missionID]; live {
		sm.mu.Unlock()
		return
	}
	sm.starting[missionID] = struct{}{}
	sm.mu.Unlock()

	sim := sm.factory(missionID)
	sim.Subscribe(func(st SimState) {
		if st.Victory != nil {
			sm.finish(missionID, *st.Victory, st.Combatants, false)
		}
	})

	// The session must be registered before the simulation starts ticking,
	// and the start lock released only after registration, so there is no
	// window where neither guard covers the mission ID.
	sm.mu.Lock()
	sm.sessions[missionID] = &CombatSession{
		MissionID: missionID,
		Sim:       sim,
		StartedAt: time.Now(),
	}
	delete(sm.starting, missionID)
	sm.mu.Unlock()

	ctx.MissionID = missionID
	sim.Start(squad, enemies, ctx)
}

// IsSessionActive reports whether a mission has a live, non-complete
// session or is currently mid-start.
func (sm *SessionManager) IsSessionActive(missionID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, locked := sm.starting[missionID]; locked {
		return true
	}
	s, ok := sm.sessions[missionID]
	return ok && !s.Complete
}

// OnSessionComplete registers a listener for a mission's terminal event.
// Listeners fire exactly once, in registration order. If the mission has
// already resolved, the listener is invoked immediately with the archived
// result, so registration order relative to completion does not matter.
func (sm *SessionManager) OnSessionComplete(missionID string, fn CompletionListener) {
	if fn == nil {
		return
	}
	sm.mu.Lock()
	if res, done := sm.results[missionID]; done {
		sm.mu.Unlock()
		fn(res.Victory, res.Duration)
		return
	}
	sm.listeners[missionID] = append(sm.listeners[missionID], fn)
	sm.mu.Unlock()
}

// ForceSessionEnd terminates a live session as a defeat, snapshotting
// whatever health the simulation currently reports and stopping it. No-op
// if the session is absent or already complete.
func (sm *SessionManager) ForceSessionEnd(missionID string) {
	sm.mu.Lock()
	s, ok := sm.sessions[missionID]
	if !ok || s.Complete {
		sm.mu.Unlock()
		return
	}
	sim := s.Sim
	sm.mu.Unlock()

	var combatants []CombatantHealth
	if sim != nil {
		combatants = sim.Snapshot().Combatants
		sim.Stop()
	}
	sm.finish(missionID, false, combatants, true)
}

// FinalResult returns the archived outcome for a mission, if any. Once
// written the value never changes.
func (sm *SessionManager) FinalResult(missionID string) (FinalResult, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	res, ok := sm.results[missionID]
	return res, ok
}

// LiveSessionState exposes the simulation's current snapshot while the
// session is live. Once the session completes it returns false; callers
// wanting the terminal snapshot use FinalResult.
func (sm *SessionManager) LiveSessionState(missionID string) (SimState, bool) {
	sm.mu.Lock()
	s, ok := sm.sessions[missionID]
	if !ok || s.Complete || s.Sim == nil {
		sm.mu.Unlock()
		return SimState{}, false
	}
	sim := s.Sim
	sm.mu.Unlock()
	return sim.Snapshot(), true
}

// ActiveMissionIDs lists missions with a live, non-complete session, in
// registry iteration order.
func (sm *SessionManager) ActiveMissionIDs() []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	ids := make([]string, 0, len(sm.sessions))
	for id, s := range sm.sessions {
		if !s.Complete {
			ids = append(ids, id)
		}
	}
	return ids
}

// finish performs the terminal transition for a mission: archive the
// result, fire listeners in order, then remove the session and mark the
// mission completed. Runs at most once per mission; the completion flag on
// the session dedups a forced end racing a natural terminal event.
func (sm *SessionManager) finish(missionID string, victory bool, combatants []CombatantHealth, forced bool) {
	sm.mu.Lock()
	s, ok := sm.sessions[missionID]
	if !ok || s.Complete {
		sm.mu.Unlock()
		return
	}
	s.Complete = true
	s.Duration = time.Since(s.StartedAt)

	health := make(map[string]float64, len(combatants))
	for _, c := range combatants {
		health[c.ID] = c.Health
	}
	res := FinalResult{
		Victory:     victory,
		Duration:    s.Duration,
		FinalHealth: health,
		FinishedAt:  time.Now(),
		ForcedEnd:   forced,
	}
	sm.results[missionID] = res
	fns := sm.listeners[missionID]
	delete(sm.listeners, missionID)
	sm.mu.Unlock()

	// Listeners run outside the lock so they can safely query the manager.
	// They observe the "session ending" view: the result is archived and
	// IsSessionActive already reports false.
	for _, fn := range fns {
		fn(res.Victory, res.Duration)
	}

	sm.mu.Lock()
	delete(sm.sessions, missionID)
	sm.completed[missionID] = struct{}{}
	delete(sm.starting, missionID)
	sm.mu.Unlock()

	if sm.sink != nil {
		if err := sm.sink.SaveResult(missionID, res); err != nil {
			log.Printf("session %s: archive result: %v", missionID, err)
		}
	}
}

// RandID generates a short random identifier with a prefix.
func RandID(prefix string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return prefix + "-" + string(b)
}
