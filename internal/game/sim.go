package game

import (
	"math/rand"
	"sync"
	"time"
)

// MissionContext carries the environment of one combat run.
type MissionContext struct {
	MissionID  string  `json:"missionId"`
	Difficulty float64 `json:"difficulty"`
	Location   string  `json:"location"`
	SubTerrain string  `json:"subTerrain"`
	Seed       int64   `json:"seed"`
}

// CombatantHealth is one entry of a simulation snapshot.
type CombatantHealth struct {
	ID     string  `json:"id"`
	Health float64 `json:"health"`
}

// SimState is the snapshot a combat simulation reports on every update.
// Victory is nil until the terminal update; exactly one update carries a
// non-nil Victory.
type SimState struct {
	Victory    *bool             `json:"victory"`
	StartTime  time.Time         `json:"startTime"`
	Elapsed    float64           `json:"elapsed"`
	Combatants []CombatantHealth `json:"combatants"`
}

// CombatSim is the contract the session manager requires of a combat
// simulation. Subscribe must be called before Start; handlers are invoked
// serially from the simulation's own loop. Snapshot is the explicit
// current-state accessor used by live polling and forced termination.
// Stop halts the simulation without producing a terminal update.
type CombatSim interface {
	Subscribe(fn func(SimState))
	Start(squad []SquadMember, enemies []Enemy, ctx MissionContext)
	Snapshot() SimState
	Stop()
}

type simCombatant struct {
	id     string
	health float64
	dps    float64
}

// Simulator is the built-in real-time combat simulation. Each tick both
// sides trade damage derived from the same stat normalization the formula
// engine uses; the fight ends when one side has no one standing.
type Simulator struct {
	est       *Estimator
	tick      time.Duration
	timeScale float64

	mu        sync.Mutex
	subs      []func(SimState)
	started   bool
	stopOnce  sync.Once
	stop      chan struct{}
	startTime time.Time
	elapsed   float64
	squad     []simCombatant
	enemies   []simCombatant
	victory   *bool
	rng       *rand.Rand
	diffMult  float64
}

// SimOption tweaks a Simulator.
type SimOption func(*Simulator)

// WithTick sets the wall-clock tick interval.
func WithTick(d time.Duration) SimOption {
	return func(s *Simulator) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithTimeScale sets how many simulated seconds pass per wall-clock second.
func WithTimeScale(scale float64) SimOption {
	return func(s *Simulator) {
		if scale > 0 {
			s.timeScale = scale
		}
	}
}

// NewSimulator builds a simulation using the estimator's stat resolution.
func NewSimulator(est *Estimator, opts ...SimOption) *Simulator {
	s := &Simulator{
		est:       est,
		tick:      250 * time.Millisecond,
		timeScale: 1,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a handler for state updates. Handlers registered
// after Start may miss early ticks.
func (s *Simulator) Subscribe(fn func(SimState)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Start resolves both rosters and launches the tick loop. Calling Start
// twice is a no-op.
func (s *Simulator) Start(squad []SquadMember, enemies []Enemy, ctx MissionContext) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.startTime = time.Now()
	s.rng = rand.New(rand.NewSource(ctx.Seed))
	s.diffMult = 1
	if ctx.Difficulty > 1 {
		s.diffMult = ctx.Difficulty
	}

	for _, m := range squad {
		stats := DeriveCoreStats(m)
		s.squad = append(s.squad, simCombatant{
			id:     combatantID(m.ID, m.Name),
			health: 80 + 5*stats.CombatLevel,
			dps:    s.est.memberDPS(m),
		})
	}
	for _, en := range enemies {
		s.enemies = append(s.enemies, simCombatant{
			id:     combatantID(en.ID, en.Name),
			health: s.est.enemyHealth(en),
			dps:    s.est.enemyDPS(en) * s.diffMult,
		})
	}
	s.mu.Unlock()

	go s.run()
}

func combatantID(id, name string) string {
	if id != "" {
		return id
	}
	if name != "" {
		return name
	}
	return RandID("cmb")
}

// Snapshot returns the current state. Safe to call from any goroutine.
func (s *Simulator) Snapshot() SimState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulator) snapshotLocked() SimState {
	st := SimState{
		StartTime:  s.startTime,
		Elapsed:    s.elapsed,
		Combatants: make([]CombatantHealth, 0, len(s.squad)+len(s.enemies)),
	}
	if s.victory != nil {
		v := *s.victory
		st.Victory = &v
	}
	for _, c := range s.squad {
		st.Combatants = append(st.Combatants, CombatantHealth{ID: c.id, Health: c.health})
	}
	for _, c := range s.enemies {
		st.Combatants = append(st.Combatants, CombatantHealth{ID: c.id, Health: c.health})
	}
	return st
}

// Stop halts the tick loop. No terminal update is produced; the session
// manager synthesizes the outcome on forced termination.
func (s *Simulator) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Simulator) run() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.step(s.tick.Seconds() * s.timeScale) {
				return
			}
		}
	}
}

// step advances the fight by dt simulated seconds and notifies subscribers.
// Returns true once the terminal update has been delivered.
func (s *Simulator) step(dt float64) bool {
	s.mu.Lock()
	if s.victory != nil {
		s.mu.Unlock()
		return true
	}
	s.elapsed += dt

	// Each side focuses its summed DPS on the first combatant still
	// standing, with a little per-tick spread so runs differ by seed.
	jitter := 0.9 + 0.2*s.rng.Float64()
	applyDamage(s.enemies, s.totalDPS(s.squad)*jitter*dt)
	applyDamage(s.squad, s.totalDPS(s.enemies)*jitter*dt)

	if !anyAlive(s.enemies) {
		v := true
		s.victory = &v
	} else if !anyAlive(s.squad) {
		v := false
		s.victory = &v
	}

	st := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return st.Victory != nil
}

func (s *Simulator) totalDPS(side []simCombatant) float64 {
	total := 0.0
	for _, c := range side {
		if c.health > 0 {
			total += c.dps
		}
	}
	if total < s.est.params.MinGroupDPS {
		total = s.est.params.MinGroupDPS
	}
	return total
}

func anyAlive(side []simCombatant) bool {
	for _, c := range side {
		if c.health > 0 {
			return true
		}
	}
	return false
}

func applyDamage(side []simCombatant, amount float64) {
	for i := range side {
		if amount <= 0 {
			return
		}
		if side[i].health <= 0 {
			continue
		}
		if side[i].health > amount {
			side[i].health -= amount
			return
		}
		amount -= side[i].health
		side[i].health = 0
	}
}
