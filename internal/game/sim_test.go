package game

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitTerminal(t *testing.T, ch <-chan SimState) SimState {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(5 * time.Second):
		t.Fatalf("simulation never produced a terminal update")
		return SimState{}
	}
}

func TestSimulatorVictory(t *testing.T) {
	est := testEstimator()
	sim := NewSimulator(est, WithTick(time.Millisecond), WithTimeScale(500))

	terminal := make(chan SimState, 1)
	updates := 0
	sim.Subscribe(func(st SimState) {
		updates++
		if st.Victory != nil {
			select {
			case terminal <- st:
			default:
				t.Errorf("more than one terminal update")
			}
		}
	})

	sim.Start([]SquadMember{riflemanFixture()}, []Enemy{{ID: "raider", Health: 5}}, MissionContext{Seed: 42})
	defer sim.Stop()

	st := waitTerminal(t, terminal)
	if st.Victory == nil || !*st.Victory {
		t.Fatalf("expected victory, got %+v", st.Victory)
	}
	var raider *CombatantHealth
	for i := range st.Combatants {
		if st.Combatants[i].ID == "raider" {
			raider = &st.Combatants[i]
		}
	}
	if raider == nil {
		t.Fatalf("terminal snapshot missing raider: %+v", st.Combatants)
	}
	if raider.Health != 0 {
		t.Errorf("defeated enemy should be at zero health, got %v", raider.Health)
	}
	if updates < 1 {
		t.Errorf("expected at least one update")
	}
}

func TestSimulatorEmptySquadLoses(t *testing.T) {
	est := testEstimator()
	sim := NewSimulator(est, WithTick(time.Millisecond), WithTimeScale(500))

	terminal := make(chan SimState, 1)
	sim.Subscribe(func(st SimState) {
		if st.Victory != nil {
			select {
			case terminal <- st:
			default:
			}
		}
	})
	sim.Start(nil, []Enemy{{ID: "raider", Health: 500}}, MissionContext{Seed: 1})
	defer sim.Stop()

	st := waitTerminal(t, terminal)
	if st.Victory == nil || *st.Victory {
		t.Fatalf("expected defeat for empty squad, got %+v", st.Victory)
	}
}

func TestSimulatorStopHaltsWithoutTerminal(t *testing.T) {
	est := testEstimator()
	sim := NewSimulator(est, WithTick(time.Millisecond))

	var sawTerminal atomic.Bool
	sim.Subscribe(func(st SimState) {
		if st.Victory != nil {
			sawTerminal.Store(true)
		}
	})
	// Two tanky sides so the fight cannot resolve in a few milliseconds.
	sim.Start(
		[]SquadMember{riflemanFixture()},
		[]Enemy{{ID: "behemoth", Health: 1e6}},
		MissionContext{Seed: 7},
	)
	time.Sleep(10 * time.Millisecond)
	sim.Stop()
	time.Sleep(10 * time.Millisecond)

	if sawTerminal.Load() {
		t.Fatalf("stopped simulation produced a terminal update")
	}
	st := sim.Snapshot()
	if st.Victory != nil {
		t.Fatalf("snapshot after stop should not carry a victory")
	}
}

func TestSimulatorSnapshotSafeBeforeStart(t *testing.T) {
	sim := NewSimulator(testEstimator())
	st := sim.Snapshot()
	if st.Victory != nil || len(st.Combatants) != 0 {
		t.Fatalf("fresh simulator should report an empty snapshot, got %+v", st)
	}
}
