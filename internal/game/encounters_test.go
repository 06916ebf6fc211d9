package game

import (
	"testing"
)

func TestGetEncounterValid(t *testing.T) {
	template, err := GetEncounter("raider-patrol")
	if err != nil {
		t.Fatalf("expected no error retrieving raider-patrol, got %v", err)
	}
	if template == nil || template.ID != "raider-patrol" {
		t.Fatalf("unexpected template %+v", template)
	}
	if template.DisplayName != "Raider Patrol" {
		t.Errorf("expected display name Raider Patrol, got %s", template.DisplayName)
	}
}

func TestGetEncounterInvalid(t *testing.T) {
	template, err := GetEncounter("invalid")
	if err == nil {
		t.Fatalf("expected error retrieving invalid template, got nil")
	}
	if template != nil {
		t.Fatalf("expected nil template for invalid ID")
	}
	expected := "encounter template not found: invalid"
	if err.Error() != expected {
		t.Fatalf("expected error %q, got %q", expected, err.Error())
	}
}

func TestEncounterResolveDeterministic(t *testing.T) {
	template, err := GetEncounter("junction-ambush")
	if err != nil {
		t.Fatalf("expected template, got %v", err)
	}
	first := template.Resolve(99)
	again := template.Resolve(99)
	if len(first) != len(again) {
		t.Fatalf("roster size differs for same seed: %d vs %d", len(first), len(again))
	}
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("roster entry %d differs for same seed: %+v vs %+v", i, first[i], again[i])
		}
	}

	if len(first) < 3 || len(first) > 5 {
		t.Errorf("junction-ambush roster size %d outside group bounds", len(first))
	}
	for _, en := range first {
		if en.Health <= 0 {
			t.Errorf("enemy %s has no health", en.ID)
		}
		if en.WeaponID == "" {
			t.Errorf("junction-ambush enemies should carry catalog weapons: %+v", en)
		}
	}
}

func TestEncounterResolveNil(t *testing.T) {
	var template *EncounterTemplate
	if roster := template.Resolve(1); roster != nil {
		t.Fatalf("nil template should resolve to nil roster")
	}
}
