package game

import (
	"fmt"
	"math/rand"
)

// EncounterTemplate defines a reusable enemy roster configuration. A
// caller that starts a mission by template name gets a concrete roster
// resolved from these groups.
type EncounterTemplate struct {
	ID          string
	DisplayName string
	Groups      []EnemyGroup
}

// EnemyGroup defines a cluster of similar enemies to roster.
type EnemyGroup struct {
	NamePrefix  string
	Count       CountRange
	HealthRange FloatRange
	DamageRange FloatRange
	Accuracy    float64
	WeaponID    string
}

// CountRange is an inclusive range for enemy counts.
type CountRange struct {
	Min int
	Max int
}

// FloatRange is an inclusive numeric range.
type FloatRange struct {
	Min float64
	Max float64
}

// EncounterRegistry holds all defined encounter templates.
var EncounterRegistry = map[string]EncounterTemplate{
	"raider-patrol": {
		ID:          "raider-patrol",
		DisplayName: "Raider Patrol",
		Groups: []EnemyGroup{
			{
				NamePrefix:  "raider",
				Count:       CountRange{Min: 2, Max: 4},
				HealthRange: FloatRange{Min: 25, Max: 45},
				WeaponID:    "pipe-rifle",
			},
		},
	},
	"feral-pack": {
		ID:          "feral-pack",
		DisplayName: "Feral Pack",
		Groups: []EnemyGroup{
			{
				NamePrefix:  "feral",
				Count:       CountRange{Min: 4, Max: 7},
				HealthRange: FloatRange{Min: 15, Max: 25},
				DamageRange: FloatRange{Min: 6, Max: 12},
				Accuracy:    0.8,
			},
		},
	},
	"junction-ambush": {
		ID:          "junction-ambush",
		DisplayName: "Junction Ambush",
		Groups: []EnemyGroup{
			{
				NamePrefix:  "gunner",
				Count:       CountRange{Min: 2, Max: 3},
				HealthRange: FloatRange{Min: 40, Max: 60},
				WeaponID:    "combat-rifle",
			},
			{
				NamePrefix:  "bruiser",
				Count:       CountRange{Min: 1, Max: 2},
				HealthRange: FloatRange{Min: 60, Max: 90},
				WeaponID:    "sledgehammer",
			},
		},
	},
}

// GetEncounter retrieves an encounter template by ID.
func GetEncounter(id string) (*EncounterTemplate, error) {
	template, ok := EncounterRegistry[id]
	if !ok {
		return nil, fmt.Errorf("encounter template not found: %s", id)
	}
	return &template, nil
}

// Resolve instantiates the template's groups into a concrete enemy roster.
// Deterministic for a given seed.
func (t *EncounterTemplate) Resolve(seed int64) []Enemy {
	if t == nil {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	roster := make([]Enemy, 0)

	for _, group := range t.Groups {
		count := group.Count.Min
		if group.Count.Max > group.Count.Min {
			count += rng.Intn(group.Count.Max - group.Count.Min + 1)
		}
		for i := 0; i < count; i++ {
			en := Enemy{
				ID:       fmt.Sprintf("%s-%d", group.NamePrefix, i+1),
				Name:     group.NamePrefix,
				Health:   rangeSample(group.HealthRange, rng),
				Damage:   rangeSample(group.DamageRange, rng),
				Accuracy: group.Accuracy,
				WeaponID: group.WeaponID,
			}
			roster = append(roster, en)
		}
	}
	return roster
}

func rangeSample(r FloatRange, rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
