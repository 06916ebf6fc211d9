package game

// WeaponClass categorizes how a weapon's rate term is interpreted: rounds
// per minute for ranged, swings per minute for melee. Unarmed members use
// the baseline formula and carry no weapon at all.
type WeaponClass string

const (
	WeaponRanged WeaponClass = "ranged"
	WeaponMelee  WeaponClass = "melee"
)

// WeaponSpec is a normalized weapon stat block. Accuracy and Reliability
// are percentages (0-100); RatePerMinute is rounds or swings per minute
// depending on Class.
type WeaponSpec struct {
	ID            string      `json:"id" yaml:"id"`
	Class         WeaponClass `json:"class" yaml:"class"`
	Damage        float64     `json:"damage" yaml:"damage"`
	RatePerMinute float64     `json:"ratePerMinute" yaml:"rate_per_minute"`
	Accuracy      float64     `json:"accuracy" yaml:"accuracy"`
	Reliability   float64     `json:"reliability" yaml:"reliability"`
}

// WeaponLookup resolves a named weapon to its stat block. The weapon
// catalog implements it; a nil lookup simply never resolves.
type WeaponLookup interface {
	Weapon(id string) (WeaponSpec, bool)
}

// EnemyWeapon is the inline weapon shape an enemy record may carry instead
// of a catalog reference. FireRate is in the enemy data's native units and
// is scaled to per-minute by the formula engine.
type EnemyWeapon struct {
	Damage   float64 `json:"damage"`
	FireRate float64 `json:"fireRate"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

// Enemy is one hostile roster entry. All numeric fields are optional and
// defaulted by the formula engine.
type Enemy struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Health   float64      `json:"health,omitempty"`
	Damage   float64      `json:"damage,omitempty"`
	Accuracy float64      `json:"accuracy,omitempty"`
	WeaponID string       `json:"weaponId,omitempty"`
	Weapon   *EnemyWeapon `json:"weapon,omitempty"`
}

// sanitizeWeapon clamps a stat block so downstream math stays finite.
func sanitizeWeapon(w WeaponSpec) WeaponSpec {
	if w.Damage < 0 {
		w.Damage = 0
	}
	if w.RatePerMinute < 0 {
		w.RatePerMinute = 0
	}
	w.Accuracy = Clamp(w.Accuracy, 0, 100)
	w.Reliability = Clamp(w.Reliability, 0, 100)
	if w.Class != WeaponMelee {
		w.Class = WeaponRanged
	}
	return w
}
