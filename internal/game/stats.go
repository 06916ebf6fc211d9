package game

// Special holds the raw attribute block for a squad member. Values are
// expected in the 1-10 range; zero means "not set" and falls back to the
// attribute default of 5.
type Special struct {
	Strength     float64 `json:"strength"`
	Perception   float64 `json:"perception"`
	Endurance    float64 `json:"endurance"`
	Charisma     float64 `json:"charisma"`
	Intelligence float64 `json:"intelligence"`
	Agility      float64 `json:"agility"`
	Luck         float64 `json:"luck"`
}

// CoreStats are the derived per-combatant attributes the formula engine
// works with. They are recomputed on every call and never stored.
type CoreStats struct {
	CombatLevel  float64
	DamageMult   float64
	Intelligence float64
	Survival     float64
}

// SquadMember is one roster entry. Every field besides ID is optional; the
// stat derivation defaults and clamps whatever is missing.
type SquadMember struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Level    int         `json:"level"`
	Special  Special     `json:"special"`
	WeaponID string      `json:"weaponId,omitempty"`
	Weapon   *WeaponSpec `json:"weapon,omitempty"`
}

const defaultAttribute = 5

func attrOrDefault(v float64) float64 {
	if v <= 0 {
		return defaultAttribute
	}
	return Clamp(v, 1, 10)
}

// DeriveCoreStats normalizes a roster entry into the stats the formula
// engine consumes. It is defined for any member shape: a zero-value member
// yields level-1 stats with all attributes at 5.
func DeriveCoreStats(m SquadMember) CoreStats {
	level := float64(m.Level)
	if level < 1 {
		level = 1
	}
	str := attrOrDefault(m.Special.Strength)
	per := attrOrDefault(m.Special.Perception)
	end := attrOrDefault(m.Special.Endurance)
	intl := attrOrDefault(m.Special.Intelligence)
	agi := attrOrDefault(m.Special.Agility)
	lck := attrOrDefault(m.Special.Luck)

	return CoreStats{
		CombatLevel:  level + (str+per+agi)/3,
		DamageMult:   1 + (str-defaultAttribute)*0.05 + (lck-defaultAttribute)*0.01,
		Intelligence: intl,
		Survival:     (end + per) / 2,
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
