package game

import "math"

// CombatEstimate is the immutable output of the formula engine. All fields
// are plain derived numbers; identical inputs always produce an identical
// estimate.
type CombatEstimate struct {
	EstimatedDurationSeconds float64 `json:"estimatedDurationSeconds"`
	PowerRatio               float64 `json:"powerRatio"`
	SquadDPS                 float64 `json:"squadDps"`
	EnemyDPS                 float64 `json:"enemyDps"`
	TotalEnemyHealth         float64 `json:"totalEnemyHealth"`
	DifficultyModifier       float64 `json:"difficultyModifier"`
	TravelMinutes            int     `json:"travelMinutes"`
}

// CombatantStat is the normalized per-entity combat input derived for one
// formula call. It is never persisted.
type CombatantStat struct {
	Damage      float64
	RatePerMin  float64
	Accuracy    float64 // fraction, 0-1
	Reliability float64 // fraction, 0-1
	Category    WeaponClass
}

// Estimator is the combat formula engine. It is stateless apart from its
// tuning and weapon lookup, and safe for concurrent use.
type Estimator struct {
	params  BalanceParams
	weapons WeaponLookup
}

// NewEstimator builds a formula engine. The lookup may be nil, in which
// case named weapon references never resolve and fall through to inline or
// default stats.
func NewEstimator(params BalanceParams, weapons WeaponLookup) *Estimator {
	return &Estimator{params: SanitizeBalanceParams(params), weapons: weapons}
}

// Params returns the sanitized tuning in effect.
func (e *Estimator) Params() BalanceParams { return e.params }

// Estimate projects the duration and outcome shape of a fight between the
// squad and the enemy roster. It is a total function: every missing or
// malformed numeric input is defaulted and clamped, the result is always
// finite, and it never fails.
func (e *Estimator) Estimate(squad []SquadMember, enemies []Enemy, difficulty float64, location, subTerrain string) CombatEstimate {
	p := e.params

	squadDPS := 0.0
	for _, m := range squad {
		squadDPS += e.memberDPS(m)
	}
	if squadDPS < p.MinGroupDPS {
		squadDPS = p.MinGroupDPS
	}

	enemyDPS := 0.0
	totalHealth := 0.0
	for _, en := range enemies {
		enemyDPS += e.enemyDPS(en)
		totalHealth += e.enemyHealth(en)
	}
	if enemyDPS < p.MinGroupDPS {
		enemyDPS = p.MinGroupDPS
	}

	baseSeconds := totalHealth / squadDPS

	diffMult := math.Pow(math.Max(1, difficulty), p.DifficultyExp)
	adjusted := baseSeconds * diffMult

	powerRatio := squadDPS / math.Max(enemyDPS, p.MinGroupDPS)
	switch {
	case powerRatio > p.DominanceRatio:
		adjusted *= p.DominanceFactor
	case powerRatio < p.OutmatchedRatio:
		adjusted *= p.OutmatchedFactor
	default:
		adjusted *= p.BaselineFactor
	}

	travel := e.travelMinutes(squad, difficulty, location, subTerrain)

	return CombatEstimate{
		EstimatedDurationSeconds: adjusted + float64(travel)*60,
		PowerRatio:               powerRatio,
		SquadDPS:                 squadDPS,
		EnemyDPS:                 enemyDPS,
		TotalEnemyHealth:         totalHealth,
		DifficultyModifier:       diffMult,
		TravelMinutes:            travel,
	}
}

// memberDPS computes one squad member's damage per second. Unarmed members
// contribute a small level-scaled baseline.
func (e *Estimator) memberDPS(m SquadMember) float64 {
	stats := DeriveCoreStats(m)
	weapon, ok := e.resolveMemberWeapon(m)
	if !ok {
		return (e.params.UnarmedBase + e.params.UnarmedPerLevel*stats.CombatLevel) * stats.DamageMult
	}
	return weapon.Damage * (weapon.RatePerMinute / 60) *
		(weapon.Accuracy / 100) * (weapon.Reliability / 100) * stats.DamageMult
}

func (e *Estimator) resolveMemberWeapon(m SquadMember) (WeaponSpec, bool) {
	if m.WeaponID != "" && e.weapons != nil {
		if w, ok := e.weapons.Weapon(m.WeaponID); ok {
			return sanitizeWeapon(w), true
		}
	}
	if m.Weapon != nil {
		return sanitizeWeapon(*m.Weapon), true
	}
	return WeaponSpec{}, false
}

// enemyStat resolves one enemy to normalized combat inputs. Resolution
// precedence: named catalog weapon, inline weapon object, defaults.
func (e *Estimator) enemyStat(en Enemy) CombatantStat {
	p := e.params
	stat := CombatantStat{
		Damage:      p.DefaultEnemyDamage,
		RatePerMin:  p.DefaultEnemyRate,
		Accuracy:    p.DefaultEnemyAccuracy,
		Reliability: p.DefaultEnemyReliability,
		Category:    WeaponRanged,
	}

	resolved := false
	if en.WeaponID != "" && e.weapons != nil {
		if w, ok := e.weapons.Weapon(en.WeaponID); ok {
			w = sanitizeWeapon(w)
			stat.Damage = w.Damage
			stat.RatePerMin = w.RatePerMinute
			stat.Accuracy = w.Accuracy / 100
			stat.Reliability = w.Reliability / 100
			stat.Category = w.Class
			resolved = true
		}
	}
	if !resolved && en.Weapon != nil {
		if en.Weapon.Damage > 0 {
			stat.Damage = en.Weapon.Damage
		}
		if en.Weapon.FireRate > 0 {
			stat.RatePerMin = en.Weapon.FireRate * p.InlineFireRateScale
		}
		if en.Weapon.Accuracy > 0 {
			stat.Accuracy = Clamp(en.Weapon.Accuracy, 0, 1)
		}
	}

	// Explicit per-enemy overrides beat whatever the weapon resolved to.
	if en.Damage > 0 {
		stat.Damage = en.Damage
	}
	if en.Accuracy > 0 {
		stat.Accuracy = Clamp(en.Accuracy, 0, 1)
	}
	return stat
}

func (e *Estimator) enemyDPS(en Enemy) float64 {
	s := e.enemyStat(en)
	dps := s.Damage * (s.RatePerMin / 60) * s.Accuracy * s.Reliability
	return math.Max(e.params.MinGroupDPS, dps)
}

func (e *Estimator) enemyHealth(en Enemy) float64 {
	h := en.Health
	if h <= 0 {
		h = e.params.DefaultEnemyHealth
	}
	return h * e.params.EnemyHealthScale
}

// travelMinutes computes the travel branch: base minutes scaled by terrain
// factors and reduced by the squad's average intelligence and survival,
// capped at a 40% reduction.
func (e *Estimator) travelMinutes(squad []SquadMember, difficulty float64, location, subTerrain string) int {
	p := e.params
	if difficulty < 0 {
		difficulty = 0
	}
	base := p.TravelBaseMinutes + p.TravelPerDifficulty*difficulty
	base *= TerrainFactor(ResolveTerrain(location))
	base *= SubTerrainFactor(ResolveSubTerrain(subTerrain))

	avgInt, avgSurv := float64(defaultAttribute), float64(defaultAttribute)
	if len(squad) > 0 {
		sumInt, sumSurv := 0.0, 0.0
		for _, m := range squad {
			stats := DeriveCoreStats(m)
			sumInt += stats.Intelligence
			sumSurv += stats.Survival
		}
		avgInt = sumInt / float64(len(squad))
		avgSurv = sumSurv / float64(len(squad))
	}
	reduction := 1 - 0.2*(avgInt/10) - 0.2*(avgSurv/10)
	if reduction < p.TravelReductionMin {
		reduction = p.TravelReductionMin
	}
	base *= reduction

	minutes := int(math.Round(base))
	if minutes < p.TravelMinMinutes {
		minutes = p.TravelMinMinutes
	}
	if minutes > p.TravelMaxMinutes {
		minutes = p.TravelMaxMinutes
	}
	return minutes
}
