package game

// BalanceParams collects the tunable constants of the formula engine. The
// defaults reproduce the shipped balance; the server may merge overrides
// from a JSON tuning file or command-line flags.
type BalanceParams struct {
	// Unarmed baseline so bare-handed members still contribute.
	UnarmedBase     float64
	UnarmedPerLevel float64

	// Floor applied to each side's summed DPS, preventing division by zero.
	MinGroupDPS float64

	// Multiplier equalizing declared enemy health against per-second damage.
	EnemyHealthScale float64

	// Exponent applied to max(1, difficulty).
	DifficultyExp float64

	// Power-ratio correction: above DominanceRatio the squad rolls over the
	// enemies, below OutmatchedRatio the fight drags; everything in between
	// gets baseline friction.
	DominanceRatio   float64
	DominanceFactor  float64
	OutmatchedRatio  float64
	OutmatchedFactor float64
	BaselineFactor   float64

	// Travel branch, in minutes.
	TravelBaseMinutes   float64
	TravelPerDifficulty float64
	TravelReductionMin  float64
	TravelMinMinutes    int
	TravelMaxMinutes    int

	// Defaults for enemies with no weapon data at all.
	DefaultEnemyAccuracy    float64
	DefaultEnemyRate        float64
	DefaultEnemyDamage      float64
	DefaultEnemyReliability float64
	DefaultEnemyHealth      float64

	// Scale converting an inline enemy weapon's fireRate to per-minute.
	InlineFireRateScale float64
}

// DefaultBalanceParams returns the shipped tuning.
func DefaultBalanceParams() BalanceParams {
	return BalanceParams{
		UnarmedBase:             0.2,
		UnarmedPerLevel:         0.25,
		MinGroupDPS:             0.5,
		EnemyHealthScale:        30,
		DifficultyExp:           1.5,
		DominanceRatio:          2,
		DominanceFactor:         0.6,
		OutmatchedRatio:         0.5,
		OutmatchedFactor:        2.5,
		BaselineFactor:          1.2,
		TravelBaseMinutes:       30,
		TravelPerDifficulty:     10,
		TravelReductionMin:      0.6,
		TravelMinMinutes:        9,
		TravelMaxMinutes:        600,
		DefaultEnemyAccuracy:    0.6,
		DefaultEnemyRate:        30,
		DefaultEnemyDamage:      10,
		DefaultEnemyReliability: 0.75,
		DefaultEnemyHealth:      10,
		InlineFireRateScale:     20,
	}
}

// SanitizeBalanceParams repairs out-of-range tuning so the engine stays
// total: non-positive floors and scales fall back to defaults, ratio bands
// keep their ordering.
func SanitizeBalanceParams(p BalanceParams) BalanceParams {
	def := DefaultBalanceParams()
	if p.MinGroupDPS <= 0 {
		p.MinGroupDPS = def.MinGroupDPS
	}
	if p.EnemyHealthScale <= 0 {
		p.EnemyHealthScale = def.EnemyHealthScale
	}
	if p.DifficultyExp <= 0 {
		p.DifficultyExp = def.DifficultyExp
	}
	if p.UnarmedBase < 0 {
		p.UnarmedBase = def.UnarmedBase
	}
	if p.UnarmedPerLevel < 0 {
		p.UnarmedPerLevel = def.UnarmedPerLevel
	}
	if p.DominanceRatio <= 0 {
		p.DominanceRatio = def.DominanceRatio
	}
	if p.OutmatchedRatio <= 0 || p.OutmatchedRatio >= p.DominanceRatio {
		p.OutmatchedRatio = def.OutmatchedRatio
	}
	if p.DominanceFactor <= 0 {
		p.DominanceFactor = def.DominanceFactor
	}
	if p.OutmatchedFactor <= 0 {
		p.OutmatchedFactor = def.OutmatchedFactor
	}
	if p.BaselineFactor <= 0 {
		p.BaselineFactor = def.BaselineFactor
	}
	if p.TravelBaseMinutes <= 0 {
		p.TravelBaseMinutes = def.TravelBaseMinutes
	}
	if p.TravelPerDifficulty < 0 {
		p.TravelPerDifficulty = def.TravelPerDifficulty
	}
	if p.TravelReductionMin <= 0 || p.TravelReductionMin > 1 {
		p.TravelReductionMin = def.TravelReductionMin
	}
	if p.TravelMinMinutes <= 0 {
		p.TravelMinMinutes = def.TravelMinMinutes
	}
	if p.TravelMaxMinutes < p.TravelMinMinutes {
		p.TravelMaxMinutes = def.TravelMaxMinutes
	}
	if p.DefaultEnemyAccuracy <= 0 || p.DefaultEnemyAccuracy > 1 {
		p.DefaultEnemyAccuracy = def.DefaultEnemyAccuracy
	}
	if p.DefaultEnemyRate <= 0 {
		p.DefaultEnemyRate = def.DefaultEnemyRate
	}
	if p.DefaultEnemyDamage <= 0 {
		p.DefaultEnemyDamage = def.DefaultEnemyDamage
	}
	if p.DefaultEnemyReliability <= 0 || p.DefaultEnemyReliability > 1 {
		p.DefaultEnemyReliability = def.DefaultEnemyReliability
	}
	if p.DefaultEnemyHealth <= 0 {
		p.DefaultEnemyHealth = def.DefaultEnemyHealth
	}
	if p.InlineFireRateScale <= 0 {
		p.InlineFireRateScale = def.InlineFireRateScale
	}
	return p
}
