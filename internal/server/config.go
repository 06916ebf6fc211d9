package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"WastelandOps/internal/game"
)

// Config holds server settings, loaded from the environment.
type Config struct {
	Addr         string  `env:"WASTELANDOPS_ADDR" envDefault:":8080"`
	DBPath       string  `env:"WASTELANDOPS_DB" envDefault:"data/wastelandops.db"`
	CatalogPath  string  `env:"WASTELANDOPS_CATALOG"`
	BalancePath  string  `env:"WASTELANDOPS_BALANCE" envDefault:"configs/balance.json"`
	WatchCatalog bool    `env:"WASTELANDOPS_WATCH_CATALOG"`
	SimTickMS    int     `env:"WASTELANDOPS_SIM_TICK_MS" envDefault:"250"`
	SimTimeScale float64 `env:"WASTELANDOPS_SIM_TIME_SCALE" envDefault:"60"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

type balanceConfig struct {
	DifficultyExp       *float64 `json:"difficultyExp"`
	EnemyHealthScale    *float64 `json:"enemyHealthScale"`
	DominanceFactor     *float64 `json:"dominanceFactor"`
	OutmatchedFactor    *float64 `json:"outmatchedFactor"`
	BaselineFactor      *float64 `json:"baselineFactor"`
	TravelBaseMinutes   *float64 `json:"travelBaseMinutes"`
	TravelPerDifficulty *float64 `json:"travelPerDifficulty"`
	TravelReductionMin  *float64 `json:"travelReductionMin"`
}

type worldConfig struct {
	Balance *balanceConfig `json:"balance"`
}

// BalanceOverrides represents optional command-line overrides for tuning
// the formula engine.
type BalanceOverrides struct {
	DifficultyExp       *float64
	EnemyHealthScale    *float64
	DominanceFactor     *float64
	OutmatchedFactor    *float64
	BaselineFactor      *float64
	TravelBaseMinutes   *float64
	TravelPerDifficulty *float64
	TravelReductionMin  *float64
}

func (o BalanceOverrides) apply(base game.BalanceParams) game.BalanceParams {
	if o.DifficultyExp != nil {
		base.DifficultyExp = *o.DifficultyExp
	}
	if o.EnemyHealthScale != nil {
		base.EnemyHealthScale = *o.EnemyHealthScale
	}
	if o.DominanceFactor != nil {
		base.DominanceFactor = *o.DominanceFactor
	}
	if o.OutmatchedFactor != nil {
		base.OutmatchedFactor = *o.OutmatchedFactor
	}
	if o.BaselineFactor != nil {
		base.BaselineFactor = *o.BaselineFactor
	}
	if o.TravelBaseMinutes != nil {
		base.TravelBaseMinutes = *o.TravelBaseMinutes
	}
	if o.TravelPerDifficulty != nil {
		base.TravelPerDifficulty = *o.TravelPerDifficulty
	}
	if o.TravelReductionMin != nil {
		base.TravelReductionMin = *o.TravelReductionMin
	}
	return game.SanitizeBalanceParams(base)
}

func mergeBalanceConfig(base game.BalanceParams, cfg *balanceConfig) game.BalanceParams {
	if cfg == nil {
		return base
	}
	if cfg.DifficultyExp != nil {
		base.DifficultyExp = *cfg.DifficultyExp
	}
	if cfg.EnemyHealthScale != nil {
		base.EnemyHealthScale = *cfg.EnemyHealthScale
	}
	if cfg.DominanceFactor != nil {
		base.DominanceFactor = *cfg.DominanceFactor
	}
	if cfg.OutmatchedFactor != nil {
		base.OutmatchedFactor = *cfg.OutmatchedFactor
	}
	if cfg.BaselineFactor != nil {
		base.BaselineFactor = *cfg.BaselineFactor
	}
	if cfg.TravelBaseMinutes != nil {
		base.TravelBaseMinutes = *cfg.TravelBaseMinutes
	}
	if cfg.TravelPerDifficulty != nil {
		base.TravelPerDifficulty = *cfg.TravelPerDifficulty
	}
	if cfg.TravelReductionMin != nil {
		base.TravelReductionMin = *cfg.TravelReductionMin
	}
	return game.SanitizeBalanceParams(base)
}

// loadBalanceFromFile merges a JSON tuning file over the base params. A
// missing file is fine; a malformed one is reported and the base kept.
func loadBalanceFromFile(path string, base game.BalanceParams) (game.BalanceParams, error) {
	if path == "" {
		return game.SanitizeBalanceParams(base), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return game.SanitizeBalanceParams(base), nil
		}
		return game.SanitizeBalanceParams(base), fmt.Errorf("read balance config %q: %w", cleanPath, err)
	}
	var cfg worldConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return game.SanitizeBalanceParams(base), fmt.Errorf("parse balance config %q: %w", cleanPath, err)
	}
	return mergeBalanceConfig(base, cfg.Balance), nil
}
