package main

import (
	"flag"
	"log"
	"math"

	"WastelandOps/internal/server"
)

func main() {
	addr := flag.String("addr", "", "address to listen on (overrides WASTELANDOPS_ADDR)")
	balancePath := flag.String("balance-config", "", "path to balance tuning JSON (overrides WASTELANDOPS_BALANCE)")
	catalogPath := flag.String("catalog", "", "path to weapon catalog YAML overlay (overrides WASTELANDOPS_CATALOG)")
	dbPath := flag.String("db", "", "path to the result archive database (overrides WASTELANDOPS_DB)")
	watchCatalog := flag.Bool("watch-catalog", false, "hot-reload the weapon catalog on change")

	difficultyExp := flag.Float64("difficulty-exp", math.NaN(), "override difficulty scaling exponent")
	healthScale := flag.Float64("health-scale", math.NaN(), "override enemy health pool scale")
	dominanceFactor := flag.Float64("dominance-factor", math.NaN(), "override time factor when the squad dominates")
	outmatchedFactor := flag.Float64("outmatched-factor", math.NaN(), "override time factor when the squad is outmatched")
	baselineFactor := flag.Float64("baseline-factor", math.NaN(), "override baseline friction factor")
	travelBase := flag.Float64("travel-base", math.NaN(), "override base travel minutes")
	travelPerDiff := flag.Float64("travel-per-difficulty", math.NaN(), "override travel minutes added per difficulty point")
	travelReductionMin := flag.Float64("travel-reduction-min", math.NaN(), "override minimum travel reduction factor")
	flag.Parse()

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *balancePath != "" {
		cfg.BalancePath = *balancePath
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *watchCatalog {
		cfg.WatchCatalog = true
	}

	var overrides server.BalanceOverrides
	if !math.IsNaN(*difficultyExp) {
		val := *difficultyExp
		overrides.DifficultyExp = &val
	}
	if !math.IsNaN(*healthScale) {
		val := *healthScale
		overrides.EnemyHealthScale = &val
	}
	if !math.IsNaN(*dominanceFactor) {
		val := *dominanceFactor
		overrides.DominanceFactor = &val
	}
	if !math.IsNaN(*outmatchedFactor) {
		val := *outmatchedFactor
		overrides.OutmatchedFactor = &val
	}
	if !math.IsNaN(*baselineFactor) {
		val := *baselineFactor
		overrides.BaselineFactor = &val
	}
	if !math.IsNaN(*travelBase) {
		val := *travelBase
		overrides.TravelBaseMinutes = &val
	}
	if !math.IsNaN(*travelPerDiff) {
		val := *travelPerDiff
		overrides.TravelPerDifficulty = &val
	}
	if !math.IsNaN(*travelReductionMin) {
		val := *travelReductionMin
		overrides.TravelReductionMin = &val
	}

	if err := server.StartApp(cfg, overrides); err != nil {
		log.Fatalf("server: %v", err)
	}
}
