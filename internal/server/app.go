package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"WastelandOps/internal/catalog"
	"WastelandOps/internal/game"
	"WastelandOps/internal/store"
)

// StartApp wires the catalog, the archive, the session manager and the
// HTTP surface, then serves until interrupted.
func StartApp(cfg Config, overrides BalanceOverrides) error {
	params, err := loadBalanceFromFile(cfg.BalancePath, game.DefaultBalanceParams())
	if err != nil {
		log.Printf("balance config: %v (using defaults)", err)
	}
	params = overrides.apply(params)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	est := game.NewEstimator(params, cat)

	var sink game.ResultSink
	var archive resultArchive
	if cfg.DBPath != "" {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		sink = st
		archive = st
	}

	tick := time.Duration(cfg.SimTickMS) * time.Millisecond
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	factory := func(missionID string) game.CombatSim {
		return game.NewSimulator(est, game.WithTick(tick), game.WithTimeScale(cfg.SimTimeScale))
	}
	mgr := game.NewSessionManager(factory, sink)

	srv := NewServer(est, mgr, archive)
	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.WatchCatalog && cfg.CatalogPath != "" {
		if err := cat.Watch(ctx); err != nil {
			log.Printf("catalog watch disabled: %v", err)
		}
	}

	g.Go(func() error {
		log.Printf("starting server on %s (%d weapons, difficulty exp %.2f)",
			cfg.Addr, cat.Len(), params.DifficultyExp)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
