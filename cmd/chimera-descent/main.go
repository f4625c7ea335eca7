package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/ericogr/chimera-descent/internal/api"
	"github.com/ericogr/chimera-descent/internal/catalog"
	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/engine"
	"github.com/ericogr/chimera-descent/internal/logging"
	"github.com/ericogr/chimera-descent/internal/service"
	"github.com/ericogr/chimera-descent/internal/version"
)

func main() {
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg := loadConfigOrExit(configPath)
	if err := logging.Init(cfg.LogLevel); err != nil {
		logging.Fatal("Invalid log level", err, logging.Fields{"level": cfg.LogLevel})
	}
	defer logging.Sync()
	logging.Info("Starting chimera-descent", logging.Fields{"version": version.Version, "commit": version.Commit})

	repo := createRepositoryOrExit(cfg)
	roster := catalog.Roster{Adversaries: cfg.Adversaries, Encounters: cfg.Encounters}
	adversaries := catalog.NewRepository(repo, roster, cfg.CatalogTTL)
	selector := catalog.NewSelector(adversaries, cfg.EliteEvery, cfg.BossEvery)
	dispatcher := newDispatcher(cfg, repo)

	svc := service.New(repo, selector, dispatcher, service.Content{
		Cards:      cfg.Cards,
		Characters: cfg.Characters,
		Equipment:  cfg.Equipment,
		Companions: cfg.Companions,
		Difficulty: cfg.Difficulty,
	},
		service.WithPacer(engine.DelayPacer{Delay: cfg.Pacing}),
		service.WithIdleTimeout(cfg.IdleTimeout),
	)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewBattleHandler(svc, repo))
	srv := &http.Server{Addr: cfg.ServerAddress, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(gctx, srv) })
	g.Go(func() error { return startReaper(gctx, svc, cfg.ReapEvery) })
	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", err, nil)
	}

	dispatcher.Wait()
	logging.Info("Shutdown complete", nil)
}
