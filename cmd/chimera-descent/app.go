package main

import (
	"os"
	"path/filepath"

	"github.com/ericogr/chimera-descent/internal/config"
	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/evaluation"
	"github.com/ericogr/chimera-descent/internal/logging"
	"github.com/ericogr/chimera-descent/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid chimera configuration", err, logging.Fields{constants.LogFieldPath: path})
	}
	return cfg
}

func createRepositoryOrExit(cfg *config.LoadedConfig) storage.Repository {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatal("Failed to create database directory", err, logging.Fields{constants.LogFieldPath: dir})
		}
	}
	db, err := storage.OpenAndMigrate(cfg.DatabasePath, cfg.Adversaries, cfg.Encounters)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{constants.LogFieldPath: cfg.DatabasePath})
	}
	return storage.NewSQLiteRepository(db)
}

// newDispatcher wires the outcome evaluators: profile stats, awards and
// one webhook per configured URL.
func newDispatcher(cfg *config.LoadedConfig, repo storage.Repository) *evaluation.Dispatcher {
	evals := []evaluation.Evaluator{
		evaluation.NewStatsRecorder(repo),
		evaluation.AwardLogger{},
	}
	for _, url := range cfg.EvalWebhooks {
		evals = append(evals, evaluation.NewWebhook(url, cfg.EvalTimeout))
	}
	return evaluation.NewDispatcher(cfg.EvalTimeout, evals...)
}
