package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/extractor"
	"github.com/briefly/briefly-backend/internal/providers/factory"
	"github.com/briefly/briefly-backend/internal/store"
)

// Services holds all service instances
type Services struct {
	Engine    *Engine
	Store     *store.Store
	Extractor extractor.Extractor
	Tasks     *TaskRunner
	Reaper    *Reaper
	Config    *config.Config
	Log       *logrus.Logger
}

// New creates all service instances. It fails when the default generation
// provider cannot be initialized, which is a startup-fatal condition.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Services, error) {
	registry, err := factory.BuildRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ext, err := extractor.New(cfg.Extractor, log)
	if err != nil {
		return nil, err
	}

	st := store.New(log)
	tasks := NewTaskRunner(log)
	engine := NewEngine(cfg.Engine, cfg.DefaultProvider, registry, st, tasks, log)
	reaper := NewReaper(st, cfg.Session.TTL(), cfg.Session.SweepInterval(), log)

	return &Services{
		Engine:    engine,
		Store:     st,
		Extractor: ext,
		Tasks:     tasks,
		Reaper:    reaper,
		Config:    cfg,
		Log:       log,
	}, nil
}
