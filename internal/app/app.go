// Package app assembles a full run from a configuration model: it builds
// the world, instantiates and configures modules, wires the archive store
// and drives the update loop.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/modevo/modevo/internal/archive"
	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/ctxlog"
	"github.com/modevo/modevo/internal/diag"
	"github.com/modevo/modevo/internal/module"
	"github.com/modevo/modevo/internal/world"
)

// App encapsulates one configured run: its world, logger, archive store and
// loaded configuration model.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
	model  *conf.Model

	sink  *diag.Sink
	world *world.World
	store archive.Store
	runID string

	ticks uint64
}

// NewApp is the constructor for the main application. It loads the config
// model through loader, builds and sets up the world, and leaves the app
// ready to Run. store may be nil, in which case the config decides between
// a SQLite file and an in-memory store; when construction fails the store
// is closed. Extra factories extend (and may shadow) the built-in module
// set.
func NewApp(outW io.Writer, cfg *Config, loader conf.Loader, store archive.Store, extra map[string]Factory) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("logger configured")

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	logger.Debug("configuration loaded",
		"populations", len(model.Populations),
		"modules", len(model.Modules),
		"events", len(model.Events))

	a := &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
		model:  model,
		runID:  uuid.NewString(),
	}

	a.sink = diag.NewSink(
		func(msg string) { logger.Error(msg) },
		func(msg string) { logger.Warn(msg) },
	)

	seed := model.Run.Seed
	if cfg.Seed != 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.ticks = model.Run.Ticks
	if cfg.Ticks != 0 {
		a.ticks = cfg.Ticks
	}
	a.world = world.New(logger, a.sink, seed)
	logger.Debug("world created", "seed", seed, "run_id", a.runID)

	if store == nil {
		if cfg.ArchivePath != "" {
			store, err = archive.NewSQLiteStore(cfg.ArchivePath)
			if err != nil {
				return nil, err
			}
		} else {
			store = archive.NewMemoryStore()
		}
	}
	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("initializing archive store: %w", err)
	}
	a.store = store

	for _, pd := range model.Populations {
		if _, err := a.world.AddPopulation(pd.Name, pd.Size); err != nil {
			a.sink.Errorf("%v", err)
		}
	}

	factories := coreFactories
	if len(extra) > 0 {
		factories = make(map[string]Factory, len(coreFactories)+len(extra))
		for k, v := range coreFactories {
			factories[k] = v
		}
		for k, v := range extra {
			factories[k] = v
		}
	}

	scopes := a.instantiateModules(factories)
	a.validateRefs(scopes)

	ok := a.world.Setup()
	a.sink.Activate()
	if !ok || a.sink.HasErrors() {
		a.store.Close()
		return nil, fmt.Errorf("run configuration failed with %d error(s)", len(a.sink.Errors()))
	}

	a.scheduleEvents()
	return a, nil
}

// instantiateModules builds every configured module, applies its params
// through a config scope and registers it with the world. Returns the
// scopes so reference fields can be validated once everything exists.
func (a *App) instantiateModules(factories map[string]Factory) []*conf.Scope {
	var scopes []*conf.Scope
	for _, md := range a.model.Modules {
		factory, ok := factories[md.Type]
		if !ok {
			a.sink.Errorf("module %q: unknown module type %q", md.Name, md.Type)
			continue
		}
		mod := factory(a, md.Name)
		scope := conf.NewScope(md.Name, a.sink)
		if cs, ok := mod.(module.ConfigSetup); ok {
			cs.SetupConfig(scope)
		}
		scope.Apply(md.Params)
		if err := a.world.RegisterModule(mod); err != nil {
			a.sink.Errorf("%v", err)
			continue
		}
		scopes = append(scopes, scope)
	}
	return scopes
}

// validateRefs checks that every population and module reference a config
// scope collected actually resolves.
func (a *App) validateRefs(scopes []*conf.Scope) {
	for _, scope := range scopes {
		for _, name := range scope.Refs(conf.FieldPopRef) {
			if _, ok := a.world.Population(name); !ok {
				a.sink.Errorf("module %q references unknown population %q", scope.Module(), name)
			}
		}
		for _, name := range scope.Refs(conf.FieldModRef) {
			if _, ok := a.world.Module(name); !ok {
				a.sink.Errorf("module %q references unknown module %q", scope.Module(), name)
			}
		}
	}
}

// World exposes the underlying world. This is primarily for testing.
func (a *App) World() *world.World { return a.world }

// Store exposes the archive store. This is primarily for testing.
func (a *App) Store() archive.Store { return a.store }

// RunID returns the unique id rows of this run are archived under.
func (a *App) RunID() string { return a.runID }

// Close releases the archive store.
func (a *App) Close() error { return a.store.Close() }
