package app

import (
	"context"
	"fmt"
)

// Run executes the configured number of ticks and tears the world down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting run",
		"run_id", a.runID,
		"ticks", a.ticks,
		"populations", a.world.NumPopulations(),
		"modules", len(a.world.Modules()))

	a.world.Update(int(a.ticks))
	a.world.Finish()

	if a.sink.HasErrors() {
		return fmt.Errorf("run finished with %d error(s)", len(a.sink.Errors()))
	}
	a.logger.Info("run finished", "run_id", a.runID, "tick", a.world.Tick())
	return nil
}
