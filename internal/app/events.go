package app

import (
	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/world"
)

// reporter is implemented by modules that can emit an out-of-band report.
type reporter interface {
	ReportNow()
}

// scheduleEvents translates config-level events into scheduled world
// callbacks. Invalid events surface as sink errors at setup time rather
// than failing mid-run.
func (a *App) scheduleEvents() {
	for _, ev := range a.model.Events {
		switch ev.Action {
		case conf.ActionExit:
			a.world.Schedule(ev.At, "exit", func(w *world.World) {
				w.RequestExit()
			})

		case conf.ActionInject:
			target, ok := a.world.Population(ev.Population)
			if !ok {
				a.sink.Errorf("inject event at tick %d: unknown population %q", ev.At, ev.Population)
				continue
			}
			if _, ok := a.world.Manager(ev.Module); !ok {
				a.sink.Errorf("inject event at tick %d: %q is not an organism manager", ev.At, ev.Module)
				continue
			}
			mgrName, count := ev.Module, ev.Count
			a.world.Schedule(ev.At, "inject", func(w *world.World) {
				if _, err := w.Inject(target, mgrName, count); err != nil {
					w.Sink().Errorf("inject event: %v", err)
				}
			})

		case conf.ActionReport:
			mod, ok := a.world.Module(ev.Module)
			if !ok {
				a.sink.Errorf("report event at tick %d: unknown module %q", ev.At, ev.Module)
				continue
			}
			r, ok := mod.(reporter)
			if !ok {
				a.sink.Errorf("report event at tick %d: module %q cannot report", ev.At, ev.Module)
				continue
			}
			a.world.Schedule(ev.At, "report", func(w *world.World) {
				r.ReportNow()
			})

		default:
			a.sink.Errorf("event at tick %d: unknown action %q", ev.At, ev.Action)
		}
	}
}
