package world

import "sort"

type scheduledEvent struct {
	at    uint64
	name  string
	fire  func(*World)
	fired bool
}

// Schedule arranges for fn to run once, at the end of the given tick. Events
// scheduled for a tick that already passed fire on the next one.
func (w *World) Schedule(at uint64, name string, fn func(*World)) {
	w.events = append(w.events, scheduledEvent{at: at, name: name, fire: fn})
	sort.SliceStable(w.events, func(i, j int) bool {
		return w.events[i].at < w.events[j].at
	})
}

// Update advances the world by up to n ticks, stopping early when a module
// or event requests exit. Each tick fires BeforeUpdate with the closing
// tick number, increments the counter, fires OnUpdate with the new number,
// and then runs any due scheduled events.
func (w *World) Update(n int) {
	w.fireEvents() // events due at the current tick, e.g. tick-zero seeding
	for i := 0; i < n && !w.exitNow; i++ {
		w.kernel.BeforeUpdate(w.tick)
		w.tick++
		w.kernel.OnUpdate(w.tick)
		w.fireEvents()
		w.audit()
	}
}

// Finish fires the BeforeExit signal. Safe to call more than once; the
// signal dispatches only the first time.
func (w *World) Finish() {
	if w.exitFired {
		return
	}
	w.exitFired = true
	w.kernel.BeforeExit()
}

func (w *World) fireEvents() {
	for i := range w.events {
		ev := &w.events[i]
		if ev.fired || ev.at > w.tick {
			continue
		}
		ev.fired = true
		w.logger.Debug("firing event", "event", ev.name, "tick", w.tick)
		ev.fire(w)
	}
}

// audit re-checks the occupancy bookkeeping of every population. A failure
// here means a module mutated slots outside the gatekeeper.
func (w *World) audit() {
	for _, p := range w.pops {
		if err := p.Audit(); err != nil {
			w.sink.Errorf("population audit failed at tick %d: %v", w.tick, err)
			w.exitNow = true
		}
	}
}
