package app

// WatchState is the finalization watcher's two-state machine.
type WatchState int

const (
	WatchActive WatchState = iota
	WatchFinalized
)

func (s WatchState) String() string {
	if s == WatchFinalized {
		return "finalized"
	}
	return "active"
}

// FinalizationWatcher tracks whether the remote session has reached its
// terminal state and guarantees the final output is handed out for
// display at most once. The zero-value-ish watcher starts ACTIVE; the
// controller guards it with its own lock.
type FinalizationWatcher struct {
	state     WatchState
	displayed bool
}

func NewFinalizationWatcher() *FinalizationWatcher {
	return &FinalizationWatcher{state: WatchActive}
}

func (w *FinalizationWatcher) State() WatchState {
	return w.state
}

// Confirm records a confirmed-finalized fetch. The returned output is
// non-nil only the first time a final output is seen; repeats are
// suppressed. A confirmation without output still transitions state.
func (w *FinalizationWatcher) Confirm(out *FinalOutput) (*FinalOutput, bool) {
	w.state = WatchFinalized
	if out == nil || w.displayed {
		return nil, false
	}
	w.displayed = true
	return out, true
}

// Reset returns the watcher to ACTIVE with no memory of the prior
// session.
func (w *FinalizationWatcher) Reset() {
	w.state = WatchActive
	w.displayed = false
}
