package workers

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

type signalWatcher struct {
	signals []os.Signal
	ch      chan os.Signal
}

// NewSignalWatcher returns a worker that finishes when one of signals
// arrives, which stops the rest of its group.
func NewSignalWatcher(signals ...os.Signal) *signalWatcher {
	return &signalWatcher{signals: signals, ch: make(chan os.Signal, 1)}
}

func (w *signalWatcher) Name() string { return "signal_watcher" }

func (w *signalWatcher) Run(ctx context.Context) error {
	signal.Notify(w.ch, w.signals...)
	defer signal.Stop(w.ch)

	select {
	case s := <-w.ch:
		slog.Info("shutting down due to signal", "signal", s.String())
	case <-ctx.Done():
	}
	return nil
}
