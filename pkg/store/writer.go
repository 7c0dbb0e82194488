package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/astromechza/tld-buddy/pkg/model"
)

// remoteWriter coalesces remote writes. There is one pending slot guarded by a debounce timer. A mutation while a
// write is in flight queues exactly one follow-up write, which captures whatever the state is when it runs.
type remoteWriter struct {
	lock     sync.Mutex
	window   time.Duration
	timer    *time.Timer
	pending  bool
	inFlight bool
	followUp bool
	closed   bool
	done     chan struct{}

	snapshot func() model.AppData
	save     func(ctx context.Context, data model.AppData) error
	logger   *slog.Logger
}

func newRemoteWriter(
	window time.Duration,
	snapshot func() model.AppData,
	save func(ctx context.Context, data model.AppData) error,
	logger *slog.Logger,
) *remoteWriter {
	return &remoteWriter{window: window, snapshot: snapshot, save: save, logger: logger}
}

func (w *remoteWriter) schedule() {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.closed {
		return
	}
	if w.inFlight {
		w.followUp = true
		return
	}
	w.pending = true
	w.resetTimerLocked()
}

func (w *remoteWriter) resetTimerLocked() {
	if w.timer == nil {
		w.timer = time.AfterFunc(w.window, w.fire)
		return
	}
	w.timer.Stop()
	w.timer.Reset(w.window)
}

func (w *remoteWriter) fire() {
	w.lock.Lock()
	if w.closed || !w.pending || w.inFlight {
		w.lock.Unlock()
		return
	}
	w.startLocked()
	w.lock.Unlock()
	_ = w.perform(context.Background())
}

func (w *remoteWriter) startLocked() {
	w.pending = false
	w.inFlight = true
	w.done = make(chan struct{})
}

func (w *remoteWriter) perform(ctx context.Context) error {
	data := w.snapshot()
	err := w.save(ctx, data)
	if err != nil {
		w.logger.Warn("failed to save remote state", "err", err)
	} else {
		w.logger.Debug("saved remote state", "runs", len(data.Runs), "markers", len(data.Markers))
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	w.inFlight = false
	close(w.done)
	if w.followUp && !w.closed {
		w.followUp = false
		w.pending = true
		w.resetTimerLocked()
	}
	return err
}

func (w *remoteWriter) flush(ctx context.Context) error {
	for {
		w.lock.Lock()
		if w.inFlight {
			done := w.done
			w.lock.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if !w.pending {
			w.lock.Unlock()
			return nil
		}
		if w.timer != nil {
			w.timer.Stop()
		}
		w.startLocked()
		w.lock.Unlock()
		if err := w.perform(ctx); err != nil {
			return err
		}
	}
}

func (w *remoteWriter) close() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.closed = true
	w.pending = false
	w.followUp = false
	if w.timer != nil {
		w.timer.Stop()
	}
}
