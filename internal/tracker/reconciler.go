package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/windowless/internal/actionlog"
	"github.com/1broseidon/windowless/internal/platform"
	"github.com/1broseidon/windowless/internal/windowtable"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Options  Options
	Logger   *slog.Logger
	Actions  *actionlog.Logger

	// OnChange is called after a pass that changed the windows under the
	// cursor. It runs on the reconciler goroutine.
	OnChange func(Report)
}

// Reconciler periodically rebuilds the window table from the backend and
// tracks which windows are under the cursor.
type Reconciler struct {
	interval time.Duration
	opts     Options
	backend  platform.Backend
	logger   *slog.Logger
	actions  *actionlog.Logger
	onChange func(Report)

	mu          sync.Mutex
	snapshot    *Snapshot
	cursor      windowtable.CursorState
	underCursor []platform.WindowID
}

// NewReconciler creates a reconciler over backend.
func NewReconciler(cfg ReconcilerConfig, backend platform.Backend) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		opts:     cfg.Options,
		backend:  backend,
		logger:   logger,
		actions:  cfg.Actions,
		onChange: cfg.OnChange,
	}
}

// Run reconciles immediately and then on every tick until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	r.reconcileLogged()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcileLogged()
		}
	}
}

func (r *Reconciler) reconcileLogged() {
	if err := r.Reconcile(); err != nil {
		r.logger.Error("reconcile failed", "error", err)
	}
}

// Reconcile performs a single pass: rebuild the table, then re-run the
// cursor hit test. A panic during the pass is returned as an error and
// leaves the previous snapshot in place.
func (r *Reconciler) Reconcile() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reconciler panic: %v", p)
		}
	}()

	rep, changed, err := r.reconcileLocked()
	if err != nil {
		return err
	}
	if changed && r.onChange != nil {
		r.onChange(rep)
	}
	return nil
}

func (r *Reconciler) reconcileLocked() (Report, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Each pass builds into its own table, so a failed pass cannot disturb
	// the keys held by the current snapshot.
	snap, err := Build(windowtable.New(), r.backend, r.opts, r.actions)
	if err != nil {
		return Report{}, false, err
	}

	var cursor windowtable.CursorState
	x, y, perr := r.backend.Pointer()
	if perr != nil {
		r.logger.Warn("failed to query pointer", "error", perr)
		cursor.Position = r.cursor.Position
	} else {
		cursor.Update(snap.Table, x, y)
	}
	under := snap.WindowIDs(cursor.Windows)

	r.snapshot = snap
	r.cursor = cursor

	r.logger.Debug("reconciled",
		"windows", snap.Table.Len()-1,
		"rejected", len(snap.Rejected),
		"under_cursor", len(under))

	if slices.Equal(under, r.underCursor) {
		return Report{}, false, nil
	}
	r.underCursor = under
	r.actions.Log(actionlog.ActionCursor, -1, map[string]any{
		"x":       cursor.Position.X,
		"y":       cursor.Position.Y,
		"windows": fmt.Sprint(under),
	})
	return r.reportLocked(), true, nil
}

// SetOptions replaces the snapshot options used from the next pass on.
func (r *Reconciler) SetOptions(opts Options) {
	r.mu.Lock()
	r.opts = opts
	r.mu.Unlock()
}

// Report describes the latest snapshot and cursor state. ok is false before
// the first successful pass.
func (r *Reconciler) Report() (Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot == nil {
		return Report{}, false
	}
	return r.reportLocked(), true
}

func (r *Reconciler) reportLocked() Report {
	rep := r.snapshot.Report()
	pos := r.cursor.Position
	rep.Cursor = &pos
	rep.UnderCursor = slices.Clone(r.underCursor)
	return rep
}
