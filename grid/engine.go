package grid

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"go-biomap/types"
)

const (
	DefaultCellSizeDeg = 0.25
	DefaultScanCap     = 20_000_000

	// Clamp range for caller-supplied cell sizes on the on-demand path.
	MinCellSizeDeg = 0.005
	MaxCellSizeDeg = 10.0
)

// ErrComputationInProgress means another grid computation holds the
// single in-flight slot. Not a failure: callers drop the cycle and let
// the next tick try again.
var ErrComputationInProgress = errors.New("grid computation already in progress")

// Config carries the engine's pre-validated settings.
type Config struct {
	DefaultCellSizeDeg float64
	ScanCap            int
	RefreshMode        string
}

// Engine ties the streaming aggregator, the snapshot cache and the
// single-flight guard together. One computation runs at a time across
// all cell sizes; the computing flag is the only shared mutable state.
type Engine struct {
	provider  StreamProvider
	store     *snapshotStore
	cfg       Config
	computing atomic.Bool
}

func NewEngine(provider StreamProvider, cfg Config) *Engine {
	if cfg.DefaultCellSizeDeg <= 0 {
		cfg.DefaultCellSizeDeg = DefaultCellSizeDeg
	}
	if cfg.ScanCap <= 0 {
		cfg.ScanCap = DefaultScanCap
	}
	if cfg.RefreshMode != ModeCount {
		cfg.RefreshMode = ModeRichness
	}
	return &Engine{provider: provider, store: newSnapshotStore(), cfg: cfg}
}

func (e *Engine) DefaultCellSize() float64 { return e.cfg.DefaultCellSizeDeg }

func (e *Engine) RefreshMode() string { return e.cfg.RefreshMode }

// Computing reports whether a grid computation is currently in flight.
func (e *Engine) Computing() bool { return e.computing.Load() }

// Cached returns the latest snapshot for the cell size, if one exists.
// Non-blocking and never triggers a computation.
func (e *Engine) Cached(sizeDeg float64) (*types.GridSnapshot, bool) {
	return e.store.get(CellSizeKey(sizeDeg))
}

// Refresh recomputes the global grid for one cell size and replaces the
// cached snapshot wholesale. A concurrent call for any cell size returns
// ErrComputationInProgress without doing work. On failure the cache is
// left untouched.
func (e *Engine) Refresh(sizeDeg float64, mode string) error {
	if !e.computing.CompareAndSwap(false, true) {
		return ErrComputationInProgress
	}
	defer e.computing.Store(false)

	start := time.Now()
	log.Printf("Grid refresh starting: size=%s mode=%s cap=%d", CellSizeKey(sizeDeg), mode, e.cfg.ScanCap)

	src, err := e.provider.OpenStream(context.Background(), StreamQuery{})
	if err != nil {
		return fmt.Errorf("opening occurrence stream: %w", err)
	}

	snap, err := Aggregate(context.Background(), src, Params{
		CellSizeDeg: sizeDeg,
		ScanCap:     e.cfg.ScanCap,
		Mode:        mode,
	})
	if err != nil {
		return err
	}

	e.store.put(CellSizeKey(sizeDeg), snap)
	log.Printf("Grid refresh done: size=%s mode=%s cells=%d scanned=%d capped=%v in %s",
		CellSizeKey(sizeDeg), mode, len(snap.Cells), snap.Scanned, snap.Capped,
		time.Since(start).Round(time.Millisecond))
	return nil
}
