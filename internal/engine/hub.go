// Package engine implements the Data Hub core (spec §4.3-§4.7): the
// push pipeline, source/destination routing with cycle prevention,
// the update-barrier protocol, and the snapshot/delta engine, all
// built on top of internal/tree and internal/resource.
//
// The specification's concurrency model (§5) is a single-threaded
// cooperative event loop: every core operation is serialized through
// one event queue, so no data structure needs its own lock. Go has no
// equivalent free lunch for a library consumed from concurrent HTTP
// handlers, so Hub reproduces the same serialization with a single
// mutex guarding the whole tree — one goroutine's worth of exclusivity
// at a time, matching the donor's internal/websocket Hub run-loop,
// which also funnels all mutation through one serialization point.
package engine

import (
	"sync"

	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/metrics"
	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
	"github.com/legatoproject/datahub/pkg/logger"
)

// BackupStore persists and restores an observation's buffer (spec
// §4.4). Implemented by internal/backup.
type BackupStore interface {
	Save(path string, samples []sample.Sample) error
	Load(path string) ([]sample.Sample, error)
}

// Clock supplies the current time as seconds since the Unix epoch.
// Injectable so tests can control timestamps deterministically.
type Clock func() float64

// StartEndHandler is invoked once per update-barrier transition (spec
// §4.6). starting is true on start_update, false on end_update.
type StartEndHandler func(starting bool)

// DestinationHandler receives samples routed to an observation's
// opaque external destination label (spec §4.5).
type DestinationHandler func(path string, s sample.Sample)

// Hub is the root of the resource tree plus all engine state.
type Hub struct {
	mu sync.Mutex

	root   *tree.Entry
	limits tree.Limits

	barrierActive bool

	startEndHandlers []StartEndHandler
	destHandlers     map[string]DestinationHandler

	deletionTracking bool

	clock   Clock
	metrics metrics.Collector
	log     logger.Logger
	backup  BackupStore

	// onDelta, when set, is invoked after every accepted push with
	// the resource's path, kind, and new value — the hook the
	// internal/websocket live-delta subscription uses to fan changes
	// out to subscribers without the engine importing that package.
	onDelta func(path, kind string, s sample.Sample, deleted bool)
}

// Options configures a new Hub.
type Options struct {
	Limits  tree.Limits
	Clock   Clock
	Metrics metrics.Collector
	Log     logger.Logger
	Backup  BackupStore
	OnDelta func(path, kind string, s sample.Sample, deleted bool)
}

// New creates an empty Hub rooted at a fresh Namespace.
func New(opts Options) *Hub {
	if opts.Clock == nil {
		opts.Clock = defaultClock
	}
	if opts.Metrics == nil {
		opts.Metrics = &metrics.NoopCollector{}
	}
	return &Hub{
		root:         tree.NewRoot(),
		limits:       opts.Limits,
		destHandlers: make(map[string]DestinationHandler),
		clock:        opts.Clock,
		metrics:      opts.Metrics,
		log:          opts.Log,
		backup:       opts.Backup,
		onDelta:      opts.OnDelta,
	}
}

// Root exposes the root entry for read-only tree walks (snapshot,
// query facades). Callers must hold no expectation of stability
// across calls that mutate the tree.
func (h *Hub) Root() *tree.Entry { return h.root }

// resolveTS substitutes the hub's current time for a zero timestamp
// (spec §3: "Timestamp 0 on push means now").
func (h *Hub) resolveTS(ts float64) float64 {
	if ts == 0 {
		return h.clock()
	}
	return ts
}

// CreateInput creates or idempotently re-creates an Input at path.
func (h *Hub) CreateInput(path string, dataType sample.Type, units string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.root.Get(path, h.limits)
	if err != nil {
		return err
	}

	switch e.Kind() {
	case tree.Namespace:
		return e.Promote(tree.Input, resource.NewInput(dataType, units))
	case tree.Placeholder:
		return e.Promote(tree.Input, resource.NewInput(dataType, units))
	case tree.Input:
		ib := e.Body().(*resource.InputBody)
		if ib.SameDefinition(dataType, units) {
			return nil
		}
		return errors.ErrDuplicate
	default:
		return errors.ErrDuplicate
	}
}

// CreateOutput creates or idempotently re-creates an Output at path.
func (h *Hub) CreateOutput(path string, dataType sample.Type, units string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.root.Get(path, h.limits)
	if err != nil {
		return err
	}

	switch e.Kind() {
	case tree.Namespace:
		return e.Promote(tree.Output, resource.NewOutput(dataType, units))
	case tree.Placeholder:
		return e.Promote(tree.Output, resource.NewOutput(dataType, units))
	case tree.Output:
		ob := e.Body().(*resource.OutputBody)
		if ob.SameDefinition(dataType, units) {
			return nil
		}
		return errors.ErrDuplicate
	default:
		return errors.ErrDuplicate
	}
}

// CreateObservation creates a fresh, unconfigured Observation at path.
// If a backup file exists for path, its buffer is restored (spec
// §4.4).
func (h *Hub) CreateObservation(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.root.Get(path, h.limits)
	if err != nil {
		return err
	}

	switch e.Kind() {
	case tree.Namespace, tree.Placeholder:
		ob := resource.NewObservation()
		if promErr := e.Promote(tree.Observation, ob); promErr != nil {
			return promErr
		}
		h.restoreBackup(path, ob)
		return nil
	default:
		return errors.ErrDuplicate
	}
}

func (h *Hub) restoreBackup(path string, ob *resource.ObservationBody) {
	if h.backup == nil {
		return
	}
	samples, err := h.backup.Load(path)
	if err != nil || len(samples) == 0 {
		return
	}
	for _, s := range samples {
		ob.Buffer.Push(s)
	}
}

// DeleteResource removes the entry at path, following the
// deletion-semantics split of spec §4.2: Input/Output downgrade to a
// Placeholder if admin settings survive, otherwise vanish; an
// Observation is always tombstoned.
func (h *Hub) DeleteResource(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}

	if h.onDelta != nil {
		if rel, relErr := h.root.RelativePath(e); relErr == nil {
			h.onDelta(rel, e.Kind().String(), sample.Sample{}, true)
		}
	}

	switch e.Kind() {
	case tree.Input, tree.Output:
		e.DeleteIO(resource.NewPlaceholder())
		return nil
	case tree.Observation:
		e.DeleteObservation()
		return nil
	case tree.Placeholder:
		e.DeleteIO(resource.NewPlaceholder())
		return nil
	default:
		return errors.ErrNotFound
	}
}

func defaultClock() float64 {
	// Overridden by Options.Clock in every real deployment (cmd/hubd
	// wires time.Now()); the zero here only matters for a Hub built
	// without options, which tests do deliberately to get
	// deterministic timestamps from explicit pushes.
	return 0
}
