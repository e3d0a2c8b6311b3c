// Package pager implements scroll-driven pagination over a sequential item list.
//
// A Controller owns the loaded items and the loading flag. The renderer pushes
// scroll positions into it; when the last loaded item becomes visible the
// controller hands back a Request, the caller runs a Loader for it off the UI
// thread, and the result is applied with Complete.
package pager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// DefaultPageSize is the number of items appended per load
const DefaultPageSize = 30

// Request identifies one in-flight page load
type Request struct {
	Generation uint64 // reset generation the request belongs to
	Start      int    // first integer of the page
	Count      int    // number of integers requested

	ctx context.Context
}

// Context returns the request's context. It is cancelled by Reset and Close.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Snapshot is a read-only view of controller state for rendering
type Snapshot struct {
	Items   []int
	Loading bool
	Err     error
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for load lifecycle events
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRearmOnComplete re-arms edge detection after each successful append, so a
// viewport that still shows the last item after a load triggers another one.
func WithRearmOnComplete(enabled bool) Option {
	return func(c *Controller) {
		c.rearmOnComplete = enabled
	}
}

// Controller is the paginated list state machine
type Controller struct {
	mu sync.Mutex

	items    []int
	loading  bool
	pageSize int

	// Edge detection for the near-end predicate
	previousNearEnd bool

	// Bumped on every reset; completions from older generations are dropped
	generation uint64
	cancel     context.CancelFunc

	lastErr         error
	rearmOnComplete bool
	logger          *slog.Logger
}

// New creates a controller and initializes it with the first page.
// A non-positive pageSize falls back to DefaultPageSize.
func New(pageSize int, opts ...Option) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c := &Controller{
		pageSize: pageSize,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Initialize()
	return c
}

// Initialize sets items to 1..pageSize and clears the loading flag
func (c *Controller) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initializeLocked()
}

func (c *Controller) initializeLocked() {
	c.items = sequence(1, c.pageSize)
	c.loading = false
	c.previousNearEnd = false
	c.lastErr = nil
}

// Reset discards all loaded pages and reinitializes the list.
// Any load in flight is cancelled and its completion will be ignored.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Debug("reset cancels in-flight load", "generation", c.generation)
	}
	c.cancelLocked()
	c.generation++
	c.items = nil
	c.initializeLocked()

	c.logger.Info("list reset", "items", len(c.items), "generation", c.generation)
}

// Close cancels any in-flight load. The controller remains readable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// NearEnd reports whether the last loaded item is inside the visible window.
// A negative lastVisibleIndex means nothing is laid out yet.
func NearEnd(lastVisibleIndex, totalCount int) bool {
	if lastVisibleIndex < 0 || totalCount <= 0 {
		return false
	}
	return lastVisibleIndex >= totalCount-1
}

// OnScrollPositionChanged evaluates the near-end predicate for a new scroll
// position. Only a false to true transition starts a load; the started request
// is returned with ok set.
func (c *Controller) OnScrollPositionChanged(lastVisibleIndex, totalCount int) (req Request, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nearEnd := NearEnd(lastVisibleIndex, totalCount)
	if nearEnd == c.previousNearEnd {
		return Request{}, false
	}
	c.previousNearEnd = nearEnd
	if !nearEnd {
		return Request{}, false
	}

	c.logger.Debug("near end reached", "last_visible", lastVisibleIndex, "total", totalCount)
	return c.requestNextPageLocked()
}

// RequestNextPage marks a load as in flight and returns its request.
// It is a no-op returning ok=false while another load is in flight.
func (c *Controller) RequestNextPage() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestNextPageLocked()
}

func (c *Controller) requestNextPageLocked() (Request, bool) {
	if c.loading {
		c.logger.Debug("load already in flight, ignoring request")
		return Request{}, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.loading = true
	c.lastErr = nil

	req := Request{
		Generation: c.generation,
		Start:      len(c.items) + 1,
		Count:      c.pageSize,
		ctx:        ctx,
	}
	c.logger.Info("loading page", "start", req.Start, "count", req.Count)
	return req, true
}

// Complete applies the result of a load started by RequestNextPage.
//
// Results from a request made before the last Reset are dropped and applied is
// false. A loader error or an invalid batch clears the loading flag without
// appending and is returned. Edge state is left alone, so a retry needs the
// end to scroll out of view and back, or an explicit RequestNextPage.
func (c *Controller) Complete(req Request, batch []int, loadErr error) (applied bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Generation != c.generation || !c.loading {
		c.logger.Debug("dropping stale page", "generation", req.Generation, "current", c.generation)
		return false, nil
	}

	c.cancelLocked()
	c.loading = false

	if loadErr == nil {
		loadErr = c.validateLocked(batch)
	}
	if loadErr != nil {
		c.lastErr = loadErr
		c.logger.Error("page load failed", "start", req.Start, "error", loadErr)
		return false, loadErr
	}

	c.items = append(c.items, batch...)
	if c.rearmOnComplete {
		c.previousNearEnd = false
	}
	c.logger.Info("page loaded", "items", len(c.items))
	return true, nil
}

// validateLocked checks that batch is exactly the next page of the sequence.
// The start is taken from the list at completion time.
func (c *Controller) validateLocked(batch []int) error {
	if len(batch) != c.pageSize {
		return fmt.Errorf("%w: got %d, want %d", ErrBatchSize, len(batch), c.pageSize)
	}
	next := len(c.items) + 1
	for i, v := range batch {
		if v != next+i {
			return fmt.Errorf("%w: item %d is %d, want %d", ErrBatchNotContiguous, i, v, next+i)
		}
	}
	return nil
}

// Load runs loader for req on the calling goroutine and applies the result.
// It blocks for the loader's duration and is meant for callers outside an
// event loop.
func (c *Controller) Load(loader Loader, req Request) (bool, error) {
	batch, err := loader.LoadBatch(req.Context(), req.Start, req.Count)
	return c.Complete(req, batch, err)
}

// Items returns a copy of the loaded items
func (c *Controller) Items() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of loaded items
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Loading reports whether a load is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// PageSize returns the page size
func (c *Controller) PageSize() int {
	return c.pageSize
}

// LastError returns the error from the most recent failed load, if any
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Snapshot returns the current state for rendering
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]int, len(c.items))
	copy(items, c.items)
	return Snapshot{Items: items, Loading: c.loading, Err: c.lastErr}
}

// IsCanceled reports whether err came from a cancelled load
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
