// Package persist runs storage requests off the frame thread and hands their results back to it.
//
// Requests start a goroutine each. Completions are queued and only run when the frame loop calls
// Drain, so callbacks may touch the scene without locking.
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"room-designer/internal/catalog"
	"room-designer/internal/scene"
)

// ErrNoProvider is reported when no backend is configured.
var ErrNoProvider = errors.New("persist: no provider configured")

// Ack confirms a stored record.
type Ack struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Provider is the storage backend.
type Provider interface {
	SaveSnapshot(ctx context.Context, userID, name string, snap scene.Snapshot, preview []byte) (Ack, error)
	LoadLatestSnapshot(ctx context.Context, userID string) (scene.Snapshot, bool, error)
	Catalog(ctx context.Context) ([]catalog.Entry, error)
	SaveScreenshot(ctx context.Context, userID string, png []byte) (Ack, error)
}

// Dispatcher runs Provider calls asynchronously.
type Dispatcher struct {
	provider Provider
	timeout  time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	pending []func()
	wg      sync.WaitGroup
}

// NewDispatcher wraps p. A nil provider is allowed; every request then completes with ErrNoProvider.
func NewDispatcher(p Provider) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{provider: p, ctx: ctx, cancel: cancel}
}

// SetTimeout bounds each backend call by t. Zero, the default, leaves calls open until Close.
func (d *Dispatcher) SetTimeout(t time.Duration) { d.timeout = t }

// Post queues fn to run on the next Drain. Safe from any goroutine.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	d.pending = append(d.pending, fn)
	d.mu.Unlock()
}

// Drain runs every queued completion in arrival order and returns how many ran.
// Call it from the frame thread only.
func (d *Dispatcher) Drain() int {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Wait blocks until every in-flight request has queued its completion.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Close cancels in-flight requests and waits for them.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) run(call func(ctx context.Context) func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx := d.ctx
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}
		d.Post(call(ctx))
	}()
}

// SaveSnapshot stores snap under userID and reports back through done.
func (d *Dispatcher) SaveSnapshot(userID, name string, snap scene.Snapshot, preview []byte, done func(Ack, error)) {
	if d.provider == nil {
		d.Post(func() { done(Ack{}, ErrNoProvider) })
		return
	}
	d.run(func(ctx context.Context) func() {
		ack, err := d.provider.SaveSnapshot(ctx, userID, name, snap, preview)
		return func() { done(ack, err) }
	})
}

// LoadLatest fetches the newest snapshot of userID.
func (d *Dispatcher) LoadLatest(userID string, done func(scene.Snapshot, bool, error)) {
	if d.provider == nil {
		d.Post(func() { done(scene.Snapshot{}, false, ErrNoProvider) })
		return
	}
	d.run(func(ctx context.Context) func() {
		snap, ok, err := d.provider.LoadLatestSnapshot(ctx, userID)
		return func() { done(snap, ok, err) }
	})
}

// Catalog fetches the furniture listing.
func (d *Dispatcher) Catalog(done func([]catalog.Entry, error)) {
	if d.provider == nil {
		d.Post(func() { done(nil, ErrNoProvider) })
		return
	}
	d.run(func(ctx context.Context) func() {
		entries, err := d.provider.Catalog(ctx)
		return func() { done(entries, err) }
	})
}

// SaveScreenshot uploads a PNG for userID.
func (d *Dispatcher) SaveScreenshot(userID string, png []byte, done func(Ack, error)) {
	if d.provider == nil {
		d.Post(func() { done(Ack{}, ErrNoProvider) })
		return
	}
	d.run(func(ctx context.Context) func() {
		ack, err := d.provider.SaveScreenshot(ctx, userID, png)
		return func() { done(ack, err) }
	})
}
