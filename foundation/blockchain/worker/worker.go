// Package worker runs the background consensus workflow for the node,
// periodically applying the longest valid chain rule against known peers.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
)

// Worker manages the conflict resolution workflow for the ledger.
type Worker struct {
	ledger    *ledger.Ledger
	fetcher   ledger.Fetcher
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	resolve   chan bool
	ctx       context.Context
	cancel    context.CancelFunc
	evHandler ledger.EventHandler
}

// Run creates a worker and starts the background resolution process. The
// ledger is resolved against its peers on every interval and whenever
// SignalResolve is called.
func Run(l *ledger.Ledger, fetcher ledger.Fetcher, interval time.Duration, evHandler ledger.EventHandler) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	w := Worker{
		ledger:    l,
		fetcher:   fetcher,
		ticker:    time.NewTicker(interval),
		shut:      make(chan struct{}),
		resolve:   make(chan bool, 1),
		ctx:       ctx,
		cancel:    cancel,
		evHandler: evHandler,
	}

	w.wg.Add(1)

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.resolveOperations()
	}()

	<-hasStarted

	return &w
}

// Shutdown terminates the goroutine performing work. Any resolution in
// progress is cancelled.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	w.cancel()
	close(w.shut)
	w.wg.Wait()
}

// SignalResolve starts a resolution. If there is already a signal pending in
// the channel, just return since a resolution will start.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
		w.evHandler("worker: SignalResolve: resolution signaled")
	default:
	}
}

// =============================================================================

// resolveOperations handles resolving conflicts with peers.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.resolve:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// runResolveOperation applies the longest valid chain rule once.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	replaced, err := w.ledger.ResolveConflicts(w.ctx, w.fetcher)
	if err != nil {
		w.evHandler("worker: runResolveOperation: ERROR: %s", err)
		return
	}

	if replaced {
		w.evHandler("worker: runResolveOperation: chain replaced: length[%d]", w.ledger.Length())
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
