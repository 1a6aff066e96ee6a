// Package worker runs simulations off the caller's goroutine. Each submission
// gets a ticket with a unique id and a result channel; when a newer request
// arrives for the same key the older one's result is delivered marked stale.
// Simulations are never interrupted mid-flight, only superseded at completion.
package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/simulator"
)

var (
	ErrStopped   = errors.New("worker: runner stopped")
	ErrQueueFull = errors.New("worker: request queue full")
)

const queueSize = 32

// Ticket identifies a submitted simulation. The result arrives on C exactly
// once; the channel is buffered so an abandoned ticket never blocks a worker.
type Ticket struct {
	ID  string
	Key string
	C   <-chan Result
}

// Result is the completion message for one submission.
type Result struct {
	ID      string
	Key     string
	Output  simulator.Result
	Err     error
	Stale   bool // a newer request for the same key was submitted
	Elapsed time.Duration
}

type job struct {
	id    string
	key   string
	input model.SimulationInput
	out   chan Result
}

// Runner owns the worker goroutines and the per-key freshness bookkeeping.
type Runner struct {
	workers int

	mu     sync.Mutex
	latest map[string]string // key -> most recently submitted id
	closed bool

	jobs chan job
	wg   sync.WaitGroup
}

// New creates a Runner with the given number of workers. Call Start before
// expecting results; Submit may be called earlier and queues.
func New(workers int) *Runner {
	if workers <= 0 {
		workers = 2
	}
	return &Runner{
		workers: workers,
		latest:  make(map[string]string),
		jobs:    make(chan job, queueSize),
	}
}

// Start launches the worker goroutines.
func (r *Runner) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.work()
	}
	log.Printf("[INFO] simulation runner started with %d workers", r.workers)
}

// Stop closes the queue and waits for in-flight simulations to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()
	r.wg.Wait()
	log.Printf("[INFO] simulation runner stopped")
}

// Submit queues a simulation under a logical key (for example "ghost" or
// "potential"). Submitting again under the same key supersedes any request
// still in flight: the older result arrives with Stale set.
func (r *Runner) Submit(key string, in model.SimulationInput) (Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Ticket{}, ErrStopped
	}
	id := uuid.NewString()
	out := make(chan Result, 1)
	select {
	case r.jobs <- job{id: id, key: key, input: in, out: out}:
	default:
		return Ticket{}, ErrQueueFull
	}
	r.latest[key] = id
	return Ticket{ID: id, Key: key, C: out}, nil
}

func (r *Runner) work() {
	defer r.wg.Done()
	for j := range r.jobs {
		started := time.Now()
		output, err := simulator.Run(j.input)
		res := Result{
			ID:      j.id,
			Key:     j.key,
			Output:  output,
			Err:     err,
			Elapsed: time.Since(started),
		}
		r.mu.Lock()
		res.Stale = r.latest[j.key] != j.id
		r.mu.Unlock()
		if res.Stale {
			log.Printf("[INFO] simulation %s (%s) superseded by a newer request", j.id, j.key)
		}
		j.out <- res
	}
}

// Wait blocks for a ticket's result or context expiry. A non-nil error is
// either the context's or the simulation's own.
func Wait(ctx context.Context, t Ticket) (Result, error) {
	select {
	case res := <-t.C:
		return res, res.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
