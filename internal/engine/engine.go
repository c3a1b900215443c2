package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kazipo/geo-reminder/internal/location"
	"github.com/kazipo/geo-reminder/internal/model"
	"github.com/kazipo/geo-reminder/internal/notify"
	"github.com/kazipo/geo-reminder/internal/store"
)

// State represents the engine's evaluation state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateError
)

// Status is a snapshot of the engine's progress.
type Status struct {
	State        State
	LastCycle    time.Time
	Error        error
	Dispatched   int
	SkippedTicks int
}

// CycleResult reports the outcome of one completed evaluation cycle.
type CycleResult struct {
	Sample  model.Coordinate
	Events  []model.ProximityEvent
	Records []model.NotificationRecord
	Error   error
}

// Config wires the engine's collaborators.
type Config struct {
	Store      store.Store
	Sampler    *location.Sampler
	Dispatcher *notify.Dispatcher

	// UserID is the signed-in user the engine evaluates for, passed
	// in explicitly at construction.
	UserID string

	// FallbackThresholdKm is used when the user profile has no
	// configured notify distance.
	FallbackThresholdKm float64

	// FetchTimeout caps the store reads of a single cycle.
	FetchTimeout time.Duration

	Logger *log.Logger
}

// Engine drives the proximity evaluation loop: for every position
// sample it reads the user's threshold and task-location snapshot
// fresh from the store, runs the matcher, and dispatches a
// notification for each in-range transition.
//
// Cycles are single-flight: if a sample arrives while the previous
// evaluation is still running, that tick is skipped and counted rather
// than run concurrently, which keeps the per-location
// at-most-one-notification-per-transition property under overlap.
type Engine struct {
	store      store.Store
	sampler    *location.Sampler
	dispatcher *notify.Dispatcher
	matcher    *Matcher
	userID     string
	fallbackKm float64
	timeout    time.Duration
	logger     *log.Logger

	resultCh chan CycleResult
	stopCh   chan struct{}

	// evalMu is the single-flight gate around one evaluation pass.
	evalMu sync.Mutex

	mu      sync.Mutex
	status  Status
	running bool
}

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	fallback := cfg.FallbackThresholdKm
	if fallback <= 0 {
		fallback = model.DefaultThresholdKm
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Engine{
		store:      cfg.Store,
		sampler:    cfg.Sampler,
		dispatcher: cfg.Dispatcher,
		matcher:    NewMatcher(),
		userID:     cfg.UserID,
		fallbackKm: fallback,
		timeout:    timeout,
		logger:     logger,
		resultCh:   make(chan CycleResult, 16),
		stopCh:     make(chan struct{}),
	}
}

// Start begins sampling and evaluating. If location permission is
// denied it returns location.ErrPermissionDenied and nothing starts.
// Starting a running engine is a no-op.
func (e *Engine) Start(ctx context.Context) error {
	// Claim the running flag in one critical section so concurrent
	// Start calls cannot both spawn a loop.
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.mu.Unlock()

	if err := e.sampler.Start(ctx); err != nil {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		return err
	}

	go e.run()
	return nil
}

// Stop halts the evaluation loop and the sampler.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	close(e.stopCh)
	e.running = false
	e.mu.Unlock()

	e.sampler.Stop()
}

// Results returns the channel of completed cycle results. Results are
// dropped rather than queued when the consumer falls behind.
func (e *Engine) Results() <-chan CycleResult {
	return e.resultCh
}

// Status returns a snapshot of the engine's progress.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// run consumes position samples until Stop is called.
func (e *Engine) run() {
	for {
		select {
		case <-e.stopCh:
			return
		case sample := <-e.sampler.Samples():
			// Samples are consumed as they arrive; the single-flight
			// gate in evaluate decides whether this one runs or is
			// skipped because the previous cycle is still in flight.
			go e.evaluate(sample)
		}
	}
}

// evaluate runs one full cycle for a sample: fresh threshold read,
// task-location snapshot, match, dispatch. If the previous cycle is
// still in flight the tick is skipped. A failed store read skips the
// cycle without touching matcher state.
func (e *Engine) evaluate(sample model.Coordinate) {
	if !e.evalMu.TryLock() {
		e.mu.Lock()
		e.status.SkippedTicks++
		e.mu.Unlock()
		return
	}
	defer e.evalMu.Unlock()

	e.setState(StateRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	user, err := e.store.GetUser(ctx, e.userID)
	if err != nil {
		e.logger.Printf("engine: reading user profile: %v", err)
		e.setState(StateError, err)
		e.sendResult(CycleResult{Sample: sample, Error: err})
		return
	}
	threshold := user.ResolveThreshold(e.fallbackKm)

	locations, err := e.store.ListTaskLocations(ctx, e.userID)
	if err != nil {
		e.logger.Printf("engine: reading task locations: %v", err)
		e.setState(StateError, err)
		e.sendResult(CycleResult{Sample: sample, Error: err})
		return
	}

	events := e.matcher.Evaluate(sample, locations, threshold)

	var records []model.NotificationRecord
	for _, event := range events {
		// Dispatch failures are isolated per event: the dispatcher
		// already logged them, and the transition stays consumed.
		rec, err := e.dispatcher.Dispatch(ctx, *user, event)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	e.mu.Lock()
	e.status.State = StateIdle
	e.status.Error = nil
	e.status.LastCycle = time.Now()
	e.status.Dispatched += len(records)
	e.mu.Unlock()

	e.sendResult(CycleResult{Sample: sample, Events: events, Records: records})
}

// setState updates the status state and error.
func (e *Engine) setState(state State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.State = state
	e.status.Error = err
}

// sendResult sends a CycleResult without blocking the evaluation loop.
func (e *Engine) sendResult(result CycleResult) {
	select {
	case e.resultCh <- result:
	default:
		// Drop if the channel is full.
	}
}
