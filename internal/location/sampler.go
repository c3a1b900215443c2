package location

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kazipo/geo-reminder/internal/model"
)

// Sampler periodically reads the device position from a Provider and
// publishes the samples.
//
// Each tick launches its own position fetch: a slow fetch never delays
// the next tick, so samples may arrive out of tick order. Consumers
// that only care about the freshest position should use Latest.
type Sampler struct {
	provider Provider
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger

	samples chan model.Coordinate
	stopCh  chan struct{}

	mu      sync.Mutex
	latest  *model.Coordinate
	running bool
}

// NewSampler creates a Sampler that reads from provider every interval.
// Each position fetch is capped at timeout. A nil logger defaults to
// log.Default().
func NewSampler(provider Provider, interval, timeout time.Duration, logger *log.Logger) *Sampler {
	if logger == nil {
		logger = log.Default()
	}
	return &Sampler{
		provider: provider,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		samples:  make(chan model.Coordinate, 16),
		stopCh:   make(chan struct{}),
	}
}

// Samples returns the channel of position samples. Samples are dropped
// rather than queued when the consumer falls behind.
func (s *Sampler) Samples() <-chan model.Coordinate {
	return s.samples
}

// Latest returns the most recent successful sample, if any.
func (s *Sampler) Latest() (model.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		return model.Coordinate{}, false
	}
	return *s.latest, true
}

// Start requests location permission and begins the sampling loop.
// If permission is denied it returns ErrPermissionDenied and the loop
// never starts; the caller sees the condition once instead of on every
// tick. Starting an already-running sampler is a no-op.
func (s *Sampler) Start(ctx context.Context) error {
	// Claim the running flag in one critical section so concurrent
	// Start calls cannot both spawn a loop.
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if err := s.provider.RequestPermission(ctx); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	}

	go s.run()
	return nil
}

// Stop halts the sampling loop.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	s.running = false
}

// run drives the tick loop until Stop is called.
func (s *Sampler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			// Ticks are not serialized against the fetch.
			go s.sample()
		}
	}
}

// sample performs a single position fetch and publishes the result.
// A transient failure is logged and skipped; the loop keeps ticking.
func (s *Sampler) sample() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	pos, err := s.provider.CurrentPosition(ctx)
	if err != nil {
		s.logger.Printf("location: sample failed: %v", err)
		return
	}

	s.mu.Lock()
	s.latest = &pos
	s.mu.Unlock()

	select {
	case s.samples <- pos:
	default:
		// Drop if the consumer is behind; Latest still advances.
	}
}
