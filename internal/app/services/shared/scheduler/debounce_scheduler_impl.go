package scheduler

import (
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/constvars"
	"sync"
	"time"

	"go.uber.org/zap"
)

type pendingAction struct {
	timer      *time.Timer
	generation uint64
}

// debounceScheduler keeps at most one unfired action per key. A generation
// counter guards against a timer that fired while it was being replaced.
type debounceScheduler struct {
	mu         sync.Mutex
	pending    map[string]*pendingAction
	generation uint64
	stopped    bool
	Log        *zap.Logger
}

func NewDebounceScheduler(logger *zap.Logger) contracts.Scheduler {
	return &debounceScheduler{
		pending: map[string]*pendingAction{},
		Log:     logger,
	}
}

func (s *debounceScheduler) Schedule(key string, delay time.Duration, action func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.Log.Debug("debounceScheduler.Schedule ignored after stop",
			zap.String(constvars.LoggingSchedulerKey, key),
		)
		return
	}

	if existing, ok := s.pending[key]; ok {
		existing.timer.Stop()
	}

	s.generation++
	generation := s.generation
	s.pending[key] = &pendingAction{
		generation: generation,
		timer: time.AfterFunc(delay, func() {
			s.fire(key, generation, action)
		}),
	}
}

func (s *debounceScheduler) fire(key string, generation uint64, action func()) {
	s.mu.Lock()
	current, ok := s.pending[key]
	if !ok || current.generation != generation {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	action()
}

func (s *debounceScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pending[key]
	if !ok {
		return false
	}
	existing.timer.Stop()
	delete(s.pending, key)
	return true
}

func (s *debounceScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *debounceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, existing := range s.pending {
		existing.timer.Stop()
		delete(s.pending, key)
	}
	s.stopped = true
}
