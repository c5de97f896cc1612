package scheduler

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler holds scheduled actions until Fire or FireAll is called.
// It gives debounce-driven code a deterministic clock in tests.
type ManualScheduler struct {
	mu        sync.Mutex
	actions   map[string]func()
	delays    map[string]time.Duration
	scheduled int
	stopped   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		actions: map[string]func(){},
		delays:  map[string]time.Duration{},
	}
}

func (m *ManualScheduler) Schedule(key string, delay time.Duration, action func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.actions[key] = action
	m.delays[key] = delay
	m.scheduled++
}

func (m *ManualScheduler) Cancel(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.actions[key]
	delete(m.actions, key)
	delete(m.delays, key)
	return ok
}

func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.actions)
}

func (m *ManualScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = map[string]func(){}
	m.delays = map[string]time.Duration{}
	m.stopped = true
}

// Scheduled counts every Schedule call, including replaced ones.
func (m *ManualScheduler) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled
}

func (m *ManualScheduler) Delay(key string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delay, ok := m.delays[key]
	return delay, ok
}

func (m *ManualScheduler) Fire(key string) bool {
	m.mu.Lock()
	action, ok := m.actions[key]
	delete(m.actions, key)
	delete(m.delays, key)
	m.mu.Unlock()

	if ok {
		action()
	}
	return ok
}

func (m *ManualScheduler) FireAll() int {
	m.mu.Lock()
	keys := make([]string, 0, len(m.actions))
	for key := range m.actions {
		keys = append(keys, key)
	}
	m.mu.Unlock()

	sort.Strings(keys)
	fired := 0
	for _, key := range keys {
		if m.Fire(key) {
			fired++
		}
	}
	return fired
}
