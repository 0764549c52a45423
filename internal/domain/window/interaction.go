package window

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

// interactionMonitor fires a callback once the window has seen no key or
// pointer input for timeout. It fires at most once per idle period.
type interactionMonitor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	timeout time.Duration
	last    time.Time   // Protected by mu
	fired   bool        // Protected by mu
	closed  bool        // Protected by mu
	timer   *time.Timer // Protected by mu
	fn      func()
	done    chan struct{}
}

func newInteractionMonitor(timeout time.Duration, fn func()) *interactionMonitor {
	m := &interactionMonitor{
		timeout: timeout,
		last:    time.Now(),
		fn:      fn,
		done:    make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	go m.run()
	return m
}

func (m *interactionMonitor) run() {
	defer close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()

	for !m.closed {
		idle := time.Since(m.last)
		if !m.fired && idle >= m.timeout {
			m.fired = true
			m.mu.Unlock()
			m.fn()
			m.mu.Lock()
			continue
		}

		if m.timer != nil {
			m.timer.Stop()
			m.timer = nil
		}
		if !m.fired {
			m.timer = time.AfterFunc(m.timeout-idle, m.wake)
		}
		m.cond.Wait()
	}
	if m.timer != nil {
		m.timer.Stop()
	}
}

// wake takes the lock so a broadcast cannot slip in between the loop's
// check and its Wait.
func (m *interactionMonitor) wake() {
	m.mu.Lock()
	m.cond.Broadcast()
	m.mu.Unlock()
}

func (m *interactionMonitor) touch() {
	m.mu.Lock()
	m.last = time.Now()
	m.fired = false
	m.cond.Broadcast()
	m.mu.Unlock()
}

func (m *interactionMonitor) close() {
	m.mu.Lock()
	m.closed = true
	m.cond.Broadcast()
	m.mu.Unlock()
	<-m.done
}

type interactionMonitors struct {
	mu       sync.Mutex
	monitors map[*interactionMonitor]struct{}
}

func newInteractionMonitors() *interactionMonitors {
	return &interactionMonitors{monitors: make(map[*interactionMonitor]struct{})}
}

func (ms *interactionMonitors) snapshot() []*interactionMonitor {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]*interactionMonitor, 0, len(ms.monitors))
	for m := range ms.monitors {
		out = append(out, m)
	}
	return out
}

func (ms *interactionMonitors) touch() {
	for _, m := range ms.snapshot() {
		m.touch()
	}
}

func (ms *interactionMonitors) remove(m *interactionMonitor) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.monitors[m]; !ok {
		return false
	}
	delete(ms.monitors, m)
	return true
}

func (ms *interactionMonitors) closeAll() {
	for _, m := range ms.snapshot() {
		if ms.remove(m) {
			m.close()
		}
	}
}

// RegisterNoInteractionListener calls fn after timeout without key or
// pointer input, once per idle period. The returned function unregisters it.
func (s *SceneSession) RegisterNoInteractionListener(timeout time.Duration, fn func()) (func(), error) {
	switch {
	case fn == nil:
		return nil, types.ErrNullptr
	case timeout <= 0:
		return nil, types.ErrInvalidParam
	case s.isDestroyed():
		return nil, types.ErrInvalidWindow
	}

	m := newInteractionMonitor(timeout, fn)
	s.interaction.mu.Lock()
	s.interaction.monitors[m] = struct{}{}
	s.interaction.mu.Unlock()

	return func() {
		if s.interaction.remove(m) {
			m.close()
		}
	}, nil
}
