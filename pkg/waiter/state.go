package waiter

import "sync"

// CurrentStater exposes the most recently observed representation of the
// resource being waited on. The returned value is valid as of the last Poll
// call and may be read concurrently with an in-flight wait, for example for
// progress reporting. S is independent of the Waiter's value type.
type CurrentStater[S any] interface {
	CurrentState() S
}

// State is a snapshot holder that waiters can embed to implement
// CurrentStater. It guards the snapshot with a lock since CurrentState may
// be called from other goroutines while the action is being polled.
type State[S any] struct {
	mu      sync.RWMutex
	current S
}

// SetState records the latest observed state. It is meant to be called from
// Poll.
func (s *State[S]) SetState(current S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = current
}

// CurrentState returns the state recorded by the last SetState call.
func (s *State[S]) CurrentState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
