package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Machine is a single run through a Definition. It is safe for concurrent use.
type Machine[S, E comparable, D any] struct {
	def     *Definition[S, E, D]
	mu      sync.RWMutex
	current S
	history []S
}

// Current returns the state the machine is in.
func (m *Machine[S, E, D]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// History returns the states left so far, oldest first.
func (m *Machine[S, E, D]) History() []S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]S, len(m.history))
	copy(out, m.history)
	return out
}

// Fire applies event. Actions run after guards and before the state changes;
// an action error leaves the machine where it was.
func (m *Machine[S, E, D]) Fire(ctx context.Context, event E, data D) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.def.resolve(ctx, m.current, event, data)
	if err != nil {
		return err
	}

	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, m.current, t.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.history = append(m.history, m.current)
	m.current = t.To
	return nil
}

// CanFire reports whether event would be accepted in the current state.
// Guards are evaluated; actions are not.
func (m *Machine[S, E, D]) CanFire(ctx context.Context, event E, data D) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.def.resolve(ctx, m.current, event, data)
	return err == nil
}

// Reset moves the machine back to the initial state and clears its history.
func (m *Machine[S, E, D]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.def.initial
	m.history = nil
}
