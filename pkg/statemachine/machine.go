package statemachine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Machine is a validated state machine instance.
type Machine[S, E ~string] struct {
	mu      sync.RWMutex
	initial S
	current S
	events  []E
	table   map[S]map[E][]Transition[S, E]
}

// New validates def and returns a machine positioned at def.Initial.
func New[S, E ~string](def Definition[S, E]) (*Machine[S, E], error) {
	table, err := def.validate()
	if err != nil {
		return nil, err
	}
	return &Machine[S, E]{
		initial: def.Initial,
		current: def.Initial,
		events:  slices.Clone(def.Events),
		table:   table,
	}, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew[S, E ~string](def Definition[S, E]) *Machine[S, E] {
	m, err := New(def)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire applies event and returns the resulting state.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.match(ctx, event, data)
	if err != nil {
		return m.current, err
	}

	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, m.current, t.To, event, data); err != nil {
			return m.current, errors.Join(ErrActionFailed, err)
		}
	}

	m.current = t.To
	return m.current, nil
}

// CanFire reports whether event would be accepted with data right now.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.match(ctx, event, data)
	return err == nil
}

// Permitted lists the events accepted from the current state, in declaration order.
func (m *Machine[S, E]) Permitted(ctx context.Context, data any) []E {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []E
	for _, e := range m.events {
		if _, err := m.match(ctx, e, data); err == nil {
			out = append(out, e)
		}
	}
	return out
}

// Reset moves the machine back to its initial state without running actions.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// match must be called with mu held.
func (m *Machine[S, E]) match(ctx context.Context, event E, data any) (*Transition[S, E], error) {
	candidates := m.table[m.current][event]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{StateName: string(m.current), EventName: string(event)}
	}

	for i := range candidates {
		if passes(ctx, &candidates[i], m.current, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &ErrTransitionRejected{StateName: string(m.current), EventName: string(event)}
}

func passes[S, E ~string](ctx context.Context, t *Transition[S, E], from S, event E, data any) bool {
	for _, g := range t.Guards {
		if g != nil && !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}
