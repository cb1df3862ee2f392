package statemachine

import (
	"context"
	"fmt"
)

// Guard decides whether a transition may be taken.
type Guard[S, E ~string] func(ctx context.Context, from S, event E, data any) bool

// Action performs a side effect during a transition. Returning an error aborts it.
type Action[S, E ~string] func(ctx context.Context, from, to S, event E, data any) error

// Transition is one row of the transition table.
type Transition[S, E ~string] struct {
	From    S
	Event   E
	To      S
	Guards  []Guard[S, E]  // all must pass
	Actions []Action[S, E] // run in order before the state changes
}

func (t Transition[S, E]) guarded() bool {
	return len(t.Guards) > 0
}

// Definition is the complete, declarative description of a machine.
type Definition[S, E ~string] struct {
	Initial     S
	States      []S
	Events      []E
	Transitions []Transition[S, E]
}

// validate checks the definition and returns the lookup table.
func (d Definition[S, E]) validate() (map[S]map[E][]Transition[S, E], error) {
	if len(d.States) == 0 || len(d.Events) == 0 {
		return nil, fmt.Errorf("%w: states and events must be declared", ErrInvalidDefinition)
	}

	states := make(map[S]struct{}, len(d.States))
	for _, s := range d.States {
		if s == "" {
			return nil, fmt.Errorf("%w: empty state name", ErrInvalidDefinition)
		}
		states[s] = struct{}{}
	}
	events := make(map[E]struct{}, len(d.Events))
	for _, e := range d.Events {
		if e == "" {
			return nil, fmt.Errorf("%w: empty event name", ErrInvalidDefinition)
		}
		events[e] = struct{}{}
	}
	if _, ok := states[d.Initial]; !ok {
		return nil, fmt.Errorf("%w: initial state %q", ErrUndeclaredState, d.Initial)
	}

	table := make(map[S]map[E][]Transition[S, E])
	for i, t := range d.Transitions {
		if _, ok := states[t.From]; !ok {
			return nil, fmt.Errorf("%w: transition[%d] from %q", ErrUndeclaredState, i, t.From)
		}
		if _, ok := states[t.To]; !ok {
			return nil, fmt.Errorf("%w: transition[%d] to %q", ErrUndeclaredState, i, t.To)
		}
		if _, ok := events[t.Event]; !ok {
			return nil, fmt.Errorf("%w: transition[%d] on %q", ErrUndeclaredEvent, i, t.Event)
		}

		byEvent, ok := table[t.From]
		if !ok {
			byEvent = make(map[E][]Transition[S, E])
			table[t.From] = byEvent
		}
		existing := byEvent[t.Event]
		if n := len(existing); n > 0 && !existing[n-1].guarded() {
			return nil, fmt.Errorf("%w: transition[%d] %s on %s follows an unguarded transition",
				ErrAmbiguousTransition, i, t.From, t.Event)
		}
		byEvent[t.Event] = append(existing, t)
	}

	// Every declared state must be reachable from the initial one.
	seen := map[S]struct{}{d.Initial: {}}
	queue := []S{d.Initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, ts := range table[s] {
			for _, t := range ts {
				if _, ok := seen[t.To]; !ok {
					seen[t.To] = struct{}{}
					queue = append(queue, t.To)
				}
			}
		}
	}
	for _, s := range d.States {
		if _, ok := seen[s]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnreachableState, s)
		}
	}

	return table, nil
}
