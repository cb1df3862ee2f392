package statemachine_test

import (
	"context"
	"testing"

	"github.com/dmitrymomot/vendingkit/pkg/statemachine"
)

func BenchmarkMachine_Fire(b *testing.B) {
	ctx := context.Background()
	m := statemachine.MustNew(statemachine.Definition[state, event]{
		Initial: draft,
		States:  []state{draft, inReview},
		Events:  []event{submit, reject},
		Transitions: []statemachine.Transition[state, event]{
			{From: draft, Event: submit, To: inReview},
			{From: inReview, Event: reject, To: draft},
		},
	})

	for b.Loop() {
		_, _ = m.Fire(ctx, submit, nil)
		_, _ = m.Fire(ctx, reject, nil)
	}
}

func BenchmarkMachine_CanFireWithGuards(b *testing.B) {
	ctx := context.Background()
	enabled := func(_ context.Context, _ state, _ event, data any) bool {
		ok, _ := data.(bool)
		return ok
	}
	m := statemachine.MustNew(statemachine.Definition[state, event]{
		Initial: draft,
		States:  []state{draft, inReview},
		Events:  []event{submit},
		Transitions: []statemachine.Transition[state, event]{
			{From: draft, Event: submit, To: inReview, Guards: []statemachine.Guard[state, event]{enabled}},
		},
	})

	for b.Loop() {
		_ = m.CanFire(ctx, submit, true)
		_ = m.CanFire(ctx, submit, false)
	}
}
