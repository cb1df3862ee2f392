// Package statemachine provides a typed, table-driven finite state machine.
//
// States and events are string-based types chosen by the caller. The whole
// transition table is declared up front in a Definition and validated when
// the machine is built, so a misspelled state, an ambiguous transition or an
// unreachable state is a construction error rather than a runtime surprise.
//
// # Definition
//
//	type State string
//	type Event string
//
//	m, err := statemachine.New(statemachine.Definition[State, Event]{
//	    Initial: "locked",
//	    States:  []State{"locked", "unlocked"},
//	    Events:  []Event{"coin", "push"},
//	    Transitions: []statemachine.Transition[State, Event]{
//	        {From: "locked", Event: "coin", To: "unlocked"},
//	        {From: "unlocked", Event: "push", To: "locked"},
//	    },
//	})
//
// # Guards and Actions
//
// Several transitions may share a (state, event) pair. They are tried in
// declaration order and the first one whose guards all pass wins, which makes
// guard-based branching explicit. Only the last transition of a pair may be
// unguarded.
//
// Actions run after the guards and before the state changes. An action error
// aborts the transition and leaves the current state untouched.
//
// # Error Handling
//
//	if statemachine.IsNoTransitionAvailableError(err) { /* event not legal here */ }
//	if statemachine.IsTransitionRejectedError(err)    { /* every guard said no */ }
//
// # Concurrency
//
// Machine guards its state with a RWMutex. Fire holds the write lock while
// actions run, so actions must not call back into the same machine.
package statemachine
