package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDefinition   = errors.New("statemachine: invalid definition")
	ErrUndeclaredState     = errors.New("statemachine: undeclared state")
	ErrUndeclaredEvent     = errors.New("statemachine: undeclared event")
	ErrAmbiguousTransition = errors.New("statemachine: ambiguous transition")
	ErrUnreachableState    = errors.New("statemachine: unreachable state")
	ErrActionFailed        = errors.New("statemachine: action failed")
)

// ErrNoTransitionAvailable indicates the event is not defined for the current state.
type ErrNoTransitionAvailable struct {
	StateName string
	EventName string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.StateName, e.EventName)
}

// ErrTransitionRejected indicates every candidate transition was vetoed by a guard.
type ErrTransitionRejected struct {
	StateName string
	EventName string
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.StateName, e.EventName)
}

// IsNoTransitionAvailableError reports whether err is or wraps *ErrNoTransitionAvailable.
func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

// IsTransitionRejectedError reports whether err is or wraps *ErrTransitionRejected.
func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}
