package maintenance

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrNotInMaintenance is returned when a reload is attempted without an active session.
var ErrNotInMaintenance = errors.New("maintenance: machine is not in maintenance mode")

// Session marks a maintenance window. The zero value is not active.
type Session struct {
	id        uuid.UUID
	startedAt time.Time
	active    atomic.Bool
}

// Begin opens a new active session.
func Begin() *Session {
	s := &Session{
		id:        uuid.New(),
		startedAt: time.Now(),
	}
	s.active.Store(true)
	return s
}

// End closes the session. Safe to call more than once and on nil.
func (s *Session) End() {
	if s == nil {
		return
	}
	s.active.Store(false)
}

// Active reports whether the session still authorizes reloads.
func (s *Session) Active() bool {
	return s != nil && s.active.Load()
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// StartedAt returns when the session was opened.
func (s *Session) StartedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.startedAt
}

// Require returns ErrNotInMaintenance unless s is active.
func Require(s *Session) error {
	if !s.Active() {
		return ErrNotInMaintenance
	}
	return nil
}
