// Package session holds the state that lives for one interactive run of
// measure. A session is created when the form starts and ended when it quits;
// nothing in it outlives the process.
package session

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/history"
	"github.com/google/uuid"
)

// Session owns the conversion history of a single user run.
type Session struct {
	ID        string
	StartedAt time.Time
	History   *history.Log

	ended bool
}

// Start begins a new session with an empty history.
func Start() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		History:   history.NewLog(),
	}
	log.Debug("session started", "id", s.ID)
	return s
}

// Record appends a conversion to the session history. Records arriving after
// End are dropped.
func (s *Session) Record(r history.Record) {
	if s.ended {
		log.Warn("dropping record for ended session", "id", s.ID, "record", r.String())
		return
	}
	s.History.Append(r)
}

// End clears the history and marks the session as finished. Calling End more
// than once is a no-op.
func (s *Session) End() {
	if s.ended {
		return
	}
	log.Debug("session ended",
		"id", s.ID,
		"conversions", s.History.Len(),
		"duration", time.Since(s.StartedAt).Round(time.Millisecond))
	s.History.Clear()
	s.ended = true
}

// Ended reports whether End was called.
func (s *Session) Ended() bool {
	return s.ended
}
