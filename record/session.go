// This file is part of Stepback.
//
// Stepback is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Stepback is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Stepback.  If not, see <https://www.gnu.org/licenses/>.

package record

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/jetsetilly/stepback/arch"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/prefs"
	"github.com/jetsetilly/stepback/target"
)

// Sentinel error patterns.
const (
	UnsupportedMode  = "record: %s mode is not supported"
	RecordingFailed  = "record: recording failed: %v"
	NotEnoughHistory = "record: not enough recorded history"
	TargetNotFound   = "record: target insn not found"
	AlreadyAtTarget  = "record: already at target insn"
	AlreadyAtEnd     = "record: already at end of record list"
	BadBookmark      = "record: %v"
	SaveFailed       = "record: save failed: %v"
	RestoreFailed    = "record: restore failed: %v"
	NoSuchBreakpoint = "record: no breakpoint at %#04x"
)

// Predicate is consulted when deciding whether to stop. Address spaces are
// the same as the AddressSpace field of target.Breakpoint.
type Predicate interface {
	// BreakpointAt returns true if there is a breakpoint at the address.
	BreakpointAt(addressSpace int, addr uint64) bool

	// WatchpointOver returns true if a watchpoint covers any part of the
	// memory range.
	WatchpointOver(addressSpace int, addr uint64, length int) bool
}

// request is created by Resume() when the session is replaying and consumed
// by the next Wait().
type request struct {
	step bool
}

// Session records and replays the execution of the debuggee. It should be
// created with Open().
type Session struct {
	tr        target.Transport
	analyzer  arch.Analyzer
	predicate Predicate
	query     journal.Query

	Prefs *Preferences

	log *journal.Log

	// shadow table of inserted breakpoints
	shadow []ShadowBreakpoint

	direction journal.Direction

	// resume request when replaying. nil if there is no request
	request *request

	// signalled when there is a replay request waiting to be consumed
	pending chan struct{}

	// whether the caller asked for a single step in live mode
	liveStep bool

	// set by Interrupt(). can be set from any goroutine
	interrupt atomic.Bool

	// greater than zero while the session is making its own changes to the
	// debuggee. writes made while disabled are neither recorded nor
	// confirmed
	disabled int

	closed bool
}

// Open a record session on the transport. The predicate and query arguments
// can be nil, in which case no breakpoints or watchpoints are ever found and
// every question is answered "no". If prefs is nil then default preferences
// are used.
func Open(tr target.Transport, predicate Predicate, query journal.Query, p *Preferences) (*Session, error) {
	if ns, ok := tr.(target.NonStop); ok && ns.IsNonStop() {
		return nil, curated.Errorf(UnsupportedMode, "non-stop")
	}

	analyzer, err := arch.Select(tr.Architecture())
	if err != nil {
		return nil, err
	}

	if p == nil {
		p, err = NewPreferences("")
		if err != nil {
			return nil, err
		}
	}

	s := &Session{
		tr:        tr,
		analyzer:  analyzer,
		predicate: predicate,
		query:     query,
		Prefs:     p,
		pending:   make(chan struct{}, 1),
	}

	s.log = journal.NewLog(s.Prefs.InsnMax.Get().(int), s.Prefs.StopAtLimit.Get().(bool), s.ask)

	// breakpoints already in the transport are materialized
	if bl, ok := tr.(target.BreakpointLister); ok {
		for _, bp := range bl.InsertedBreakpoints() {
			s.shadow = append(s.shadow, ShadowBreakpoint{Breakpoint: bp, Materialized: true})
		}
	}

	s.Prefs.InsnMax.SetHookPost(func(v prefs.Value) error {
		s.SetCapacity(v.(int))
		return nil
	})
	s.Prefs.StopAtLimit.SetHookPost(func(v prefs.Value) error {
		s.log.SetStopAtLimit(v.(bool))
		return nil
	})

	logger.Logf(logger.Allow, "record", "session opened (%s)", analyzer.Name())

	return s, nil
}

// Close the session. The log is discarded. The debuggee is left in its
// current state, even if that state is in the recorded past. Breakpoints
// that were inserted while replaying are inserted in the transport.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.Prefs.InsnMax.SetHookPost(nil)
	s.Prefs.StopAtLimit.SetHookPost(nil)

	var err error
	for _, sh := range s.shadow {
		if !sh.Materialized {
			if e := s.tr.InsertBreakpoint(sh.Breakpoint); e != nil && err == nil {
				err = e
			}
		}
	}
	s.shadow = s.shadow[:0]
	s.log = journal.NewLog(0, false, nil)

	logger.Log(logger.Allow, "record", "session closed")

	return err
}

// ask the user a question. used as the journal.Query for the log.
func (s *Session) ask(question string) bool {
	if s.query == nil {
		return false
	}
	return s.query(question)
}

// disable recording and confirmation of writes until the returned function
// is called.
func (s *Session) disable() func() {
	s.disabled++
	return func() {
		s.disabled--
	}
}

// IsReplaying returns true if the debuggee is not being executed in
// response to resume and wait requests.
func (s *Session) IsReplaying() bool {
	return s.direction == journal.Reverse || !s.log.AtTail()
}

// WillReplay returns true if resuming in the specified direction would
// replay the log rather than execute the debuggee.
func (s *Session) WillReplay(dir journal.Direction) bool {
	return dir == journal.Reverse || s.IsReplaying()
}

// SetDirection sets the direction of execution for the next Resume().
func (s *Session) SetDirection(dir journal.Direction) {
	s.direction = dir
}

// Direction returns the current direction of execution.
func (s *Session) Direction() journal.Direction {
	return s.direction
}

// Interrupt a replay or a live continue. The request is narrowed to a single
// step, meaning that it stops at the next instruction boundary. Safe to call
// from any goroutine.
//
// The interrupt applies to the request started by the most recent call to
// Resume().
func (s *Session) Interrupt() {
	s.interrupt.Store(true)
}

// Pending returns a channel that receives when a replay request is waiting
// for Wait() to be called.
func (s *Session) Pending() <-chan struct{} {
	return s.pending
}

// SetCapacity changes the maximum number of instructions in the log. The
// oldest instructions are discarded immediately if necessary. A value of zero
// is unlimited.
func (s *Session) SetCapacity(capacity int) {
	before := s.log.Held()
	s.log.SetCapacity(capacity)
	if n := before - s.log.Held(); n > 0 {
		logger.Logf(logger.Allow, "record", "capacity reduced to %d: %d instructions deleted", capacity, n)
	}
}

// Capacity returns the maximum number of instructions in the log.
func (s *Session) Capacity() int {
	return s.log.Capacity()
}

// Log returns the underlying execution log. It should not be modified.
func (s *Session) Log() *journal.Log {
	return s.log
}

// Graph writes a graphviz representation of the log around the cursor.
func (s *Session) Graph(w io.Writer, limit int) {
	s.log.Graph(w, limit)
}

func (s *Session) String() string {
	mode := "recording"
	if s.IsReplaying() {
		mode = "replaying"
	}
	return fmt.Sprintf("%s (%s) at %d", mode, s.direction, s.log.SequenceAt(s.log.Cursor()))
}
