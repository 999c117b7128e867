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
	"context"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/target"
)

// exchange moves the cursor one instruction in the direction, exchanging
// every entry of the instruction with the state of the debuggee.
//
// Returns false if there is no history in the direction. The watch return
// value is true if memory covered by a watchpoint was changed.
//
// If an error is returned the entries already exchanged are exchanged again,
// leaving the debuggee, the log and the cursor as they were.
func (s *Session) exchange(dir journal.Direction) (moved bool, watch bool, err error) {
	span, dest, ok := s.log.Span(dir)
	if !ok {
		return false, false, nil
	}

	defer s.disable()()

	for i, h := range span {
		e := s.log.Entry(h)

		err := journal.ApplyAndSwap(e, s.tr)
		if err != nil {
			if curated.Is(err, journal.InaccessibleMemory) {
				logger.Log(logger.Allow, "record", err)
				continue // for loop
			}

			for j := i - 1; j >= 0; j-- {
				if rerr := journal.ApplyAndSwap(s.log.Entry(span[j]), s.tr); rerr != nil {
					logger.Log(logger.Allow, "record", rerr)
				}
			}
			return false, false, err
		}

		if e.Kind == journal.KindMemory && s.predicate != nil {
			if s.predicate.WatchpointOver(0, e.Address, len(e.Value)) {
				watch = true
			}
		}
	}

	s.log.SetCursor(dest)

	return true, watch, nil
}

// replay the log in the current direction until a stop condition is met.
// The debuggee is never executed.
func (s *Session) replay(ctx context.Context, step bool) (target.Status, error) {
	dir := s.direction

	for {
		moved, watch, err := s.exchange(dir)
		if err != nil {
			return s.replayStatus(target.Stopped, false, false, false), err
		}

		if !moved {
			return s.replayStatus(target.NoHistory, false, false, false), nil
		}

		// a reverse continue stops at the beginning of the log without
		// considering the stop conditions. a reverse step is allowed to
		// arrive at the beginning of the log normally
		if dir == journal.Reverse && !step && s.log.Cursor() == journal.Sentinel {
			return s.replayStatus(target.NoHistory, false, false, false), nil
		}

		bp := s.predicate != nil && s.predicate.BreakpointAt(0, s.tr.PC())
		interrupted := s.interrupt.Swap(false) || ctx.Err() != nil

		sig := target.SignalNone
		if s.log.Cursor() != journal.Sentinel {
			sig = s.log.Entry(s.log.Cursor()).Signal
		}

		if step || bp || watch || interrupted || sig != target.SignalNone {
			return s.replayStatus(target.Stopped, bp, watch, interrupted), nil
		}
	}
}

// replayStatus creates the status for the current position in the log.
func (s *Session) replayStatus(kind target.StopKind, bp bool, watch bool, interrupted bool) target.Status {
	st := target.Status{
		Kind:       kind,
		PC:         s.tr.PC(),
		Breakpoint: bp,
		Watchpoint: watch,
	}

	if kind != target.Stopped {
		return st
	}

	switch {
	case interrupted:
		st.Signal = target.SignalInt
	case s.log.Cursor() != journal.Sentinel && s.log.Entry(s.log.Cursor()).Signal != target.SignalNone:
		st.Signal = s.log.Entry(s.log.Cursor()).Signal
	default:
		st.Signal = target.SignalTrap
	}

	return st
}
