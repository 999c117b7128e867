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

	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/target"
)

// Resume execution of the debuggee. If step is true then the debuggee stops
// after one instruction. The signal is delivered to the debuggee before
// execution resumes.
//
// When replaying nothing is executed. The request is noted and fulfilled by
// the next call to Wait(). The signal is ignored when replaying.
//
// An interrupt that arrived after the previous request stopped is discarded.
func (s *Session) Resume(step bool, sig target.Signal) error {
	s.interrupt.Store(false)

	if s.IsReplaying() {
		s.request = &request{step: step}
		select {
		case s.pending <- struct{}{}:
		default:
		}
		return nil
	}

	s.liveStep = step

	if err := s.recordStep(sig); err != nil {
		return err
	}

	if err := s.stepTransport(sig); err != nil {
		s.dropLast()
		return err
	}

	return nil
}

// stepTransport resumes the transport for a single instruction.
func (s *Session) stepTransport(sig target.Signal) error {
	if ss, ok := s.tr.(target.SoftwareSingleStepper); ok {
		if err := ss.SoftwareSingleStep(); err == nil {
			return s.tr.Resume(false, sig)
		}
	}
	return s.tr.Resume(true, sig)
}

// Wait for the debuggee to stop after a call to Resume().
//
// When live, every instruction is recorded before it is executed. Stops that
// are only caused by the single-stepping of the session are not returned to
// the caller. A live wait returns when a breakpoint or watchpoint is hit,
// when the caller asked for a single step, when the session is interrupted
// or when the debuggee stops for any other reason.
//
// When replaying the stop conditions are the same but the changes are
// replayed from the log. A status of target.NoHistory is returned when the
// beginning or the end of the log is reached.
func (s *Session) Wait(ctx context.Context) (target.Status, error) {
	if s.request != nil {
		req := s.request
		s.request = nil
		select {
		case <-s.pending:
		default:
		}
		return s.replay(ctx, req.step)
	}

	return s.waitLive(ctx)
}

func (s *Session) waitLive(ctx context.Context) (target.Status, error) {
	for {
		st, err := s.tr.Wait(ctx)
		if err != nil {
			return st, err
		}

		if st.Kind != target.Stopped || st.Signal != target.SignalTrap {
			return st, nil
		}

		if s.predicate != nil && s.predicate.BreakpointAt(0, st.PC) {
			st.Breakpoint = true
		}
		st.Watchpoint = s.watchedByLastInstruction()

		if s.interrupt.Swap(false) {
			st.Signal = target.SignalInt
			return st, nil
		}

		if s.liveStep || st.Breakpoint || st.Watchpoint {
			return st, nil
		}

		if err := s.recordStep(target.SignalNone); err != nil {
			return st, err
		}
		if err := s.stepTransport(target.SignalNone); err != nil {
			s.dropLast()
			return st, err
		}
	}
}

// watchedByLastInstruction returns true if the most recently recorded
// instruction changed memory covered by a watchpoint.
func (s *Session) watchedByLastInstruction() bool {
	if s.predicate == nil {
		return false
	}

	watch := false
	s.log.Instruction(s.log.Cursor(), func(e *journal.Entry) {
		if e.Kind == journal.KindMemory && s.predicate.WatchpointOver(0, e.Address, len(e.Value)) {
			watch = true
		}
	})

	return watch
}
