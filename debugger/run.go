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

package debugger

import (
	"context"

	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/debugger/terminal"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/target"
)

// NoMoreHistory is printed when a replay reaches either end of the log.
const NoMoreHistory = "No more reverse-execution history."

// run the machine, or replay the log, in the specified direction. the
// direction is always returned to forward afterwards.
func (dbg *Debugger) run(ctx context.Context, step bool, dir journal.Direction) error {
	dbg.session.SetDirection(dir)
	defer dbg.session.SetDirection(journal.Forward)

	// pending signals are only delivered to a running program
	sig := target.SignalNone
	if !dbg.session.WillReplay(dir) {
		sig = dbg.signal
		dbg.signal = target.SignalNone
	}

	if err := dbg.session.Resume(step, sig); err != nil {
		return err
	}

	// interrupts are forwarded to the session only after the request has
	// started
	dbg.running.Store(true)
	defer dbg.running.Store(false)

	st, err := dbg.session.Wait(ctx)
	if err != nil {
		return err
	}

	logger.Logf(logger.Allow, "debugger", "%s %s at %#04x", st.Kind, st.Signal, st.PC)

	dbg.printStop(st)

	return nil
}

// printStop describes why the machine stopped.
func (dbg *Debugger) printStop(st target.Status) {
	switch st.Kind {
	case target.Exited:
		dbg.printLine(terminal.StyleFeedback, "program exited at %#04x", st.PC)
		return
	case target.NoHistory:
		dbg.printLine(terminal.StyleFeedback, NoMoreHistory)
	}

	switch {
	case st.Breakpoint:
		dbg.printLine(terminal.StyleFeedback, "breakpoint at %#04x", st.PC)
	case st.Watchpoint:
		dbg.printLine(terminal.StyleFeedback, "watchpoint triggered")
	}

	switch st.Signal {
	case target.SignalNone, target.SignalTrap:
	case target.SignalInt:
		dbg.printLine(terminal.StyleFeedback, "interrupted")
	default:
		dbg.printLine(terminal.StyleFeedback, "program received signal %s", st.Signal)

		// the signal is passed to the program when it next runs
		if !dbg.session.IsReplaying() {
			dbg.signal = st.Signal
		}
	}

	dbg.printInstrument()
}

// printInstrument shows the instruction at the program counter.
func (dbg *Debugger) printInstrument() {
	pc := dbg.m.PC()
	s, err := mos6502.Disassemble(dbg.m, uint16(pc))
	if err != nil {
		dbg.printLine(terminal.StyleInstrument, "%#04x: ???", pc)
		return
	}
	dbg.printLine(terminal.StyleInstrument, "%#04x: %s", pc, s)
}
