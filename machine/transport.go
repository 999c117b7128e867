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

package machine

import (
	"context"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/target"
)

// HasExited is returned by Resume() if the program has already finished.
const HasExited = "machine: program has exited"

// Resume implements the target.Transport interface. The 6502 has no signal
// handlers so a delivered signal is noted but has no effect on execution.
func (m *Machine) Resume(step bool, sig target.Signal) error {
	if m.exited {
		return curated.Errorf(HasExited)
	}
	if sig != target.SignalNone {
		m.delivered = sig
		logger.Logf(logger.Allow, "machine", "delivered %s at %#04x", sig, m.regs.PC)
	}
	m.step = step
	m.resumed = true
	return nil
}

// Raise a signal. Execution stops before the next instruction and the signal
// is reported by Wait(). Safe to call from any goroutine.
func (m *Machine) Raise(sig target.Signal) {
	select {
	case m.raised <- sig:
	default:
		logger.Logf(logger.Allow, "machine", "dropped %s: too many pending signals", sig)
	}
}

// SoftwareSingleStep implements the target.SoftwareSingleStepper interface.
// Temporary breakpoints are inserted at every possible successor of the
// current instruction. The caller should then resume without stepping.
func (m *Machine) SoftwareSingleStep() error {
	if !m.softwareStep {
		return curated.Errorf(NotSupported, "software single step")
	}
	defn, err := m.decode()
	if err != nil {
		return err
	}
	for _, a := range m.successors(defn) {
		m.tempBreakpoints[a] = true
	}
	return nil
}

func (m *Machine) clearTemporaryBreakpoints() {
	clear(m.tempBreakpoints)
}

func (m *Machine) stop(kind target.StopKind, sig target.Signal) target.Status {
	m.clearTemporaryBreakpoints()
	return target.Status{
		Kind:   kind,
		Signal: sig,
		PC:     uint64(m.regs.PC),
	}
}

// Wait implements the target.Transport interface.
func (m *Machine) Wait(ctx context.Context) (target.Status, error) {
	if !m.resumed {
		return target.Status{}, curated.Errorf(NotResumed)
	}
	m.resumed = false

	if m.exited {
		return m.stop(target.Exited, target.SignalNone), nil
	}

	for {
		select {
		case sig := <-m.raised:
			return m.stop(target.Stopped, sig), nil
		default:
		}

		if ctx.Err() != nil {
			return m.stop(target.Stopped, target.SignalInt), nil
		}

		defn, err := m.decode()
		if err != nil {
			logger.Log(logger.Allow, "machine", err)
			return m.stop(target.Stopped, target.SignalIll), nil
		}

		if defn.Mnemonic == "BRK" {
			m.exited = true
			return m.stop(target.Exited, target.SignalNone), nil
		}

		m.execute(defn)

		if m.step {
			return m.stop(target.Stopped, target.SignalTrap), nil
		}

		if m.breakpoints[uint64(m.regs.PC)] {
			st := m.stop(target.Stopped, target.SignalTrap)
			st.Breakpoint = true
			return st, nil
		}

		if m.tempBreakpoints[m.regs.PC] {
			return m.stop(target.Stopped, target.SignalTrap), nil
		}
	}
}
