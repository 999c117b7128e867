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
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/debugger/commandline"
	"github.com/jetsetilly/stepback/debugger/terminal"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/machine"
	"github.com/jetsetilly/stepback/record"
	"github.com/jetsetilly/stepback/target"
)

// Debugger is the basic debugging frontend for the machine.
type Debugger struct {
	m       *machine.Machine
	session *record.Session

	// interface to the user
	term terminal.Terminal

	// the validated command table
	cmds *commandline.Commands

	breakpoints *breakpoints
	watches     *watches

	// signal to be delivered on the next resume of the machine. set when the
	// machine stops with a signal that should be passed on to the program
	signal target.Signal

	// true while the machine is running or the log is being replayed. the
	// interrupt handler only forwards interrupts while running
	running atomic.Bool

	// the user has asked to quit
	quit bool

	// name of the program being debugged. used when generating filenames
	ProgramName string
}

// NewDebugger creates and initialises everything required for a new debugging
// session. The record session is opened immediately. Use the Start() method
// to actually begin the session.
func NewDebugger(m *machine.Machine, term terminal.Terminal, p *record.Preferences) (*Debugger, error) {
	dbg := &Debugger{
		m:           m,
		term:        term,
		breakpoints: newBreakpoints(),
		watches:     newWatches(),
	}

	var err error

	dbg.session, err = record.Open(m, dbg, term.TermQuery, p)
	if err != nil {
		return nil, curated.Errorf("debugger: %v", err)
	}

	dbg.cmds, err = commandline.NewCommands(commandTemplate()...)
	if err != nil {
		return nil, curated.Errorf("debugger: %v", err)
	}

	return dbg, nil
}

// BreakpointAt implements the record.Predicate interface.
func (dbg *Debugger) BreakpointAt(addressSpace int, addr uint64) bool {
	return addressSpace == 0 && dbg.breakpoints.at(addr)
}

// WatchpointOver implements the record.Predicate interface.
func (dbg *Debugger) WatchpointOver(addressSpace int, addr uint64, length int) bool {
	return addressSpace == 0 && dbg.watches.over(addr, length)
}

// Session returns the record session used by the debugger.
func (dbg *Debugger) Session() *record.Session {
	return dbg.session
}

// Start the main debugger sequence. Returns when the user quits, when the
// input is exhausted or when the context is cancelled.
func (dbg *Debugger) Start(ctx context.Context) error {
	err := dbg.term.Initialise()
	if err != nil {
		return curated.Errorf("debugger: %v", err)
	}
	defer dbg.term.CleanUp()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// interrupts stop a running machine. they are ignored at the prompt
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	go func() {
		for {
			select {
			case <-intChan:
				if dbg.running.Load() {
					dbg.session.Interrupt()
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	err = dbg.inputLoop(ctx)

	if cerr := dbg.session.Close(); cerr != nil && err == nil {
		err = curated.Errorf("debugger: %v", cerr)
	}

	return err
}

// inputLoop reads and processes commands until the user quits.
func (dbg *Debugger) inputLoop(ctx context.Context) error {
	for !dbg.quit {
		if ctx.Err() != nil {
			return nil
		}

		input, err := dbg.term.TermRead(dbg.prompt())
		if err != nil {
			if curated.Is(err, terminal.UserQuit) {
				return nil
			}
			return curated.Errorf("debugger: %v", err)
		}

		dbg.printLine(terminal.StyleEcho, "%s", input)

		err = dbg.parseInput(ctx, input)
		if err != nil {
			dbg.printLine(terminal.StyleError, "%s", err)
		}
	}

	return nil
}

// parseInput splits the input into individual commands. each command is
// validated and then processed. processing stops at the first error.
func (dbg *Debugger) parseInput(ctx context.Context, input string) error {
	// comments
	if i := strings.Index(input, "#"); i >= 0 {
		input = input[:i]
	}

	for _, cmd := range strings.Split(input, ";") {
		tokens := commandline.TokeniseInput(cmd)
		if tokens.Remaining() == 0 {
			continue
		}

		if err := dbg.cmds.ValidateTokens(tokens); err != nil {
			return err
		}

		if err := dbg.processTokens(ctx, tokens); err != nil {
			return err
		}

		if dbg.quit {
			break
		}
	}

	return nil
}

// prompt describes the current position of the machine.
func (dbg *Debugger) prompt() terminal.Prompt {
	pc := dbg.m.PC()
	p := terminal.Prompt{
		PC:        pc,
		Replaying: dbg.session.IsReplaying(),
		Reverse:   dbg.session.Direction() == journal.Reverse,
	}

	if s, err := mos6502.Disassemble(dbg.m, uint16(pc)); err == nil {
		p.Content = s
	} else {
		logger.Log(logger.Allow, "debugger", err)
	}

	return p
}
