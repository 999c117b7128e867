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

// Package plainterm implements the Terminal interface for the stepback
// debugger. It's as simple as simple can be and offers no special features
// except that questions are answered with a single key press when the input
// is a real terminal.
package plainterm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/debugger/terminal"
	pkgterm "github.com/pkg/term"
	"golang.org/x/term"
)

// the device opened in raw mode when asking a question.
const ttyDevice = "/dev/tty"

// PlainTerminal is the default, most basic terminal interface. It keeps the
// terminal in whatever mode it started, probably cooked mode. As such, it
// offers only rudimentary editing facility and little control over output.
type PlainTerminal struct {
	input      *bufio.Reader
	output     io.Writer
	realInput  bool
	realOutput bool
	silenced   bool
}

// NewPlainTerminal creates a PlainTerminal that reads from and writes to the
// specified streams. The streams are never treated as real terminals. Use
// the zero value of PlainTerminal and Initialise() for the standard streams.
func NewPlainTerminal(input io.Reader, output io.Writer) *PlainTerminal {
	return &PlainTerminal{
		input:  bufio.NewReader(input),
		output: output,
	}
}

// Initialise perfoms any setting up required for the terminal.
func (pt *PlainTerminal) Initialise() error {
	if pt.input == nil {
		pt.input = bufio.NewReader(os.Stdin)
		pt.output = os.Stdout
		pt.realInput = term.IsTerminal(int(os.Stdin.Fd()))
		pt.realOutput = term.IsTerminal(int(os.Stdout.Fd()))
	}
	return nil
}

// CleanUp perfoms any cleaning up required for the terminal.
func (pt *PlainTerminal) CleanUp() {
}

// Silence implements the terminal.Terminal interface.
func (pt *PlainTerminal) Silence(silenced bool) {
	pt.silenced = silenced
}

// TermPrintLine implements the terminal.Output interface.
func (pt *PlainTerminal) TermPrintLine(style terminal.Style, s string) {
	if pt.silenced && style != terminal.StyleError {
		return
	}

	// we don't need to echo user input for this type of terminal
	if style == terminal.StyleEcho {
		return
	}

	switch style {
	case terminal.StyleError:
		s = fmt.Sprintf("* %s", s)
	case terminal.StyleLog:
		s = fmt.Sprintf("  %s", s)
	}

	pt.output.Write([]byte(s))
	pt.output.Write([]byte("\n"))
}

// TermRead implements the terminal.Input interface.
func (pt *PlainTerminal) TermRead(prompt terminal.Prompt) (string, error) {
	// insert prompt into output stream
	if pt.realInput && !pt.silenced {
		pt.output.Write([]byte(prompt.String()))
	}

	s, err := pt.input.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if s == "" {
				return "", curated.Errorf(terminal.UserQuit)
			}
		} else {
			return "", err
		}
	}

	return strings.TrimRight(s, "\r\n"), nil
}

// TermQuery implements the terminal.Input interface.
func (pt *PlainTerminal) TermQuery(question string) bool {
	pt.output.Write([]byte(fmt.Sprintf("%s (y or n) ", question)))

	if pt.realInput {
		if answer, err := pt.keypress(); err == nil {
			pt.output.Write([]byte(fmt.Sprintf("%c\n", answer)))
			return answer == 'y' || answer == 'Y'
		}
	}

	s, err := pt.input.ReadString('\n')
	if err != nil && s == "" {
		pt.output.Write([]byte("\n"))
		return false
	}

	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

// keypress waits for a single key press from the controlling terminal.
func (pt *PlainTerminal) keypress() (byte, error) {
	tty, err := pkgterm.Open(ttyDevice, pkgterm.RawMode)
	if err != nil {
		return 0, err
	}
	defer tty.Close()
	defer tty.Restore()

	b := make([]byte, 1)
	if _, err := tty.Read(b); err != nil {
		return 0, err
	}

	return b[0], nil
}

// IsInteractive implements the terminal.Input interface.
func (pt *PlainTerminal) IsInteractive() bool {
	return pt.realInput && pt.realOutput
}
