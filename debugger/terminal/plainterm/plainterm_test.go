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

package plainterm_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/debugger/terminal"
	"github.com/jetsetilly/stepback/debugger/terminal/plainterm"
	"github.com/jetsetilly/stepback/test"
)

func TestPlainTerminal(t *testing.T) {
	out := &test.CompareWriter{}
	pt := plainterm.NewPlainTerminal(strings.NewReader("step\r\nrstep\nlast"), out)
	test.DemandSuccess(t, pt.Initialise())
	defer pt.CleanUp()
	test.ExpectEquality(t, pt.IsInteractive(), false)

	for _, expected := range []string{"step", "rstep", "last"} {
		s, err := pt.TermRead(terminal.Prompt{})
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, s, expected)
	}

	_, err := pt.TermRead(terminal.Prompt{})
	test.ExpectSuccess(t, curated.Is(err, terminal.UserQuit))

	// the prompt is not written because the input is not a real terminal
	test.ExpectEquality(t, out.String(), "")

	pt.TermPrintLine(terminal.StyleFeedback, "hello")
	pt.TermPrintLine(terminal.StyleEcho, "echo")
	pt.TermPrintLine(terminal.StyleError, "bad")
	test.ExpectEquality(t, out.String(), "hello\n* bad\n")

	out.Clear()
	pt.Silence(true)
	pt.TermPrintLine(terminal.StyleFeedback, "hello")
	pt.TermPrintLine(terminal.StyleError, "bad")
	test.ExpectEquality(t, out.String(), "* bad\n")
}

func TestQuery(t *testing.T) {
	out := &test.CompareWriter{}
	pt := plainterm.NewPlainTerminal(strings.NewReader("y\nno\nYES\n"), out)

	test.ExpectEquality(t, pt.TermQuery("sure?"), true)
	test.ExpectEquality(t, pt.TermQuery("sure?"), false)
	test.ExpectEquality(t, pt.TermQuery("sure?"), true)

	// no more input
	test.ExpectEquality(t, pt.TermQuery("sure?"), false)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "sure? (y or n) sure? (y or n) "))
}
