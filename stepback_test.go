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

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/stepback/modalflag"
	"github.com/jetsetilly/stepback/test"
)

// LDA #1; LDA #2; LDA #3; BRK
var counting = []byte{0xa9, 0x01, 0xa9, 0x02, 0xa9, 0x03, 0x00}

func launchArgs(t *testing.T, input string, args ...string) (int, []string) {
	t.Helper()

	out := &strings.Builder{}
	md := &modalflag.Modes{Output: out}
	md.NewArgs(args)

	ret := launch(md, strings.NewReader(input), out)

	return ret, strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestRunAndReplay(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	prog := filepath.Join(dir, "counting.bin")
	test.DemandSuccess(t, os.WriteFile(prog, counting, 0o600))
	rec := filepath.Join(dir, "counting.rec")

	ret, out := launchArgs(t, "", "RUN", "--save", rec, prog)
	test.ExpectEquality(t, ret, 0)
	test.ExpectEquality(t, len(out), 3)
	test.ExpectEquality(t, out[0], "exited at 0x1006 after 4 instructions")
	test.ExpectEquality(t, out[2], "recording saved to "+rec)

	ret, out = launchArgs(t, "RECORD INFO\nCONTINUE\n", "REPLAY", rec)
	test.ExpectEquality(t, ret, 0)
	test.ExpectEquality(t, strings.Join(out, "\n"), strings.Join([]string{
		"Replay mode:",
		"Lowest recorded instruction number is 1.",
		"Current instruction number is 0.",
		"Highest recorded instruction number is 4.",
		"Log contains 4 instructions.",
		"Max logged instructions is 200000.",
		"No more reverse-execution history.",
		"0x1006: BRK",
	}, "\n"))
}

func TestDebugMode(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	prog := filepath.Join(dir, "counting.bin")
	test.DemandSuccess(t, os.WriteFile(prog, counting, 0o600))

	ret, out := launchArgs(t, "STEP\nREGS\n", "DEBUG", "--origin", "0x2000", prog)
	test.ExpectEquality(t, ret, 0)
	test.ExpectEquality(t, out[0], "0x2002: LDA #$02")
	test.ExpectEquality(t, out[1], "A=01 X=00 Y=00 SP=ff P=24 PC=2002")

	// flags belong to a mode. DEBUG is the default mode
	ret, _ = launchArgs(t, "STEP\nSTEP\nRECORD INFO\n", "--prefs", "record.insnMax::2", prog)
	test.ExpectEquality(t, ret, 10)

	ret, out = launchArgs(t, "STEP\nSTEP\nRECORD INFO\n", prog)
	test.ExpectEquality(t, ret, 0)
	test.ExpectEquality(t, out[6], "Max logged instructions is 200000.")

	ret, out = launchArgs(t, "STEP\nSTEP\nRECORD INFO\n", "DEBUG", "--prefs", "record.insnMax::2", prog)
	test.ExpectEquality(t, ret, 0)
	test.ExpectEquality(t, out[5], "Log contains 2 instructions.")
	test.ExpectEquality(t, out[6], "Max logged instructions is 2.")

	ret, out = launchArgs(t, "", "DEBUG")
	test.ExpectEquality(t, ret, 20)
	test.ExpectEquality(t, out[0], "* error in DEBUG mode: a single program file is required for DEBUG mode")

	ret, _ = launchArgs(t, "", "DEBUG", "--origin", "0x10000", prog)
	test.ExpectEquality(t, ret, 20)
}

func TestVersionMode(t *testing.T) {
	ret, out := launchArgs(t, "", "VERSION")
	test.ExpectEquality(t, ret, 0)
	test.ExpectEquality(t, len(out), 1)
	test.ExpectSuccess(t, strings.HasPrefix(out[0], "Stepback "))
}
