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

package debugger_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/debugger"
	"github.com/jetsetilly/stepback/debugger/terminal"
	"github.com/jetsetilly/stepback/machine"
	"github.com/jetsetilly/stepback/record"
	"github.com/jetsetilly/stepback/test"
)

const origin = 0x1000

// LDA #1; LDA #2; LDA #3; BRK
var counting = []byte{
	0xa9, 0x01,
	0xa9, 0x02,
	0xa9, 0x03,
	0x00,
}

// adds five to the accumulator three times and stores the result
var loop = []byte{
	0xa2, 0x03, // LDX #3
	0xa9, 0x00, // LDA #0
	0x18,       // CLC
	0x69, 0x05, // ADC #5
	0xca,       // DEX
	0xd0, 0xfa, // BNE $1004
	0x8d, 0x00, 0x02, // STA $0200
	0x00, // BRK
}

// mockTerm reads input from a script and keeps a copy of everything that is
// printed, except for echoed input.
type mockTerm struct {
	t      *testing.T
	inp    []string
	output []string

	// answer to every question
	answer    bool
	questions []string
}

func newMockTerm(t *testing.T, input ...string) *mockTerm {
	return &mockTerm{
		t:      t,
		inp:    input,
		answer: true,
	}
}

func (trm *mockTerm) Initialise() error {
	return nil
}

func (trm *mockTerm) CleanUp() {
}

func (trm *mockTerm) Silence(silenced bool) {
}

func (trm *mockTerm) TermRead(_ terminal.Prompt) (string, error) {
	if len(trm.inp) == 0 {
		return "", curated.Errorf(terminal.UserQuit)
	}
	s := trm.inp[0]
	trm.inp = trm.inp[1:]
	return s, nil
}

func (trm *mockTerm) TermQuery(question string) bool {
	trm.questions = append(trm.questions, question)
	return trm.answer
}

func (trm *mockTerm) IsInteractive() bool {
	return false
}

func (trm *mockTerm) TermPrintLine(sty terminal.Style, s string) {
	if sty == terminal.StyleEcho {
		return
	}
	trm.output = append(trm.output, s)
}

// cmpOutput compares the entire output of the terminal.
func (trm *mockTerm) cmpOutput(expected ...string) {
	trm.t.Helper()
	test.ExpectEquality(trm.t, strings.Join(trm.output, "\n"), strings.Join(expected, "\n"))
}

// lastLine returns the most recent line of output.
func (trm *mockTerm) lastLine() string {
	if len(trm.output) == 0 {
		return ""
	}
	return trm.output[len(trm.output)-1]
}

func newDebugger(t *testing.T, program []byte, trm *mockTerm) (*debugger.Debugger, *machine.Machine) {
	t.Helper()

	m := machine.NewMachine()
	test.DemandSuccess(t, m.Load(program, origin))

	p, err := record.NewPreferences("")
	test.DemandSuccess(t, err)

	dbg, err := debugger.NewDebugger(m, trm, p)
	test.DemandSuccess(t, err)

	return dbg, m
}

// runScript runs the debugger until the input is exhausted.
func runScript(t *testing.T, program []byte, input ...string) (*mockTerm, *machine.Machine) {
	t.Helper()

	trm := newMockTerm(t, input...)
	dbg, m := newDebugger(t, program, trm)
	test.ExpectSuccess(t, dbg.Start(context.Background()))

	return trm, m
}

func TestStepping(t *testing.T) {
	trm, _ := runScript(t, counting,
		"STEP",
		"step",
		"RSTEP",
		"REGS",
		"RCONTINUE",
		"CONTINUE",
		"CONTINUE",
	)

	trm.cmpOutput(
		"0x1002: LDA #$02",
		"0x1004: LDA #$03",
		"0x1002: LDA #$02",
		"A=01 X=00 Y=00 SP=ff P=24 PC=1002",
		debugger.NoMoreHistory,
		"0x1000: LDA #$01",
		debugger.NoMoreHistory,
		"0x1004: LDA #$03",
		"program exited at 0x1006",
	)
}

func TestMultipleCommands(t *testing.T) {
	trm, m := runScript(t, counting,
		"STEP; STEP # and a comment",
		"QUIT; STEP",
		"STEP",
	)

	trm.cmpOutput(
		"0x1002: LDA #$02",
		"0x1004: LDA #$03",
	)
	test.ExpectEquality(t, m.PC(), uint64(0x1004))
}

func TestBadCommands(t *testing.T) {
	trm, _ := runScript(t, counting,
		"FOO",
		"STEP 10",
		"PEEK",
		"PEEK foo",
		"DROP",
		"SETREG Q 1",
		"SETREG A 0x100",
	)

	trm.cmpOutput(
		"unrecognised command (FOO)",
		"too many arguments for STEP",
		"missing address argument for PEEK",
		"numeric argument required (foo is not numeric)",
		"missing required argument for DROP",
		"unknown register (Q)",
		"value 0x100 is too large for A",
	)
}

func TestHelp(t *testing.T) {
	trm, _ := runScript(t, counting, "HELP STEP", "HELP NOSUCH")

	test.ExpectEquality(t, trm.output[0], debugger.Help[debugger.KeywordStep])
	test.ExpectEquality(t, trm.output[1], "")
	test.ExpectEquality(t, trm.output[2], "  Usage: STEP")
	test.ExpectEquality(t, trm.lastLine(), "no help for NOSUCH")
}

func TestMemoryAndRegisters(t *testing.T) {
	trm, m := runScript(t, counting,
		"POKE $0300 $aa",
		"PEEK $0300 2",
		"SETREG x 0x42",
		"STEP",
		"RSTEP",
		"RSTEP",
		"RSTEP",
		"PEEK 0x300",
	)

	trm.cmpOutput(
		"0x300 <- 0xaa",
		"0x300: aa 00",
		"A=00 X=42 Y=00 SP=ff P=24 PC=1000",
		"0x1002: LDA #$02",
		"0x1000: LDA #$01",
		"0x1000: LDA #$01",
		"0x1000: LDA #$01",
		"0x300: 00",
	)

	// stepping back over the register write
	test.ExpectEquality(t, m.String(), "A=00 X=00 Y=00 SP=ff P=24 PC=1000")
	test.ExpectEquality(t, len(trm.questions), 0)
}

func TestWriteWhileReplaying(t *testing.T) {
	trm := newMockTerm(t, "STEP", "STEP", "RSTEP", "POKE $0300 1", "RECORD INFO")
	trm.answer = false
	dbg, m := newDebugger(t, counting, trm)
	test.ExpectSuccess(t, dbg.Start(context.Background()))

	test.ExpectEquality(t, len(trm.questions), 1)
	test.ExpectEquality(t, trm.output[3], "journal: cancelled by user")
	test.ExpectEquality(t, trm.output[4], "Replay mode:")
	test.ExpectEquality(t, m.PC(), uint64(0x1002))

	trm = newMockTerm(t, "STEP", "STEP", "RSTEP", "POKE $0300 1", "RECORD INFO")
	dbg, m = newDebugger(t, counting, trm)
	test.ExpectSuccess(t, dbg.Start(context.Background()))

	test.ExpectEquality(t, len(trm.questions), 1)
	test.ExpectEquality(t, trm.output[3], "0x300 <- 0x01")
	test.ExpectEquality(t, trm.output[4], "Record mode:")
	test.ExpectEquality(t, m.PC(), uint64(0x1002))
}

func TestSignal(t *testing.T) {
	trm, m := runScript(t, counting, "SIGNAL 1", "STEP")

	test.ExpectEquality(t, trm.output[0], "SIGHUP will be delivered on resume")
	test.ExpectEquality(t, m.Delivered().String(), "SIGHUP")
}

func TestRecordCommands(t *testing.T) {
	trm, _ := runScript(t, counting,
		"STEP", "STEP", "STEP",
		"RECORD INFO",
		"RECORD GOTO 1",
		"RECORD BOOKMARK",
		"RECORD BEGIN",
		"RECORD BOOKMARK '1'",
		"RECORD GOTO 1",
		"RECORD LIMIT 0",
		"RECORD COMPRESSION ZSTD",
		"RECORD COMPRESSION rar",
		"RECORD STOP",
		"RECORD END",
	)

	trm.cmpOutput(
		"0x1002: LDA #$02",
		"0x1004: LDA #$03",
		"0x1006: BRK",
		"Record mode:",
		"Lowest recorded instruction number is 1.",
		"Highest recorded instruction number is 3.",
		"Log contains 3 instructions.",
		"Max logged instructions is 200000.",
		"0x1002: LDA #$02",
		"bookmark: 1",
		"0x1000: LDA #$01",
		"0x1002: LDA #$02",
		"record: already at target insn",
		"record limit is unlimited",
		"record compression is zstd",
		"record: unknown compression (rar)",
		"0x1006: BRK",
		"record: already at target insn",
	)
}

func TestRecordSaveRestore(t *testing.T) {
	fn := t.TempDir() + "/counting.rec"

	trm, _ := runScript(t, counting,
		"STEP", "STEP",
		"RECORD SAVE "+fn,
	)
	test.ExpectEquality(t, trm.lastLine(), "Saved recording to "+fn+".")

	trm, m := runScript(t, counting,
		"RECORD RESTORE "+fn,
		"RECORD INFO",
	)
	test.ExpectEquality(t, trm.output[0], "Restored recording from "+fn+".")
	test.ExpectEquality(t, m.PC(), uint64(0x1004))
	test.ExpectEquality(t, trm.output[3], "Lowest recorded instruction number is 1.")
}

func TestInfo(t *testing.T) {
	trm, m := runScript(t, counting, "INFO DIGEST", "INFO MACHINE")

	test.ExpectEquality(t, trm.output[0], m.Digest())
	test.ExpectEquality(t, trm.output[1], "A=00 X=00 Y=00 SP=ff P=24 PC=1000")
	test.ExpectEquality(t, trm.output[2], "cycles: 0")
	test.ExpectEquality(t, trm.output[3], "recording (forward) at 0")
}

func TestRecordSaveUniqueFilename(t *testing.T) {
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	trm := newMockTerm(t, "STEP", "RECORD SAVE")
	dbg, _ := newDebugger(t, counting, trm)
	dbg.ProgramName = "counting"
	test.ExpectSuccess(t, dbg.Start(context.Background()))

	fn, ok := strings.CutPrefix(trm.lastLine(), "Saved recording to ")
	test.DemandSuccess(t, ok)
	test.ExpectSuccess(t, strings.HasPrefix(fn, "recording_counting_"))
	test.ExpectSuccess(t, strings.HasSuffix(fn, ".rec."))

	_, err = os.Stat(strings.TrimSuffix(fn, "."))
	test.ExpectSuccess(t, err)
}
