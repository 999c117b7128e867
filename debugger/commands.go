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
	"fmt"
	"os"
	"strings"

	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/debugger/commandline"
	"github.com/jetsetilly/stepback/debugger/terminal"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/paths"
	"github.com/jetsetilly/stepback/target"
)

// Sentinel error patterns for command processing.
const (
	ValueTooLarge   = "value %#x is too large for %s"
	UnknownRegister = "unknown register (%s)"
)

// debugger keywords.
const (
	KeywordHelp      = "HELP"
	KeywordQuit      = "QUIT"
	KeywordStep      = "STEP"
	KeywordRStep     = "RSTEP"
	KeywordContinue  = "CONTINUE"
	KeywordRContinue = "RCONTINUE"
	KeywordBreak     = "BREAK"
	KeywordWatch     = "WATCH"
	KeywordDrop      = "DROP"
	KeywordList      = "LIST"
	KeywordRegs      = "REGS"
	KeywordPeek      = "PEEK"
	KeywordPoke      = "POKE"
	KeywordSetReg    = "SETREG"
	KeywordSignal    = "SIGNAL"
	KeywordRecord    = "RECORD"
	KeywordInfo      = "INFO"
)

// Help contains the help text for the debugger's top level commands.
var Help = map[string]string{
	KeywordHelp:      "Lists commands and provides help for individual debugger commands",
	KeywordQuit:      "Exits the debugger",
	KeywordStep:      "Execute a single instruction. Replays the next instruction if the log is being replayed",
	KeywordRStep:     "Step backwards by a single instruction",
	KeywordContinue:  "Run until a breakpoint or watch is triggered or until the end of the log",
	KeywordRContinue: "Run backwards until a breakpoint or watch is triggered or until the beginning of the log",
	KeywordBreak:     "Halt execution when the program counter reaches the address",
	KeywordWatch:     "Halt execution when an instruction changes memory in the range",
	KeywordDrop:      "Drop a specific BREAK or WATCH, using the number reported by LIST",
	KeywordList:      "List current entries for BREAKS and WATCHES",
	KeywordRegs:      "Display the registers of the machine",
	KeywordPeek:      "Inspect memory",
	KeywordPoke:      "Modify a single byte of memory",
	KeywordSetReg:    "Modify a register",
	KeywordSignal:    "Deliver a signal to the program on the next resume",
	KeywordRecord:    "Navigate, inspect, save and restore the execution log",
	KeywordInfo:      "Display information about the debugger and the machine",
}

func commandTemplate() []*commandline.Command {
	cmds := []*commandline.Command{
		{Keyword: KeywordHelp, Args: []commandline.Arg{{Label: "command", Placeholder: commandline.PlaceholderString, Optional: true}}},
		{Keyword: KeywordQuit},
		{Keyword: KeywordStep},
		{Keyword: KeywordRStep},
		{Keyword: KeywordContinue},
		{Keyword: KeywordRContinue},
		{Keyword: KeywordBreak, Args: []commandline.Arg{{Label: "address", Placeholder: commandline.PlaceholderNumber}}},
		{Keyword: KeywordWatch, Args: []commandline.Arg{
			{Label: "address", Placeholder: commandline.PlaceholderNumber},
			{Label: "length", Placeholder: commandline.PlaceholderNumber, Optional: true},
		}},
		{Keyword: KeywordDrop, Sub: []*commandline.Command{
			{Keyword: "BREAK", Args: []commandline.Arg{{Label: "n", Placeholder: commandline.PlaceholderInt}}},
			{Keyword: "WATCH", Args: []commandline.Arg{{Label: "n", Placeholder: commandline.PlaceholderInt}}},
		}},
		{Keyword: KeywordList, SubOptional: true, Sub: []*commandline.Command{
			{Keyword: "BREAKS"},
			{Keyword: "WATCHES"},
		}},
		{Keyword: KeywordRegs},
		{Keyword: KeywordPeek, Args: []commandline.Arg{
			{Label: "address", Placeholder: commandline.PlaceholderNumber},
			{Label: "length", Placeholder: commandline.PlaceholderNumber, Optional: true},
		}},
		{Keyword: KeywordPoke, Args: []commandline.Arg{
			{Label: "address", Placeholder: commandline.PlaceholderNumber},
			{Label: "value", Placeholder: commandline.PlaceholderNumber},
		}},
		{Keyword: KeywordSetReg, Args: []commandline.Arg{
			{Label: "register", Placeholder: commandline.PlaceholderString},
			{Label: "value", Placeholder: commandline.PlaceholderNumber},
		}},
		{Keyword: KeywordSignal, Args: []commandline.Arg{{Label: "number", Placeholder: commandline.PlaceholderNumber}}},
		{Keyword: KeywordRecord, Sub: []*commandline.Command{
			{Keyword: "INFO"},
			{Keyword: "BEGIN"},
			{Keyword: "END"},
			{Keyword: "GOTO", Args: []commandline.Arg{{Label: "insn", Placeholder: commandline.PlaceholderNumber}}},
			{Keyword: "STOP"},
			{Keyword: "DELETE"},
			{Keyword: "BOOKMARK", Args: []commandline.Arg{{Label: "bookmark", Placeholder: commandline.PlaceholderString, Optional: true}}},
			{Keyword: "INSN", Args: []commandline.Arg{{Label: "offset", Placeholder: commandline.PlaceholderInt, Optional: true}}},
			{Keyword: "SAVE", Args: []commandline.Arg{{Label: "file", Placeholder: commandline.PlaceholderFile, Optional: true}}},
			{Keyword: "RESTORE", Args: []commandline.Arg{{Label: "file", Placeholder: commandline.PlaceholderFile}}},
			{Keyword: "GRAPH", Args: []commandline.Arg{{Label: "file", Placeholder: commandline.PlaceholderFile, Optional: true}}},
			{Keyword: "LIMIT", Args: []commandline.Arg{{Label: "insns", Placeholder: commandline.PlaceholderInt, Optional: true}}},
			{Keyword: "COMPRESSION", Args: []commandline.Arg{{Label: "type", Placeholder: commandline.PlaceholderString, Optional: true}}},
		}},
		{Keyword: KeywordInfo, Sub: []*commandline.Command{
			{Keyword: "DIGEST"},
			{Keyword: "MACHINE"},
			{Keyword: "LOG"},
			{Keyword: "PREFS"},
		}},
	}

	for _, c := range cmds {
		c.Help = Help[c.Keyword]
	}

	return cmds
}

// number of instructions either side of the cursor shown by RECORD GRAPH.
const graphLimit = 10

// number of log entries shown by INFO LOG.
const logTail = 20

// processTokens executes a validated command.
func (dbg *Debugger) processTokens(ctx context.Context, tokens *commandline.Tokens) error {
	command, _ := tokens.Get()
	command = strings.ToUpper(command)

	switch command {
	case KeywordHelp:
		keyword, ok := tokens.Get()
		if ok {
			dbg.printLine(terminal.StyleHelp, dbg.cmds.Help(keyword))
		} else {
			dbg.printLine(terminal.StyleHelp, dbg.cmds.HelpOverview())
		}

	case KeywordQuit:
		dbg.quit = true

	case KeywordStep:
		return dbg.run(ctx, true, journal.Forward)

	case KeywordRStep:
		return dbg.run(ctx, true, journal.Reverse)

	case KeywordContinue:
		return dbg.run(ctx, false, journal.Forward)

	case KeywordRContinue:
		return dbg.run(ctx, false, journal.Reverse)

	case KeywordBreak:
		tok, _ := tokens.Get()
		addr, _ := commandline.ParseNumber(tok)
		if err := dbg.breakpoints.add(addr); err != nil {
			return err
		}
		if err := dbg.session.InsertBreakpoint(target.Breakpoint{Address: addr}); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "breakpoint at %#04x", addr)

	case KeywordWatch:
		tok, _ := tokens.Get()
		addr, _ := commandline.ParseNumber(tok)
		length := uint64(1)
		if tok, ok := tokens.Get(); ok {
			length, _ = commandline.ParseNumber(tok)
		}
		if length == 0 || length > 0x10000 {
			return curated.Errorf(ValueTooLarge, length, "watch length")
		}
		if err := dbg.watches.add(addr, int(length)); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "watch at %s", watcher{address: addr, length: int(length)})

	case KeywordDrop:
		drop, _ := tokens.Get()
		tok, _ := tokens.Get()
		num, _ := commandline.ParseInt(tok)

		switch strings.ToUpper(drop) {
		case "BREAK":
			addr, err := dbg.breakpoints.drop(num)
			if err != nil {
				return err
			}
			if err := dbg.session.RemoveBreakpoint(target.Breakpoint{Address: addr}); err != nil {
				return err
			}
			dbg.printLine(terminal.StyleFeedback, "breakpoint #%d dropped", num)
		case "WATCH":
			if err := dbg.watches.drop(num); err != nil {
				return err
			}
			dbg.printLine(terminal.StyleFeedback, "watch #%d dropped", num)
		}

	case KeywordList:
		list, ok := tokens.Get()
		list = strings.ToUpper(list)
		if !ok || list == "BREAKS" {
			dbg.printLine(terminal.StyleFeedback, "%s", strings.Join(dbg.breakpoints.list(), "\n"))
		}
		if !ok || list == "WATCHES" {
			dbg.printLine(terminal.StyleFeedback, "%s", strings.Join(dbg.watches.list(), "\n"))
		}

	case KeywordRegs:
		dbg.printLine(terminal.StyleInstrument, "%s", dbg.m)

	case KeywordPeek:
		tok, _ := tokens.Get()
		addr, _ := commandline.ParseNumber(tok)
		length := uint64(1)
		if tok, ok := tokens.Get(); ok {
			length, _ = commandline.ParseNumber(tok)
		}
		if length == 0 || length > 0x100 {
			return curated.Errorf(ValueTooLarge, length, "peek length")
		}
		buf := make([]byte, length)
		if err := dbg.session.TransferMemory(addr, buf, false); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleInstrument, "%#04x: % x", addr, buf)

	case KeywordPoke:
		tok, _ := tokens.Get()
		addr, _ := commandline.ParseNumber(tok)
		tok, _ = tokens.Get()
		v, _ := commandline.ParseNumber(tok)
		if v > 0xff {
			return curated.Errorf(ValueTooLarge, v, "a byte of memory")
		}
		if err := dbg.session.TransferMemory(addr, []byte{uint8(v)}, true); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "%#04x <- %#02x", addr, v)

	case KeywordSetReg:
		name, _ := tokens.Get()
		name = strings.ToUpper(name)
		tok, _ := tokens.Get()
		v, _ := commandline.ParseNumber(tok)

		regnum, ok := mos6502.RegisterByName(name)
		if !ok {
			return curated.Errorf(UnknownRegister, name)
		}

		width := mos6502.RegisterWidth(regnum)
		if v >= 1<<(8*width) {
			return curated.Errorf(ValueTooLarge, v, name)
		}

		value := make([]byte, width)
		for i := range value {
			value[i] = uint8(v >> (8 * i))
		}
		if err := dbg.session.StoreRegister(regnum, value); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleInstrument, "%s", dbg.m)

	case KeywordSignal:
		tok, _ := tokens.Get()
		n, _ := commandline.ParseNumber(tok)
		if n > 0xffffffff {
			return curated.Errorf(ValueTooLarge, n, "a signal")
		}
		dbg.signal = target.Signal(n)
		dbg.printLine(terminal.StyleFeedback, "%s will be delivered on resume", dbg.signal)

	case KeywordRecord:
		return dbg.processRecord(tokens)

	case KeywordInfo:
		info, _ := tokens.Get()
		switch strings.ToUpper(info) {
		case "DIGEST":
			dbg.printLine(terminal.StyleInstrument, "%s", dbg.m.Digest())
		case "MACHINE":
			dbg.printLine(terminal.StyleInstrument, "%s", dbg.m)
			dbg.printLine(terminal.StyleInstrument, "cycles: %d", dbg.m.Cycles())
			dbg.printLine(terminal.StyleInstrument, "%s", dbg.session)
		case "LOG":
			logger.Tail(dbg.printStyle(terminal.StyleLog), logTail)
		case "PREFS":
			dbg.printLine(terminal.StyleFeedback, "%s", dbg.session.Prefs)
		}
	}

	return nil
}

func (dbg *Debugger) processRecord(tokens *commandline.Tokens) error {
	sub, _ := tokens.Get()

	switch strings.ToUpper(sub) {
	case "INFO":
		dbg.printLine(terminal.StyleFeedback, "%s", dbg.session.Info())
		return nil

	case "BEGIN":
		if err := dbg.session.GotoRecordBegin(); err != nil {
			return err
		}

	case "END":
		if err := dbg.session.GotoRecordEnd(); err != nil {
			return err
		}

	case "GOTO":
		tok, _ := tokens.Get()
		n, _ := commandline.ParseNumber(tok)
		if n > 0xffffffff {
			return curated.Errorf(ValueTooLarge, n, "an instruction number")
		}
		if err := dbg.session.GotoRecord(uint32(n)); err != nil {
			return err
		}

	case "STOP":
		if err := dbg.session.StopReplaying(); err != nil {
			return err
		}

	case "DELETE":
		if err := dbg.session.DeleteRecord(); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "log deleted after current position")
		return nil

	case "BOOKMARK":
		if tokens.IsEnd() {
			dbg.printLine(terminal.StyleFeedback, "bookmark: %s", dbg.session.Bookmark())
			return nil
		}
		if err := dbg.session.GotoBookmark(tokens.Remainder()); err != nil {
			return err
		}

	case "INSN":
		offset := 0
		if tok, ok := tokens.Get(); ok {
			offset, _ = commandline.ParseInt(tok)
		}
		desc, err := dbg.session.DescribeInstruction(offset)
		if err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "%s", strings.Join(desc, "\n"))
		return nil

	case "SAVE":
		fn := fmt.Sprintf("%s.rec", paths.UniqueFilename("recording", dbg.ProgramName))
		if tok, ok := tokens.Get(); ok {
			fn = commandline.Unquote(tok)
		}
		if err := dbg.session.Save(fn); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "Saved recording to %s.", fn)
		return nil

	case "RESTORE":
		tok, _ := tokens.Get()
		fn := commandline.Unquote(tok)
		if err := dbg.session.Restore(fn); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "Restored recording from %s.", fn)

	case "GRAPH":
		tok, ok := tokens.Get()
		if !ok {
			dbg.session.Graph(dbg.printStyle(terminal.StyleFeedback), graphLimit)
			return nil
		}
		fn := commandline.Unquote(tok)
		f, err := os.Create(fn)
		if err != nil {
			return curated.Errorf("debugger: %v", err)
		}
		dbg.session.Graph(f, graphLimit)
		if err := f.Close(); err != nil {
			return curated.Errorf("debugger: %v", err)
		}
		dbg.printLine(terminal.StyleFeedback, "graph written to %s", fn)
		return nil

	case "LIMIT":
		if tok, ok := tokens.Get(); ok {
			n, _ := commandline.ParseInt(tok)
			if n < 0 {
				return curated.Errorf(commandline.NotNumeric, tok)
			}
			if err := dbg.session.Prefs.InsnMax.Set(n); err != nil {
				return err
			}
		}
		if c := dbg.session.Capacity(); c == 0 {
			dbg.printLine(terminal.StyleFeedback, "record limit is unlimited")
		} else {
			dbg.printLine(terminal.StyleFeedback, "record limit is %d instructions", c)
		}
		return nil

	case "COMPRESSION":
		if tok, ok := tokens.Get(); ok {
			if err := dbg.session.Prefs.Compression.Set(strings.ToLower(tok)); err != nil {
				return err
			}
		}
		dbg.printLine(terminal.StyleFeedback, "record compression is %s", dbg.session.Prefs.Compression.String())
		return nil
	}

	dbg.printInstrument()

	return nil
}
