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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/stepback/debugger"
	"github.com/jetsetilly/stepback/debugger/commandline"
	"github.com/jetsetilly/stepback/debugger/terminal/plainterm"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/machine"
	"github.com/jetsetilly/stepback/modalflag"
	"github.com/jetsetilly/stepback/paths"
	"github.com/jetsetilly/stepback/prefs"
	"github.com/jetsetilly/stepback/record"
	"github.com/jetsetilly/stepback/statsview"
	"github.com/jetsetilly/stepback/target"
	"github.com/jetsetilly/stepback/version"
)

// the default load address for programs.
const defaultOrigin = "0x1000"

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	os.Exit(launch(md, nil, os.Stdout))
}

// launch the mode specified on the command line. the input and output are
// used for the debugger terminal. a nil input means the standard streams.
// returns the exit value for the process.
func launch(md *modalflag.Modes, input io.Reader, output io.Writer) int {
	md.NewMode()
	md.AddSubModes("DEBUG", "REPLAY", "RUN", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "DEBUG":
		err = debug(md, input, output)

	case "REPLAY":
		err = replay(md, input, output)

	case "RUN":
		err = run(md, output)

	case "VERSION":
		fmt.Fprintln(output, version.Get())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// flags common to every mode.
type common struct {
	log       *bool
	prefs     *string
	statsview *string
}

func addCommon(md *modalflag.Modes) common {
	c := common{
		log:   md.AddBool("log", false, "echo debugging log to stdout"),
		prefs: md.AddString("prefs", "", "preferences for this session, eg. \"record.insnMax::1000; record.compression::zstd\""),
	}
	if statsview.Available() {
		c.statsview = md.AddString("statsview", "", fmt.Sprintf("run stats server at address (eg. %s)", statsview.DefaultAddress))
	}
	return c
}

// apply the common flags. returns the preferences for the record session.
func (c common) apply(output io.Writer) (*record.Preferences, error) {
	if *c.log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	if c.statsview != nil && *c.statsview != "" {
		statsview.Launch(output, *c.statsview)
	}

	if *c.prefs != "" {
		prefs.PushCommandLineStack(*c.prefs)
	}

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	return record.NewPreferences(pth)
}

// loadProgram creates a new machine with the program file loaded at the
// origin.
func loadProgram(filename string, origin string) (*machine.Machine, error) {
	org, err := commandline.ParseNumber(origin)
	if err != nil {
		return nil, err
	}
	if org >= machine.MemorySize {
		return nil, fmt.Errorf("origin %#x is out of range", org)
	}

	program, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	m := machine.NewMachine()
	if err := m.Load(program, uint16(org)); err != nil {
		return nil, err
	}

	return m, nil
}

func newTerminal(input io.Reader, output io.Writer) *plainterm.PlainTerminal {
	if input == nil {
		return &plainterm.PlainTerminal{}
	}
	return plainterm.NewPlainTerminal(input, output)
}

func debug(md *modalflag.Modes, input io.Reader, output io.Writer) error {
	md.NewMode()

	origin := md.AddString("origin", defaultOrigin, "load address of the program")
	c := addCommon(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single program file is required for %s mode", md)
	}

	pr, err := c.apply(output)
	if err != nil {
		return err
	}

	m, err := loadProgram(md.GetArg(0), *origin)
	if err != nil {
		return err
	}

	dbg, err := debugger.NewDebugger(m, newTerminal(input, output), pr)
	if err != nil {
		return err
	}
	dbg.ProgramName = strings.TrimSuffix(filepath.Base(md.GetArg(0)), filepath.Ext(md.GetArg(0)))

	return dbg.Start(context.Background())
}

func replay(md *modalflag.Modes, input io.Reader, output io.Writer) error {
	md.NewMode()

	c := addCommon(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single recording file is required for %s mode", md)
	}

	pr, err := c.apply(output)
	if err != nil {
		return err
	}

	// the restored recording replaces the entire state of the machine
	dbg, err := debugger.NewDebugger(machine.NewMachine(), newTerminal(input, output), pr)
	if err != nil {
		return err
	}

	err = dbg.Session().Restore(md.GetArg(0))
	if err != nil {
		return err
	}

	err = dbg.Session().GotoRecordBegin()
	if err != nil {
		return err
	}

	return dbg.Start(context.Background())
}

// run the program to completion while recording. the recording can be saved
// for later replay.
func run(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	origin := md.AddString("origin", defaultOrigin, "load address of the program")
	save := md.AddString("save", "", "save the recording to file")
	c := addCommon(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single program file is required for %s mode", md)
	}

	pr, err := c.apply(output)
	if err != nil {
		return err
	}

	m, err := loadProgram(md.GetArg(0), *origin)
	if err != nil {
		return err
	}

	// no user to ask questions of. the recording is unlimited
	err = pr.InsnMax.Set(0)
	if err != nil {
		return err
	}

	s, err := record.Open(m, nil, nil, pr)
	if err != nil {
		return err
	}
	defer s.Close()

	err = s.Resume(false, target.SignalNone)
	if err != nil {
		return err
	}

	st, err := s.Wait(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%s at %#04x after %d instructions\n", st.Kind, st.PC, s.Info().Held)
	fmt.Fprintf(output, "%s\n", m.Digest())

	if *save != "" {
		err = s.Save(*save)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "recording saved to %s\n", *save)
	}

	return nil
}
