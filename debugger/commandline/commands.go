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

package commandline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jetsetilly/stepback/curated"
)

// Placeholders for command arguments.
const (
	PlaceholderNumber = "%N"
	PlaceholderInt    = "%I"
	PlaceholderString = "%S"
	PlaceholderFile   = "%F"
)

// Sentinel error patterns.
const (
	DuplicateCommand     = "commandline: %s: already defined"
	BadCommand           = "commandline: %s: %s"
	UnrecognisedCommand  = "unrecognised command (%s)"
	UnrecognisedArgument = "unrecognised argument (%s) for %s"
	MissingArgument      = "missing %s argument for %s"
	TooManyArguments     = "too many arguments for %s"
	NotNumeric           = "numeric argument required (%s is not numeric)"
)

// Arg describes an argument of a command.
type Arg struct {
	Label       string
	Placeholder string

	// optional arguments must come after all required arguments
	Optional bool
}

func (a Arg) String() string {
	if a.Optional {
		return fmt.Sprintf("[<%s>]", a.Label)
	}
	return fmt.Sprintf("<%s>", a.Label)
}

// Command describes a single command. A command has either arguments or
// sub-commands but not both.
type Command struct {
	Keyword string
	Args    []Arg
	Sub     []*Command

	// if true the command is valid without a sub-command
	SubOptional bool

	Help string
}

// Usage returns a one line summary of the command syntax.
func (c *Command) Usage() string {
	s := strings.Builder{}
	s.WriteString(c.Keyword)

	if len(c.Sub) > 0 {
		subs := make([]string, 0, len(c.Sub))
		for _, sc := range c.Sub {
			subs = append(subs, sc.Usage())
		}
		if c.SubOptional {
			s.WriteString(fmt.Sprintf(" [%s]", strings.Join(subs, "|")))
		} else {
			s.WriteString(fmt.Sprintf(" (%s)", strings.Join(subs, "|")))
		}
		return s.String()
	}

	for _, a := range c.Args {
		s.WriteString(" ")
		s.WriteString(a.String())
	}

	return s.String()
}

func (c *Command) check() error {
	c.Keyword = strings.ToUpper(c.Keyword)

	if len(c.Sub) > 0 && len(c.Args) > 0 {
		return curated.Errorf(BadCommand, c.Keyword, "arguments and sub-commands")
	}

	optional := false
	for _, a := range c.Args {
		switch a.Placeholder {
		case PlaceholderNumber, PlaceholderInt, PlaceholderString, PlaceholderFile:
		default:
			return curated.Errorf(BadCommand, c.Keyword, fmt.Sprintf("unknown placeholder %s", a.Placeholder))
		}
		if optional && !a.Optional {
			return curated.Errorf(BadCommand, c.Keyword, "required argument after optional argument")
		}
		optional = a.Optional
	}

	seen := make(map[string]bool)
	for _, sc := range c.Sub {
		if err := sc.check(); err != nil {
			return err
		}
		if seen[sc.Keyword] {
			return curated.Errorf(DuplicateCommand, fmt.Sprintf("%s %s", c.Keyword, sc.Keyword))
		}
		seen[sc.Keyword] = true
	}

	return nil
}

func (c *Command) sub(keyword string) *Command {
	keyword = strings.ToUpper(keyword)
	for _, sc := range c.Sub {
		if sc.Keyword == keyword {
			return sc
		}
	}
	return nil
}

// validate the tokens following the keyword of the command. name is the
// full name of the command for error messages.
func (c *Command) validate(tokens *Tokens, name string) error {
	if len(c.Sub) > 0 {
		tok, ok := tokens.Get()
		if !ok {
			if c.SubOptional {
				return nil
			}
			return curated.Errorf(MissingArgument, "required", name)
		}
		sc := c.sub(tok)
		if sc == nil {
			return curated.Errorf(UnrecognisedArgument, tok, name)
		}
		return sc.validate(tokens, fmt.Sprintf("%s %s", name, sc.Keyword))
	}

	for _, a := range c.Args {
		tok, ok := tokens.Get()
		if !ok {
			if a.Optional {
				return nil
			}
			return curated.Errorf(MissingArgument, a.Label, name)
		}

		switch a.Placeholder {
		case PlaceholderNumber:
			if _, err := ParseNumber(tok); err != nil {
				return err
			}
		case PlaceholderInt:
			if _, err := ParseInt(tok); err != nil {
				return err
			}
		}
	}

	if tokens.Remaining() > 0 {
		return curated.Errorf(TooManyArguments, name)
	}

	return nil
}

// Commands is a table of commands.
type Commands struct {
	cmds  []*Command
	index map[string]*Command

	helpCols   int
	helpColFmt string
}

// NewCommands is the preferred method of initialisation for the Commands
// type. The commands are sorted by keyword.
func NewCommands(cmds ...*Command) (*Commands, error) {
	c := &Commands{
		index: make(map[string]*Command),
	}

	longest := 0
	for _, cmd := range cmds {
		if err := cmd.check(); err != nil {
			return nil, err
		}
		if _, ok := c.index[cmd.Keyword]; ok {
			return nil, curated.Errorf(DuplicateCommand, cmd.Keyword)
		}
		c.index[cmd.Keyword] = cmd
		c.cmds = append(c.cmds, cmd)

		if len(cmd.Keyword) > longest {
			longest = len(cmd.Keyword)
		}
	}

	sort.Slice(c.cmds, func(i, j int) bool {
		return c.cmds[i].Keyword < c.cmds[j].Keyword
	})

	// record sizing information for help subsystem
	c.helpCols = 80 / (longest + 3)
	c.helpColFmt = fmt.Sprintf("%%%ds", longest+3)

	return c, nil
}

// String returns the usage of every command, one per line.
func (cmds *Commands) String() string {
	s := strings.Builder{}
	for _, c := range cmds.cmds {
		s.WriteString(c.Usage())
		s.WriteString("\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

// ValidateTokens checks that the tokens are a valid command. The tokens are
// reset and ready for processing on return.
func (cmds *Commands) ValidateTokens(tokens *Tokens) error {
	defer tokens.Reset()

	tok, ok := tokens.Get()
	if !ok {
		return nil
	}
	keyword := strings.ToUpper(tok)

	c, ok := cmds.index[keyword]
	if !ok {
		return curated.Errorf(UnrecognisedCommand, keyword)
	}

	return c.validate(tokens, keyword)
}

// HelpOverview returns a columnised list of all commands.
func (cmds *Commands) HelpOverview() string {
	s := strings.Builder{}
	for i, c := range cmds.cmds {
		s.WriteString(fmt.Sprintf(cmds.helpColFmt, c.Keyword))
		if i%cmds.helpCols == cmds.helpCols-1 {
			s.WriteString("\n")
		}
	}
	return strings.TrimRight(s.String(), "\n")
}

// Help returns the help and usage for the command.
func (cmds *Commands) Help(keyword string) string {
	keyword = strings.ToUpper(keyword)

	c, ok := cmds.index[keyword]
	if !ok || c.Help == "" {
		return fmt.Sprintf("no help for %s", keyword)
	}

	s := strings.Builder{}
	s.WriteString(c.Help)
	s.WriteString("\n\n  Usage: ")
	s.WriteString(c.Usage())

	return s.String()
}

// ParseNumber parses an unsigned number. Hexadecimal numbers are prefixed
// with 0x.
func ParseNumber(tok string) (uint64, error) {
	n, err := strconv.ParseUint(tok, 0, 64)
	if err != nil {
		return 0, curated.Errorf(NotNumeric, tok)
	}
	return n, nil
}

// ParseInt parses a signed decimal number.
func ParseInt(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, curated.Errorf(NotNumeric, tok)
	}
	return n, nil
}
