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

package terminal

import (
	"fmt"
	"strings"
)

// Prompt specifies the prompt text and the state of the record session.
type Prompt struct {
	// the content. usually the disassembly of the next instruction
	Content string

	// the address of the next instruction
	PC uint64

	// whether the debuggee is being replayed from the log
	Replaying bool

	// whether the next resume will run backwards
	Reverse bool
}

// String returns the prompt with "standard" decoration.
func (p Prompt) String() string {
	s := strings.Builder{}
	s.WriteString("[ ")
	if p.Replaying {
		s.WriteString("(replay) ")
	} else {
		s.WriteString("(rec) ")
	}

	s.WriteString(fmt.Sprintf("%#04x", p.PC))
	if c := strings.TrimSpace(p.Content); c != "" {
		s.WriteString(" ")
		s.WriteString(c)
	}

	s.WriteString(" ]")

	if p.Reverse {
		s.WriteString(" << ")
	} else {
		s.WriteString(" >> ")
	}

	return s.String()
}
