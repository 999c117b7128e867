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

package journal

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/stepback/target"
)

// Kind of entry in the log. The values are the same as the tag values in the
// encoded form of the log.
type Kind uint8

// List of valid Kind values.
const (
	KindBoundary Kind = 0
	KindRegister Kind = 1
	KindMemory   Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindBoundary:
		return "boundary"
	case KindRegister:
		return "register"
	case KindMemory:
		return "memory"
	}
	return "unknown"
}

// Entry in the execution log. The fields used depend on the Kind of entry.
type Entry struct {
	Kind Kind

	// register entries
	Register int

	// memory entries. an inaccessible entry is never applied
	Address      uint64
	Inaccessible bool

	// register and memory entries
	Value []byte

	// boundary entries. the signal delivered to the debuggee after the
	// instruction and the sequence number of the instruction
	Signal   target.Signal
	Sequence uint32
}

func (e *Entry) String() string {
	switch e.Kind {
	case KindRegister:
		return fmt.Sprintf("register %d: %s", e.Register, hexBytes(e.Value))
	case KindMemory:
		if e.Inaccessible {
			return fmt.Sprintf("memory %#04x (%d bytes): not accessible", e.Address, len(e.Value))
		}
		return fmt.Sprintf("memory %#04x (%d bytes): %s", e.Address, len(e.Value), hexBytes(e.Value))
	case KindBoundary:
		if e.Signal != target.SignalNone {
			return fmt.Sprintf("end of instruction %d (%s)", e.Sequence, e.Signal)
		}
		return fmt.Sprintf("end of instruction %d", e.Sequence)
	}
	return "unknown entry"
}

func hexBytes(b []byte) string {
	s := strings.Builder{}
	for i, v := range b {
		if i > 0 {
			s.WriteRune(' ')
		}
		s.WriteString(fmt.Sprintf("%02x", v))
	}
	return s.String()
}

// Direction of travel through the log.
type Direction int

// List of valid Direction values.
const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}
