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

package record

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
)

// Summary of the state of the session returned by Info().
type Summary struct {
	Replaying bool

	// Lowest, Current and Highest are only meaningful if Held is greater
	// than zero. Highest is the last instruction in the log, which is lower
	// than the sequence counter after the log has been truncated
	Lowest  uint32
	Current uint32
	Highest uint32

	Held     int
	Capacity int
}

func (sm Summary) String() string {
	s := strings.Builder{}

	if sm.Replaying {
		s.WriteString("Replay mode:\n")
	} else {
		s.WriteString("Record mode:\n")
	}

	if sm.Held > 0 {
		s.WriteString(fmt.Sprintf("Lowest recorded instruction number is %d.\n", sm.Lowest))
		if sm.Replaying {
			s.WriteString(fmt.Sprintf("Current instruction number is %d.\n", sm.Current))
		}
		s.WriteString(fmt.Sprintf("Highest recorded instruction number is %d.\n", sm.Highest))
		s.WriteString(fmt.Sprintf("Log contains %d instructions.\n", sm.Held))
	} else {
		s.WriteString("No instructions have been logged.\n")
	}

	if sm.Capacity == 0 {
		s.WriteString("Max logged instructions is unlimited.\n")
	} else {
		s.WriteString(fmt.Sprintf("Max logged instructions is %d.\n", sm.Capacity))
	}

	return s.String()
}

// Info returns a summary of the session.
func (s *Session) Info() Summary {
	return Summary{
		Replaying: s.IsReplaying(),
		Lowest:    s.log.Lowest(),
		Current:   s.log.SequenceAt(s.log.Cursor()),
		Highest:   s.log.SequenceAt(s.log.LastBoundary()),
		Held:      s.log.Held(),
		Capacity:  s.log.Capacity(),
	}
}

// DescribeInstruction returns a description of every change recorded for an
// instruction. The instruction is specified relative to the most recently
// applied instruction: zero is the most recently applied instruction,
// negative values are earlier instructions and positive values are later
// instructions.
//
// The values in the description are the values stored in the log, which are
// the values that would be restored by moving across the instruction.
func (s *Session) DescribeInstruction(offset int) ([]string, error) {
	h := s.log.Cursor()

	for ; offset > 0; offset-- {
		h = s.log.Next(h)
		for h != journal.NoEntry && s.log.Entry(h).Kind != journal.KindBoundary {
			h = s.log.Next(h)
		}
		if h == journal.NoEntry {
			return nil, curated.Errorf(NotEnoughHistory)
		}
	}

	for ; offset < 0; offset++ {
		if h == journal.Sentinel {
			return nil, curated.Errorf(NotEnoughHistory)
		}
		h = s.log.Prev(h)
		for h != journal.Sentinel && s.log.Entry(h).Kind != journal.KindBoundary {
			h = s.log.Prev(h)
		}
	}

	if h == journal.Sentinel {
		return nil, curated.Errorf(NotEnoughHistory)
	}

	var desc []string
	s.log.Instruction(h, func(e *journal.Entry) {
		switch e.Kind {
		case journal.KindRegister:
			desc = append(desc, fmt.Sprintf("Register %s changed:%s", s.tr.RegisterName(e.Register), spacedBytes(e.Value)))
		case journal.KindMemory:
			if e.Inaccessible {
				desc = append(desc, fmt.Sprintf("%d bytes of memory at address %#04x are not accessible", len(e.Value), e.Address))
			} else {
				desc = append(desc, fmt.Sprintf("%d bytes of memory at address %#04x changed from:%s", len(e.Value), e.Address, spacedBytes(e.Value)))
			}
		}
	})

	// entries are visited in reverse order
	for i, j := 0, len(desc)-1; i < j; i, j = i+1, j-1 {
		desc[i], desc[j] = desc[j], desc[i]
	}

	desc = append(desc, s.log.Entry(h).String())

	return desc, nil
}

func spacedBytes(v []byte) string {
	s := strings.Builder{}
	for _, b := range v {
		s.WriteString(fmt.Sprintf(" %02x", b))
	}
	return s.String()
}
