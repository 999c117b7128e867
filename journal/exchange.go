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

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// Sentinel error patterns.
const (
	// memory could not be read or written. this is not a fatal error and the
	// entry is marked as inaccessible
	InaccessibleMemory = "journal: memory at %#04x (%d bytes) is not accessible"

	// a register could not be exchanged
	RegisterExchange = "journal: register %d: %v"
)

// ApplyAndSwap applies the entry to the target state. The bytes in the
// target state that are replaced are stored in the entry, meaning that
// applying the same entry again reverses the change.
//
// A memory entry that cannot be exchanged is marked as inaccessible and an
// InaccessibleMemory error is returned. The caller should treat this error
// as a warning. Inaccessible entries are skipped.
//
// Any other error is fatal and the entry and the target state are unchanged.
func ApplyAndSwap(e *Entry, st target.State) error {
	switch e.Kind {
	case KindRegister:
		cur, err := st.ReadRegister(e.Register)
		if err != nil {
			return curated.Errorf(RegisterExchange, e.Register, err)
		}
		if len(cur) != len(e.Value) {
			return curated.Errorf(RegisterExchange, e.Register,
				fmt.Sprintf("width mismatch (%d bytes in target, %d bytes in log)", len(cur), len(e.Value)))
		}
		err = st.WriteRegister(e.Register, e.Value)
		if err != nil {
			return curated.Errorf(RegisterExchange, e.Register, err)
		}
		e.Value = cur

	case KindMemory:
		if e.Inaccessible {
			return nil
		}

		cur := make([]byte, len(e.Value))
		err := st.ReadMemory(e.Address, cur)
		if err != nil {
			e.Inaccessible = true
			return curated.Errorf(InaccessibleMemory, e.Address, len(e.Value))
		}
		err = st.WriteMemory(e.Address, e.Value)
		if err != nil {
			e.Inaccessible = true
			return curated.Errorf(InaccessibleMemory, e.Address, len(e.Value))
		}
		e.Value = cur
	}

	return nil
}
