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

package machine

import (
	"encoding/hex"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/jetsetilly/stepback/curated"
	"github.com/zeebo/blake3"
)

// SnapshotError is returned by Snapshot() and RestoreSnapshot().
const SnapshotError = "machine: snapshot: %v"

type snapshot struct {
	Memory []byte `cbor:"1,keyasint"`
	A      uint8  `cbor:"2,keyasint"`
	X      uint8  `cbor:"3,keyasint"`
	Y      uint8  `cbor:"4,keyasint"`
	SP     uint8  `cbor:"5,keyasint"`
	P      uint8  `cbor:"6,keyasint"`
	PC     uint16 `cbor:"7,keyasint"`
	Cycles uint64 `cbor:"8,keyasint"`
	Exited bool   `cbor:"9,keyasint"`
}

// Snapshot implements the target.Transport interface. Breakpoints and memory
// protection are not part of the snapshot.
func (m *Machine) Snapshot(w io.Writer) error {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return curated.Errorf(SnapshotError, err)
	}

	s := snapshot{
		Memory: m.mem[:],
		A:      m.regs.A,
		X:      m.regs.X,
		Y:      m.regs.Y,
		SP:     m.regs.SP,
		P:      m.regs.P,
		PC:     m.regs.PC,
		Cycles: m.cycles,
		Exited: m.exited,
	}

	if err := em.NewEncoder(w).Encode(s); err != nil {
		return curated.Errorf(SnapshotError, err)
	}
	return nil
}

// RestoreSnapshot implements the target.Transport interface. The machine is
// unchanged if the snapshot cannot be decoded.
func (m *Machine) RestoreSnapshot(r io.Reader) error {
	var s snapshot
	if err := cbor.NewDecoder(r).Decode(&s); err != nil {
		return curated.Errorf(SnapshotError, err)
	}
	if len(s.Memory) != MemorySize {
		return curated.Errorf(SnapshotError, "wrong memory size")
	}

	copy(m.mem[:], s.Memory)
	m.regs = registers{A: s.A, X: s.X, Y: s.Y, SP: s.SP, P: s.P, PC: s.PC}
	m.cycles = s.Cycles
	m.exited = s.Exited
	m.resumed = false
	m.clearTemporaryBreakpoints()

	return nil
}

// Digest returns a hash of the registers and memory. Two machines with the
// same digest are in the same state.
func (m *Machine) Digest() string {
	h := blake3.New()
	h.Write(m.mem[:])
	h.Write([]byte{m.regs.A, m.regs.X, m.regs.Y, m.regs.SP, m.regs.P, uint8(m.regs.PC), uint8(m.regs.PC >> 8)})
	return hex.EncodeToString(h.Sum(nil))
}
