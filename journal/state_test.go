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

package journal_test

import (
	"fmt"
)

// fakeState is a minimal implementation of target.State. Four registers of
// one byte and 256 bytes of memory. Addresses at or above the protected
// value cannot be accessed.
type fakeState struct {
	regs      [4]byte
	mem       [256]byte
	protected uint64
	badReg    int
}

func newFakeState() *fakeState {
	return &fakeState{protected: 256, badReg: -1}
}

func (st *fakeState) NumRegisters() int {
	return len(st.regs)
}

func (st *fakeState) RegisterWidth(regnum int) int {
	return 1
}

func (st *fakeState) RegisterName(regnum int) string {
	return fmt.Sprintf("r%d", regnum)
}

func (st *fakeState) ReadRegister(regnum int) ([]byte, error) {
	if regnum < 0 || regnum >= len(st.regs) || regnum == st.badReg {
		return nil, fmt.Errorf("no register %d", regnum)
	}
	return []byte{st.regs[regnum]}, nil
}

func (st *fakeState) WriteRegister(regnum int, value []byte) error {
	if regnum < 0 || regnum >= len(st.regs) || regnum == st.badReg {
		return fmt.Errorf("no register %d", regnum)
	}
	st.regs[regnum] = value[0]
	return nil
}

func (st *fakeState) PC() uint64 {
	return uint64(st.regs[0])
}

func (st *fakeState) ReadMemory(addr uint64, buf []byte) error {
	if addr+uint64(len(buf)) > st.protected {
		return fmt.Errorf("memory at %d is protected", addr)
	}
	copy(buf, st.mem[addr:])
	return nil
}

func (st *fakeState) WriteMemory(addr uint64, data []byte) error {
	if addr+uint64(len(data)) > st.protected {
		return fmt.Errorf("memory at %d is protected", addr)
	}
	copy(st.mem[addr:], data)
	return nil
}
