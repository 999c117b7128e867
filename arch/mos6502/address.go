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

package mos6502

import (
	"github.com/jetsetilly/stepback/target"
)

func read8(mem target.Memory, addr uint16) (uint8, error) {
	var b [1]byte
	if err := mem.ReadMemory(uint64(addr), b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// read16 reads a little endian value. if zeroPage is true then the second
// byte wraps around within the zero page.
func read16(mem target.Memory, addr uint16, zeroPage bool) (uint16, error) {
	lo, err := read8(mem, addr)
	if err != nil {
		return 0, err
	}
	hiAddr := addr + 1
	if zeroPage {
		hiAddr = uint16(uint8(addr) + 1)
	}
	hi, err := read8(mem, hiAddr)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// EffectiveAddress returns the address of the data for the instruction at
// the program counter. The value of the X and Y registers must be supplied.
//
// The result is undefined for the Implied, Accumulator and Immediate modes.
// For the Relative mode the result is the branch destination.
func EffectiveAddress(mem target.Memory, mode AddressingMode, pc uint16, x uint8, y uint8) (uint16, error) {
	switch mode {
	case Implied, Accumulator:
		return 0, nil

	case Immediate:
		return pc + 1, nil

	case Relative:
		off, err := read8(mem, pc+1)
		if err != nil {
			return 0, err
		}
		return pc + 2 + uint16(int8(off)), nil

	case Absolute:
		return read16(mem, pc+1, false)

	case AbsoluteIndexedX, AbsoluteIndexedY:
		base, err := read16(mem, pc+1, false)
		if err != nil {
			return 0, err
		}
		if mode == AbsoluteIndexedX {
			return base + uint16(x), nil
		}
		return base + uint16(y), nil

	case ZeroPage, ZeroPageIndexedX, ZeroPageIndexedY:
		zp, err := read8(mem, pc+1)
		if err != nil {
			return 0, err
		}
		switch mode {
		case ZeroPageIndexedX:
			zp += x
		case ZeroPageIndexedY:
			zp += y
		}
		return uint16(zp), nil

	case Indirect:
		ptr, err := read16(mem, pc+1, false)
		if err != nil {
			return 0, err
		}

		// the 6502 does not carry into the high byte of the pointer when
		// fetching the high byte of the address
		lo, err := read8(mem, ptr)
		if err != nil {
			return 0, err
		}
		hi, err := read8(mem, (ptr&0xff00)|uint16(uint8(ptr)+1))
		if err != nil {
			return 0, err
		}
		return uint16(hi)<<8 | uint16(lo), nil

	case IndexedIndirect:
		zp, err := read8(mem, pc+1)
		if err != nil {
			return 0, err
		}
		return read16(mem, uint16(zp+x), true)

	case IndirectIndexed:
		zp, err := read8(mem, pc+1)
		if err != nil {
			return 0, err
		}
		base, err := read16(mem, uint16(zp), true)
		if err != nil {
			return 0, err
		}
		return base + uint16(y), nil
	}

	return 0, nil
}
