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
	"fmt"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// add decoration to operand according to the addressing mode.
func addrModeDecoration(operand string, mode AddressingMode) string {
	s := operand

	switch mode {
	case Implied:
	case Accumulator:
		s = "A"
	case Immediate:
		s = fmt.Sprintf("#%s", operand)
	case Relative:
	case Absolute:
	case ZeroPage:
	case Indirect:
		s = fmt.Sprintf("(%s)", operand)
	case IndexedIndirect:
		s = fmt.Sprintf("(%s,X)", operand)
	case IndirectIndexed:
		s = fmt.Sprintf("(%s),Y", operand)
	case AbsoluteIndexedX:
		s = fmt.Sprintf("%s,X", operand)
	case AbsoluteIndexedY:
		s = fmt.Sprintf("%s,Y", operand)
	case ZeroPageIndexedX:
		s = fmt.Sprintf("%s,X", operand)
	case ZeroPageIndexedY:
		s = fmt.Sprintf("%s,Y", operand)
	}

	return s
}

// Disassemble the instruction at the address. Branch operands are shown as
// the address of the branch destination rather than an offset.
func Disassemble(mem target.Memory, addr uint16) (string, error) {
	op, err := read8(mem, addr)
	if err != nil {
		return "", err
	}

	defn := Definitions[op]
	if defn == nil {
		return "", curated.Errorf(UnsupportedOpcode, op, addr)
	}

	var operand string

	switch defn.Bytes {
	case 2:
		v, err := read8(mem, addr+1)
		if err != nil {
			return "", err
		}
		if defn.AddressingMode == Relative {
			operand = fmt.Sprintf("$%04x", addr+2+uint16(int8(v)))
		} else {
			operand = fmt.Sprintf("$%02x", v)
		}
	case 3:
		v, err := read16(mem, addr+1, false)
		if err != nil {
			return "", err
		}
		operand = fmt.Sprintf("$%04x", v)
	}

	operand = addrModeDecoration(operand, defn.AddressingMode)
	if operand == "" {
		return defn.Mnemonic, nil
	}

	return fmt.Sprintf("%s %s", defn.Mnemonic, operand), nil
}
