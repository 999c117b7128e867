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

// Register numbers. All registers are one byte wide except for the program
// counter which is two bytes in little endian order.
const (
	A = iota
	X
	Y
	SP
	P
	PC
	NumRegisters
)

var registerNames = [NumRegisters]string{"A", "X", "Y", "SP", "P", "PC"}

// RegisterName returns the name of the register. Returns the empty string if
// the register does not exist.
func RegisterName(regnum int) string {
	if regnum < 0 || regnum >= NumRegisters {
		return ""
	}
	return registerNames[regnum]
}

// RegisterWidth returns the number of bytes in the register. Returns zero if
// the register does not exist.
func RegisterWidth(regnum int) int {
	switch {
	case regnum == PC:
		return 2
	case regnum >= 0 && regnum < NumRegisters:
		return 1
	}
	return 0
}

// RegisterByName returns the register number for the name. The comparison
// is case sensitive.
func RegisterByName(name string) (int, bool) {
	for i, n := range registerNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Status register bits.
const (
	Carry     = 0x01
	Zero      = 0x02
	Interrupt = 0x04
	Decimal   = 0x08
	Break     = 0x10
	Overflow  = 0x40
	Sign      = 0x80
)

// StackPage is the page in memory used by the stack.
const StackPage = 0x0100
