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

import "fmt"

// AddressingMode describes the method data for the instruction should be
// received.
type AddressingMode int

// List of supported addressing modes.
const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	Relative // relative addressing is used for branch instructions

	Absolute // abs
	ZeroPage // zpg
	Indirect // ind

	IndexedIndirect // (ind,X)
	IndirectIndexed // (ind), Y

	AbsoluteIndexedX // abs,X
	AbsoluteIndexedY // abs,Y

	ZeroPageIndexedX // zpg,X
	ZeroPageIndexedY // zpg,Y
)

// EffectCategory categorises an instruction by the effect it has.
type EffectCategory int

// List of effect categories.
const (
	Read EffectCategory = iota
	Write
	RMW

	// the following three effects have a variable effect on the program
	// counter, depending on the instruction's precise operand.

	// flow consists of the Branch and JMP instructions. Branch instructions
	// specifically can be distinguished by the AddressingMode.
	Flow

	Subroutine
	Interrupt
)

// Definition defines each instruction in the instruction set; one per
// instruction.
type Definition struct {
	OpCode         uint8
	Mnemonic       string
	Bytes          int
	Cycles         int
	AddressingMode AddressingMode
	Effect         EffectCategory

	// registers written by the instruction. the program counter is not
	// listed because it is written by every instruction
	Registers []int

	// number of bytes pushed onto the stack
	Pushes int
}

// String returns a single instruction definition as a string.
func (defn Definition) String() string {
	if defn.Mnemonic == "" {
		return "undecoded instruction"
	}
	return fmt.Sprintf("%02x %s +%dbytes (%d cycles) [mode=%d effect=%d]", defn.OpCode, defn.Mnemonic, defn.Bytes, defn.Cycles, defn.AddressingMode, defn.Effect)
}

// IsBranch returns true if instruction is a branch instruction.
func (defn Definition) IsBranch() bool {
	return defn.AddressingMode == Relative && defn.Effect == Flow
}

// WritesMemory returns true if the instruction writes to the effective
// address of the operand. Stack pushes are not included.
func (defn Definition) WritesMemory() bool {
	if defn.AddressingMode == Accumulator || defn.AddressingMode == Implied {
		return false
	}
	return defn.Effect == Write || defn.Effect == RMW
}

var (
	regA   = []int{A, P}
	regX   = []int{X, P}
	regY   = []int{Y, P}
	regP   = []int{P}
	regSP  = []int{SP}
	regASP = []int{A, SP, P}
	regPSP = []int{SP, P}
)

// definitionsList is the list of supported instructions.
var definitionsList = []Definition{
	{OpCode: 0x00, Mnemonic: "BRK", Bytes: 1, Cycles: 7, AddressingMode: Implied, Effect: Interrupt, Registers: regPSP, Pushes: 3},
	{OpCode: 0x01, Mnemonic: "ORA", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Read, Registers: regA},
	{OpCode: 0x05, Mnemonic: "ORA", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regA},
	{OpCode: 0x06, Mnemonic: "ASL", Bytes: 2, Cycles: 5, AddressingMode: ZeroPage, Effect: RMW, Registers: regP},
	{OpCode: 0x08, Mnemonic: "PHP", Bytes: 1, Cycles: 3, AddressingMode: Implied, Effect: Write, Registers: regSP, Pushes: 1},
	{OpCode: 0x09, Mnemonic: "ORA", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regA},
	{OpCode: 0x0a, Mnemonic: "ASL", Bytes: 1, Cycles: 2, AddressingMode: Accumulator, Effect: RMW, Registers: regA},
	{OpCode: 0x0d, Mnemonic: "ORA", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regA},
	{OpCode: 0x0e, Mnemonic: "ASL", Bytes: 3, Cycles: 6, AddressingMode: Absolute, Effect: RMW, Registers: regP},
	{OpCode: 0x10, Mnemonic: "BPL", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0x11, Mnemonic: "ORA", Bytes: 2, Cycles: 5, AddressingMode: IndirectIndexed, Effect: Read, Registers: regA},
	{OpCode: 0x15, Mnemonic: "ORA", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x16, Mnemonic: "ASL", Bytes: 2, Cycles: 6, AddressingMode: ZeroPageIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x18, Mnemonic: "CLC", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regP},
	{OpCode: 0x19, Mnemonic: "ORA", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regA},
	{OpCode: 0x1d, Mnemonic: "ORA", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x1e, Mnemonic: "ASL", Bytes: 3, Cycles: 7, AddressingMode: AbsoluteIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x20, Mnemonic: "JSR", Bytes: 3, Cycles: 6, AddressingMode: Absolute, Effect: Subroutine, Registers: regSP, Pushes: 2},
	{OpCode: 0x21, Mnemonic: "AND", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Read, Registers: regA},
	{OpCode: 0x24, Mnemonic: "BIT", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regP},
	{OpCode: 0x25, Mnemonic: "AND", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regA},
	{OpCode: 0x26, Mnemonic: "ROL", Bytes: 2, Cycles: 5, AddressingMode: ZeroPage, Effect: RMW, Registers: regP},
	{OpCode: 0x28, Mnemonic: "PLP", Bytes: 1, Cycles: 4, AddressingMode: Implied, Effect: Read, Registers: regPSP},
	{OpCode: 0x29, Mnemonic: "AND", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regA},
	{OpCode: 0x2a, Mnemonic: "ROL", Bytes: 1, Cycles: 2, AddressingMode: Accumulator, Effect: RMW, Registers: regA},
	{OpCode: 0x2c, Mnemonic: "BIT", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regP},
	{OpCode: 0x2d, Mnemonic: "AND", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regA},
	{OpCode: 0x2e, Mnemonic: "ROL", Bytes: 3, Cycles: 6, AddressingMode: Absolute, Effect: RMW, Registers: regP},
	{OpCode: 0x30, Mnemonic: "BMI", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0x31, Mnemonic: "AND", Bytes: 2, Cycles: 5, AddressingMode: IndirectIndexed, Effect: Read, Registers: regA},
	{OpCode: 0x35, Mnemonic: "AND", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x36, Mnemonic: "ROL", Bytes: 2, Cycles: 6, AddressingMode: ZeroPageIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x38, Mnemonic: "SEC", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regP},
	{OpCode: 0x39, Mnemonic: "AND", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regA},
	{OpCode: 0x3d, Mnemonic: "AND", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x3e, Mnemonic: "ROL", Bytes: 3, Cycles: 7, AddressingMode: AbsoluteIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x40, Mnemonic: "RTI", Bytes: 1, Cycles: 6, AddressingMode: Implied, Effect: Interrupt, Registers: regPSP},
	{OpCode: 0x41, Mnemonic: "EOR", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Read, Registers: regA},
	{OpCode: 0x45, Mnemonic: "EOR", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regA},
	{OpCode: 0x46, Mnemonic: "LSR", Bytes: 2, Cycles: 5, AddressingMode: ZeroPage, Effect: RMW, Registers: regP},
	{OpCode: 0x48, Mnemonic: "PHA", Bytes: 1, Cycles: 3, AddressingMode: Implied, Effect: Write, Registers: regSP, Pushes: 1},
	{OpCode: 0x49, Mnemonic: "EOR", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regA},
	{OpCode: 0x4a, Mnemonic: "LSR", Bytes: 1, Cycles: 2, AddressingMode: Accumulator, Effect: RMW, Registers: regA},
	{OpCode: 0x4c, Mnemonic: "JMP", Bytes: 3, Cycles: 3, AddressingMode: Absolute, Effect: Flow},
	{OpCode: 0x4d, Mnemonic: "EOR", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regA},
	{OpCode: 0x4e, Mnemonic: "LSR", Bytes: 3, Cycles: 6, AddressingMode: Absolute, Effect: RMW, Registers: regP},
	{OpCode: 0x50, Mnemonic: "BVC", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0x51, Mnemonic: "EOR", Bytes: 2, Cycles: 5, AddressingMode: IndirectIndexed, Effect: Read, Registers: regA},
	{OpCode: 0x55, Mnemonic: "EOR", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x56, Mnemonic: "LSR", Bytes: 2, Cycles: 6, AddressingMode: ZeroPageIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x58, Mnemonic: "CLI", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regP},
	{OpCode: 0x59, Mnemonic: "EOR", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regA},
	{OpCode: 0x5d, Mnemonic: "EOR", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x5e, Mnemonic: "LSR", Bytes: 3, Cycles: 7, AddressingMode: AbsoluteIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x60, Mnemonic: "RTS", Bytes: 1, Cycles: 6, AddressingMode: Implied, Effect: Subroutine, Registers: regSP},
	{OpCode: 0x61, Mnemonic: "ADC", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Read, Registers: regA},
	{OpCode: 0x65, Mnemonic: "ADC", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regA},
	{OpCode: 0x66, Mnemonic: "ROR", Bytes: 2, Cycles: 5, AddressingMode: ZeroPage, Effect: RMW, Registers: regP},
	{OpCode: 0x68, Mnemonic: "PLA", Bytes: 1, Cycles: 4, AddressingMode: Implied, Effect: Read, Registers: regASP},
	{OpCode: 0x69, Mnemonic: "ADC", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regA},
	{OpCode: 0x6a, Mnemonic: "ROR", Bytes: 1, Cycles: 2, AddressingMode: Accumulator, Effect: RMW, Registers: regA},
	{OpCode: 0x6c, Mnemonic: "JMP", Bytes: 3, Cycles: 5, AddressingMode: Indirect, Effect: Flow},
	{OpCode: 0x6d, Mnemonic: "ADC", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regA},
	{OpCode: 0x6e, Mnemonic: "ROR", Bytes: 3, Cycles: 6, AddressingMode: Absolute, Effect: RMW, Registers: regP},
	{OpCode: 0x70, Mnemonic: "BVS", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0x71, Mnemonic: "ADC", Bytes: 2, Cycles: 5, AddressingMode: IndirectIndexed, Effect: Read, Registers: regA},
	{OpCode: 0x75, Mnemonic: "ADC", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x76, Mnemonic: "ROR", Bytes: 2, Cycles: 6, AddressingMode: ZeroPageIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x78, Mnemonic: "SEI", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regP},
	{OpCode: 0x79, Mnemonic: "ADC", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regA},
	{OpCode: 0x7d, Mnemonic: "ADC", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0x7e, Mnemonic: "ROR", Bytes: 3, Cycles: 7, AddressingMode: AbsoluteIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0x81, Mnemonic: "STA", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Write},
	{OpCode: 0x84, Mnemonic: "STY", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Write},
	{OpCode: 0x85, Mnemonic: "STA", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Write},
	{OpCode: 0x86, Mnemonic: "STX", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Write},
	{OpCode: 0x88, Mnemonic: "DEY", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regY},
	{OpCode: 0x8a, Mnemonic: "TXA", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regA},
	{OpCode: 0x8c, Mnemonic: "STY", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Write},
	{OpCode: 0x8d, Mnemonic: "STA", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Write},
	{OpCode: 0x8e, Mnemonic: "STX", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Write},
	{OpCode: 0x90, Mnemonic: "BCC", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0x91, Mnemonic: "STA", Bytes: 2, Cycles: 6, AddressingMode: IndirectIndexed, Effect: Write},
	{OpCode: 0x94, Mnemonic: "STY", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Write},
	{OpCode: 0x95, Mnemonic: "STA", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Write},
	{OpCode: 0x96, Mnemonic: "STX", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedY, Effect: Write},
	{OpCode: 0x98, Mnemonic: "TYA", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regA},
	{OpCode: 0x99, Mnemonic: "STA", Bytes: 3, Cycles: 5, AddressingMode: AbsoluteIndexedY, Effect: Write},
	{OpCode: 0x9a, Mnemonic: "TXS", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regSP},
	{OpCode: 0x9d, Mnemonic: "STA", Bytes: 3, Cycles: 5, AddressingMode: AbsoluteIndexedX, Effect: Write},
	{OpCode: 0xa0, Mnemonic: "LDY", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regY},
	{OpCode: 0xa1, Mnemonic: "LDA", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Read, Registers: regA},
	{OpCode: 0xa2, Mnemonic: "LDX", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regX},
	{OpCode: 0xa4, Mnemonic: "LDY", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regY},
	{OpCode: 0xa5, Mnemonic: "LDA", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regA},
	{OpCode: 0xa6, Mnemonic: "LDX", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regX},
	{OpCode: 0xa8, Mnemonic: "TAY", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regY},
	{OpCode: 0xa9, Mnemonic: "LDA", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regA},
	{OpCode: 0xaa, Mnemonic: "TAX", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regX},
	{OpCode: 0xac, Mnemonic: "LDY", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regY},
	{OpCode: 0xad, Mnemonic: "LDA", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regA},
	{OpCode: 0xae, Mnemonic: "LDX", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regX},
	{OpCode: 0xb0, Mnemonic: "BCS", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0xb1, Mnemonic: "LDA", Bytes: 2, Cycles: 5, AddressingMode: IndirectIndexed, Effect: Read, Registers: regA},
	{OpCode: 0xb4, Mnemonic: "LDY", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regY},
	{OpCode: 0xb5, Mnemonic: "LDA", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0xb6, Mnemonic: "LDX", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedY, Effect: Read, Registers: regX},
	{OpCode: 0xb8, Mnemonic: "CLV", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regP},
	{OpCode: 0xb9, Mnemonic: "LDA", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regA},
	{OpCode: 0xba, Mnemonic: "TSX", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regX},
	{OpCode: 0xbc, Mnemonic: "LDY", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regY},
	{OpCode: 0xbd, Mnemonic: "LDA", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0xbe, Mnemonic: "LDX", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regX},
	{OpCode: 0xc0, Mnemonic: "CPY", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regP},
	{OpCode: 0xc1, Mnemonic: "CMP", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Read, Registers: regP},
	{OpCode: 0xc4, Mnemonic: "CPY", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regP},
	{OpCode: 0xc5, Mnemonic: "CMP", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regP},
	{OpCode: 0xc6, Mnemonic: "DEC", Bytes: 2, Cycles: 5, AddressingMode: ZeroPage, Effect: RMW, Registers: regP},
	{OpCode: 0xc8, Mnemonic: "INY", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regY},
	{OpCode: 0xc9, Mnemonic: "CMP", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regP},
	{OpCode: 0xca, Mnemonic: "DEX", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regX},
	{OpCode: 0xcc, Mnemonic: "CPY", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regP},
	{OpCode: 0xcd, Mnemonic: "CMP", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regP},
	{OpCode: 0xce, Mnemonic: "DEC", Bytes: 3, Cycles: 6, AddressingMode: Absolute, Effect: RMW, Registers: regP},
	{OpCode: 0xd0, Mnemonic: "BNE", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0xd1, Mnemonic: "CMP", Bytes: 2, Cycles: 5, AddressingMode: IndirectIndexed, Effect: Read, Registers: regP},
	{OpCode: 0xd5, Mnemonic: "CMP", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regP},
	{OpCode: 0xd6, Mnemonic: "DEC", Bytes: 2, Cycles: 6, AddressingMode: ZeroPageIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0xd8, Mnemonic: "CLD", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regP},
	{OpCode: 0xd9, Mnemonic: "CMP", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regP},
	{OpCode: 0xdd, Mnemonic: "CMP", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regP},
	{OpCode: 0xde, Mnemonic: "DEC", Bytes: 3, Cycles: 7, AddressingMode: AbsoluteIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0xe0, Mnemonic: "CPX", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regP},
	{OpCode: 0xe1, Mnemonic: "SBC", Bytes: 2, Cycles: 6, AddressingMode: IndexedIndirect, Effect: Read, Registers: regA},
	{OpCode: 0xe4, Mnemonic: "CPX", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regP},
	{OpCode: 0xe5, Mnemonic: "SBC", Bytes: 2, Cycles: 3, AddressingMode: ZeroPage, Effect: Read, Registers: regA},
	{OpCode: 0xe6, Mnemonic: "INC", Bytes: 2, Cycles: 5, AddressingMode: ZeroPage, Effect: RMW, Registers: regP},
	{OpCode: 0xe8, Mnemonic: "INX", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regX},
	{OpCode: 0xe9, Mnemonic: "SBC", Bytes: 2, Cycles: 2, AddressingMode: Immediate, Effect: Read, Registers: regA},
	{OpCode: 0xea, Mnemonic: "NOP", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read},
	{OpCode: 0xec, Mnemonic: "CPX", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regP},
	{OpCode: 0xed, Mnemonic: "SBC", Bytes: 3, Cycles: 4, AddressingMode: Absolute, Effect: Read, Registers: regA},
	{OpCode: 0xee, Mnemonic: "INC", Bytes: 3, Cycles: 6, AddressingMode: Absolute, Effect: RMW, Registers: regP},
	{OpCode: 0xf0, Mnemonic: "BEQ", Bytes: 2, Cycles: 2, AddressingMode: Relative, Effect: Flow},
	{OpCode: 0xf1, Mnemonic: "SBC", Bytes: 2, Cycles: 5, AddressingMode: IndirectIndexed, Effect: Read, Registers: regA},
	{OpCode: 0xf5, Mnemonic: "SBC", Bytes: 2, Cycles: 4, AddressingMode: ZeroPageIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0xf6, Mnemonic: "INC", Bytes: 2, Cycles: 6, AddressingMode: ZeroPageIndexedX, Effect: RMW, Registers: regP},
	{OpCode: 0xf8, Mnemonic: "SED", Bytes: 1, Cycles: 2, AddressingMode: Implied, Effect: Read, Registers: regP},
	{OpCode: 0xf9, Mnemonic: "SBC", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedY, Effect: Read, Registers: regA},
	{OpCode: 0xfd, Mnemonic: "SBC", Bytes: 3, Cycles: 4, AddressingMode: AbsoluteIndexedX, Effect: Read, Registers: regA},
	{OpCode: 0xfe, Mnemonic: "INC", Bytes: 3, Cycles: 7, AddressingMode: AbsoluteIndexedX, Effect: RMW, Registers: regP},
}

// Definitions is indexed by opcode. Unsupported opcodes are nil.
var Definitions [256]*Definition

func init() {
	for i := range definitionsList {
		d := &definitionsList[i]
		Definitions[d.OpCode] = d
	}
}
