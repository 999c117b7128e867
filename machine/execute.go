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
	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/curated"
)

// IllegalInstruction is returned by execute() when the opcode at the program
// counter is not supported.
const IllegalInstruction = "machine: illegal instruction %#02x at %#04x"

// bus gives the CPU access to memory without the protection checks applied
// to debugger access.
type bus struct {
	m *Machine
}

func (b bus) ReadMemory(addr uint64, buf []byte) error {
	for i := range buf {
		buf[i] = b.m.mem[uint16(addr+uint64(i))]
	}
	return nil
}

func (b bus) WriteMemory(addr uint64, data []byte) error {
	for i, v := range data {
		b.m.mem[uint16(addr+uint64(i))] = v
	}
	return nil
}

func (m *Machine) push(v uint8) {
	m.mem[mos6502.StackPage|uint16(m.regs.SP)] = v
	m.regs.SP--
}

func (m *Machine) pull() uint8 {
	m.regs.SP++
	return m.mem[mos6502.StackPage|uint16(m.regs.SP)]
}

func (m *Machine) setFlag(flag uint8, set bool) {
	if set {
		m.regs.P |= flag
	} else {
		m.regs.P &^= flag
	}
}

func (m *Machine) flag(flag uint8) bool {
	return m.regs.P&flag == flag
}

func (m *Machine) setNZ(v uint8) {
	m.setFlag(mos6502.Zero, v == 0)
	m.setFlag(mos6502.Sign, v&0x80 == 0x80)
}

func (m *Machine) adc(v uint8) {
	var c uint16
	if m.flag(mos6502.Carry) {
		c = 1
	}
	sum := uint16(m.regs.A) + uint16(v) + c
	r := uint8(sum)
	m.setFlag(mos6502.Carry, sum > 0xff)
	m.setFlag(mos6502.Overflow, (^(m.regs.A^v))&(m.regs.A^r)&0x80 == 0x80)
	m.regs.A = r
	m.setNZ(r)
}

func (m *Machine) compare(reg uint8, v uint8) {
	m.setFlag(mos6502.Carry, reg >= v)
	m.setNZ(reg - v)
}

// decode returns the definition of the instruction at the program counter.
func (m *Machine) decode() (*mos6502.Definition, error) {
	op := m.mem[m.regs.PC]
	defn := mos6502.Definitions[op]
	if defn == nil {
		return nil, curated.Errorf(IllegalInstruction, op, m.regs.PC)
	}
	return defn, nil
}

// execute the instruction at the program counter. Decimal mode is not
// emulated.
func (m *Machine) execute(defn *mos6502.Definition) {
	pc := m.regs.PC
	b := bus{m: m}

	// effective address. errors are not possible because the bus never fails
	ea, _ := mos6502.EffectiveAddress(b, defn.AddressingMode, pc, m.regs.X, m.regs.Y)

	// the program counter is advanced before execution. flow instructions
	// overwrite it
	m.regs.PC = pc + uint16(defn.Bytes)
	m.cycles += uint64(defn.Cycles)

	// read-modify-write instructions operate on the accumulator or memory
	rmw := func(f func(v uint8) uint8) {
		if defn.AddressingMode == mos6502.Accumulator {
			m.regs.A = f(m.regs.A)
			m.setNZ(m.regs.A)
			return
		}
		v := f(m.mem[ea])
		m.mem[ea] = v
		m.setNZ(v)
	}

	switch defn.Mnemonic {
	case "NOP":

	case "LDA":
		m.regs.A = m.mem[ea]
		m.setNZ(m.regs.A)
	case "LDX":
		m.regs.X = m.mem[ea]
		m.setNZ(m.regs.X)
	case "LDY":
		m.regs.Y = m.mem[ea]
		m.setNZ(m.regs.Y)

	case "STA":
		m.mem[ea] = m.regs.A
	case "STX":
		m.mem[ea] = m.regs.X
	case "STY":
		m.mem[ea] = m.regs.Y

	case "TAX":
		m.regs.X = m.regs.A
		m.setNZ(m.regs.X)
	case "TAY":
		m.regs.Y = m.regs.A
		m.setNZ(m.regs.Y)
	case "TXA":
		m.regs.A = m.regs.X
		m.setNZ(m.regs.A)
	case "TYA":
		m.regs.A = m.regs.Y
		m.setNZ(m.regs.A)
	case "TSX":
		m.regs.X = m.regs.SP
		m.setNZ(m.regs.X)
	case "TXS":
		m.regs.SP = m.regs.X

	case "INX":
		m.regs.X++
		m.setNZ(m.regs.X)
	case "INY":
		m.regs.Y++
		m.setNZ(m.regs.Y)
	case "DEX":
		m.regs.X--
		m.setNZ(m.regs.X)
	case "DEY":
		m.regs.Y--
		m.setNZ(m.regs.Y)

	case "INC":
		rmw(func(v uint8) uint8 { return v + 1 })
	case "DEC":
		rmw(func(v uint8) uint8 { return v - 1 })

	case "ASL":
		rmw(func(v uint8) uint8 {
			m.setFlag(mos6502.Carry, v&0x80 == 0x80)
			return v << 1
		})
	case "LSR":
		rmw(func(v uint8) uint8 {
			m.setFlag(mos6502.Carry, v&0x01 == 0x01)
			return v >> 1
		})
	case "ROL":
		rmw(func(v uint8) uint8 {
			var c uint8
			if m.flag(mos6502.Carry) {
				c = 0x01
			}
			m.setFlag(mos6502.Carry, v&0x80 == 0x80)
			return v<<1 | c
		})
	case "ROR":
		rmw(func(v uint8) uint8 {
			var c uint8
			if m.flag(mos6502.Carry) {
				c = 0x80
			}
			m.setFlag(mos6502.Carry, v&0x01 == 0x01)
			return v>>1 | c
		})

	case "AND":
		m.regs.A &= m.mem[ea]
		m.setNZ(m.regs.A)
	case "ORA":
		m.regs.A |= m.mem[ea]
		m.setNZ(m.regs.A)
	case "EOR":
		m.regs.A ^= m.mem[ea]
		m.setNZ(m.regs.A)

	case "ADC":
		m.adc(m.mem[ea])
	case "SBC":
		m.adc(^m.mem[ea])

	case "CMP":
		m.compare(m.regs.A, m.mem[ea])
	case "CPX":
		m.compare(m.regs.X, m.mem[ea])
	case "CPY":
		m.compare(m.regs.Y, m.mem[ea])

	case "BIT":
		v := m.mem[ea]
		m.setFlag(mos6502.Zero, m.regs.A&v == 0)
		m.setFlag(mos6502.Sign, v&0x80 == 0x80)
		m.setFlag(mos6502.Overflow, v&0x40 == 0x40)

	case "CLC":
		m.setFlag(mos6502.Carry, false)
	case "SEC":
		m.setFlag(mos6502.Carry, true)
	case "CLI":
		m.setFlag(mos6502.Interrupt, false)
	case "SEI":
		m.setFlag(mos6502.Interrupt, true)
	case "CLD":
		m.setFlag(mos6502.Decimal, false)
	case "SED":
		m.setFlag(mos6502.Decimal, true)
	case "CLV":
		m.setFlag(mos6502.Overflow, false)

	case "PHA":
		m.push(m.regs.A)
	case "PHP":
		m.push(m.regs.P | mos6502.Break | 0x20)
	case "PLA":
		m.regs.A = m.pull()
		m.setNZ(m.regs.A)
	case "PLP":
		m.regs.P = m.pull()&^mos6502.Break | 0x20

	case "JMP":
		m.regs.PC = ea
	case "JSR":
		ret := pc + 2
		m.push(uint8(ret >> 8))
		m.push(uint8(ret))
		m.regs.PC = ea
	case "RTS":
		lo := m.pull()
		hi := m.pull()
		m.regs.PC = (uint16(hi)<<8 | uint16(lo)) + 1
	case "RTI":
		m.regs.P = m.pull()&^mos6502.Break | 0x20
		lo := m.pull()
		hi := m.pull()
		m.regs.PC = uint16(hi)<<8 | uint16(lo)

	case "BPL":
		m.branch(!m.flag(mos6502.Sign), ea)
	case "BMI":
		m.branch(m.flag(mos6502.Sign), ea)
	case "BVC":
		m.branch(!m.flag(mos6502.Overflow), ea)
	case "BVS":
		m.branch(m.flag(mos6502.Overflow), ea)
	case "BCC":
		m.branch(!m.flag(mos6502.Carry), ea)
	case "BCS":
		m.branch(m.flag(mos6502.Carry), ea)
	case "BNE":
		m.branch(!m.flag(mos6502.Zero), ea)
	case "BEQ":
		m.branch(m.flag(mos6502.Zero), ea)
	}
}

func (m *Machine) branch(taken bool, dest uint16) {
	if taken {
		m.regs.PC = dest
		m.cycles++
	}
}

// successors returns the addresses that execution might continue from after
// the instruction at the program counter.
func (m *Machine) successors(defn *mos6502.Definition) []uint16 {
	pc := m.regs.PC
	b := bus{m: m}
	ea, _ := mos6502.EffectiveAddress(b, defn.AddressingMode, pc, m.regs.X, m.regs.Y)
	next := pc + uint16(defn.Bytes)

	switch defn.Mnemonic {
	case "JMP", "JSR":
		return []uint16{ea}
	case "RTS":
		lo := m.mem[mos6502.StackPage|uint16(m.regs.SP+1)]
		hi := m.mem[mos6502.StackPage|uint16(m.regs.SP+2)]
		return []uint16{(uint16(hi)<<8 | uint16(lo)) + 1}
	case "RTI":
		lo := m.mem[mos6502.StackPage|uint16(m.regs.SP+2)]
		hi := m.mem[mos6502.StackPage|uint16(m.regs.SP+3)]
		return []uint16{uint16(hi)<<8 | uint16(lo)}
	}

	if defn.IsBranch() && ea != next {
		return []uint16{next, ea}
	}

	return []uint16{next}
}
