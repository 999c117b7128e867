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
	"fmt"
	"sort"

	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// Sentinel error patterns.
const (
	NoSuchRegister = "machine: no such register (%d)"
	WrongWidth     = "machine: register %s is %d bytes wide"
	Protected      = "machine: memory at %#04x is not accessible"
	AddressRange   = "machine: address %#x is out of range"
	NotResumed     = "machine: wait called without resume"
	NotSupported   = "machine: %s not supported"
)

// MemorySize is the size of the address space.
const MemorySize = 0x10000

type registers struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	P  uint8
	PC uint16
}

type protected struct {
	addr   uint64
	length int
}

// Machine is the simulated debuggee. It should be created with
// NewMachine().
type Machine struct {
	mem    [MemorySize]byte
	regs   registers
	cycles uint64
	exited bool

	protected []protected

	breakpoints     map[uint64]bool
	tempBreakpoints map[uint16]bool

	// execution request made by Resume()
	resumed bool
	step    bool

	// the most recent signal delivered to the program
	delivered target.Signal

	softwareStep bool
	nonStop      bool

	// signals raised by Raise(). the only field that is accessed by more
	// than one goroutine
	raised chan target.Signal
}

// NewMachine is the preferred method of initialisation for the Machine type.
func NewMachine() *Machine {
	m := &Machine{
		breakpoints:     make(map[uint64]bool),
		tempBreakpoints: make(map[uint16]bool),
		raised:          make(chan target.Signal, 8),
	}
	m.Reset()
	return m
}

// Reset registers to their power-on values. Memory is not changed.
func (m *Machine) Reset() {
	m.regs = registers{SP: 0xff, P: 0x20 | mos6502.Interrupt}
	m.cycles = 0
	m.exited = false
}

// Load program into memory at the origin and set the program counter to the
// origin.
func (m *Machine) Load(program []byte, origin uint16) error {
	if int(origin)+len(program) > MemorySize {
		return curated.Errorf(AddressRange, int(origin)+len(program))
	}
	copy(m.mem[origin:], program)
	m.Reset()
	m.regs.PC = origin
	return nil
}

// SetSoftwareStep enables single stepping with temporary breakpoints.
func (m *Machine) SetSoftwareStep(set bool) {
	m.softwareStep = set
}

// SetNonStop sets the non-stop mode of the machine. The record package does
// not support recording machines in non-stop mode.
func (m *Machine) SetNonStop(set bool) {
	m.nonStop = set
}

// IsNonStop implements the target.NonStop interface.
func (m *Machine) IsNonStop() bool {
	return m.nonStop
}

// Protect memory from access through the target.Memory interface.
func (m *Machine) Protect(addr uint64, length int) {
	m.protected = append(m.protected, protected{addr: addr, length: length})
}

// Unprotect removes all memory protection.
func (m *Machine) Unprotect() {
	m.protected = m.protected[:0]
}

func (m *Machine) checkAccess(addr uint64, length int) error {
	if addr+uint64(length) > MemorySize {
		return curated.Errorf(AddressRange, addr+uint64(length))
	}
	for _, p := range m.protected {
		if addr < p.addr+uint64(p.length) && p.addr < addr+uint64(length) {
			return curated.Errorf(Protected, max(addr, p.addr))
		}
	}
	return nil
}

// Architecture implements the target.Transport interface.
func (m *Machine) Architecture() string {
	return mos6502.Name
}

// NumRegisters implements the target.Registers interface.
func (m *Machine) NumRegisters() int {
	return mos6502.NumRegisters
}

// RegisterWidth implements the target.Registers interface.
func (m *Machine) RegisterWidth(regnum int) int {
	return mos6502.RegisterWidth(regnum)
}

// RegisterName implements the target.Registers interface.
func (m *Machine) RegisterName(regnum int) string {
	return mos6502.RegisterName(regnum)
}

// ReadRegister implements the target.Registers interface.
func (m *Machine) ReadRegister(regnum int) ([]byte, error) {
	switch regnum {
	case mos6502.A:
		return []byte{m.regs.A}, nil
	case mos6502.X:
		return []byte{m.regs.X}, nil
	case mos6502.Y:
		return []byte{m.regs.Y}, nil
	case mos6502.SP:
		return []byte{m.regs.SP}, nil
	case mos6502.P:
		return []byte{m.regs.P}, nil
	case mos6502.PC:
		return []byte{uint8(m.regs.PC), uint8(m.regs.PC >> 8)}, nil
	}
	return nil, curated.Errorf(NoSuchRegister, regnum)
}

// WriteRegister implements the target.Registers interface.
func (m *Machine) WriteRegister(regnum int, value []byte) error {
	w := mos6502.RegisterWidth(regnum)
	if w == 0 {
		return curated.Errorf(NoSuchRegister, regnum)
	}
	if len(value) != w {
		return curated.Errorf(WrongWidth, mos6502.RegisterName(regnum), w)
	}

	switch regnum {
	case mos6502.A:
		m.regs.A = value[0]
	case mos6502.X:
		m.regs.X = value[0]
	case mos6502.Y:
		m.regs.Y = value[0]
	case mos6502.SP:
		m.regs.SP = value[0]
	case mos6502.P:
		m.regs.P = value[0]
	case mos6502.PC:
		m.regs.PC = uint16(value[0]) | uint16(value[1])<<8
	}

	return nil
}

// PC implements the target.Registers interface.
func (m *Machine) PC() uint64 {
	return uint64(m.regs.PC)
}

// ReadMemory implements the target.Memory interface.
func (m *Machine) ReadMemory(addr uint64, buf []byte) error {
	if err := m.checkAccess(addr, len(buf)); err != nil {
		return err
	}
	copy(buf, m.mem[addr:])
	return nil
}

// WriteMemory implements the target.Memory interface.
func (m *Machine) WriteMemory(addr uint64, data []byte) error {
	if err := m.checkAccess(addr, len(data)); err != nil {
		return err
	}
	copy(m.mem[addr:], data)
	return nil
}

// InsertBreakpoint implements the target.Transport interface.
func (m *Machine) InsertBreakpoint(bp target.Breakpoint) error {
	if bp.Address >= MemorySize {
		return curated.Errorf(AddressRange, bp.Address)
	}
	m.breakpoints[bp.Address] = true
	return nil
}

// RemoveBreakpoint implements the target.Transport interface.
func (m *Machine) RemoveBreakpoint(bp target.Breakpoint) error {
	delete(m.breakpoints, bp.Address)
	return nil
}

// InsertedBreakpoints implements the target.BreakpointLister interface.
func (m *Machine) InsertedBreakpoints() []target.Breakpoint {
	bps := make([]target.Breakpoint, 0, len(m.breakpoints))
	for a := range m.breakpoints {
		bps = append(bps, target.Breakpoint{Address: a})
	}
	sort.Slice(bps, func(i, j int) bool {
		return bps[i].Address < bps[j].Address
	})
	return bps
}

// Cycles returns the number of cycles executed since the last reset.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// Exited returns true if the program has finished.
func (m *Machine) Exited() bool {
	return m.exited
}

// Delivered returns the most recent signal delivered to the program.
func (m *Machine) Delivered() target.Signal {
	return m.delivered
}

func (m *Machine) String() string {
	return fmt.Sprintf("A=%02x X=%02x Y=%02x SP=%02x P=%02x PC=%04x", m.regs.A, m.regs.X, m.regs.Y, m.regs.SP, m.regs.P, m.regs.PC)
}
