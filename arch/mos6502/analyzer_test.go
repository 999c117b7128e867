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

package mos6502_test

import (
	"testing"

	"github.com/jetsetilly/stepback/arch"
	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/machine"
	"github.com/jetsetilly/stepback/test"
)

func setPC(t *testing.T, m *machine.Machine, pc uint16) {
	t.Helper()
	test.DemandSuccess(t, m.WriteRegister(mos6502.PC, []byte{uint8(pc), uint8(pc >> 8)}))
}

func TestAnalyzer(t *testing.T) {
	an, err := arch.Select(mos6502.Name)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, an.Name(), mos6502.Name)

	m := machine.NewMachine()
	test.DemandSuccess(t, m.Load([]byte{
		0xa9, 0x42, // LDA #$42
		0x8d, 0x00, 0x02, // STA $0200
		0x20, 0x00, 0x20, // JSR $2000
		0x48,             // PHA
		0x9d, 0x00, 0x03, // STA $0300,X
		0x0a, // ASL A
		0x02, // unsupported
	}, 0x1000))

	eff, err := an.Analyze(m)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(eff.Registers), 3)
	test.ExpectEquality(t, eff.Registers[0], mos6502.PC)
	test.ExpectEquality(t, eff.Registers[1], mos6502.A)
	test.ExpectEquality(t, eff.Registers[2], mos6502.P)
	test.ExpectEquality(t, len(eff.Memory), 0)

	setPC(t, m, 0x1002)
	eff, err = an.Analyze(m)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(eff.Registers), 1)
	test.DemandEquality(t, len(eff.Memory), 1)
	test.ExpectEquality(t, eff.Memory[0], arch.Range{Address: 0x0200, Length: 1})

	setPC(t, m, 0x1005)
	eff, err = an.Analyze(m)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(eff.Registers), 2)
	test.ExpectEquality(t, eff.Registers[1], mos6502.SP)
	test.DemandEquality(t, len(eff.Memory), 2)
	test.ExpectEquality(t, eff.Memory[0], arch.Range{Address: 0x01ff, Length: 1})
	test.ExpectEquality(t, eff.Memory[1], arch.Range{Address: 0x01fe, Length: 1})

	// stack pointer wraps within the stack page
	test.DemandSuccess(t, m.WriteRegister(mos6502.SP, []byte{0x00}))
	setPC(t, m, 0x1008)
	eff, err = an.Analyze(m)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(eff.Memory), 1)
	test.ExpectEquality(t, eff.Memory[0], arch.Range{Address: 0x0100, Length: 1})

	// indexed addressing uses the current value of X
	test.DemandSuccess(t, m.WriteRegister(mos6502.X, []byte{0x10}))
	setPC(t, m, 0x1009)
	eff, err = an.Analyze(m)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(eff.Memory), 1)
	test.ExpectEquality(t, eff.Memory[0], arch.Range{Address: 0x0310, Length: 1})

	// accumulator mode does not write memory
	setPC(t, m, 0x100c)
	eff, err = an.Analyze(m)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(eff.Memory), 0)

	setPC(t, m, 0x100d)
	_, err = an.Analyze(m)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, mos6502.UnsupportedOpcode))
}

func TestAnalyzerProtectedMemory(t *testing.T) {
	an, err := arch.Select(mos6502.Name)
	test.DemandSuccess(t, err)

	m := machine.NewMachine()
	test.DemandSuccess(t, m.Load([]byte{0xea}, 0x1000))
	m.Protect(0x1000, 1)

	_, err = an.Analyze(m)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, mos6502.AnalysisFailed))
	test.ExpectSuccess(t, curated.Has(err, machine.Protected))
}

func TestSelect(t *testing.T) {
	_, err := arch.Select("z80")
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, arch.UnsupportedArchitecture))

	found := false
	for _, n := range arch.Names() {
		if n == mos6502.Name {
			found = true
		}
	}
	test.ExpectSuccess(t, found)
}

func TestEffectiveAddress(t *testing.T) {
	m := machine.NewMachine()

	// JMP ($10ff) fetches the high byte from $1000 and not $1100
	test.DemandSuccess(t, m.Load([]byte{0x6c, 0xff, 0x10}, 0x2000))
	test.DemandSuccess(t, m.WriteMemory(0x10ff, []byte{0x34}))
	test.DemandSuccess(t, m.WriteMemory(0x1000, []byte{0x12}))
	test.DemandSuccess(t, m.WriteMemory(0x1100, []byte{0x56}))

	ea, err := mos6502.EffectiveAddress(m, mos6502.Indirect, 0x2000, 0, 0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ea, uint16(0x1234))

	// branch backwards
	test.DemandSuccess(t, m.WriteMemory(0x3000, []byte{0xd0, 0xfe}))
	ea, err = mos6502.EffectiveAddress(m, mos6502.Relative, 0x3000, 0, 0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ea, uint16(0x3000))

	// zero page indexing wraps
	test.DemandSuccess(t, m.WriteMemory(0x4000, []byte{0xb5, 0xf0}))
	ea, err = mos6502.EffectiveAddress(m, mos6502.ZeroPageIndexedX, 0x4000, 0x20, 0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ea, uint16(0x0010))
}

func TestInstructionSet(t *testing.T) {
	var n int
	for op, defn := range mos6502.Definitions {
		if defn == nil {
			continue
		}
		n++
		test.ExpectEquality(t, int(defn.OpCode), op)
	}
	test.ExpectEquality(t, n, 151)

	an, err := arch.Select(mos6502.Name)
	test.DemandSuccess(t, err)

	m := machine.NewMachine()
	test.DemandSuccess(t, m.Load([]byte{
		0x2e, 0x11, 0x02, // ROL $0211
		0xf9, 0x00, 0x03, // SBC $0300,Y
	}, 0x1000))

	eff, err := an.Analyze(m)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(eff.Registers), 2)
	test.ExpectEquality(t, eff.Registers[1], mos6502.P)
	test.DemandEquality(t, len(eff.Memory), 1)
	test.ExpectEquality(t, eff.Memory[0].Address, uint64(0x0211))
	test.ExpectEquality(t, eff.Memory[0].Length, 1)

	setPC(t, m, 0x1003)
	eff, err = an.Analyze(m)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(eff.Registers), 3)
	test.ExpectEquality(t, len(eff.Memory), 0)
}
