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

	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/machine"
	"github.com/jetsetilly/stepback/test"
)

func TestDisassemble(t *testing.T) {
	m := machine.NewMachine()
	test.DemandSuccess(t, m.Load([]byte{
		0xa9, 0x42, // LDA #$42
		0x9d, 0x00, 0x03, // STA $0300,X
		0xd0, 0xf9, // BNE $1000
		0x0a,             // ASL A
		0x6c, 0xff, 0x10, // JMP ($10ff)
		0xb1, 0x80, // LDA ($80),Y
		0xea, // NOP
		0x02, // unsupported
	}, 0x1000))

	expected := []struct {
		addr uint16
		s    string
	}{
		{0x1000, "LDA #$42"},
		{0x1002, "STA $0300,X"},
		{0x1005, "BNE $1000"},
		{0x1007, "ASL A"},
		{0x1008, "JMP ($10ff)"},
		{0x100b, "LDA ($80),Y"},
		{0x100d, "NOP"},
	}

	for _, e := range expected {
		s, err := mos6502.Disassemble(m, e.addr)
		test.ExpectSuccess(t, err, e.s)
		test.ExpectEquality(t, s, e.s)
	}

	_, err := mos6502.Disassemble(m, 0x100e)
	test.ExpectSuccess(t, curated.Is(err, mos6502.UnsupportedOpcode))
}
