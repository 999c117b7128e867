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
	"github.com/jetsetilly/stepback/arch"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// Name of the architecture in the arch registry.
const Name = "mos6502"

// Sentinel error patterns.
const (
	UnsupportedOpcode = "mos6502: unsupported opcode %#02x at %#04x"
	AnalysisFailed    = "mos6502: %v"
)

func init() {
	arch.Register(Name, func() arch.Analyzer {
		return &Analyzer{}
	})
}

// Analyzer implements the arch.Analyzer interface for the 6502.
type Analyzer struct{}

// Name implements the arch.Analyzer interface.
func (an *Analyzer) Name() string {
	return Name
}

func readRegister8(st target.State, regnum int) (uint8, error) {
	v, err := st.ReadRegister(regnum)
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, curated.Errorf(AnalysisFailed, "unexpected register width")
	}
	return v[0], nil
}

// Analyze implements the arch.Analyzer interface. The program counter is
// always included in the effect.
func (an *Analyzer) Analyze(st target.State) (arch.Effect, error) {
	pc := uint16(st.PC())

	op, err := read8(st, pc)
	if err != nil {
		return arch.Effect{}, curated.Errorf(AnalysisFailed, err)
	}

	defn := Definitions[op]
	if defn == nil {
		return arch.Effect{}, curated.Errorf(UnsupportedOpcode, op, pc)
	}

	eff := arch.Effect{}
	eff.Registers = append(eff.Registers, PC)
	eff.Registers = append(eff.Registers, defn.Registers...)

	if defn.WritesMemory() {
		x, err := readRegister8(st, X)
		if err != nil {
			return arch.Effect{}, curated.Errorf(AnalysisFailed, err)
		}
		y, err := readRegister8(st, Y)
		if err != nil {
			return arch.Effect{}, curated.Errorf(AnalysisFailed, err)
		}
		ea, err := EffectiveAddress(st, defn.AddressingMode, pc, x, y)
		if err != nil {
			return arch.Effect{}, curated.Errorf(AnalysisFailed, err)
		}
		eff.Memory = append(eff.Memory, arch.Range{Address: uint64(ea), Length: 1})
	}

	if defn.Pushes > 0 {
		sp, err := readRegister8(st, SP)
		if err != nil {
			return arch.Effect{}, curated.Errorf(AnalysisFailed, err)
		}

		// each byte is a separate range because the stack pointer wraps
		// around within the stack page
		for i := 0; i < defn.Pushes; i++ {
			addr := StackPage | uint16(sp-uint8(i))
			eff.Memory = append(eff.Memory, arch.Range{Address: uint64(addr), Length: 1})
		}
	}

	return eff, nil
}
