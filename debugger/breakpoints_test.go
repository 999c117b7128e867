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

package debugger_test

import (
	"testing"
)

func TestBreakpoints(t *testing.T) {
	trm, _ := runScript(t, loop,
		"LIST BREAKS",
		"BREAK $1007",
		"BREAK 0x1007",
		"LIST BREAKS",
		"CONTINUE",
		"CONTINUE",
		"RCONTINUE",
		"RCONTINUE",
		"DROP BREAK 0",
		"DROP BREAK 0",
		"LIST",
	)

	trm.cmpOutput(
		"no breakpoints",
		"breakpoint at 0x1007",
		"breakpoint at 0x1007 already exists",
		" 0: 0x1007",
		"breakpoint at 0x1007",
		"0x1007: DEX",
		"breakpoint at 0x1007",
		"0x1007: DEX",
		"breakpoint at 0x1007",
		"0x1007: DEX",
		"No more reverse-execution history.",
		"0x1000: LDX #$03",
		"breakpoint #0 dropped",
		"breakpoint #0 is not defined",
		"no breakpoints",
		"no watches",
	)
}
