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

package debugger

import (
	"fmt"

	"github.com/jetsetilly/stepback/curated"
)

// Sentinel error patterns for breakpoints and watches.
const (
	BreakpointExists = "breakpoint at %#04x already exists"
	NoSuchBreakpoint = "breakpoint #%d is not defined"
	WatchExists      = "watch at %s already exists"
	NoSuchWatch      = "watch #%d is not defined"
)

// breakpoints is the list of addresses at which execution should halt. the
// list is consulted in both directions of execution.
type breakpoints struct {
	addresses []uint64
}

// newBreakpoints is the preferred method of initialisation for breakpoints.
func newBreakpoints() *breakpoints {
	bp := &breakpoints{}
	bp.clear()
	return bp
}

func (bp *breakpoints) clear() {
	bp.addresses = make([]uint64, 0, 10)
}

func (bp *breakpoints) add(addr uint64) error {
	if bp.at(addr) {
		return curated.Errorf(BreakpointExists, addr)
	}
	bp.addresses = append(bp.addresses, addr)
	return nil
}

// drop the breakpoint with the number shown by list(). returns the address
// of the dropped breakpoint.
func (bp *breakpoints) drop(num int) (uint64, error) {
	if num < 0 || num >= len(bp.addresses) {
		return 0, curated.Errorf(NoSuchBreakpoint, num)
	}
	addr := bp.addresses[num]
	bp.addresses = append(bp.addresses[:num], bp.addresses[num+1:]...)
	return addr, nil
}

func (bp *breakpoints) at(addr uint64) bool {
	for _, a := range bp.addresses {
		if a == addr {
			return true
		}
	}
	return false
}

func (bp *breakpoints) list() []string {
	if len(bp.addresses) == 0 {
		return []string{"no breakpoints"}
	}
	l := make([]string, 0, len(bp.addresses))
	for i, a := range bp.addresses {
		l = append(l, fmt.Sprintf("% 2d: %#04x", i, a))
	}
	return l
}
