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

type watcher struct {
	address uint64
	length  int
}

func (wtr watcher) String() string {
	if wtr.length == 1 {
		return fmt.Sprintf("%#04x", wtr.address)
	}
	return fmt.Sprintf("%#04x (%d bytes)", wtr.address, wtr.length)
}

// overlaps returns true if any part of the memory range is watched.
func (wtr watcher) overlaps(addr uint64, length int) bool {
	return addr < wtr.address+uint64(wtr.length) && wtr.address < addr+uint64(length)
}

// watches halt execution when watched memory is changed by an instruction.
type watches struct {
	watches []watcher
}

// newWatches is the preferred method of initialisation for watches.
func newWatches() *watches {
	wtc := &watches{}
	wtc.clear()
	return wtc
}

func (wtc *watches) clear() {
	wtc.watches = make([]watcher, 0, 10)
}

func (wtc *watches) add(addr uint64, length int) error {
	w := watcher{address: addr, length: length}
	for _, o := range wtc.watches {
		if o == w {
			return curated.Errorf(WatchExists, w)
		}
	}
	wtc.watches = append(wtc.watches, w)
	return nil
}

func (wtc *watches) drop(num int) error {
	if num < 0 || num >= len(wtc.watches) {
		return curated.Errorf(NoSuchWatch, num)
	}
	wtc.watches = append(wtc.watches[:num], wtc.watches[num+1:]...)
	return nil
}

func (wtc *watches) over(addr uint64, length int) bool {
	for _, w := range wtc.watches {
		if w.overlaps(addr, length) {
			return true
		}
	}
	return false
}

func (wtc *watches) list() []string {
	if len(wtc.watches) == 0 {
		return []string{"no watches"}
	}
	l := make([]string, 0, len(wtc.watches))
	for i, w := range wtc.watches {
		l = append(l, fmt.Sprintf("% 2d: %s", i, w))
	}
	return l
}
