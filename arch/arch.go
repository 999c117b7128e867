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

package arch

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// UnsupportedArchitecture is returned by Select() when there is no Analyzer
// for the architecture.
const UnsupportedArchitecture = "arch: architecture not supported (%s)"

// Range is a contiguous range of memory.
type Range struct {
	Address uint64
	Length  int
}

func (r Range) String() string {
	return fmt.Sprintf("%#04x (%d bytes)", r.Address, r.Length)
}

// Effect lists the registers and memory that an instruction writes to.
type Effect struct {
	Registers []int
	Memory    []Range
}

// Empty returns true if the effect writes to nothing.
func (e Effect) Empty() bool {
	return len(e.Registers) == 0 && len(e.Memory) == 0
}

// Analyzer implementations report the effect of the instruction that is
// about to be executed in the target state.
type Analyzer interface {
	Name() string
	Analyze(st target.State) (Effect, error)
}

var crit sync.Mutex
var registry = make(map[string]func() Analyzer)

// Register a function that creates an Analyzer for the named architecture.
func Register(name string, create func() Analyzer) {
	crit.Lock()
	defer crit.Unlock()
	registry[name] = create
}

// Select returns an Analyzer for the named architecture.
func Select(name string) (Analyzer, error) {
	crit.Lock()
	defer crit.Unlock()

	create, ok := registry[name]
	if !ok {
		return nil, curated.Errorf(UnsupportedArchitecture, name)
	}
	return create(), nil
}

// Names returns the sorted list of registered architectures.
func Names() []string {
	crit.Lock()
	defer crit.Unlock()

	n := make([]string, 0, len(registry))
	for k := range registry {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}
