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

package journal

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// graphNode is the structure passed to memviz. the arena itself would
// produce a graph that doesn't show the order of entries.
type graphNode struct {
	Handle      Handle
	Description string
	Cursor      bool
	Next        *graphNode
}

// Graph writes a graphviz description of the log to the io.Writer. If limit
// is greater than zero then only the entries nearest the cursor are included.
func (l *Log) Graph(w io.Writer, limit int) {
	start := Sentinel
	if limit > 0 {
		start = l.cursor
		for i := 0; i < limit/2 && start != Sentinel; i++ {
			start = l.nodes[start].prev
		}
	}

	root := &graphNode{Handle: start, Cursor: start == l.cursor}
	if start == Sentinel {
		root.Description = "sentinel"
	} else {
		root.Description = l.nodes[start].entry.String()
	}

	n := root
	count := 1
	for h := l.nodes[start].next; h != NoEntry; h = l.nodes[h].next {
		if limit > 0 && count >= limit {
			break // for loop
		}
		n.Next = &graphNode{
			Handle:      h,
			Description: l.nodes[h].entry.String(),
			Cursor:      h == l.cursor,
		}
		n = n.Next
		count++
	}

	memviz.Map(w, root)
}
