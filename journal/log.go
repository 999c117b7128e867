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
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// Sentinel error patterns.
const (
	// the user refused an action that required confirmation
	UserCancelled = "journal: cancelled by user"

	// the batch was committed while the cursor was not at the tail
	NotAtTail = "journal: commit with cursor not at end of log"

	// the batch contained no entries
	EmptyBatch = "journal: empty instruction"
)

// Handle is a reference to an entry in the log.
type Handle int

const (
	// Sentinel is the handle of the entry at the very beginning of the log.
	// It is not a real entry and cannot be removed.
	Sentinel Handle = 0

	// NoEntry is the handle returned when there is no entry.
	NoEntry Handle = -1
)

type node struct {
	entry Entry
	prev  Handle
	next  Handle
}

// Query is called when the log needs confirmation from the user. It should
// return true if the action should proceed.
type Query func(question string) bool

// Log is the execution log. It should be created with NewLog().
type Log struct {
	// arena of entries. nodes[Sentinel] is the sentinel. free lists the
	// indexes of nodes that can be reused
	nodes []node
	free  []Handle

	tail   Handle
	cursor Handle

	// the number of instructions in the log
	held int

	// the sequence number of the most recently committed instruction. never
	// decreases
	total uint32

	// maximum number of instructions in the log. zero means no limit
	capacity int

	// ask the user before evicting an instruction
	stopAtLimit bool

	query Query
}

// NewLog is the preferred method of initialisation for the Log type.
func NewLog(capacity int, stopAtLimit bool, query Query) *Log {
	l := &Log{
		capacity:    capacity,
		stopAtLimit: stopAtLimit,
		query:       query,
	}
	l.reset()
	return l
}

func (l *Log) reset() {
	l.nodes = l.nodes[:0]
	l.nodes = append(l.nodes, node{
		entry: Entry{Kind: KindBoundary},
		prev:  NoEntry,
		next:  NoEntry,
	})
	l.free = l.free[:0]
	l.tail = Sentinel
	l.cursor = Sentinel
	l.held = 0
}

// SetQuery changes the function used to ask the user for confirmation.
func (l *Log) SetQuery(query Query) {
	l.query = query
}

func (l *Log) alloc(e Entry) Handle {
	n := node{entry: e, prev: NoEntry, next: NoEntry}
	if len(l.free) > 0 {
		h := l.free[len(l.free)-1]
		l.free = l.free[:len(l.free)-1]
		l.nodes[h] = n
		return h
	}
	l.nodes = append(l.nodes, n)
	return Handle(len(l.nodes) - 1)
}

func (l *Log) release(h Handle) {
	l.nodes[h] = node{prev: NoEntry, next: NoEntry}
	l.free = append(l.free, h)
}

// link new entry after the tail of the log.
func (l *Log) link(e Entry) Handle {
	h := l.alloc(e)
	l.nodes[h].prev = l.tail
	l.nodes[l.tail].next = h
	l.tail = h
	return h
}

// Entry returns the entry for the handle. The returned pointer should not be
// kept after the log has been changed.
func (l *Log) Entry(h Handle) *Entry {
	return &l.nodes[h].entry
}

// Next returns the handle of the entry after the specified entry.
func (l *Log) Next(h Handle) Handle {
	return l.nodes[h].next
}

// Prev returns the handle of the entry before the specified entry.
func (l *Log) Prev(h Handle) Handle {
	return l.nodes[h].prev
}

// Cursor returns the handle of the most recently applied boundary.
func (l *Log) Cursor() Handle {
	return l.cursor
}

// SetCursor moves the cursor without applying any entries. The handle must
// be the sentinel or a boundary.
func (l *Log) SetCursor(h Handle) {
	l.cursor = h
}

// Tail returns the handle of the last entry in the log.
func (l *Log) Tail() Handle {
	return l.tail
}

// AtTail returns true if the cursor is at the end of the log.
func (l *Log) AtTail() bool {
	return l.cursor == l.tail
}

// Held returns the number of instructions in the log.
func (l *Log) Held() int {
	return l.held
}

// Total returns the sequence number of the most recently committed
// instruction. This is the number of instructions that have ever been
// committed and is unaffected by eviction.
func (l *Log) Total() uint32 {
	return l.total
}

// SetTotal sets the sequence counter. The value is ignored if it would cause
// the counter to decrease.
func (l *Log) SetTotal(total uint32) {
	if total > l.total {
		l.total = total
	}
}

// Empty returns true if there are no entries in the log.
func (l *Log) Empty() bool {
	return l.nodes[Sentinel].next == NoEntry
}

// Lowest returns the sequence number of the oldest instruction in the log.
// If the log is empty then the value is one more than the total.
func (l *Log) Lowest() uint32 {
	for h := l.nodes[Sentinel].next; h != NoEntry; h = l.nodes[h].next {
		if l.nodes[h].entry.Kind == KindBoundary {
			return l.nodes[h].entry.Sequence
		}
	}
	return l.total + 1
}

// SequenceAt returns the sequence number for the handle, which should be a
// boundary or the sentinel. The sentinel has a sequence number of one less
// than the lowest instruction in the log.
func (l *Log) SequenceAt(h Handle) uint32 {
	if h == Sentinel {
		return l.Lowest() - 1
	}
	return l.nodes[h].entry.Sequence
}

// Find the boundary with the specified sequence number. Returns NoEntry if
// there is no such boundary.
func (l *Log) Find(sequence uint32) Handle {
	if !l.Empty() && sequence == l.SequenceAt(Sentinel) {
		return Sentinel
	}
	for h := l.nodes[Sentinel].next; h != NoEntry; h = l.nodes[h].next {
		e := &l.nodes[h].entry
		if e.Kind == KindBoundary && e.Sequence == sequence {
			return h
		}
	}
	return NoEntry
}

// Entries calls the function for every entry in the log in forward order.
// Iteration stops if the function returns false.
func (l *Log) Entries(f func(h Handle, e *Entry) bool) {
	for h := l.nodes[Sentinel].next; h != NoEntry; h = l.nodes[h].next {
		if !f(h, &l.nodes[h].entry) {
			return
		}
	}
}

// LastBoundary returns the handle of the last boundary in the log, or the
// sentinel if there is none.
func (l *Log) LastBoundary() Handle {
	for h := l.tail; h != Sentinel; h = l.nodes[h].prev {
		if l.nodes[h].entry.Kind == KindBoundary {
			return h
		}
	}
	return Sentinel
}

// Span returns the handles of the entries that moving one instruction from
// the cursor in the specified direction would apply, along with the
// boundary the cursor would move to. The cursor is not moved.
//
// Returns false if there is no history in that direction.
func (l *Log) Span(dir Direction) ([]Handle, Handle, bool) {
	var span []Handle

	if dir == Forward {
		h := l.nodes[l.cursor].next
		if h == NoEntry {
			return nil, l.cursor, false
		}
		for ; h != NoEntry; h = l.nodes[h].next {
			if l.nodes[h].entry.Kind == KindBoundary {
				return span, h, true
			}
			span = append(span, h)
		}

		// a run of entries without a boundary is not an instruction
		return nil, l.cursor, false
	}

	if l.cursor == Sentinel {
		return nil, l.cursor, false
	}

	h := l.nodes[l.cursor].prev
	for ; h != Sentinel; h = l.nodes[h].prev {
		if l.nodes[h].entry.Kind == KindBoundary {
			break
		}
		span = append(span, h)
	}
	return span, h, true
}

// Batch is a list of entries that will become a single instruction in the
// log when committed.
type Batch struct {
	entries []Entry
}

// NewBatch is the preferred method of initialisation for the Batch type.
func NewBatch() *Batch {
	return &Batch{}
}

// AddRegister adds a register entry to the batch.
func (b *Batch) AddRegister(regnum int, value []byte) {
	b.entries = append(b.entries, Entry{
		Kind:     KindRegister,
		Register: regnum,
		Value:    value,
	})
}

// AddMemory adds a memory entry to the batch.
func (b *Batch) AddMemory(addr uint64, value []byte, inaccessible bool) {
	b.entries = append(b.entries, Entry{
		Kind:         KindMemory,
		Address:      addr,
		Value:        value,
		Inaccessible: inaccessible,
	})
}

// Len returns the number of entries in the batch.
func (b *Batch) Len() int {
	return len(b.entries)
}

// Commit the batch to the end of the log as a new instruction. The cursor
// must be at the tail of the log and it remains at the tail afterwards.
//
// Either all the entries in the batch and the terminating boundary are
// linked or none are. Returns the sequence number of the new instruction.
func (l *Log) Commit(b *Batch, sig target.Signal) (uint32, error) {
	if b.Len() == 0 {
		return 0, curated.Errorf(EmptyBatch)
	}
	if l.cursor != l.tail {
		return 0, curated.Errorf(NotAtTail)
	}

	err := l.makeRoom()
	if err != nil {
		return 0, err
	}

	for _, e := range b.entries {
		l.link(e)
	}

	l.total++
	l.cursor = l.link(Entry{
		Kind:     KindBoundary,
		Signal:   sig,
		Sequence: l.total,
	})
	l.held++

	b.entries = b.entries[:0]

	return l.total, nil
}

// Append adds a complete entry to the end of the log. Used when building a
// log from decoded entries. The cursor is not moved.
func (l *Log) Append(e Entry) {
	l.link(e)
	if e.Kind == KindBoundary {
		l.held++
		l.SetTotal(e.Sequence)
	}
}

// TruncateAfter removes every entry after the specified entry. The entry
// becomes the tail of the log. If the cursor was after the entry then the
// cursor is moved to the entry.
func (l *Log) TruncateAfter(h Handle) {
	cursorRemoved := false

	n := l.nodes[h].next
	for n != NoEntry {
		nxt := l.nodes[n].next
		if n == l.cursor {
			cursorRemoved = true
		}
		if l.nodes[n].entry.Kind == KindBoundary {
			l.held--
		}
		l.release(n)
		n = nxt
	}

	l.nodes[h].next = NoEntry
	l.tail = h

	if cursorRemoved {
		l.cursor = h
	}
}

// EvictOldest removes the oldest instruction from the log. Returns false if
// there was nothing to evict.
//
// If the cursor was in the evicted instruction then it is moved to the
// sentinel.
func (l *Log) EvictOldest() bool {
	h := l.nodes[Sentinel].next
	if h == NoEntry {
		return false
	}

	for h != NoEntry {
		nxt := l.nodes[h].next
		kind := l.nodes[h].entry.Kind

		if h == l.cursor {
			l.cursor = Sentinel
		}
		if h == l.tail {
			l.tail = Sentinel
		}
		l.release(h)

		l.nodes[Sentinel].next = nxt
		if nxt != NoEntry {
			l.nodes[nxt].prev = Sentinel
		}

		if kind == KindBoundary {
			l.held--
			break // for loop
		}
		h = nxt
	}

	return true
}

// Instruction calls the function for every entry of the instruction that ends
// with the boundary. The boundary itself is not included. Nothing is called
// if the handle is the sentinel.
func (l *Log) Instruction(boundary Handle, f func(e *Entry)) {
	if boundary == Sentinel {
		return
	}
	for h := l.nodes[boundary].prev; h != Sentinel; h = l.nodes[h].prev {
		if l.nodes[h].entry.Kind == KindBoundary {
			return
		}
		f(&l.nodes[h].entry)
	}
}
