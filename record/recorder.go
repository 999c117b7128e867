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

package record

import (
	"fmt"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
	"github.com/jetsetilly/stepback/target"
)

// the question asked when memory cannot be recorded and the memoryQuery
// preference is set.
const memoryQuestion = "Process record: error reading memory at addr = %#04x len = %d.\nIt will make record target get error. Do you want to stop the program?"

// recordStep records the instruction that is about to be executed. The
// signal is the signal that will be delivered to the debuggee before the
// instruction is executed and is recorded in the boundary of the previous
// instruction.
//
// The log is unchanged if an error is returned.
func (s *Session) recordStep(sig target.Signal) error {
	eff, err := s.analyzer.Analyze(s.tr)
	if err != nil {
		return curated.Errorf(RecordingFailed, err)
	}
	if eff.Empty() {
		return curated.Errorf(RecordingFailed, fmt.Sprintf("no effect for instruction at %#04x", s.tr.PC()))
	}

	batch := journal.NewBatch()

	for _, r := range eff.Registers {
		v, err := s.tr.ReadRegister(r)
		if err != nil {
			return curated.Errorf(RecordingFailed, err)
		}
		batch.AddRegister(r, v)
	}

	for _, m := range eff.Memory {
		if err := s.recordMemory(batch, m.Address, m.Length); err != nil {
			return err
		}
	}

	return s.commit(batch, sig)
}

// recordMemory adds the current value of the memory to the batch. Memory
// that cannot be read is added as an inaccessible entry.
func (s *Session) recordMemory(batch *journal.Batch, addr uint64, length int) error {
	v := make([]byte, length)

	err := s.tr.ReadMemory(addr, v)
	if err == nil {
		batch.AddMemory(addr, v, false)
		return nil
	}

	logger.Logf(logger.Allow, "record", "cannot read memory at %#04x (%d bytes): %v", addr, length, err)

	if s.Prefs.MemoryQuery.Get().(bool) {
		if s.ask(fmt.Sprintf(memoryQuestion, addr, length)) {
			return curated.Errorf(RecordingFailed, err)
		}
	}

	batch.AddMemory(addr, v, true)
	return nil
}

// commit the batch to the log. a non-null signal is written to the boundary
// of the previous instruction.
func (s *Session) commit(batch *journal.Batch, sig target.Signal) error {
	_, err := s.log.Commit(batch, target.SignalNone)
	if err != nil {
		if curated.Is(err, journal.UserCancelled) {
			return err
		}
		return curated.Errorf(RecordingFailed, err)
	}

	if sig != target.SignalNone {
		// the previous boundary may have been evicted to make room for
		// the new instruction
		if h := s.previousBoundary(s.log.Cursor()); h != journal.Sentinel {
			s.log.Entry(h).Signal = sig
		}
	}

	return nil
}

// previousBoundary returns the boundary before the instruction that ends
// with the boundary h. Returns the sentinel if there is no such boundary.
func (s *Session) previousBoundary(h journal.Handle) journal.Handle {
	h = s.log.Prev(h)
	for h != journal.Sentinel && s.log.Entry(h).Kind != journal.KindBoundary {
		h = s.log.Prev(h)
	}
	return h
}

// dropLast removes the most recently committed instruction. Used when the
// transport refuses to execute an instruction that has been recorded. The
// sequence number of the instruction is not reused.
func (s *Session) dropLast() {
	s.log.TruncateAfter(s.previousBoundary(s.log.Cursor()))
}
