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
	"github.com/jetsetilly/stepback/target"
)

// questions asked before writing while replaying.
const (
	registerQuestion    = "Because the session is replaying, changing the value of a register will make the execution log unusable from this point onward. Change register %s?"
	memoryWriteQuestion = "Because the session is replaying, writing to memory will make the execution log unusable from this point onward. Write memory at address %#04x?"
)

// confirmWrite asks the user before writing while replaying. The log after
// the cursor is discarded if the user agrees.
func (s *Session) confirmWrite(question string) error {
	if !s.ask(question) {
		return curated.Errorf(journal.UserCancelled)
	}
	s.truncate()
	return nil
}

// StoreRegister writes a value to a register of the debuggee.
//
// The write is recorded as an instruction of its own, so that it can be
// reversed. When replaying the user is first asked for confirmation and the
// log after the current position is discarded.
func (s *Session) StoreRegister(regnum int, value []byte) error {
	if s.disabled > 0 {
		return s.tr.WriteRegister(regnum, value)
	}

	if s.IsReplaying() {
		if err := s.confirmWrite(fmt.Sprintf(registerQuestion, s.tr.RegisterName(regnum))); err != nil {
			return err
		}
	}

	v, err := s.tr.ReadRegister(regnum)
	if err != nil {
		return err
	}
	batch := journal.NewBatch()
	batch.AddRegister(regnum, v)
	if err := s.commit(batch, target.SignalNone); err != nil {
		return err
	}

	return s.tr.WriteRegister(regnum, value)
}

// TransferMemory reads or writes the memory of the debuggee. Writes are
// treated in the same way as by StoreRegister().
func (s *Session) TransferMemory(addr uint64, buf []byte, isWrite bool) error {
	if !isWrite {
		return s.tr.ReadMemory(addr, buf)
	}

	if s.disabled > 0 {
		return s.tr.WriteMemory(addr, buf)
	}

	if s.IsReplaying() {
		if err := s.confirmWrite(fmt.Sprintf(memoryWriteQuestion, addr)); err != nil {
			return err
		}
	}

	batch := journal.NewBatch()
	if err := s.recordMemory(batch, addr, len(buf)); err != nil {
		return err
	}
	if err := s.commit(batch, target.SignalNone); err != nil {
		return err
	}

	return s.tr.WriteMemory(addr, buf)
}

// ReadRegister reads a register of the debuggee.
func (s *Session) ReadRegister(regnum int) ([]byte, error) {
	return s.tr.ReadRegister(regnum)
}
