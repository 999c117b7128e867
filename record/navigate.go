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
	"strconv"
	"strings"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
)

// the question asked by DeleteRecord().
const deleteQuestion = "Delete the log from this point forward and begin to record the running message at current PC?"

// moveTo moves the cursor to the boundary by exchanging every instruction in
// between. Stop conditions are not checked.
func (s *Session) moveTo(dest journal.Handle) error {
	dir := journal.Forward
	if s.log.SequenceAt(dest) < s.log.SequenceAt(s.log.Cursor()) {
		dir = journal.Reverse
	}

	for s.log.Cursor() != dest {
		moved, _, err := s.exchange(dir)
		if err != nil {
			return err
		}
		if !moved {
			return curated.Errorf(TargetNotFound)
		}
	}

	return nil
}

// gotoEntry is the common implementation of the goto functions.
func (s *Session) gotoEntry(dest journal.Handle) error {
	if dest == journal.NoEntry {
		return curated.Errorf(TargetNotFound)
	}
	if dest == s.log.Cursor() {
		return curated.Errorf(AlreadyAtTarget)
	}

	seq := s.log.SequenceAt(dest)
	if seq > s.log.SequenceAt(s.log.Cursor()) {
		logger.Logf(logger.Allow, "record", "go forward to insn number %d", seq)
	} else {
		logger.Logf(logger.Allow, "record", "go backward to insn number %d", seq)
	}

	return s.moveTo(dest)
}

// GotoRecordBegin moves to the state before the first instruction in the log.
func (s *Session) GotoRecordBegin() error {
	if s.log.Empty() {
		return curated.Errorf(NotEnoughHistory)
	}
	return s.gotoEntry(journal.Sentinel)
}

// GotoRecordEnd moves to the state after the last instruction in the log.
func (s *Session) GotoRecordEnd() error {
	if s.log.Empty() {
		return curated.Errorf(NotEnoughHistory)
	}
	return s.gotoEntry(s.log.LastBoundary())
}

// GotoRecord moves to the state after the instruction with the sequence
// number. The sequence number one less than the lowest in the log is the
// state before the first instruction.
func (s *Session) GotoRecord(sequence uint32) error {
	return s.gotoEntry(s.log.Find(sequence))
}

// StopReplaying moves to the end of the log and sets the direction to
// forward. The session is then live. It is not an error if the session was
// not replaying.
func (s *Session) StopReplaying() error {
	s.direction = journal.Forward
	if s.log.AtTail() {
		return nil
	}
	return s.GotoRecordEnd()
}

// Bookmark returns a string that can be used with GotoBookmark() to return to
// the current position in the log.
func (s *Session) Bookmark() string {
	return strconv.FormatUint(uint64(s.log.SequenceAt(s.log.Cursor())), 10)
}

// GotoBookmark moves to the position in the log returned by an earlier call
// to Bookmark(). The bookmark may be quoted with single or double quotes.
func (s *Session) GotoBookmark(bookmark string) error {
	bookmark = strings.TrimSpace(bookmark)

	if len(bookmark) > 0 && (bookmark[0] == '\'' || bookmark[0] == '"') {
		if len(bookmark) < 2 || bookmark[len(bookmark)-1] != bookmark[0] {
			return curated.Errorf(BadBookmark, fmt.Sprintf("unbalanced quotes: %s", bookmark))
		}
		bookmark = bookmark[1 : len(bookmark)-1]
	}

	n, err := strconv.ParseUint(bookmark, 10, 32)
	if err != nil {
		return curated.Errorf(BadBookmark, fmt.Sprintf("invalid bookmark: %s", bookmark))
	}

	return s.GotoRecord(uint32(n))
}

// DeleteRecord discards the log after the current position, after asking
// the user for confirmation. The session will be live after a successful
// call.
func (s *Session) DeleteRecord() error {
	if !s.IsReplaying() {
		return curated.Errorf(AlreadyAtEnd)
	}
	if !s.ask(deleteQuestion) {
		return curated.Errorf(journal.UserCancelled)
	}
	s.truncate()
	s.direction = journal.Forward
	return nil
}

// truncate the log after the cursor.
func (s *Session) truncate() {
	before := s.log.Held()
	s.log.TruncateAfter(s.log.Cursor())
	if n := before - s.log.Held(); n > 0 {
		logger.Logf(logger.Allow, "record", "deleted %d instructions after insn number %d", n, s.log.SequenceAt(s.log.Cursor()))
	}
}
