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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/logger"
)

// snapshots larger than this are treated as corrupt.
const maxSnapshotLength = 1 << 28

// Save the log and a snapshot of the debuggee to a file. The snapshot is
// taken at the beginning of the log, which means the session is moved to the
// beginning of the log and then back again.
//
// The file is written completely or not at all. The session is unchanged on
// return, whether or not there was an error.
func (s *Session) Save(path string) (rerr error) {
	c, err := parseCompression(s.Prefs.Compression.String())
	if err != nil {
		return curated.Errorf(SaveFailed, err)
	}

	defer s.disable()()

	orig := s.log.Cursor()
	defer func() {
		if err := s.moveTo(orig); err != nil && rerr == nil {
			rerr = curated.Errorf(SaveFailed, err)
		}
	}()

	if err := s.moveTo(journal.Sentinel); err != nil {
		return curated.Errorf(SaveFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), fmt.Sprintf(".%s.*", filepath.Base(path)))
	if err != nil {
		return curated.Errorf(SaveFailed, err)
	}

	err = s.writeContainer(tmp, c)
	if err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return curated.Errorf(SaveFailed, err)
	}

	logger.Logf(logger.Allow, "record", "saved %d instructions to %s", s.log.Held(), path)

	return nil
}

func (s *Session) writeContainer(w io.Writer, c Compression) error {
	bw := bufio.NewWriter(w)

	cw, err := newContainerWriter(bw, c)
	if err != nil {
		return err
	}

	var snap bytes.Buffer
	if err := s.tr.Snapshot(&snap); err != nil {
		return err
	}
	if err := binary.Write(cw, binary.BigEndian, uint64(snap.Len())); err != nil {
		return err
	}
	if _, err := cw.Write(snap.Bytes()); err != nil {
		return err
	}

	if err := journal.WriteMagic(cw); err != nil {
		return err
	}
	s.log.Entries(func(_ journal.Handle, e *journal.Entry) bool {
		err = journal.Encode(cw, e)
		return err == nil
	})
	if err != nil {
		return err
	}

	if err := cw.Close(); err != nil {
		return err
	}

	return bw.Flush()
}

// Restore a file created by Save(). The current log is replaced and the
// debuggee is put into the state at the end of the restored log.
//
// Nothing is changed if the file cannot be decoded. If the restored log has
// more instructions than the capacity of the session then the capacity is
// raised.
func (s *Session) Restore(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return curated.Errorf(RestoreFailed, err)
	}
	defer f.Close()

	body, done, err := newContainerReader(bufio.NewReader(f))
	if err != nil {
		return err
	}
	defer done()

	var n uint64
	if err := binary.Read(body, binary.BigEndian, &n); err != nil {
		return curated.Errorf(journal.CorruptLogFormat, "missing snapshot")
	}
	if n > maxSnapshotLength {
		return curated.Errorf(journal.CorruptLogFormat, fmt.Sprintf("snapshot too large (%d bytes)", n))
	}
	snap := make([]byte, n)
	if _, err := io.ReadFull(body, snap); err != nil {
		return curated.Errorf(journal.CorruptLogFormat, "truncated snapshot")
	}

	entries, err := journal.ReadEntries(body, s.tr)
	if err != nil {
		return err
	}

	capacity := s.log.Capacity()
	log, raised := journal.NewLogFromEntries(entries, capacity, s.log.StopAtLimit(), s.ask)

	if err := s.tr.RestoreSnapshot(bytes.NewReader(snap)); err != nil {
		return curated.Errorf(RestoreFailed, err)
	}

	if raised {
		logger.Logf(logger.Allow, "record", "restored log has %d instructions: capacity raised from %d", log.Held(), capacity)
	}

	s.log = log
	s.direction = journal.Forward
	s.request = nil

	defer s.disable()()

	if !s.log.Empty() {
		if err := s.moveTo(s.log.LastBoundary()); err != nil {
			return curated.Errorf(RestoreFailed, err)
		}
	}

	logger.Logf(logger.Allow, "record", "restored %d instructions from %s", s.log.Held(), path)

	return nil
}
