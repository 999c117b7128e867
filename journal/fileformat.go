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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// The encoded log begins with a four byte magic number. All values are big
// endian.
//
//	Magic:
//		4 bytes: 0x20091016
//
//	Boundary:
//		1 byte:  tag (0)
//		4 bytes: signal
//		4 bytes: sequence number
//
//	Register:
//		1 byte:  tag (1)
//		4 bytes: register number
//		n bytes: value (n == width of register)
//
//	Memory:
//		1 byte:  tag (2)
//		4 bytes: length
//		8 bytes: address
//		n bytes: value (n == length)
//
// The legacy format can be read but is never written.
//
//	Magic:
//		4 bytes: 0x20090829
//
//	Boundary:
//		1 byte:  tag (0)
//
//	Register:
//		1 byte:  tag (1)
//		8 bytes: register number
//		16 bytes: value (truncated to width of register)
//
//	Memory:
//		1 byte:  tag (2)
//		8 bytes: length
//		8 bytes: address
//		n bytes: value (n == length)
const (
	Magic       uint32 = 0x20091016
	MagicLegacy uint32 = 0x20090829
)

// size of register value in the legacy format.
const legacyRegisterSize = 16

// memory entries longer than this are considered to be corrupt.
const maxMemoryLength = 1 << 24

// CorruptLogFormat is the sentinel error pattern for any problem decoding
// the log.
const CorruptLogFormat = "journal: corrupt log format: %v"

// RegisterLayout describes the registers of the architecture. Needed to
// decode register entries, the width of which is not encoded.
type RegisterLayout interface {
	NumRegisters() int
	RegisterWidth(regnum int) int
}

// WriteMagic writes the magic number that begins every encoded log.
func WriteMagic(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, Magic)
}

// Encode writes a single entry.
func Encode(w io.Writer, e *Entry) error {
	var hdr []byte

	switch e.Kind {
	case KindBoundary:
		hdr = make([]byte, 9)
		binary.BigEndian.PutUint32(hdr[1:], uint32(e.Signal))
		binary.BigEndian.PutUint32(hdr[5:], e.Sequence)
	case KindRegister:
		hdr = make([]byte, 5)
		binary.BigEndian.PutUint32(hdr[1:], uint32(e.Register))
	case KindMemory:
		hdr = make([]byte, 13)
		binary.BigEndian.PutUint32(hdr[1:], uint32(len(e.Value)))
		binary.BigEndian.PutUint64(hdr[5:], e.Address)
	default:
		return fmt.Errorf("journal: cannot encode entry of kind %d", e.Kind)
	}
	hdr[0] = byte(e.Kind)

	if _, err := w.Write(hdr); err != nil {
		return err
	}

	if e.Kind != KindBoundary {
		if _, err := w.Write(e.Value); err != nil {
			return err
		}
	}

	return nil
}

// Decoder reads entries from an encoded log.
type Decoder struct {
	r      *bufio.Reader
	layout RegisterLayout
	legacy bool

	// sequence numbers are not stored in the legacy format
	sequence uint32
}

// NewDecoder reads and checks the magic number at the beginning of the
// encoded log.
func NewDecoder(r io.Reader, layout RegisterLayout) (*Decoder, error) {
	d := &Decoder{
		r:      bufio.NewReader(r),
		layout: layout,
	}

	var magic uint32
	if err := binary.Read(d.r, binary.BigEndian, &magic); err != nil {
		return nil, curated.Errorf(CorruptLogFormat, "missing magic number")
	}

	switch magic {
	case Magic:
	case MagicLegacy:
		d.legacy = true
	default:
		return nil, curated.Errorf(CorruptLogFormat, fmt.Sprintf("unrecognised magic number (%#08x)", magic))
	}

	return d, nil
}

// Legacy returns true if the log is in the legacy format.
func (d *Decoder) Legacy() bool {
	return d.legacy
}

func (d *Decoder) read(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, curated.Errorf(CorruptLogFormat, "truncated entry")
	}
	return b, nil
}

func (d *Decoder) regnum(n uint64) (int, error) {
	if n >= uint64(d.layout.NumRegisters()) {
		return 0, curated.Errorf(CorruptLogFormat, fmt.Sprintf("register %d does not exist", n))
	}
	return int(n), nil
}

// Decode the next entry. Returns io.EOF when there are no more entries.
func (d *Decoder) Decode() (Entry, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, curated.Errorf(CorruptLogFormat, err)
	}

	switch Kind(tag) {
	case KindBoundary:
		if d.legacy {
			d.sequence++
			return Entry{Kind: KindBoundary, Sequence: d.sequence}, nil
		}
		b, err := d.read(8)
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			Kind:     KindBoundary,
			Signal:   target.Signal(binary.BigEndian.Uint32(b)),
			Sequence: binary.BigEndian.Uint32(b[4:]),
		}, nil

	case KindRegister:
		var n uint64
		var slot int
		if d.legacy {
			b, err := d.read(8)
			if err != nil {
				return Entry{}, err
			}
			n = binary.BigEndian.Uint64(b)
			slot = legacyRegisterSize
		} else {
			b, err := d.read(4)
			if err != nil {
				return Entry{}, err
			}
			n = uint64(binary.BigEndian.Uint32(b))
		}

		regnum, err := d.regnum(n)
		if err != nil {
			return Entry{}, err
		}

		width := d.layout.RegisterWidth(regnum)
		if slot == 0 {
			slot = width
		}
		if width > slot {
			return Entry{}, curated.Errorf(CorruptLogFormat, fmt.Sprintf("register %d is too wide for the legacy format", regnum))
		}

		v, err := d.read(slot)
		if err != nil {
			return Entry{}, err
		}

		return Entry{Kind: KindRegister, Register: regnum, Value: v[:width]}, nil

	case KindMemory:
		var length uint64
		if d.legacy {
			b, err := d.read(8)
			if err != nil {
				return Entry{}, err
			}
			length = binary.BigEndian.Uint64(b)
		} else {
			b, err := d.read(4)
			if err != nil {
				return Entry{}, err
			}
			length = uint64(binary.BigEndian.Uint32(b))
		}

		if length > maxMemoryLength {
			return Entry{}, curated.Errorf(CorruptLogFormat, fmt.Sprintf("memory entry too long (%d bytes)", length))
		}

		b, err := d.read(8)
		if err != nil {
			return Entry{}, err
		}
		addr := binary.BigEndian.Uint64(b)

		v, err := d.read(int(length))
		if err != nil {
			return Entry{}, err
		}

		return Entry{Kind: KindMemory, Address: addr, Value: v}, nil
	}

	return Entry{}, curated.Errorf(CorruptLogFormat, fmt.Sprintf("unrecognised entry tag (%d)", tag))
}

// ReadEntries decodes every entry in the encoded log. Either every entry is
// returned or an error is returned.
//
// The entries are checked for consistency. Sequence numbers must increase and
// the final entry must be a boundary.
func ReadEntries(r io.Reader, layout RegisterLayout) ([]Entry, error) {
	d, err := NewDecoder(r, layout)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var last uint32
	var seen bool
	var open bool

	for {
		e, err := d.Decode()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break // for loop
			}
			return nil, err
		}

		if e.Kind == KindBoundary {
			if seen && e.Sequence <= last {
				return nil, curated.Errorf(CorruptLogFormat, fmt.Sprintf("sequence number %d follows %d", e.Sequence, last))
			}
			last = e.Sequence
			seen = true
			open = false
		} else {
			open = true
		}

		entries = append(entries, e)
	}

	if open {
		return nil, curated.Errorf(CorruptLogFormat, "incomplete instruction at end of log")
	}

	return entries, nil
}

// NewLogFromEntries creates a new log with the entries in the order they
// are given. The cursor is placed at the sentinel.
//
// If there are more instructions than the capacity allows then the capacity
// is raised to match. The returned bool is true in that case.
func NewLogFromEntries(entries []Entry, capacity int, stopAtLimit bool, query Query) (*Log, bool) {
	l := NewLog(capacity, stopAtLimit, query)
	for _, e := range entries {
		l.Append(e)
	}

	raised := false
	if l.capacity > 0 && l.held > l.capacity {
		l.capacity = l.held
		raised = true
	}

	return l, raised
}
