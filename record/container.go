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
	"io"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// the first bytes of every saved session.
const containerMagic = "STEPBACK"

// UnknownCompression is returned when a compression name or tag is not
// recognised.
const UnknownCompression = "record: unknown compression (%v)"

// Compression used for the body of a saved session. The values are stored in
// the container header.
type Compression uint8

// List of valid Compression values.
const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown (%d)", c)
}

func parseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, curated.Errorf(UnknownCompression, name)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// newContainerWriter writes the container header and returns the writer for
// the body. The body writer must be closed before the underlying writer.
func newContainerWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	if _, err := io.WriteString(w, containerMagic); err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte{byte(c)}); err != nil {
		return nil, err
	}

	switch c {
	case CompressionNone:
		return nopWriteCloser{Writer: w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		e, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		return e, nil
	}

	return nil, curated.Errorf(UnknownCompression, c)
}

// newContainerReader reads and checks the container header and returns the
// reader for the body. The returned function should be called when the body
// is no longer required.
func newContainerReader(r io.Reader) (io.Reader, func(), error) {
	hdr := make([]byte, len(containerMagic)+1)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, nil, curated.Errorf(journal.CorruptLogFormat, "missing container header")
	}
	if string(hdr[:len(containerMagic)]) != containerMagic {
		return nil, nil, curated.Errorf(journal.CorruptLogFormat, "not a saved session")
	}

	switch c := Compression(hdr[len(containerMagic)]); c {
	case CompressionNone:
		return r, func() {}, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	case CompressionZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, curated.Errorf(journal.CorruptLogFormat, err)
		}
		return d, d.Close, nil
	default:
		return nil, nil, curated.Errorf(journal.CorruptLogFormat, curated.Errorf(UnknownCompression, c))
	}
}
