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

// Package journal implements the execution log used for recording and
// replaying the execution of a debuggee.
//
// The log is a sequence of entries. Register and memory entries hold the
// bytes that differ between two adjacent machine states. A run of register
// and memory entries is terminated by a boundary entry, the boundary marking
// the end of one instruction. Every log begins with a sentinel, representing
// the point before which there is no history.
//
// Entries are held in an arena and refer to each other by handle. The
// cursor is the boundary of the most recently applied instruction, or the
// sentinel if no instruction has been applied.
//
// Entries are applied with the ApplyAndSwap() function. Applying an entry
// writes the stored bytes into the target state and stores the bytes that
// were replaced. The same entry applied again undoes the change, so the log
// can be walked in either direction without a separate redo log.
//
// The number of instructions held in the log can be limited. When the limit
// is reached the oldest instruction is evicted to make room for the new one,
// optionally after asking the user for confirmation.
//
// The log can be written to and read from a byte stream with the Encode()
// and NewDecoder() functions.
package journal
