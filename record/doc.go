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

// Package record implements the record and replay engine. A Session is
// opened on a target.Transport and from then on every instruction executed
// by the debuggee is journaled in a journal.Log.
//
// When the session is "live" the debuggee is single-stepped and the
// registers and memory that each instruction is about to change are
// recorded. When the session is "replaying" the debuggee is not executed at
// all. Instead, the recorded changes are exchanged with the state of the
// debuggee, moving it forwards or backwards through the recorded history.
//
// The session is replaying whenever the cursor is not at the end of the log
// or when the direction of execution is journal.Reverse. Resuming in the
// forward direction from the end of the log returns the session to live
// recording.
//
// Writing to a register or to memory while replaying discards the history
// after the current position, after asking the user for confirmation.
//
// The log can be saved to a file with Save() and restored with Restore().
// The file contains a snapshot of the debuggee at the start of the log and
// the log itself.
//
// Only the Interrupt() function is safe to call from a goroutine other than
// the one driving the Session.
package record
