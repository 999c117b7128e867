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

// Package machine is a simulated 6502 debuggee. It implements the
// target.Transport interface and so can be recorded and replayed by the
// record package.
//
// The machine has 64K of memory. A program is loaded with the Load()
// function. Execution begins at the origin of the program and ends when a
// BRK instruction is encountered.
//
// Memory can be protected with the Protect() function. Protected memory
// cannot be read or written through the target.Memory interface but the
// program itself can still access it. This simulates memory mapped areas
// that a debugger cannot access.
//
// Signals can be raised asynchronously with the Raise() function. A raised
// signal stops execution before the next instruction.
//
// Snapshots of the machine state are encoded with CBOR.
package machine
