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

// Package debugger implements a command line debugger for the simulated
// machine, with reverse execution. Features include:
//
//	- single stepping and continuing, forwards and backwards
//	- breakpoints and watches
//	- memory peek and poke
//	- register inspection and modification
//	- navigation of the execution log
//	- saving and restoring of the execution log
//
// Reverse execution comes courtesy of the record package. The debugger
// opens a record session as soon as it is created and every instruction
// executed by the debugger is recorded.
//
// Initialisation of the debugger is done with the NewDebugger() function
//
//	dbg, _ := debugger.NewDebugger(machine, term, prefs)
//
// Interaction with the debugger is through a terminal. The Terminal
// interface is defined in the terminal package and the plainterm
// sub-package provides a reference implementation.
//
// Once initialised, the debugger can be started with the Start() function,
// which returns when the user quits or when the context is cancelled.
package debugger
