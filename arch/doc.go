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

// Package arch defines the interface for analysing the effect of the next
// instruction to be executed by the debuggee. The recorder uses the
// analysis to decide which registers and which memory to save before the
// instruction is executed.
//
// Implementations for specific architectures register themselves with the
// Register() function, normally in an init() function. The Select()
// function returns an Analyzer for the named architecture.
package arch
