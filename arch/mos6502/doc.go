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

// Package mos6502 describes the MOS 6502 instruction set and implements
// the arch.Analyzer interface for it.
//
// The definitions table covers the documented instructions used by the
// machine package. Undocumented opcodes are not supported and cause the
// analyzer to return an error.
//
// The package registers itself with the arch package with the name
// "mos6502".
package mos6502
