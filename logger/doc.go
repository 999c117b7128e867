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

// Package logger is the central log repository for stepback. Every package
// logs to the same central logger with a tag and a detail. The tag is
// normally the name of the package doing the logging. The detail can be a
// string, an error, a fmt.Stringer or any other value printable with the %v
// verb.
//
// Consecutive identical entries are collapsed into one entry with a repeat
// count.
//
// The Permission interface controls whether an entry is accepted. Most
// callers will use logger.Allow.
//
// Isolated logger instances, useful for testing, can be created with
// NewLogger().
package logger
