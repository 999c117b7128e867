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

// Package prefs facilitates the storage of preferential values in the
// stepback system. Preference values are typed (Bool, Int and String) and
// are safe to read from any goroutine.
//
// A Disk instance associates preference values with keys and saves/loads
// them to a file. The file is plain text, one "key :: value" entry per line.
// Entries in the file that the Disk instance doesn't know about are
// preserved when the file is saved, meaning that more than one Disk instance
// can share the same file.
//
// Values can be overridden from the command line with the
// PushCommandLineStack() function. A value found in the top group of the
// stack is used in preference to the value in the file when Load() is
// called.
package prefs
