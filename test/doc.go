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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() and ExpectInequality() functions compare any two
// comparable values of the same type. The ExpectSuccess() and ExpectFailure()
// functions test for "success" values, which for a bool is true and for an
// error is nil.
//
// The Demand*() variations stop the test immediately on failure. They should
// be used when a failed condition means the rest of the test is meaningless.
//
// CompareWriter is an implementation of io.Writer that collects everything
// written to it. It's useful for testing output to terminals.
package test
