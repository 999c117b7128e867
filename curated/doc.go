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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. Formatting is deferred until the
// Error() function is called.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. The Has() function is similar but checks if a pattern
// occurs anywhere in the error chain.
//
//	const NoHistory = "no more reverse-execution history"
//
//	e := curated.Errorf(NoHistory)
//	f := curated.Errorf("replay: %v", e)
//
//	curated.Is(f, NoHistory)  // false
//	curated.Has(f, NoHistory) // true
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). Put another way, it returns true if the error is
// 'expected' and false if the error is 'unexpected'.
//
// The Error() function normalises the error chain so that it does not
// contain duplicate adjacent parts. Chains are thought of as being composed
// of parts separated by the sub-string ': '. So if A() wraps the error from
// B() with the pattern "record: %v" and B() does the same with an error from
// C() then the result is
//
//	record: instruction analysis failed
//
// and not
//
//	record: record: instruction analysis failed
//
// Sentinel patterns should be stored as a const string, suitably named and
// commented, in the package that produces them.
//
// Curated errors also implement Unwrap() so that errors.Is() and errors.As()
// from the standard library see any error placed in the values of the
// pattern.
package curated
