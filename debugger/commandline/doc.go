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

// Package commandline facilitates parsing of command line input. Given a
// table of commands, it can be used to tokenise and validate user input.
//
// A command is a keyword followed by either a list of arguments or a list of
// sub-commands. Arguments are described with placeholders:
//
//	%N	an unsigned number. decimal, or hex with a 0x or $ prefix
//	%I	a signed decimal number
//	%S	any string
//	%F	a filename
//
// An example table would be:
//
//	cmds, _ := NewCommands(
//		&Command{Keyword: "STEP"},
//		&Command{Keyword: "PEEK", Args: []Arg{
//			{Label: "address", Placeholder: PlaceholderNumber},
//			{Label: "length", Placeholder: PlaceholderNumber, Optional: true},
//		}},
//	)
//
// Once created, the Commands instance can be used to validate input.
//
//	toks := TokeniseInput("peek $200 4")
//	err := cmds.ValidateTokens(toks)
//
// Note that all keyword matching is case-insensitive. Once validated the
// tokens can be processed with Get() without further checking, because the
// number and type of the arguments are known to be correct.
package commandline
