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

// Package modalflag is a wrapper for the pflag package. It provides a
// convenient method of handling program modes (and sub-modes) and allows
// different flags for each mode.
//
// Whereas, with pflag.FlagSet you call Parse() with the array of strings as
// the only argument, with modalflag you first call NewArgs() with the array of
// arguments and then Parse() with no arguments.
//
//	md = Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("debug", "replay")
//	_, _ = md.Parse()
//
// The first sub-mode is the default sub-mode. If the first argument after
// the flags matches one of the sub-modes (case insensitive) then the program
// is considered to be in that mode and RemainingArgs() returns the arguments
// after the mode selector.
//
//	switch md.Mode() {
//	case "DEBUG":
//		md.NewMode()
//		origin := md.AddString("origin", "0x0200", "load address")
//		p, err := md.Parse()
//		switch p {
//		case modalflag.ParseError:
//			return err
//		case modalflag.ParseHelp:
//			return nil
//		}
//		debug(*origin, md.RemainingArgs())
//	}
//
// Flags are specified on the command line with a double dash (--origin).
// Help is requested with --help or -h.
package modalflag
