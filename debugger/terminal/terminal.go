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

package terminal

// Style is used to hint at how a line should be presented.
type Style int

// List of output styles.
const (
	// input from the user being echoed back to the user
	StyleEcho Style = iota

	// information returned by a command
	StyleFeedback

	// the state of the debuggee after it has stopped
	StyleInstrument

	// help text
	StyleHelp

	// entries from the central logger
	StyleLog

	// a command has failed
	StyleError
)

// UserQuit is returned by TermRead() when the input has been closed, or when
// the user has otherwise indicated that the debugger should end.
const UserQuit = "user quit"

// Input defines the operations required by an interface that allows input.
type Input interface {
	// TermRead returns the next line of input, without the line terminator.
	TermRead(prompt Prompt) (string, error)

	// TermQuery asks the user a yes or no question. Implementations that
	// cannot ask the user should return false.
	TermQuery(question string) bool

	// IsInteractive should return true for implementations that require user
	// interaction.
	IsInteractive() bool
}

// Output defines the operations required by an interface that allows output.
type Output interface {
	TermPrintLine(Style, string)
}

// Terminal defines the operations required by the debugger's command line
// interface.
type Terminal interface {
	Input
	Output

	// Initialise the terminal. not all terminal implementations will need to
	// do anything.
	Initialise() error

	// Restore the terminal to its original state, if possible.
	CleanUp()

	// Silence all output except error messages.
	Silence(silenced bool)
}
