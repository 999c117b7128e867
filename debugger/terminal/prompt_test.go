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

package terminal_test

import (
	"testing"

	"github.com/jetsetilly/stepback/debugger/terminal"
	"github.com/jetsetilly/stepback/test"
)

func TestPrompt(t *testing.T) {
	p := terminal.Prompt{PC: 0x1000, Content: "LDA #$01 "}
	test.ExpectEquality(t, p.String(), "[ (rec) 0x1000 LDA #$01 ] >> ")

	p.Replaying = true
	p.Reverse = true
	test.ExpectEquality(t, p.String(), "[ (replay) 0x1000 LDA #$01 ] << ")

	p.Content = ""
	test.ExpectEquality(t, p.String(), "[ (replay) 0x1000 ] << ")
}
