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

package paths_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/stepback/paths"
	"github.com/jetsetilly/stepback/test"
)

func TestPaths(t *testing.T) {
	// the local resource path takes priority when it exists in the current
	// directory
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	defer os.Chdir(wd)

	test.DemandSuccess(t, os.Chdir(t.TempDir()))
	test.DemandSuccess(t, os.Mkdir(".stepback", 0o700))

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".stepback", "foo", "bar", "baz"))

	_, err = os.Stat(filepath.Join(".stepback", "foo", "bar"))
	test.ExpectSuccess(t, err)

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".stepback", "baz"))

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".stepback")
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("recording", "hello")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "recording_hello_"))

	fn = paths.UniqueFilename("recording", "  ")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "recording_"))
	test.ExpectFailure(t, strings.HasPrefix(fn, "recording__"))
}
