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

// Package version reports the version of the application and the revision it
// was built from.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "Stepback"

// number is set with the linker for release builds. for example:
//
//	go build -ldflags "-X github.com/jetsetilly/stepback/version.number=v0.1.0"
var number string

// Info describes the build.
type Info struct {
	// the release number. "unreleased" if there is no release number but
	// there is vcs information. "local" if there is neither
	Version string

	// the vcs revision. empty if there is no vcs information
	Revision string

	// the source has been modified since the revision was committed
	Modified bool
}

// Release returns true if this is a numbered release.
func (in Info) Release() bool {
	return number != "" && in.Version == number
}

func (in Info) String() string {
	if in.Revision == "" {
		return fmt.Sprintf("%s %s", ApplicationName, in.Version)
	}
	rev := in.Revision
	if in.Modified {
		rev = fmt.Sprintf("%s+dirty", rev)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, in.Version, rev)
}

var info Info
var once sync.Once

// Get returns the build information. The information is read from the binary
// on the first call.
func Get() Info {
	once.Do(func() {
		info = fromBuildInfo(debug.ReadBuildInfo())
	})
	return info
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool) Info {
	var in Info
	var vcs bool

	if ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				in.Revision = s.Value
			case "vcs.modified":
				in.Modified = s.Value == "true"
			}
		}
	}

	switch {
	case number != "":
		in.Version = number
	case vcs:
		in.Version = "unreleased"
	default:
		in.Version = "local"
	}

	return in
}
