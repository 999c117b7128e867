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

package record

import (
	"fmt"

	"github.com/jetsetilly/stepback/prefs"
)

// Preferences for the record package.
type Preferences struct {
	dsk *prefs.Disk

	// maximum number of instructions in the log. zero is unlimited
	InsnMax prefs.Int

	// ask before deleting the oldest instructions in the log
	StopAtLimit prefs.Bool

	// ask before continuing when memory cannot be recorded
	MemoryQuery prefs.Bool

	// compression used by Save()
	Compression prefs.String
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return fmt.Sprintf("record.insnMax :: %s\nrecord.stopAtLimit :: %s\nrecord.memoryQuery :: %s\nrecord.compression :: %s\n",
			p.InsnMax.String(), p.StopAtLimit.String(), p.MemoryQuery.String(), p.Compression.String())
	}
	return p.dsk.String()
}

// default values.
const (
	defaultInsnMax     = 200000
	defaultStopAtLimit = true
	defaultMemoryQuery = false
	defaultCompression = "none"
)

// NewPreferences is the preferred method of initialisation for the
// Preferences type. If the path is empty then the preferences are not
// associated with a file and Load() and Save() do nothing.
func NewPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Compression.SetHookPre(func(v prefs.Value) error {
		_, err := parseCompression(v.(string))
		return err
	})

	p.SetDefaults()

	if pth == "" {
		return p, nil
	}

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("record.insnMax", &p.InsnMax)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("record.stopAtLimit", &p.StopAtLimit)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("record.memoryQuery", &p.MemoryQuery)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("record.compression", &p.Compression)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.InsnMax.Set(defaultInsnMax)
	p.StopAtLimit.Set(defaultStopAtLimit)
	p.MemoryQuery.Set(defaultMemoryQuery)
	p.Compression.Set(defaultCompression)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
