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
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/target"
)

// ShadowBreakpoint is an entry in the shadow table of breakpoints. Only
// breakpoints inserted while the session is live are inserted in the
// transport. Breakpoints inserted while replaying are only found by the
// Predicate.
type ShadowBreakpoint struct {
	target.Breakpoint
	Materialized bool
}

func (s *Session) findBreakpoint(bp target.Breakpoint) int {
	for i, sh := range s.shadow {
		if sh.Breakpoint == bp {
			return i
		}
	}
	return -1
}

// InsertBreakpoint adds a breakpoint. It is inserted in the transport if the
// session is live.
func (s *Session) InsertBreakpoint(bp target.Breakpoint) error {
	if s.findBreakpoint(bp) >= 0 {
		return nil
	}

	sh := ShadowBreakpoint{Breakpoint: bp}

	if !s.IsReplaying() {
		defer s.disable()()
		if err := s.tr.InsertBreakpoint(bp); err != nil {
			return err
		}
		sh.Materialized = true
	}

	s.shadow = append(s.shadow, sh)

	return nil
}

// RemoveBreakpoint removes a breakpoint. It is removed from the transport
// only if it was inserted there.
func (s *Session) RemoveBreakpoint(bp target.Breakpoint) error {
	i := s.findBreakpoint(bp)
	if i < 0 {
		return curated.Errorf(NoSuchBreakpoint, bp.Address)
	}

	if s.shadow[i].Materialized {
		defer s.disable()()
		if err := s.tr.RemoveBreakpoint(bp); err != nil {
			return err
		}
	}

	s.shadow = append(s.shadow[:i], s.shadow[i+1:]...)

	return nil
}

// Breakpoints returns a copy of the shadow table.
func (s *Session) Breakpoints() []ShadowBreakpoint {
	bps := make([]ShadowBreakpoint, len(s.shadow))
	copy(bps, s.shadow)
	return bps
}
