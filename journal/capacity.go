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

package journal

import (
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/logger"
)

// the question asked before the first eviction when stop-at-limit is set.
const evictQuestion = "Do you want to auto delete previous execution log entries when record/replay buffer becomes full (record full stop-at-limit)?"

// Capacity returns the maximum number of instructions in the log. A value of
// zero means there is no limit.
func (l *Log) Capacity() int {
	return l.capacity
}

// StopAtLimit returns true if the user will be asked before the next
// eviction.
func (l *Log) StopAtLimit() bool {
	return l.stopAtLimit
}

// SetStopAtLimit sets whether the user is asked before evicting an
// instruction.
func (l *Log) SetStopAtLimit(stop bool) {
	l.stopAtLimit = stop
}

// SetCapacity changes the maximum number of instructions in the log. If
// there are more instructions in the log than the new capacity then the
// oldest instructions are evicted immediately. A value of zero means there
// is no limit.
func (l *Log) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	l.capacity = capacity

	if l.capacity == 0 {
		return
	}

	for l.held > l.capacity {
		if !l.EvictOldest() {
			break // for loop
		}
	}
}

// makeRoom evicts instructions from the log so that a new instruction can be
// committed without exceeding the capacity.
func (l *Log) makeRoom() error {
	if l.capacity == 0 || l.held < l.capacity {
		return nil
	}

	if l.stopAtLimit {
		if l.query == nil || !l.query(evictQuestion) {
			return curated.Errorf(UserCancelled)
		}

		// the user doesn't get asked again
		l.stopAtLimit = false
		logger.Logf(logger.Allow, "journal", "log is full (%d instructions). oldest instructions will be deleted", l.capacity)
	}

	for l.held >= l.capacity {
		if !l.EvictOldest() {
			break // for loop
		}
	}

	return nil
}
