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

package journal_test

import (
	"testing"

	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/target"
	"github.com/jetsetilly/stepback/test"
)

func TestCapacityEviction(t *testing.T) {
	l := journal.NewLog(2, false, nil)
	for i := range 3 {
		commitRegister(t, l, byte(i))
	}

	test.ExpectEquality(t, l.Held(), 2)
	test.ExpectEquality(t, l.Lowest(), uint32(2))
	test.ExpectEquality(t, l.Total(), uint32(3))

	for i := range 100 {
		commitRegister(t, l, byte(i))
	}
	test.ExpectEquality(t, l.Held(), 2)
	test.ExpectEquality(t, l.Lowest(), uint32(102))
	test.ExpectEquality(t, l.Total(), uint32(103))
}

func TestStopAtLimit(t *testing.T) {
	var asked int
	var answer bool

	l := journal.NewLog(2, true, func(_ string) bool {
		asked++
		return answer
	})

	commitRegister(t, l, 1)
	commitRegister(t, l, 2)
	test.ExpectEquality(t, asked, 0)

	// refusal leaves the log unchanged
	b := journal.NewBatch()
	b.AddRegister(0, []byte{3})
	_, err := l.Commit(b, target.SignalNone)
	test.ExpectSuccess(t, curated.Is(err, journal.UserCancelled))
	test.ExpectEquality(t, asked, 1)
	test.ExpectEquality(t, l.Held(), 2)
	test.ExpectEquality(t, l.Total(), uint32(2))
	test.ExpectEquality(t, l.Lowest(), uint32(1))
	test.ExpectSuccess(t, l.StopAtLimit())

	// confirmation clears the stop-at-limit flag
	answer = true
	_, err = l.Commit(b, target.SignalNone)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, asked, 2)
	test.ExpectFailure(t, l.StopAtLimit())
	test.ExpectEquality(t, l.Lowest(), uint32(2))

	// and the user isn't asked again
	answer = false
	commitRegister(t, l, 4)
	test.ExpectEquality(t, asked, 2)
	test.ExpectEquality(t, l.Held(), 2)
}

func TestStopAtLimitNoQuery(t *testing.T) {
	l := journal.NewLog(1, true, nil)
	commitRegister(t, l, 1)

	b := journal.NewBatch()
	b.AddRegister(0, []byte{2})
	_, err := l.Commit(b, target.SignalNone)
	test.ExpectSuccess(t, curated.Is(err, journal.UserCancelled))
}

func TestSetCapacity(t *testing.T) {
	l := journal.NewLog(0, false, nil)
	for i := range 5 {
		commitRegister(t, l, byte(i))
	}

	l.SetCapacity(2)
	test.ExpectEquality(t, l.Capacity(), 2)
	test.ExpectEquality(t, l.Held(), 2)
	test.ExpectEquality(t, l.Lowest(), uint32(4))

	// raising the capacity doesn't change anything
	l.SetCapacity(10)
	test.ExpectEquality(t, l.Held(), 2)

	// no limit
	l.SetCapacity(0)
	for i := range 20 {
		commitRegister(t, l, byte(i))
	}
	test.ExpectEquality(t, l.Held(), 22)
}
