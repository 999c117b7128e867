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

package record_test

import (
	"context"
	"io"
	"testing"

	"github.com/jetsetilly/stepback/arch"
	"github.com/jetsetilly/stepback/arch/mos6502"
	"github.com/jetsetilly/stepback/curated"
	"github.com/jetsetilly/stepback/journal"
	"github.com/jetsetilly/stepback/machine"
	"github.com/jetsetilly/stepback/record"
	"github.com/jetsetilly/stepback/target"
	"github.com/jetsetilly/stepback/test"
)

const origin = 0x1000

// loads 1, 2 and 3 into the accumulator
var counting = []byte{
	0xa9, 0x01, // LDA #$01
	0xa9, 0x02, // LDA #$02
	0xa9, 0x03, // LDA #$03
	0x00, // BRK
}

// adds 5 to the accumulator three times and stores the result at $0200. 16
// instructions are executed including the BRK
var loop = []byte{
	0xa2, 0x03, // LDX #$03
	0xa9, 0x00, // LDA #$00
	0x18,       // CLC
	0x69, 0x05, // ADC #$05
	0xca,       // DEX
	0xd0, 0xfa, // BNE $1004
	0x8d, 0x00, 0x02, // STA $0200
	0x00, // BRK
}

const loopLength = 16

// predicate implements the record.Predicate interface.
type predicate struct {
	breaks  map[uint64]bool
	watches []arch.Range
}

func newPredicate() *predicate {
	return &predicate{breaks: make(map[uint64]bool)}
}

func (p *predicate) BreakpointAt(_ int, addr uint64) bool {
	return p.breaks[addr]
}

func (p *predicate) WatchpointOver(_ int, addr uint64, length int) bool {
	for _, w := range p.watches {
		if addr < w.Address+uint64(w.Length) && w.Address < addr+uint64(length) {
			return true
		}
	}
	return false
}

// query answers every question with the value of answer and counts the
// number of questions.
type query struct {
	answer bool
	asked  int
}

func (q *query) ask(_ string) bool {
	q.asked++
	return q.answer
}

type fixture struct {
	m    *machine.Machine
	s    *record.Session
	pred *predicate
	q    *query
}

func newFixture(t *testing.T, program []byte) *fixture {
	t.Helper()
	return openFixture(t, program, func(m *machine.Machine) target.Transport {
		return m
	})
}

// faultyMachine is a machine that can be made to fail register writes and
// snapshots.
type faultyMachine struct {
	*machine.Machine

	// number of calls to WriteRegister()
	writes int

	// the call to WriteRegister() that fails. zero means none
	failWrite int

	failSnapshot bool
}

func (fm *faultyMachine) WriteRegister(regnum int, value []byte) error {
	fm.writes++
	if fm.writes == fm.failWrite {
		return curated.Errorf("register %d cannot be written", regnum)
	}
	return fm.Machine.WriteRegister(regnum, value)
}

func (fm *faultyMachine) Snapshot(w io.Writer) error {
	if fm.failSnapshot {
		return curated.Errorf("snapshot failed")
	}
	return fm.Machine.Snapshot(w)
}

// failRegisterWrite arranges for the nth register write from now to fail.
func (fm *faultyMachine) failRegisterWrite(n int) {
	fm.failWrite = fm.writes + n
}

// returns a fixture where the session uses a faultyMachine as its transport.
// the machine in the fixture is the machine inside the faultyMachine.
func newFaultyFixture(t *testing.T, program []byte) (*fixture, *faultyMachine) {
	t.Helper()

	var fm *faultyMachine
	f := openFixture(t, program, func(m *machine.Machine) target.Transport {
		fm = &faultyMachine{Machine: m}
		return fm
	})

	return f, fm
}

func openFixture(t *testing.T, program []byte, transport func(*machine.Machine) target.Transport) *fixture {
	t.Helper()

	f := &fixture{
		m:    machine.NewMachine(),
		pred: newPredicate(),
		q:    &query{answer: true},
	}
	test.DemandSuccess(t, f.m.Load(program, origin))

	p, err := record.NewPreferences("")
	test.DemandSuccess(t, err)

	f.s, err = record.Open(transport(f.m), f.pred, f.q.ask, p)
	test.DemandSuccess(t, err)

	return f
}

func (f *fixture) resume(t *testing.T, step bool) target.Status {
	t.Helper()
	test.DemandSuccess(t, f.s.Resume(step, target.SignalNone))
	st, err := f.s.Wait(context.Background())
	test.DemandSuccess(t, err)
	return st
}

func (f *fixture) step(t *testing.T) target.Status {
	t.Helper()
	return f.resume(t, true)
}

func (f *fixture) cont(t *testing.T) target.Status {
	t.Helper()
	return f.resume(t, false)
}

func (f *fixture) reg(t *testing.T, regnum int) uint8 {
	t.Helper()
	v, err := f.m.ReadRegister(regnum)
	test.DemandSuccess(t, err)
	return v[0]
}

func (f *fixture) mem(t *testing.T, addr uint64) uint8 {
	t.Helper()
	var b [1]byte
	test.DemandSuccess(t, f.m.ReadMemory(addr, b[:]))
	return b[0]
}

// wraps a machine and reports a different architecture.
type otherArch struct {
	*machine.Machine
}

func (otherArch) Architecture() string {
	return "z80"
}

func TestOpen(t *testing.T) {
	m := machine.NewMachine()
	m.SetNonStop(true)
	_, err := record.Open(m, nil, nil, nil)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, record.UnsupportedMode))

	m.SetNonStop(false)
	_, err = record.Open(otherArch{Machine: m}, nil, nil, nil)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, arch.UnsupportedArchitecture))

	s, err := record.Open(m, nil, nil, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.Capacity(), 200000)
	test.ExpectEquality(t, s.IsReplaying(), false)
	test.ExpectSuccess(t, s.Close())
}

func TestCountingScenario(t *testing.T) {
	f := newFixture(t, counting)

	for i := uint8(1); i <= 3; i++ {
		st := f.step(t)
		test.ExpectEquality(t, st.Kind, target.Stopped, i)
		test.ExpectEquality(t, st.Signal, target.SignalTrap, i)
		test.ExpectEquality(t, f.reg(t, mos6502.A), i)
	}
	test.ExpectEquality(t, f.s.IsReplaying(), false)

	info := f.s.Info()
	test.ExpectEquality(t, info.Held, 3)
	test.ExpectEquality(t, info.Lowest, uint32(1))
	test.ExpectEquality(t, info.Highest, uint32(3))

	test.DemandSuccess(t, f.s.GotoRecordBegin())
	test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(0))
	test.ExpectEquality(t, f.m.PC(), uint64(origin))
	test.ExpectSuccess(t, f.s.IsReplaying())
	test.ExpectEquality(t, f.s.Info().Current, uint32(0))

	// replaying forwards
	for i := uint8(1); i <= 3; i++ {
		st := f.step(t)
		test.ExpectEquality(t, st.Kind, target.Stopped, i)
		test.ExpectEquality(t, f.reg(t, mos6502.A), i)
	}
	test.ExpectEquality(t, f.s.IsReplaying(), false)

	// and backwards
	f.s.SetDirection(journal.Reverse)
	test.ExpectSuccess(t, f.s.IsReplaying())
	for i := 2; i >= 0; i-- {
		st := f.step(t)
		test.ExpectEquality(t, st.Kind, target.Stopped, i)
		test.ExpectEquality(t, st.Signal, target.SignalTrap, i)
		test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(i))
	}
	test.ExpectEquality(t, f.m.PC(), uint64(origin))

	// no more history. the cursor does not move
	st := f.step(t)
	test.ExpectEquality(t, st.Kind, target.NoHistory)
	test.ExpectEquality(t, f.s.Info().Current, uint32(0))
	test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(0))

	// forwards at the end of the log is also no history
	test.DemandSuccess(t, f.s.GotoRecordEnd())
	f.s.SetDirection(journal.Reverse)
	f.s.SetDirection(journal.Forward)
	test.ExpectEquality(t, f.s.IsReplaying(), false)
	test.ExpectEquality(t, f.s.WillReplay(journal.Forward), false)
	test.ExpectEquality(t, f.s.WillReplay(journal.Reverse), true)
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t, loop)
	initial := f.m.Digest()

	st := f.cont(t)
	test.ExpectEquality(t, st.Kind, target.Exited)
	test.ExpectEquality(t, f.mem(t, 0x0200), uint8(15))
	test.ExpectEquality(t, f.s.Info().Held, loopLength)
	final := f.m.Digest()

	f.s.SetDirection(journal.Reverse)
	st = f.cont(t)
	test.ExpectEquality(t, st.Kind, target.NoHistory)
	test.ExpectEquality(t, f.m.Digest(), initial)
	test.ExpectEquality(t, f.mem(t, 0x0200), uint8(0))

	f.s.SetDirection(journal.Forward)
	st = f.cont(t)
	test.ExpectEquality(t, st.Kind, target.NoHistory)
	test.ExpectEquality(t, f.m.Digest(), final)
	test.ExpectEquality(t, f.s.IsReplaying(), false)
}

func TestIdempotence(t *testing.T) {
	f := newFixture(t, loop)
	f.cont(t)

	test.DemandSuccess(t, f.s.GotoRecord(5))
	d := f.m.Digest()

	err := f.s.GotoRecord(5)
	test.ExpectSuccess(t, curated.Is(err, record.AlreadyAtTarget))
	test.ExpectEquality(t, f.m.Digest(), d)

	test.DemandSuccess(t, f.s.GotoRecord(2))
	test.ExpectInequality(t, f.m.Digest(), d)
	test.DemandSuccess(t, f.s.GotoRecord(12))
	test.DemandSuccess(t, f.s.GotoRecord(5))
	test.ExpectEquality(t, f.m.Digest(), d)

	err = f.s.GotoRecord(99)
	test.ExpectSuccess(t, curated.Is(err, record.TargetNotFound))
	test.ExpectEquality(t, f.s.Info().Current, uint32(5))
}

func TestEmptyLog(t *testing.T) {
	f := newFixture(t, loop)

	err := f.s.GotoRecordBegin()
	test.ExpectSuccess(t, curated.Is(err, record.NotEnoughHistory))
	err = f.s.GotoRecordEnd()
	test.ExpectSuccess(t, curated.Is(err, record.NotEnoughHistory))

	f.s.SetDirection(journal.Reverse)
	st := f.step(t)
	test.ExpectEquality(t, st.Kind, target.NoHistory)
	test.ExpectEquality(t, f.m.PC(), uint64(origin))

	test.ExpectEquality(t, f.s.Info().String(), "Replay mode:\nNo instructions have been logged.\nMax logged instructions is 200000.\n")
}

func TestCapacity(t *testing.T) {
	f := newFixture(t, counting)
	test.DemandSuccess(t, f.s.Prefs.StopAtLimit.Set(false))
	test.DemandSuccess(t, f.s.Prefs.InsnMax.Set(2))

	f.step(t)
	f.step(t)
	f.step(t)

	info := f.s.Info()
	test.ExpectEquality(t, info.Held, 2)
	test.ExpectEquality(t, info.Lowest, uint32(2))
	test.ExpectEquality(t, info.Highest, uint32(3))
	test.ExpectEquality(t, info.String(), "Record mode:\n"+
		"Lowest recorded instruction number is 2.\n"+
		"Highest recorded instruction number is 3.\n"+
		"Log contains 2 instructions.\n"+
		"Max logged instructions is 2.\n")

	// the state before the oldest instruction is the limit of history
	test.DemandSuccess(t, f.s.GotoRecordBegin())
	test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(1))
	test.ExpectEquality(t, f.s.Info().Current, uint32(1))
}

func TestCapacityInvariant(t *testing.T) {
	f := newFixture(t, loop)
	test.DemandSuccess(t, f.s.Prefs.StopAtLimit.Set(false))
	test.DemandSuccess(t, f.s.Prefs.InsnMax.Set(5))

	f.cont(t)
	test.ExpectEquality(t, f.s.Info().Held, 5)
	test.ExpectEquality(t, f.s.Info().Highest, uint32(loopLength))
	test.ExpectEquality(t, f.s.Info().Lowest, uint32(loopLength-4))

	// reducing the capacity deletes instructions immediately
	test.DemandSuccess(t, f.s.Prefs.InsnMax.Set(3))
	test.ExpectEquality(t, f.s.Info().Held, 3)
	test.ExpectEquality(t, f.s.Capacity(), 3)
	test.ExpectEquality(t, f.s.Info().Highest, uint32(loopLength))
}

func TestStopAtLimit(t *testing.T) {
	f := newFixture(t, counting)
	test.DemandSuccess(t, f.s.Prefs.InsnMax.Set(2))
	f.q.answer = false

	f.step(t)
	f.step(t)
	test.ExpectEquality(t, f.q.asked, 0)

	err := f.s.Resume(true, target.SignalNone)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, journal.UserCancelled))
	test.ExpectEquality(t, f.q.asked, 1)
	test.ExpectEquality(t, f.s.Info().Held, 2)
	test.ExpectEquality(t, f.s.Info().Highest, uint32(2))
	test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(2))

	// agreeing means the question is not asked again
	f.q.answer = true
	f.step(t)
	test.ExpectEquality(t, f.q.asked, 2)
	test.ExpectEquality(t, f.s.Info().Held, 2)
	test.ExpectEquality(t, f.s.Info().Lowest, uint32(2))
	test.ExpectEquality(t, f.s.Log().StopAtLimit(), false)

	f.cont(t)
	test.ExpectEquality(t, f.q.asked, 2)
}

func TestPending(t *testing.T) {
	f := newFixture(t, counting)
	f.step(t)
	f.s.SetDirection(journal.Reverse)

	test.DemandSuccess(t, f.s.Resume(false, target.SignalNone))
	select {
	case <-f.s.Pending():
	default:
		t.Errorf("expected pending replay request")
	}

	st, err := f.s.Wait(context.Background())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, st.Kind, target.NoHistory)
	test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(0))
}

func TestSoftwareSingleStep(t *testing.T) {
	f := newFixture(t, loop)
	f.m.SetSoftwareStep(true)
	initial := f.m.Digest()

	st := f.cont(t)
	test.ExpectEquality(t, st.Kind, target.Exited)
	test.ExpectEquality(t, f.s.Info().Held, loopLength)
	test.ExpectEquality(t, f.mem(t, 0x0200), uint8(15))

	test.DemandSuccess(t, f.s.GotoRecordBegin())
	test.ExpectEquality(t, f.m.Digest(), initial)
}

func TestRecordingFailed(t *testing.T) {
	f := newFixture(t, []byte{0xea, 0x02}) // NOP, unsupported opcode

	f.step(t)
	err := f.s.Resume(true, target.SignalNone)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, record.RecordingFailed))
	test.ExpectSuccess(t, curated.Has(err, mos6502.UnsupportedOpcode))
	test.ExpectEquality(t, f.s.Info().Held, 1)
}

func TestClose(t *testing.T) {
	f := newFixture(t, counting)
	f.step(t)
	test.DemandSuccess(t, f.s.Close())
	test.DemandSuccess(t, f.s.Close())

	// preference changes no longer affect the session
	test.DemandSuccess(t, f.s.Prefs.InsnMax.Set(10))
	test.ExpectEquality(t, f.s.Capacity(), 0)
	test.ExpectEquality(t, f.s.Info().Held, 0)
}

func TestResumeAfterExit(t *testing.T) {
	f := newFixture(t, counting)

	st := f.cont(t)
	test.DemandEquality(t, st.Kind, target.Exited)
	test.ExpectEquality(t, f.s.Info().Held, 4)

	// the instruction is recorded before the transport refuses to resume.
	// the recording is removed again
	err := f.s.Resume(true, target.SignalNone)
	test.ExpectSuccess(t, curated.Is(err, machine.HasExited))
	test.ExpectEquality(t, f.s.Info().Held, 4)
	test.ExpectEquality(t, f.s.IsReplaying(), false)

	// replaying is still possible
	f.s.SetDirection(journal.Reverse)
	f.step(t)
	test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(3))
	f.step(t)
	test.ExpectEquality(t, f.reg(t, mos6502.A), uint8(2))
}
