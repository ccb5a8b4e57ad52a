/*
 * minios - Process control block tests
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package pcb

import (
	"testing"
	"time"
)

func TestNewComputesRegionBoundaries(t *testing.T) {
	p := New(1, 2, 100, 10, 5, 3, 2)
	if p.MemStart != 100 || p.MemInStart != 110 || p.MemOutStart != 115 || p.MemTempStart != 118 || p.MemEnd != 120 {
		t.Errorf("New() got region [%d,%d,%d,%d,%d] expected [100,110,115,118,120]",
			p.MemStart, p.MemInStart, p.MemOutStart, p.MemTempStart, p.MemEnd)
	}
	if p.State != Ready {
		t.Errorf("New() got state: %v expected: %v", p.State, Ready)
	}
}

func TestStateString(t *testing.T) {
	cases := []struct {
		s    State
		want string
	}{
		{Ready, "Ready"},
		{Running, "Running"},
		{Waiting, "Waiting"},
		{Terminated, "Terminated"},
		{State(99), "Unknown"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("State(%d).String() got: %q expected: %q", c.s, got, c.want)
		}
	}
}

func TestTurnaroundTiming(t *testing.T) {
	p := New(1, 0, 0, 1, 0, 0, 0)
	p.StartTurnaround()
	time.Sleep(time.Millisecond)
	p.EndTurnaround()
	if p.TurnaroundMs <= 0 {
		t.Errorf("EndTurnaround() got TurnaroundMs: %f expected > 0", p.TurnaroundMs)
	}
}

func TestTurnaroundDoubleStartPanics(t *testing.T) {
	p := New(1, 0, 0, 1, 0, 0, 0)
	p.StartTurnaround()
	defer func() {
		if recover() == nil {
			t.Errorf("StartTurnaround called twice expected panic")
		}
	}()
	p.StartTurnaround()
}

func TestEndTurnaroundWithoutStartPanics(t *testing.T) {
	p := New(1, 0, 0, 1, 0, 0, 0)
	defer func() {
		if recover() == nil {
			t.Errorf("EndTurnaround without start expected panic")
		}
	}()
	p.EndTurnaround()
}

func TestBurstAccumulationAndAverage(t *testing.T) {
	p := New(1, 0, 0, 1, 0, 0, 0)
	if avg := p.AvgBurstMs(); avg != 0 {
		t.Errorf("AvgBurstMs() with no bursts got: %f expected: 0", avg)
	}

	for i := 0; i < 3; i++ {
		p.StartBurst()
		time.Sleep(time.Millisecond)
		p.EndBurst()
	}
	if len(p.BurstTimesMs) != 3 {
		t.Errorf("BurstTimesMs got %d entries expected 3", len(p.BurstTimesMs))
	}
	if p.AvgBurstMs() <= 0 {
		t.Errorf("AvgBurstMs() got: %f expected > 0", p.AvgBurstMs())
	}
}

func TestEndBurstWithoutStartPanics(t *testing.T) {
	p := New(1, 0, 0, 1, 0, 0, 0)
	defer func() {
		if recover() == nil {
			t.Errorf("EndBurst without start expected panic")
		}
	}()
	p.EndBurst()
}
