/*
 * minios - Process control block
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

// Package pcb implements the process descriptor and its lifecycle.
package pcb

import "time"

// State is a process's position in the lifecycle state machine.
type State int

const (
	Ready State = iota
	Running
	Waiting
	Terminated
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Waiting:
		return "Waiting"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// NumRegisters is the size of the general purpose register file.
const NumRegisters = 16

// PCB is a process control block: identity, register file, memory
// region boundaries and timing accumulators for one admitted program.
type PCB struct {
	ID       uint32 // Program id, copied from ProgramInfo.
	Priority uint32 // Scheduling priority, copied from ProgramInfo.

	ProgramCounter uint32                  // Word index into the instruction cache.
	Registers      [NumRegisters]uint32    // General purpose registers.

	MemStart     uint32 // First word of this process's region.
	MemInStart   uint32 // MemStart + instruction size.
	MemOutStart  uint32 // MemInStart + input size.
	MemTempStart uint32 // MemOutStart + output size.
	MemEnd       uint32 // MemTempStart + temp size.

	State State

	turnaroundStart time.Time
	turnaroundSet   bool
	TurnaroundMs    float64

	burstStart  time.Time
	burstSet    bool
	BurstTimesMs []float64
}

// New builds a PCB for a program admitted into the region
// [memStart, memStart+instrSize+inSize+outSize+tempSize).
func New(id, priority, memStart, instrSize, inSize, outSize, tempSize uint32) *PCB {
	inStart := memStart + instrSize
	outStart := inStart + inSize
	tempStart := outStart + outSize
	end := tempStart + tempSize
	return &PCB{
		ID:           id,
		Priority:     priority,
		MemStart:     memStart,
		MemInStart:   inStart,
		MemOutStart:  outStart,
		MemTempStart: tempStart,
		MemEnd:       end,
		State:        Ready,
	}
}

// StartTurnaround records the admission time. Fatal if called twice.
func (p *PCB) StartTurnaround() {
	if p.turnaroundSet {
		panic("pcb: turnaround timer already started")
	}
	p.turnaroundStart = time.Now()
	p.turnaroundSet = true
}

// EndTurnaround accumulates the elapsed turnaround time in milliseconds.
// Fatal if the timer was never started.
func (p *PCB) EndTurnaround() {
	if !p.turnaroundSet {
		panic("pcb: end_turnaround without matching start_turnaround")
	}
	p.TurnaroundMs = float64(time.Since(p.turnaroundStart)) / float64(time.Millisecond)
	p.turnaroundSet = false
}

// StartBurst marks the beginning of a CPU residency. Fatal if called
// while a burst is already open.
func (p *PCB) StartBurst() {
	if p.burstSet {
		panic("pcb: burst timer already started")
	}
	p.burstStart = time.Now()
	p.burstSet = true
}

// EndBurst closes the current CPU residency and appends its duration.
// Fatal if no burst is open.
func (p *PCB) EndBurst() {
	if !p.burstSet {
		panic("pcb: end_burst without matching start_burst")
	}
	ms := float64(time.Since(p.burstStart)) / float64(time.Millisecond)
	p.BurstTimesMs = append(p.BurstTimesMs, ms)
	p.burstSet = false
}

// AvgBurstMs returns the mean burst duration, or 0 if none recorded.
func (p *PCB) AvgBurstMs() float64 {
	if len(p.BurstTimesMs) == 0 {
		return 0
	}
	var sum float64
	for _, ms := range p.BurstTimesMs {
		sum += ms
	}
	return sum / float64(len(p.BurstTimesMs))
}
