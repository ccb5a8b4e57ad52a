/*
 * minios - Main memory manager
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

// Package memory implements the fixed-size word-addressed main memory
// shared by the driver, the CPU's instruction-cache preload, and the
// DMA channel. A single sync.RWMutex gives many concurrent readers or
// one exclusive writer, matching the many-readers/one-writer traffic
// pattern described in §5 of the simulator's design.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rcornwell/minios/kernel/disk"
	"github.com/rcornwell/minios/kernel/pcb"
)

// Capacity is the fixed word count of main memory.
const Capacity = 1024

// Memory is the word array plus the registry of resident process
// control blocks.
type Memory struct {
	mu       sync.RWMutex
	words    [Capacity]uint32
	pcbs     map[uint32]*pcb.PCB
	nextFree uint32
}

// New builds an empty memory.
func New() *Memory {
	return &Memory{pcbs: make(map[uint32]*pcb.PCB)}
}

// Read returns the word at addr. Fatal if addr is out of range.
func (m *Memory) Read(addr uint32) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.checkBounds(addr)
	return m.words[addr]
}

// Write stores val at addr. Fatal if addr is out of range.
func (m *Memory) Write(addr, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkBounds(addr)
	m.words[addr] = val
}

// ReadBlock returns a copy of words in [start, end). Fatal if the
// range is out of bounds or inverted.
func (m *Memory) ReadBlock(start, end uint32) []uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if start > end {
		panic(fmt.Sprintf("memory: read_block start %d after end %d", start, end))
	}
	if end > Capacity {
		panic(fmt.Sprintf("memory: read_block end %d exceeds capacity %d", end, Capacity))
	}
	out := make([]uint32, end-start)
	copy(out, m.words[start:end])
	return out
}

// WriteBlock stores data starting at start. Fatal if it would
// overflow.
func (m *Memory) WriteBlock(start uint32, data []uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := start + uint32(len(data))
	if end > Capacity {
		panic(fmt.Sprintf("memory: write_block start %d len %d exceeds capacity %d", start, len(data), Capacity))
	}
	copy(m.words[start:end], data)
}

// CreateProcess writes info's image at the current bump pointer,
// registers a PCB over the resulting region, and starts its turnaround
// timer. Fatal if data does not fit.
func (m *Memory) CreateProcess(info disk.ProgramInfo, data []uint32) *pcb.PCB {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.nextFree
	end := start + uint32(len(data))
	if end > Capacity {
		panic(fmt.Sprintf("memory: create_process %d needs %d words, only %d remain", info.ID, len(data), Capacity-start))
	}
	copy(m.words[start:end], data)
	m.nextFree = end

	p := pcb.New(info.ID, info.Priority, start, info.InstructionSize, info.InputSize, info.OutputSize, info.TempSize)
	p.StartTurnaround()
	m.pcbs[info.ID] = p
	return p
}

// PCBFor returns the PCB for id, or nil if none is resident.
func (m *Memory) PCBFor(id uint32) *pcb.PCB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pcbs[id]
}

// PCBs returns every resident PCB, ascending by id.
func (m *Memory) PCBs() []*pcb.PCB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*pcb.PCB, 0, len(m.pcbs))
	for _, p := range m.pcbs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remaining returns the word count still available above the bump
// pointer.
func (m *Memory) Remaining() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Capacity - m.nextFree
}

// CoreDump clears the PCB registry, zeroes the word array, and resets
// the bump pointer.
func (m *Memory) CoreDump() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pcbs = make(map[uint32]*pcb.PCB)
	m.words = [Capacity]uint32{}
	m.nextFree = 0
}

// checkBounds panics if addr is out of range. Caller must hold mu.
func (m *Memory) checkBounds(addr uint32) {
	if addr >= Capacity {
		panic(fmt.Sprintf("memory: address %d out of range (capacity %d)", addr, Capacity))
	}
}
