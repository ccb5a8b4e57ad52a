/*
 * minios - Disk staging store
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

// Package disk implements the simulated disk: a fixed word pool and a
// program-id-indexed metadata table. Accessed only from the driver
// thread; no internal locking.
package disk

import (
	"fmt"
	"sort"
)

// Capacity is the disk's fixed word pool size.
const Capacity = 4096

// ProgramInfo describes one staged program: its identity, priority,
// the four region sizes, and the start index of its image in the pool.
type ProgramInfo struct {
	ID              uint32
	Priority        uint32
	InstructionSize uint32
	InputSize       uint32
	OutputSize      uint32
	TempSize        uint32
	Start           uint32
}

// DataLen is the total word count of the program's image.
func (p ProgramInfo) DataLen() uint32 {
	return p.InstructionSize + p.InputSize + p.OutputSize + p.TempSize
}

// Disk is the fixed-capacity word pool plus its program directory.
type Disk struct {
	infos   map[uint32]ProgramInfo
	pool    [Capacity]uint32
	nextIdx uint32
}

// New builds an empty disk.
func New() *Disk {
	return &Disk{infos: make(map[uint32]ProgramInfo)}
}

// WriteProgram appends data to the pool and records its ProgramInfo.
// Fatal if the pool would overflow or id is already present.
func (d *Disk) WriteProgram(id, priority, instrSize, inSize, outSize, tempSize uint32, data []uint32) {
	if _, exists := d.infos[id]; exists {
		panic(fmt.Sprintf("disk: program %d already written", id))
	}
	end := d.nextIdx + uint32(len(data))
	if end > Capacity {
		panic(fmt.Sprintf("disk: write_program overflow, pool has %d words, need %d", Capacity-d.nextIdx, len(data)))
	}
	copy(d.pool[d.nextIdx:end], data)

	d.infos[id] = ProgramInfo{
		ID:              id,
		Priority:        priority,
		InstructionSize: instrSize,
		InputSize:       inSize,
		OutputSize:      outSize,
		TempSize:        tempSize,
		Start:           d.nextIdx,
	}
	d.nextIdx = end
}

// GetInfo returns the ProgramInfo for id. Fatal if id is unknown.
func (d *Disk) GetInfo(id uint32) ProgramInfo {
	info, ok := d.infos[id]
	if !ok {
		panic(fmt.Sprintf("disk: unknown program id %d", id))
	}
	return info
}

// ReadData returns a copy of info's image: instructions, input, output,
// and temp regions concatenated in that order.
func (d *Disk) ReadData(info ProgramInfo) []uint32 {
	n := info.DataLen()
	out := make([]uint32, n)
	copy(out, d.pool[info.Start:info.Start+n])
	return out
}

// UpdateProgram overwrites only the output||temp region of id's image.
// Fatal if id is unknown or data's length doesn't match output_size +
// temp_size.
func (d *Disk) UpdateProgram(id uint32, data []uint32) {
	info := d.GetInfo(id)
	want := info.OutputSize + info.TempSize
	if uint32(len(data)) != want {
		panic(fmt.Sprintf("disk: update_program %d: got %d words, want %d", id, len(data), want))
	}
	start := info.Start + info.InstructionSize + info.InputSize
	copy(d.pool[start:start+want], data)
}

// ListInfos returns every ProgramInfo, ascending by id.
func (d *Disk) ListInfos() []ProgramInfo {
	out := make([]ProgramInfo, 0, len(d.infos))
	for _, info := range d.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
