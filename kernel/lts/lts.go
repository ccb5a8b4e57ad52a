/*
 * minios - Long-term scheduler
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

// Package lts implements the long-term scheduler: it admits programs
// from disk into memory as space permits and, at the end of a batch,
// flushes modified output back to disk and reclaims memory.
package lts

import (
	"errors"
	"log/slog"

	"github.com/rcornwell/minios/kernel/disk"
	"github.com/rcornwell/minios/kernel/memory"
)

// ErrEmptyQueue is returned by Step when the admission queue has
// nothing left to offer.
var ErrEmptyQueue = errors.New("lts: admission queue is empty")

// ErrInsufficientMemory is returned by Step when the program at the
// front of the queue does not fit in the memory remaining; it signals
// a batch boundary, not a failure.
var ErrInsufficientMemory = errors.New("lts: insufficient memory for next program")

// Scheduler admits programs from Disk into Memory in arrival order and
// reclaims memory at the end of a batch.
type Scheduler struct {
	disk   *disk.Disk
	mem    *memory.Memory
	log    *slog.Logger
	admit  []uint32
	resident []uint32
}

// New builds a scheduler over disk and mem.
func New(d *disk.Disk, m *memory.Memory, log *slog.Logger) *Scheduler {
	return &Scheduler{disk: d, mem: m, log: log}
}

// Enqueue appends ids to the admission queue, preserving order.
func (s *Scheduler) Enqueue(ids []uint32) {
	s.admit = append(s.admit, ids...)
}

// HasPending reports whether any program is still waiting to be
// admitted.
func (s *Scheduler) HasPending() bool {
	return len(s.admit) > 0
}

// Step admits the program at the front of the admission queue if it
// fits in the memory remaining, returning its id. It peeks rather than
// pops on failure, so a later call (after memory is reclaimed) can
// retry the same program.
func (s *Scheduler) Step() (uint32, error) {
	if len(s.admit) == 0 {
		return 0, ErrEmptyQueue
	}

	id := s.admit[0]
	info := s.disk.GetInfo(id)

	if info.DataLen() > s.mem.Remaining() {
		return 0, ErrInsufficientMemory
	}

	data := s.disk.ReadData(info)
	s.mem.CreateProcess(info, data)

	s.admit = s.admit[1:]
	s.resident = append(s.resident, id)

	s.log.Info("admitted program", "id", id, "words", info.DataLen())
	return id, nil
}

// BatchStep repeatedly admits programs until the admission queue is
// empty or the next program no longer fits, swallowing both signals
// and returning the ids admitted in this batch.
func (s *Scheduler) BatchStep() []uint32 {
	var admitted []uint32
	for {
		id, err := s.Step()
		if err != nil {
			return admitted
		}
		admitted = append(admitted, id)
	}
}

// FlushAndReclaim writes each resident program's output+temp region
// back to disk, then clears memory for the next batch.
func (s *Scheduler) FlushAndReclaim() {
	for _, id := range s.resident {
		p := s.mem.PCBFor(id)
		data := s.mem.ReadBlock(p.MemOutStart, p.MemEnd)
		s.disk.UpdateProgram(id, data)
	}
	s.resident = nil
	s.mem.CoreDump()
	s.log.Info("flushed and reclaimed batch")
}
