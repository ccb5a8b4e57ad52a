/*
 * minios - Driver orchestration
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

// Package driver wires Disk, Memory, the long-term and short-term
// schedulers, and the CPU together and runs the batch admission loop:
// admit as many programs as fit, run them to quiescence, flush and
// reclaim, repeat until nothing remains pending.
package driver

import (
	"io"
	"log/slog"

	"github.com/rcornwell/minios/kernel/cpu"
	"github.com/rcornwell/minios/kernel/disk"
	"github.com/rcornwell/minios/kernel/lts"
	"github.com/rcornwell/minios/kernel/memory"
	"github.com/rcornwell/minios/kernel/pcb"
	"github.com/rcornwell/minios/kernel/sts"
	"github.com/rcornwell/minios/stats"
)

// Driver owns every kernel subsystem for one simulator run.
type Driver struct {
	disk   *disk.Disk
	mem    *memory.Memory
	cpu    *cpu.CPU
	lts    *lts.Scheduler
	sts    *sts.Scheduler
	log    *slog.Logger
	policy sts.Policy

	completed []*pcb.PCB
}

// New builds a driver over d and a fresh Memory, dispatching under
// policy.
func New(d *disk.Disk, policy sts.Policy, log *slog.Logger) *Driver {
	mem := memory.New()
	engine := cpu.New(mem, log)
	return &Driver{
		disk:   d,
		mem:    mem,
		cpu:    engine,
		lts:    lts.New(d, mem, log),
		sts:    sts.New(policy, engine, log),
		log:    log,
		policy: policy,
	}
}

// Memory exposes the driver's memory instance, for the console.
func (dr *Driver) Memory() *memory.Memory { return dr.mem }

// Completed returns the PCBs that terminated across every batch run so
// far.
func (dr *Driver) Completed() []*pcb.PCB { return dr.completed }

// Start launches the CPU and STS background threads.
func (dr *Driver) Start() {
	dr.cpu.Start()
	dr.sts.Start()
}

// Stop tears down the CPU and STS background threads.
func (dr *Driver) Stop() {
	dr.sts.Stop()
	dr.cpu.Stop()
}

// Enqueue submits programIDs onto the LTS admission queue.
func (dr *Driver) Enqueue(programIDs []uint32) {
	dr.lts.Enqueue(programIDs)
}

// HasPending reports whether the LTS still has programs awaiting
// admission.
func (dr *Driver) HasPending() bool {
	return dr.lts.HasPending()
}

// RunBatch admits as many pending programs as currently fit, runs them
// to quiescence, and flushes+reclaims their memory. It returns false
// when nothing could be admitted (e.g. the next pending program is
// larger than all of memory), signalling the caller to stop.
func (dr *Driver) RunBatch() bool {
	admitted := dr.lts.BatchStep()
	if len(admitted) == 0 {
		dr.log.Warn("admission queue has pending programs that do not fit in memory; stopping")
		return false
	}

	for _, id := range admitted {
		dr.sts.Schedule(dr.mem.PCBFor(id))
	}

	dr.sts.AwaitIdle()
	dr.completed = append(dr.completed, dr.mem.PCBs()...)
	dr.lts.FlushAndReclaim()
	return true
}

// Run enqueues programIDs and drives RunBatch until the admission
// queue is empty or stalls. It returns the PCBs that terminated.
func (dr *Driver) Run(programIDs []uint32) []*pcb.PCB {
	dr.Enqueue(programIDs)
	for dr.HasPending() {
		if !dr.RunBatch() {
			break
		}
	}
	return dr.completed
}

// PrintStats renders the accumulated completion stats to w.
func (dr *Driver) PrintStats(w io.Writer) {
	stats.Print(w, dr.completed)
}
