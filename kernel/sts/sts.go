/*
 * minios - Short-term scheduler
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

// Package sts implements the short-term scheduler: it owns the ready
// queue and a background dispatcher that hands PCBs to the CPU one at
// a time, disposing of each outgoing process according to the state
// the CPU reports on interrupt.
package sts

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/minios/kernel/cpu"
	"github.com/rcornwell/minios/kernel/pcb"
)

// Policy selects the ready-queue discipline.
type Policy int

const (
	FIFO Policy = iota
	Priority
)

func (p Policy) String() string {
	switch p {
	case FIFO:
		return "FIFO"
	case Priority:
		return "Priority"
	default:
		return "Unknown"
	}
}

// Scheduler dispatches Ready PCBs to a CPU one at a time under the
// configured policy.
type Scheduler struct {
	cpu *cpu.CPU
	log *slog.Logger

	mu       sync.Mutex
	notEmpty *sync.Cond
	queue    readyQueue
	current  *pcb.PCB
	nextSeq  uint64

	idleMu   sync.Mutex
	idleCond *sync.Cond
	idle     bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New builds a scheduler over c under policy.
func New(policy Policy, c *cpu.CPU, log *slog.Logger) *Scheduler {
	s := &Scheduler{
		cpu:  c,
		log:  log,
		idle: true,
		done: make(chan struct{}),
	}
	switch policy {
	case FIFO:
		s.queue = &fifoQueue{}
	case Priority:
		s.queue = &priorityQueue{}
	default:
		panic(fmt.Sprintf("sts: unknown policy %v", policy))
	}
	s.notEmpty = sync.NewCond(&s.mu)
	s.idleCond = sync.NewCond(&s.idleMu)
	return s
}

// Start launches the background dispatcher.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.dispatchLoop()
}

// Stop signals the dispatcher to terminate and waits, with a bound,
// for it to exit.
func (s *Scheduler) Stop() {
	close(s.done)

	s.mu.Lock()
	s.notEmpty.Broadcast()
	s.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(time.Second):
		s.log.Warn("timed out waiting for STS dispatcher to stop")
	}
}

// Schedule pushes p into the ready queue and wakes the dispatcher.
func (s *Scheduler) Schedule(p *pcb.PCB) {
	s.mu.Lock()
	s.nextSeq++
	s.queue.push(p, s.nextSeq)
	s.mu.Unlock()

	s.notEmpty.Broadcast()
	s.setIdle(false)
}

// AwaitIdle blocks until the ready queue is empty and no process is
// running.
func (s *Scheduler) AwaitIdle() {
	s.idleMu.Lock()
	defer s.idleMu.Unlock()
	for !s.idle {
		s.idleCond.Wait()
	}
}

func (s *Scheduler) setIdle(v bool) {
	s.idleMu.Lock()
	s.idle = v
	s.idleMu.Unlock()
	if v {
		s.idleCond.Broadcast()
	}
}

// dispatchLoop is the STS's single background thread. It waits for
// ready work, blocks on the CPU's interrupt signal, dispatches the
// next PCB (if any), and disposes of the outgoing one.
func (s *Scheduler) dispatchLoop() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		for s.queue.len() == 0 && s.current == nil {
			select {
			case <-s.done:
				s.mu.Unlock()
				return
			default:
			}
			s.notEmpty.Wait()
		}
		s.mu.Unlock()

		select {
		case <-s.done:
			return
		default:
		}

		outState := s.cpu.AwaitProcessInterrupt()

		s.mu.Lock()
		outgoing := s.current
		var next *pcb.PCB
		if s.queue.len() > 0 {
			next = s.queue.pop()
			next.State = pcb.Running
		}
		s.current = next
		s.mu.Unlock()

		s.cpu.ExecuteProcess(next, outgoing)
		s.disposeOutgoing(outgoing, outState)

		if next == nil {
			s.setIdle(true)
		}
	}
}

// disposeOutgoing applies §4.5's post-interrupt disposition to the
// process the CPU just saved.
func (s *Scheduler) disposeOutgoing(outgoing *pcb.PCB, state pcb.State) {
	if outgoing == nil {
		return
	}

	switch state {
	case pcb.Terminated:
		outgoing.State = pcb.Terminated
		outgoing.EndTurnaround()
		s.log.Info("process terminated", "id", outgoing.ID, "turnaround_ms", outgoing.TurnaroundMs)
	case pcb.Ready:
		outgoing.State = pcb.Ready
		s.mu.Lock()
		s.nextSeq++
		s.queue.push(outgoing, s.nextSeq)
		s.mu.Unlock()
		s.notEmpty.Broadcast()
	case pcb.Waiting:
		outgoing.State = pcb.Waiting
		s.log.Warn("process entered waiting state; no waiting queue is implemented", "id", outgoing.ID)
	}
}
