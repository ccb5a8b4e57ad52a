/*
 * minios - CPU engine
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

// Package cpu runs the fetch-decode-execute loop for the simulator's
// single CPU, routing data memory traffic through a DMA channel and
// signalling process interrupts back to the short-term scheduler.
package cpu

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/minios/kernel/memory"
	"github.com/rcornwell/minios/kernel/pcb"
)

// runState is the two-state gate between the fetch/execute thread and
// whatever is waiting for a process interrupt.
type runState int

const (
	stateInterrupted runState = iota
	stateRunning
)

// CPU owns the instruction cache for the currently loaded process and
// the background fetch/execute and DMA threads.
type CPU struct {
	mem     *memory.Memory
	dmaChan chan dmaCmd
	done    chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger

	execMu         sync.Mutex
	cache          []uint32
	pc             uint32
	memStart       uint32
	regs           [pcb.NumRegisters]uint32
	interruptState pcb.State

	runMu   sync.Mutex
	runCond *sync.Cond
	state   runState
}

// New builds a CPU bound to mem. The CPU starts in the interrupted
// state reporting Terminated, matching the "ready to accept" condition
// the dispatcher's first iteration expects.
func New(mem *memory.Memory, log *slog.Logger) *CPU {
	c := &CPU{
		mem:            mem,
		dmaChan:        make(chan dmaCmd),
		done:           make(chan struct{}),
		log:            log,
		interruptState: pcb.Terminated,
		state:          stateInterrupted,
	}
	c.runCond = sync.NewCond(&c.runMu)
	return c
}

// Start launches the fetch/execute and DMA background threads.
func (c *CPU) Start() {
	c.wg.Add(2)
	go c.fetchExecuteLoop()
	go c.dmaLoop()
}

// Stop signals both background threads to terminate and waits, with a
// bound, for them to exit.
func (c *CPU) Stop() {
	close(c.done)

	c.runMu.Lock()
	c.runCond.Broadcast()
	c.runMu.Unlock()

	waited := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(time.Second):
		c.log.Warn("timed out waiting for CPU threads to stop")
	}
}

// ExecuteProcess performs the atomic outgoing-save / incoming-load
// context switch. At least one of incoming or outgoing must be
// non-nil.
func (c *CPU) ExecuteProcess(incoming, outgoing *pcb.PCB) {
	if incoming == nil && outgoing == nil {
		panic("cpu: execute_process called with no incoming and no outgoing process")
	}

	c.execMu.Lock()

	if outgoing != nil {
		copy(outgoing.Registers[:], c.regs[:])
		outgoing.ProgramCounter = c.pc
		outgoing.EndBurst()
	}

	if incoming != nil {
		incoming.StartBurst()
		c.cache = c.mem.ReadBlock(incoming.MemStart, incoming.MemInStart)
		c.pc = incoming.ProgramCounter
		c.memStart = incoming.MemStart
		c.regs = incoming.Registers
	}

	c.execMu.Unlock()

	if incoming != nil {
		c.runMu.Lock()
		c.state = stateRunning
		c.runMu.Unlock()
		c.runCond.Broadcast()
	}
}

// AwaitProcessInterrupt blocks until the fetch/execute thread raises an
// interrupt and returns the terminal state of the process that was
// running.
func (c *CPU) AwaitProcessInterrupt() pcb.State {
	c.runMu.Lock()
	for c.state != stateInterrupted {
		c.runCond.Wait()
	}
	c.runMu.Unlock()

	c.execMu.Lock()
	defer c.execMu.Unlock()
	return c.interruptState
}

// fetchExecuteLoop is the CPU's single background worker: wait for
// run_signal == RUNNING, fetch-decode-execute one instruction, repeat.
func (c *CPU) fetchExecuteLoop() {
	defer c.wg.Done()

	for {
		c.runMu.Lock()
		for c.state != stateRunning {
			select {
			case <-c.done:
				c.runMu.Unlock()
				return
			default:
			}
			c.runCond.Wait()
		}
		c.runMu.Unlock()

		select {
		case <-c.done:
			return
		default:
		}

		c.step()
	}
}

// step fetches, decodes, and executes exactly one instruction from the
// cache, raising a Terminated interrupt on HLT.
func (c *CPU) step() {
	c.execMu.Lock()
	word := c.cache[c.pc]
	c.pc++
	decoded := Decode(word)
	halted := c.execute(decoded)
	if halted {
		c.interruptState = pcb.Terminated
	}
	c.execMu.Unlock()

	if halted {
		c.runMu.Lock()
		c.state = stateInterrupted
		c.runMu.Unlock()
		c.runCond.Broadcast()
	}
}

// translate converts a programmer-visible logical byte address into a
// physical Memory word index for this process's data region.
func (c *CPU) translate(addr uint32) uint32 {
	return addr/4 + c.memStart
}

// dataAddress resolves the ST/LW/RD/WR addressing convention: use ptrReg
// as a pointer when its index is nonzero, otherwise use the literal
// address field.
func (c *CPU) dataAddress(ptrReg, address uint32) uint32 {
	if ptrReg == 0 {
		return c.translate(address)
	}
	return c.translate(c.regs[ptrReg])
}

// execute runs one decoded instruction under execMu and reports
// whether it was HLT.
func (c *CPU) execute(d DecodedInstruction) bool {
	if d.Opcode == OpNOP {
		return false
	}

	switch d.Type {
	case Arithmetic:
		c.executeArithmetic(d)
	case CondBranchImmediate:
		c.executeCondBranchImmediate(d)
	case UncondJump:
		return c.executeUncondJump(d)
	case IO:
		c.executeIO(d)
	}
	return false
}

func (c *CPU) executeArithmetic(d DecodedInstruction) {
	switch d.Opcode {
	case OpMOV:
		c.regs[d.Reg1] = c.regs[d.Reg2]
	case OpADD:
		c.regs[d.Reg3] = c.regs[d.Reg1] + c.regs[d.Reg2]
	case OpSUB:
		if c.regs[d.Reg1] < c.regs[d.Reg2] {
			panic(fmt.Sprintf("cpu: SUB underflow: %d - %d", c.regs[d.Reg1], c.regs[d.Reg2]))
		}
		c.regs[d.Reg3] = c.regs[d.Reg1] - c.regs[d.Reg2]
	case OpMUL:
		c.regs[d.Reg3] = c.regs[d.Reg1] * c.regs[d.Reg2]
	case OpDIV:
		if c.regs[d.Reg2] == 0 {
			panic("cpu: DIV by zero")
		}
		c.regs[d.Reg3] = c.regs[d.Reg1] / c.regs[d.Reg2]
	case OpAND:
		c.regs[d.Reg3] = c.regs[d.Reg1] & c.regs[d.Reg2]
	case OpOR:
		c.regs[d.Reg3] = c.regs[d.Reg1] | c.regs[d.Reg2]
	case OpSLT:
		c.regs[d.Reg3] = boolToWord(c.regs[d.Reg1] < c.regs[d.Reg2])
	default:
		panic(fmt.Sprintf("cpu: invalid arithmetic opcode 0x%x", d.Opcode))
	}
}

func (c *CPU) executeCondBranchImmediate(d DecodedInstruction) {
	switch d.Opcode {
	case OpST:
		c.store(c.dataAddress(d.Reg2, d.Address), c.regs[d.Reg1])
	case OpLW:
		c.regs[d.Reg2] = c.fetch(c.dataAddress(d.Reg1, d.Address))
	case OpMOVI, OpLDI:
		c.regs[d.Reg2] = d.Address
	case OpADDI:
		c.regs[d.Reg2] += d.Address
	case OpMULI:
		c.regs[d.Reg2] *= d.Address
	case OpDIVI:
		if d.Address == 0 {
			panic("cpu: DIVI by zero")
		}
		c.regs[d.Reg2] /= d.Address
	case OpSLTI:
		c.regs[d.Reg1] = boolToWord(c.regs[d.Reg2] < d.Address)
	case OpBEQ:
		c.branchIf(c.regs[d.Reg1] == c.regs[d.Reg2], d.Address)
	case OpBNE:
		c.branchIf(c.regs[d.Reg1] != c.regs[d.Reg2], d.Address)
	case OpBEZ:
		c.branchIf(c.regs[d.Reg1] == 0, d.Address)
	case OpBNZ:
		c.branchIf(c.regs[d.Reg1] != 0, d.Address)
	case OpBGZ:
		c.branchIf(c.regs[d.Reg1] > 0, d.Address)
	case OpBLZ:
		// An unsigned register is never < 0; preserved as a no-op.
	default:
		panic(fmt.Sprintf("cpu: invalid cond-branch/immediate opcode 0x%x", d.Opcode))
	}
}

func (c *CPU) executeUncondJump(d DecodedInstruction) bool {
	switch d.Opcode {
	case OpHLT:
		return true
	case OpJMP:
		c.pc = d.Address / 4
	default:
		panic(fmt.Sprintf("cpu: invalid unconditional-jump opcode 0x%x", d.Opcode))
	}
	return false
}

func (c *CPU) executeIO(d DecodedInstruction) {
	switch d.Opcode {
	case OpRD:
		c.regs[d.Reg1] = c.fetch(c.dataAddress(d.Reg2, d.Address))
	case OpWR:
		c.store(c.dataAddress(d.Reg2, d.Address), c.regs[d.Reg1])
	default:
		panic(fmt.Sprintf("cpu: invalid I/O opcode 0x%x", d.Opcode))
	}
}

func (c *CPU) branchIf(cond bool, address uint32) {
	if cond {
		c.pc = address / 4
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
