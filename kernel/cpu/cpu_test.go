/*
 * minios - CPU engine tests
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

package cpu

import (
	"io"
	"log/slog"
	"testing"

	"github.com/rcornwell/minios/kernel/disk"
	"github.com/rcornwell/minios/kernel/memory"
	"github.com/rcornwell/minios/kernel/pcb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func arithWord(opcode, r1, r2, r3 uint32) uint32 {
	return EncodeArithmetic(opcode, r1, r2, r3)
}

func condWord(opcode, r1, r2, address uint32) uint32 {
	return uint32(CondBranchImmediate)<<30 | (opcode&0x3F)<<24 | (r1&0xF)<<20 | (r2&0xF)<<16 | (address & 0xFFFF)
}

func jumpWord(opcode, address uint32) uint32 {
	return uint32(UncondJump)<<30 | (opcode&0x3F)<<24 | (address&0xFFFF)<<8
}

// TestExecuteProcessAddAndStore builds a five-instruction program
// (LDI r1,3; LDI r2,4; ADD r3<-r1+r2; ST r3,[20]; HLT), runs it to
// completion, and checks the computed sum landed in the output region.
func TestExecuteProcessAddAndStore(t *testing.T) {
	instrs := []uint32{
		condWord(OpLDI, 0, 1, 3),
		condWord(OpLDI, 0, 2, 4),
		arithWord(OpADD, 1, 2, 3),
		condWord(OpST, 3, 0, 20),
		jumpWord(OpHLT, 0),
	}
	data := append(append([]uint32{}, instrs...), 0) // one output word, initially 0

	mem := memory.New()
	info := disk.ProgramInfo{ID: 1, Priority: 1, InstructionSize: 5, InputSize: 0, OutputSize: 1, TempSize: 0}
	p := mem.CreateProcess(info, data)

	c := New(mem, testLogger())
	c.Start()
	defer c.Stop()

	if got := c.AwaitProcessInterrupt(); got != pcb.Terminated {
		t.Fatalf("initial await_process_interrupt got: %s expected: %s", got, pcb.Terminated)
	}

	c.ExecuteProcess(p, nil)

	if got := c.AwaitProcessInterrupt(); got != pcb.Terminated {
		t.Fatalf("await_process_interrupt after HLT got: %s expected: %s", got, pcb.Terminated)
	}

	if got := mem.Read(p.MemOutStart); got != 7 {
		t.Errorf("output word got: %d expected: 7", got)
	}

	c.ExecuteProcess(nil, p)
	if p.Registers[3] != 7 {
		t.Errorf("saved register r3 got: %d expected: 7", p.Registers[3])
	}
	if p.ProgramCounter != 5 {
		t.Errorf("saved program_counter got: %d expected: 5", p.ProgramCounter)
	}
}

// TestExecuteProcessBranch checks BEQ takes the branch and skips the
// instruction it jumps over.
func TestExecuteProcessBranch(t *testing.T) {
	instrs := []uint32{
		condWord(OpLDI, 0, 1, 5),      // 0: LDI r1, 5
		condWord(OpLDI, 0, 2, 5),      // 1: LDI r2, 5
		condWord(OpBEQ, 1, 2, 4*4),    // 2: BEQ r1,r2 -> word 4, skipping word 3
		condWord(OpLDI, 0, 3, 0xDEAD), // 3: skipped when the branch is taken
		condWord(OpST, 3, 0, 6*4),     // 4: ST r3 -> out[0] (instr_size=6 words)
		jumpWord(OpHLT, 0),            // 5: HLT
	}
	data := append(append([]uint32{}, instrs...), 0)

	mem := memory.New()
	info := disk.ProgramInfo{ID: 1, Priority: 1, InstructionSize: uint32(len(instrs)), InputSize: 0, OutputSize: 1, TempSize: 0}
	p := mem.CreateProcess(info, data)

	c := New(mem, testLogger())
	c.Start()
	defer c.Stop()

	c.AwaitProcessInterrupt()
	c.ExecuteProcess(p, nil)
	c.AwaitProcessInterrupt()

	if got := mem.Read(p.MemOutStart); got != 0 {
		t.Errorf("output word got: %d expected: 0 (r3 left at its zero default, branch skipped the LDI)", got)
	}
}

func TestExecuteArithmeticOpcodes(t *testing.T) {
	c := &CPU{}
	c.regs[1] = 10
	c.regs[2] = 3

	c.executeArithmetic(DecodedInstruction{Opcode: OpADD, Reg1: 1, Reg2: 2, Reg3: 3})
	if c.regs[3] != 13 {
		t.Errorf("ADD got: %d expected: 13", c.regs[3])
	}
	c.executeArithmetic(DecodedInstruction{Opcode: OpSUB, Reg1: 1, Reg2: 2, Reg3: 3})
	if c.regs[3] != 7 {
		t.Errorf("SUB got: %d expected: 7", c.regs[3])
	}
	c.executeArithmetic(DecodedInstruction{Opcode: OpMUL, Reg1: 1, Reg2: 2, Reg3: 3})
	if c.regs[3] != 30 {
		t.Errorf("MUL got: %d expected: 30", c.regs[3])
	}
	c.executeArithmetic(DecodedInstruction{Opcode: OpDIV, Reg1: 1, Reg2: 2, Reg3: 3})
	if c.regs[3] != 3 {
		t.Errorf("DIV got: %d expected: 3", c.regs[3])
	}
	c.executeArithmetic(DecodedInstruction{Opcode: OpSLT, Reg1: 2, Reg2: 1, Reg3: 3})
	if c.regs[3] != 1 {
		t.Errorf("SLT got: %d expected: 1", c.regs[3])
	}
}

func TestSubUnderflowPanics(t *testing.T) {
	c := &CPU{}
	c.regs[1] = 1
	c.regs[2] = 2
	defer func() {
		if recover() == nil {
			t.Errorf("SUB underflow did not panic")
		}
	}()
	c.executeArithmetic(DecodedInstruction{Opcode: OpSUB, Reg1: 1, Reg2: 2, Reg3: 3})
}

func TestDivByZeroPanics(t *testing.T) {
	c := &CPU{}
	c.regs[1] = 4
	c.regs[2] = 0
	defer func() {
		if recover() == nil {
			t.Errorf("DIV by zero did not panic")
		}
	}()
	c.executeArithmetic(DecodedInstruction{Opcode: OpDIV, Reg1: 1, Reg2: 2, Reg3: 3})
}

func TestInvalidArithmeticOpcodePanics(t *testing.T) {
	c := &CPU{}
	defer func() {
		if recover() == nil {
			t.Errorf("invalid arithmetic opcode did not panic")
		}
	}()
	c.executeArithmetic(DecodedInstruction{Opcode: 0x3F})
}

func TestBLZNeverBranches(t *testing.T) {
	c := &CPU{}
	c.regs[1] = 0
	c.pc = 100
	c.executeCondBranchImmediate(DecodedInstruction{Opcode: OpBLZ, Reg1: 1, Address: 0})
	if c.pc != 100 {
		t.Errorf("pc got: %d expected: 100 (BLZ must never branch)", c.pc)
	}
}
