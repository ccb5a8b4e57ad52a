/*
 * minios - Instruction decode
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

// InstrType is the two-bit instruction class occupying the top of the
// 32-bit word.
type InstrType uint32

const (
	Arithmetic InstrType = iota
	CondBranchImmediate
	UncondJump
	IO
)

func (t InstrType) String() string {
	switch t {
	case Arithmetic:
		return "Arithmetic"
	case CondBranchImmediate:
		return "CondBranchImmediate"
	case UncondJump:
		return "UncondJump"
	case IO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Opcodes, grouped by the instruction type that carries them. Opcode
// 0x13 (NOP) is valid under every type.
const (
	OpRD = 0x00
	OpWR = 0x01

	OpST    = 0x02
	OpLW    = 0x03
	OpMOVI  = 0x0B
	OpADDI  = 0x0C
	OpMULI  = 0x0D
	OpDIVI  = 0x0E
	OpLDI   = 0x0F
	OpSLTI  = 0x11
	OpBEQ   = 0x15
	OpBNE   = 0x16
	OpBEZ   = 0x17
	OpBNZ   = 0x18
	OpBGZ   = 0x19
	OpBLZ   = 0x1A

	OpMOV = 0x04
	OpADD = 0x05
	OpSUB = 0x06
	OpMUL = 0x07
	OpDIV = 0x08
	OpAND = 0x09
	OpOR  = 0x0A
	OpSLT = 0x10

	OpHLT = 0x12
	OpJMP = 0x14

	OpNOP = 0x13
)

// DecodedInstruction is the decoded form of a fetched word, carrying
// only the fields relevant to its instruction type.
type DecodedInstruction struct {
	Type    InstrType
	Opcode  uint32
	Reg1    uint32
	Reg2    uint32
	Reg3    uint32
	Address uint32 // 16-bit logical byte address or immediate.
}

// Decode splits a 32-bit instruction word using big-endian bit
// numbering from the most significant bit: bits 0-1 are instr_type,
// bits 2-7 are opcode, and the remaining bits are interpreted
// per-type.
func Decode(word uint32) DecodedInstruction {
	d := DecodedInstruction{
		Type:   InstrType((word >> 30) & 0x3),
		Opcode: (word >> 24) & 0x3F,
	}

	switch d.Type {
	case Arithmetic:
		d.Reg1 = (word >> 20) & 0xF
		d.Reg2 = (word >> 16) & 0xF
		d.Reg3 = (word >> 12) & 0xF
	case CondBranchImmediate, IO:
		d.Reg1 = (word >> 20) & 0xF
		d.Reg2 = (word >> 16) & 0xF
		d.Address = word & 0xFFFF
	case UncondJump:
		d.Address = (word >> 8) & 0xFFFF
	}

	return d
}

// EncodeArithmetic is the inverse of Decode for the Arithmetic encoding, used by
// tests to check the round-trip property over the bits Decode reads.
func EncodeArithmetic(opcode, reg1, reg2, reg3 uint32) uint32 {
	return uint32(Arithmetic)<<30 | (opcode&0x3F)<<24 | (reg1&0xF)<<20 | (reg2&0xF)<<16 | (reg3&0xF)<<12
}
