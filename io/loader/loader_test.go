/*
 * minios - Program file loader tests
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

package loader

import (
	"strings"
	"testing"

	"github.com/rcornwell/minios/kernel/disk"
)

const sampleProgramFile = `// JOB 1 3 2
0x0C010004
0x0C020005
0x92000000
// Data 2 1 1
0x00000000
0x00000000
0x00000000
0x00000000
// END
// JOB 1E 2 8
0x0C010001
0x92000000
// Data 1 1 0
0x00000000
0x00000000
// END
`

func TestLoadParsesJobAndDataHeaders(t *testing.T) {
	d := disk.New()
	ids, err := Load(strings.NewReader(sampleProgramFile), d)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 0x1E {
		t.Fatalf("ids got: %v expected: [1 30]", ids)
	}

	info := d.GetInfo(1)
	if info.Priority != 2 {
		t.Errorf("program 1 priority got: %d expected: 2", info.Priority)
	}
	if info.InstructionSize != 3 {
		t.Errorf("program 1 instruction_size got: %d expected: 3", info.InstructionSize)
	}
	if info.InputSize != 2 || info.OutputSize != 1 || info.TempSize != 1 {
		t.Errorf("program 1 region sizes got: in=%d out=%d temp=%d expected: in=2 out=1 temp=1",
			info.InputSize, info.OutputSize, info.TempSize)
	}

	info2 := d.GetInfo(0x1E)
	if info2.Priority != 8 {
		t.Errorf("program 1E priority got: %d expected: 8", info2.Priority)
	}
	if info2.InstructionSize != 2 {
		t.Errorf("program 1E instruction_size got: %d expected: 2", info2.InstructionSize)
	}

	data := d.ReadData(info)
	if data[0] != 0x0C010004 || data[1] != 0x0C020005 || data[2] != 0x92000000 {
		t.Errorf("program 1 instruction words got: %x expected: [c010004 c020005 92000000]", data[:3])
	}
}

func TestLoadMalformedJobHeader(t *testing.T) {
	d := disk.New()
	_, err := Load(strings.NewReader("// JOB 1 2\n0x00000000\n// END\n"), d)
	if err == nil {
		t.Fatal("expected error for malformed JOB header, got nil")
	}
}

func TestLoadMalformedDataWord(t *testing.T) {
	d := disk.New()
	_, err := Load(strings.NewReader("// JOB 1 1 1\nnot-hex\n// Data 0 0 0\n// END\n"), d)
	if err == nil {
		t.Fatal("expected error for malformed data word, got nil")
	}
}
