/*
 * minios - Final memory-state dump writer tests
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

package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rcornwell/minios/kernel/disk"
	"github.com/rcornwell/minios/io/loader"
)

func TestWriteRoundTripsThroughLoader(t *testing.T) {
	d := disk.New()
	d.WriteProgram(2, 8, 2, 1, 1, 0, []uint32{0x0C010004, 0x92000000, 0xAAAAAAAA, 0xBBBBBBBB})
	d.WriteProgram(1, 2, 1, 0, 0, 0, []uint32{0x92000000})

	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "// JOB 1 1 2\n") {
		t.Fatalf("expected ascending id order starting with program 1, got:\n%s", out)
	}

	reloaded := disk.New()
	ids, err := loader.Load(strings.NewReader(out), reloaded)
	if err != nil {
		t.Fatalf("reloading dump output failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("reloaded ids got: %v expected: [1 2]", ids)
	}

	info := reloaded.GetInfo(2)
	if info.Priority != 8 || info.InstructionSize != 2 || info.InputSize != 1 || info.OutputSize != 1 {
		t.Errorf("reloaded program 2 info got: %+v", info)
	}
	data := reloaded.ReadData(info)
	want := []uint32{0x0C010004, 0x92000000, 0xAAAAAAAA, 0xBBBBBBBB}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("reloaded data[%d] got: %x expected: %x", i, data[i], want[i])
		}
	}
}

func TestWriteFormatsWordsUppercase(t *testing.T) {
	d := disk.New()
	d.WriteProgram(1, 0, 1, 0, 0, 0, []uint32{0xdeadbeef})

	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "0xDEADBEEF") {
		t.Errorf("expected uppercase hex word, got:\n%s", buf.String())
	}
}
