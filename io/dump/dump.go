/*
 * minios - Final memory-state dump writer
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

// Package dump writes a Disk's contents back out in the program file's
// own grammar, mirroring what loader.Load consumes: one JOB/Data/END
// block per program, in ascending id order.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rcornwell/minios/kernel/disk"
	"github.com/rcornwell/minios/util/hex"
)

// Write renders every program on d to w in ascending id order.
func Write(w io.Writer, d *disk.Disk) error {
	bw := bufio.NewWriter(w)

	for _, info := range d.ListInfos() {
		data := d.ReadData(info)

		if _, err := fmt.Fprintf(bw, "// JOB %X %X %X\n", info.ID, info.InstructionSize, info.Priority); err != nil {
			return err
		}
		for i := uint32(0); i < info.InstructionSize; i++ {
			if err := writeWord(bw, data[i]); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(bw, "// Data %X %X %X\n", info.InputSize, info.OutputSize, info.TempSize); err != nil {
			return err
		}
		start := info.InstructionSize
		end := start + info.InputSize + info.OutputSize + info.TempSize
		for i := start; i < end; i++ {
			if err := writeWord(bw, data[i]); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(bw, "// END"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeWord(w io.Writer, word uint32) error {
	var sb strings.Builder
	hex.FormatWord(&sb, word)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}
