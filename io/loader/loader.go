/*
 * minios - Program file loader
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

// Package loader parses the line-oriented program file grammar into
// Disk.WriteProgram calls:
//
//	// JOB <id> <instr_size> <priority>   (hex, no 0x prefix)
//	0xXXXXXXXX                           (one data word per line)
//	// Data <in_size> <out_size> <temp_size>
//	0xXXXXXXXX
//	// END
//
// repeated once per program.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcornwell/minios/kernel/disk"
)

// Load reads the program file grammar from r and writes each program
// into d, returning the ids in file order.
func Load(r io.Reader, d *disk.Disk) ([]uint32, error) {
	scanner := bufio.NewScanner(r)

	var ids []uint32
	var data []uint32
	var id, priority, instrSize, inSize, outSize, tempSize uint32

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "// JOB"):
			fields := strings.Fields(line[len("// JOB"):])
			if len(fields) != 3 {
				return nil, fmt.Errorf("loader: line %d: malformed JOB header %q", lineNo, line)
			}
			var err error
			if id, err = parseHex32(fields[0]); err != nil {
				return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
			}
			if instrSize, err = parseHex32(fields[1]); err != nil {
				return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
			}
			if priority, err = parseHex32(fields[2]); err != nil {
				return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
			}

		case strings.HasPrefix(line, "// Data"):
			fields := strings.Fields(line[len("// Data"):])
			if len(fields) != 3 {
				return nil, fmt.Errorf("loader: line %d: malformed Data header %q", lineNo, line)
			}
			var err error
			if inSize, err = parseHex32(fields[0]); err != nil {
				return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
			}
			if outSize, err = parseHex32(fields[1]); err != nil {
				return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
			}
			if tempSize, err = parseHex32(fields[2]); err != nil {
				return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
			}

		case strings.HasPrefix(line, "// END"):
			d.WriteProgram(id, priority, instrSize, inSize, outSize, tempSize, data)
			ids = append(ids, id)
			data = nil

		default:
			word, err := parseHexWord(line)
			if err != nil {
				return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
			}
			data = append(data, word)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	return ids, nil
}

func parseHex32(field string) (uint32, error) {
	v, err := strconv.ParseUint(field, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse hex field %q: %w", field, err)
	}
	return uint32(v), nil
}

// parseHexWord parses a "0xXXXXXXXX" data line.
func parseHexWord(line string) (uint32, error) {
	if !strings.HasPrefix(line, "0x") && !strings.HasPrefix(line, "0X") {
		return 0, fmt.Errorf("expected 0x-prefixed word, got %q", line)
	}
	v, err := strconv.ParseUint(line[2:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse data word %q: %w", line, err)
	}
	return uint32(v), nil
}
