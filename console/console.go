/*
 * minios - Interactive monitor console
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

// Package console implements the optional interactive monitor: a
// read-only prompt offered between batches when the driver runs with
// -interactive. It never mutates kernel state.
package console

import (
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"

	"github.com/rcornwell/minios/kernel/driver"
	"github.com/rcornwell/minios/kernel/memory"
	"github.com/rcornwell/minios/stats"
)

// cmd is one monitor command, matched against the minimum unambiguous
// prefix the user types.
type cmd struct {
	name    string
	min     int
	process func(args string, dr *driver.Driver, w io.Writer) (quitAll bool)
}

var cmdList = []cmd{
	{name: "show", min: 2, process: processShow},
	{name: "continue", min: 1, process: func(_ string, _ *driver.Driver, _ io.Writer) bool { return false }},
	{name: "quit", min: 1, process: func(_ string, _ *driver.Driver, _ io.Writer) bool { return true }},
}

// Run offers a "minios> " prompt over dr until the user types
// "continue" (returns to let the driver start its next batch) or
// "quit" (returns quitAll=true, telling the caller to stop the whole
// run).
func Run(dr *driver.Driver, w io.Writer) (quitAll bool) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("minios> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return false
			}
			return false
		}
		line.AppendHistory(input)

		name, args := splitWord(input)
		match := matchCommand(name)
		if match == nil {
			fmt.Fprintln(w, "unknown command: "+name)
			continue
		}

		quit := match.process(args, dr, w)
		if match.name == "continue" || match.name == "quit" {
			return quit
		}
	}
}

func processShow(args string, dr *driver.Driver, w io.Writer) bool {
	switch args {
	case "queue", "mem":
		printResident(w, dr)
	case "stats":
		stats.Print(w, dr.Completed())
	default:
		fmt.Fprintln(w, "show requires: queue, mem, or stats")
	}
	return false
}

func printResident(w io.Writer, dr *driver.Driver) {
	mem := dr.Memory()
	fmt.Fprintf(w, "memory: %d/%d words free\n", mem.Remaining(), memory.Capacity)
	for _, p := range mem.PCBs() {
		fmt.Fprintf(w, "  pcb %d: priority=%d state=%s pc=%d region=[%d,%d)\n",
			p.ID, p.Priority, p.State, p.ProgramCounter, p.MemStart, p.MemEnd)
	}
}

func matchCommand(name string) *cmd {
	if name == "" {
		return nil
	}
	var match *cmd
	for i := range cmdList {
		c := &cmdList[i]
		if len(name) > len(c.name) || len(name) < c.min {
			continue
		}
		if c.name[:len(name)] == name {
			if match != nil {
				return nil // ambiguous
			}
			match = c
		}
	}
	return match
}

func splitWord(line string) (word, rest string) {
	i := 0
	for i < len(line) && line[i] != ' ' {
		i++
	}
	word = line[:i]
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return word, line[i:]
}
