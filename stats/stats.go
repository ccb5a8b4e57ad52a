/*
 * minios - Runtime statistics rendering
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

// Package stats renders the id/priority/turnaround/burst table the
// driver prints after the final batch, and the console's "show stats"
// command.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/rcornwell/minios/kernel/pcb"
)

// Print renders one row per PCB in completed, sorted ascending by id,
// to w.
func Print(w io.Writer, completed []*pcb.PCB) {
	rows := make([]*pcb.PCB, len(completed))
	copy(rows, completed)
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Turnaround (ms)", "Avg Burst (ms)"})
	for _, p := range rows {
		table.Append([]string{
			fmt.Sprintf("%d", p.ID),
			fmt.Sprintf("%d", p.Priority),
			fmt.Sprintf("%.3f", p.TurnaroundMs),
			fmt.Sprintf("%.3f", p.AvgBurstMs()),
		})
	}
	table.Render()
}
