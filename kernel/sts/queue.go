/*
 * minios - Ready queue implementations
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

package sts

import (
	"container/heap"

	"github.com/rcornwell/minios/kernel/pcb"
)

// readyQueue is the STS's pluggable ready-list discipline. seq is a
// monotonically increasing insertion sequence number used to break
// ties.
type readyQueue interface {
	push(p *pcb.PCB, seq uint64)
	pop() *pcb.PCB
	len() int
}

// fifoQueue dispatches PCBs in the order they were scheduled.
type fifoQueue struct {
	items []*pcb.PCB
}

func (q *fifoQueue) push(p *pcb.PCB, _ uint64) {
	q.items = append(q.items, p)
}

func (q *fifoQueue) pop() *pcb.PCB {
	p := q.items[0]
	q.items = q.items[1:]
	return p
}

func (q *fifoQueue) len() int {
	return len(q.items)
}

// priorityEntry pairs a PCB with its insertion sequence for the heap's
// tie-break.
type priorityEntry struct {
	p   *pcb.PCB
	seq uint64
}

// priorityHeap is a max-heap on PCB.Priority, mirroring the source's
// BinaryHeap<PriorityProcessControlBlock>: higher numeric priority
// dispatches first. Equal priorities break by insertion order.
type priorityHeap []priorityEntry

func (h priorityHeap) Len() int { return len(h) }

func (h priorityHeap) Less(i, j int) bool {
	if h[i].p.Priority != h[j].p.Priority {
		return h[i].p.Priority > h[j].p.Priority
	}
	return h[i].seq < h[j].seq
}

func (h priorityHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *priorityHeap) Push(x any) {
	*h = append(*h, x.(priorityEntry))
}

func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// priorityQueue adapts priorityHeap to the readyQueue interface.
type priorityQueue struct {
	heap priorityHeap
}

func (q *priorityQueue) push(p *pcb.PCB, seq uint64) {
	heap.Push(&q.heap, priorityEntry{p: p, seq: seq})
}

func (q *priorityQueue) pop() *pcb.PCB {
	entry := heap.Pop(&q.heap).(priorityEntry)
	return entry.p
}

func (q *priorityQueue) len() int {
	return len(q.heap)
}
