/*
 * minios - DMA channel
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

import "github.com/rcornwell/minios/kernel/memory"

// dmaCmd is a single data-memory request routed through the DMA
// channel. Each carries its own reply so the issuing CPU thread blocks
// on exactly its own request, never anyone else's.
type dmaCmd interface {
	exec(mem *memory.Memory)
}

type fetchCmd struct {
	addr  uint32
	reply chan uint32
}

func (f fetchCmd) exec(mem *memory.Memory) {
	f.reply <- mem.Read(f.addr)
}

type storeCmd struct {
	addr  uint32
	val   uint32
	reply chan struct{}
}

func (s storeCmd) exec(mem *memory.Memory) {
	mem.Write(s.addr, s.val)
	close(s.reply)
}

// dmaLoop is the single consumer of dmaChan. It runs until done is
// closed; select subsumes the bounded-timeout-receive pattern other
// languages need to poll a shutdown flag.
func (c *CPU) dmaLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case cmd := <-c.dmaChan:
			cmd.exec(c.mem)
		}
	}
}

// fetch issues a Fetch command and blocks for the reply.
func (c *CPU) fetch(addr uint32) uint32 {
	reply := make(chan uint32, 1)
	c.dmaChan <- fetchCmd{addr: addr, reply: reply}
	return <-reply
}

// store issues a Store command and blocks until it completes.
func (c *CPU) store(addr, val uint32) {
	reply := make(chan struct{})
	c.dmaChan <- storeCmd{addr: addr, val: val, reply: reply}
	<-reply
}
