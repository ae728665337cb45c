/*
 * MIT License
 *
 * Copyright (c) 2024-2026 The Robokit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package unit

import (
	gods "github.com/Workiva/go-datastructures/queue"
)

// defaultMailboxCapacity bounds each unit's inbox. Senders block when the
// inbox is full, which is the runtime's only back-pressure mechanism.
const defaultMailboxCapacity = 64

// mailbox is a bounded, blocking MPSC inbox backed by a ring buffer.
//
//   - Enqueue blocks when the mailbox is full until space becomes available
//     or the mailbox is disposed.
//   - Dequeue blocks when the mailbox is empty until a message arrives or
//     the mailbox is disposed.
//   - Safe for multiple producers and a single consumer; FIFO across all
//     producers.
type mailbox struct {
	underlying *gods.RingBuffer
}

func newMailbox(capacity int) *mailbox {
	if capacity <= 0 {
		capacity = defaultMailboxCapacity
	}
	return &mailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts a message into the mailbox, blocking while full.
// Returns an error after the mailbox has been disposed.
func (m *mailbox) Enqueue(msg *MessageContext) error {
	return m.underlying.Put(msg)
}

// Dequeue removes and returns the next message, blocking while empty.
// Returns (nil, false) after the mailbox has been disposed.
func (m *mailbox) Dequeue() (*MessageContext, bool) {
	item, err := m.underlying.Get()
	if err != nil {
		return nil, false
	}
	msg, ok := item.(*MessageContext)
	return msg, ok
}

// Len returns a snapshot of the number of queued messages.
func (m *mailbox) Len() int64 {
	return int64(m.underlying.Len())
}

// Dispose unblocks all waiters and rejects further use of the mailbox.
func (m *mailbox) Dispose() {
	m.underlying.Dispose()
}
