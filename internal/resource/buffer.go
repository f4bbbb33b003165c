package resource

import "github.com/legatoproject/datahub/internal/sample"

// RingBuffer is a FIFO circular buffer of samples with a fixed
// capacity (spec §4.4). A capacity of 0 disables retention without
// disabling filtering/delivery.
type RingBuffer struct {
	data []sample.Sample
	cap  int
	head int // index of oldest element
	size int
}

// NewRingBuffer creates a buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &RingBuffer{data: make([]sample.Sample, capacity), cap: capacity}
}

// Capacity returns the buffer's maximum size.
func (r *RingBuffer) Capacity() int { return r.cap }

// Len returns the number of samples currently retained.
func (r *RingBuffer) Len() int { return r.size }

// Push appends s, evicting the oldest element if the buffer is full.
// A zero-capacity buffer silently discards every push.
func (r *RingBuffer) Push(s sample.Sample) {
	if r.cap == 0 {
		return
	}
	idx := (r.head + r.size) % r.cap
	r.data[idx] = s
	if r.size < r.cap {
		r.size++
	} else {
		r.head = (r.head + 1) % r.cap
	}
}

// Snapshot returns the buffer's contents, oldest first.
func (r *RingBuffer) Snapshot() []sample.Sample {
	out := make([]sample.Sample, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.data[(r.head+i)%r.cap]
	}
	return out
}

// Resize changes the buffer's capacity, retaining as many of the most
// recent samples as fit in the new capacity.
func (r *RingBuffer) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	existing := r.Snapshot()
	if len(existing) > capacity {
		existing = existing[len(existing)-capacity:]
	}
	r.data = make([]sample.Sample, capacity)
	r.cap = capacity
	r.head = 0
	r.size = 0
	for _, s := range existing {
		r.Push(s)
	}
}
