package freelist

import (
	"container/heap"
)

// List keeps track of reclaimed slot indices and hands out the
// lowest one first. The zero value is an empty list.
type List struct {
	indices minHeap
}

// Push marks an index as free. Pushing an index twice is a bug in the caller.
func (l *List) Push(index int) {
	heap.Push(&l.indices, index)
}

// PopLowest removes and returns the lowest free index.
func (l *List) PopLowest() (int, bool) {
	if len(l.indices) == 0 {
		return 0, false
	}

	return heap.Pop(&l.indices).(int), true
}

func (l *List) Len() int {
	return len(l.indices)
}

// Reset replaces the content of the list with the indices 0 to n-1.
func (l *List) Reset(n int) {
	l.indices = l.indices[:0]

	// ascending order already satisfies the heap property
	for idx := range n {
		l.indices = append(l.indices, idx)
	}
}

type minHeap []int

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) {
	*h = append(*h, x.(int))
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	value := old[n-1]
	*h = old[:n-1]
	return value
}
