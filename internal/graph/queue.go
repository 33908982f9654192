package graph

// queue is a FIFO of ids backed by a growable slice and a head index, giving
// O(1) amortized dequeue without shifting elements.
type queue struct {
	items []int
	head  int
}

func newQueue(capacity int) *queue {
	return &queue{items: make([]int, 0, capacity)}
}

func (q *queue) push(id int) {
	q.items = append(q.items, id)
}

func (q *queue) pop() (int, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}

	id := q.items[q.head]
	q.head++

	return id, true
}

func (q *queue) len() int {
	return len(q.items) - q.head
}

// remaining returns the undequeued ids in FIFO order.
func (q *queue) remaining() []int {
	out := make([]int, q.len())
	copy(out, q.items[q.head:])

	return out
}
