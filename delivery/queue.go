package delivery

import (
	"container/list"
	"sync"
)

// queue is the FIFO of lines waiting for a flush. Many producers may push while a
// single flush pops.
type queue struct {
	mu       sync.Mutex
	lines    *list.List
	capacity int
	policy   DropPolicy
}

func newQueue(capacity int, policy DropPolicy) *queue {
	if policy == "" {
		policy = DropOldest
	}
	return &queue{
		lines:    list.New(),
		capacity: capacity,
		policy:   policy,
	}
}

// push appends line and reports whether a line had to be dropped to make room.
func (q *queue) push(line string) (dropped bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.capacity > 0 && q.lines.Len() >= q.capacity {
		if q.policy == DropNewest {
			return true
		}
		q.lines.Remove(q.lines.Front())
		dropped = true
	}
	q.lines.PushBack(line)
	return dropped
}

func (q *queue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	front := q.lines.Front()
	if front == nil {
		return "", false
	}
	return q.lines.Remove(front).(string), true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lines.Len()
}
