package chatexchange

import "sync"

// pendingMessage is one queued send. It has no identity beyond its
// position in the queue and is discarded once the service accepts it.
type pendingMessage struct {
	roomID string
	text   string
}

// queueItem wraps a pending message or the stop sentinel pushed by
// Logout. The worker terminates on the sentinel and drains nothing
// queued behind it.
type queueItem struct {
	msg  pendingMessage
	stop bool
}

// messageQueue is an unbounded FIFO. push never blocks the caller; pop
// blocks the worker until an item is available.
type messageQueue struct {
	mu    sync.Mutex
	ready *sync.Cond
	items []queueItem
}

func newMessageQueue() *messageQueue {
	q := &messageQueue{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

func (q *messageQueue) push(item queueItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.ready.Signal()
}

func (q *messageQueue) pop() queueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.ready.Wait()
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item
}

func (q *messageQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
