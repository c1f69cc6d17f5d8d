package chatexchange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := newMessageQueue()
	q.push(queueItem{msg: pendingMessage{roomID: "1", text: "a"}})
	q.push(queueItem{msg: pendingMessage{roomID: "1", text: "b"}})
	q.push(queueItem{msg: pendingMessage{roomID: "2", text: "c"}})

	assert.Equal(t, "a", q.pop().msg.text)
	assert.Equal(t, "b", q.pop().msg.text)
	assert.Equal(t, "c", q.pop().msg.text)
	assert.Equal(t, 0, q.len())
}

func TestQueuePushNeverBlocks(t *testing.T) {
	q := newMessageQueue()

	// No consumer at all; a large burst of pushes must still return.
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			q.push(queueItem{msg: pendingMessage{roomID: "1", text: "x"}})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("push blocked with no consumer")
	}
	assert.Equal(t, 10000, q.len())
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := newMessageQueue()

	got := make(chan queueItem, 1)
	go func() { got <- q.pop() }()

	// Give the consumer a moment to park on the empty queue.
	time.Sleep(10 * time.Millisecond)
	q.push(queueItem{msg: pendingMessage{roomID: "7", text: "late"}})

	select {
	case item := <-got:
		require.Equal(t, "late", item.msg.text)
	case <-time.After(5 * time.Second):
		t.Fatal("pop never woke up")
	}
}

func TestQueueStopSentinelOrdering(t *testing.T) {
	q := newMessageQueue()
	q.push(queueItem{msg: pendingMessage{roomID: "1", text: "before"}})
	q.push(queueItem{stop: true})
	q.push(queueItem{msg: pendingMessage{roomID: "1", text: "after"}})

	assert.False(t, q.pop().stop)
	assert.True(t, q.pop().stop, "sentinel keeps its queue position")
}
