package queue

import (
	"fmt"
	"log"
	"sync"
)

// MemoryQueue is an in-process queue: one buffered channel per topic with
// one consumer goroutine per subscriber, so jobs on a topic run serially.
type MemoryQueue struct {
	mu     sync.Mutex
	topics map[string]chan []byte
	closed bool
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{topics: make(map[string]chan []byte)}
}

// topicLocked returns the topic channel, creating it on first use. The
// caller must hold q.mu.
func (q *MemoryQueue) topicLocked(name string) chan []byte {
	ch, ok := q.topics[name]
	if !ok {
		ch = make(chan []byte, 128)
		q.topics[name] = ch
	}
	return ch
}

// Publish enqueues one payload. It fails when the topic buffer is full
// rather than blocking the caller. The mutex is held across the closed
// check and the send so Close cannot close the channel in between; the
// send is non-blocking, so holding the lock is safe.
func (q *MemoryQueue) Publish(topic string, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("queue closed")
	}
	select {
	case q.topicLocked(topic) <- payload:
		return nil
	default:
		return fmt.Errorf("queue full for topic %s", topic)
	}
}

// Subscribe starts a consumer goroutine for the topic. Handler errors are
// logged; the job is not requeued.
func (q *MemoryQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	q.mu.Lock()
	ch := q.topicLocked(topic)
	q.mu.Unlock()
	go func() {
		for payload := range ch {
			if err := handler(payload); err != nil {
				log.Println("queue handler failed for topic", topic, ":", err)
			}
		}
	}()
	return nil
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	for _, ch := range q.topics {
		close(ch)
	}
	return nil
}
