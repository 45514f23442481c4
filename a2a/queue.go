package a2a

import "sync"

// EventQueue receives the events an execution produces, in order. Publish is
// fire-and-forget; Finished signals that no more events will follow for this
// execution. The transport layer drains the queue into its wire protocol.
type EventQueue interface {
	Publish(event Event)
	Finished()
}

// ChannelQueue is an EventQueue backed by a buffered channel, suitable for
// fanning events into an SSE response or a test. Finished closes the channel;
// events published after Finished are dropped.
type ChannelQueue struct {
	mu      sync.Mutex
	ch      chan Event
	done    chan struct{}
	closed  bool
	senders sync.WaitGroup
}

// NewChannelQueue creates a ChannelQueue with standard capacity.
func NewChannelQueue() *ChannelQueue {
	return &ChannelQueue{
		ch:   make(chan Event, 100),
		done: make(chan struct{}),
	}
}

// Publish enqueues an event. It blocks while the buffer is full, but never
// past Finished: a publish still waiting when Finished is called is dropped.
func (q *ChannelQueue) Publish(event Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	select {
	case q.ch <- event:
	case <-q.done:
	}
}

// Finished closes the event channel. It waits for in-flight publishes to
// settle, so a consumer that stopped draining cannot wedge it.
func (q *ChannelQueue) Finished() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.senders.Wait()
	close(q.ch)
}

// Events returns the channel consumers drain. The channel closes after
// Finished is called.
func (q *ChannelQueue) Events() <-chan Event {
	return q.ch
}

var _ EventQueue = (*ChannelQueue)(nil)
