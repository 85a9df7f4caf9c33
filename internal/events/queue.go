// Package events provides the explorer's outbound event queue: the
// orchestrator publishes typed events and a single consumer drains them.
package events

import (
	"sync"
	"time"
)

// EventType identifies what happened.
type EventType string

const (
	EventStatus            EventType = "status"
	EventRoundStarted      EventType = "round_started"
	EventRoundCompleted    EventType = "round_completed"
	EventActionStarted     EventType = "action_started"
	EventActionCompleted   EventType = "action_completed"
	EventActionFailed      EventType = "action_failed"
	EventAdmissionRejected EventType = "admission_rejected"
	EventMergeApplied      EventType = "merge_applied"
	EventSnapshotSaved     EventType = "snapshot_saved"
	EventCheckpointReached EventType = "checkpoint_reached"
)

// Event is one entry on the queue.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      map[string]any
}

// Queue is a bounded, non-blocking event queue. Publish never blocks: when
// the buffer is full the event is dropped, so a slow consumer cannot stall
// a round.
type Queue struct {
	ch        chan Event
	closeOnce sync.Once
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(bufferSize int) *Queue {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Queue{ch: make(chan Event, bufferSize)}
}

// Publish enqueues an event, dropping it if the buffer is full.
func (q *Queue) Publish(t EventType, data map[string]any) {
	ev := Event{Type: t, Timestamp: time.Now().UTC(), Data: data}
	select {
	case q.ch <- ev:
	default:
	}
}

// Events returns the receive side for the consumer to drain.
func (q *Queue) Events() <-chan Event {
	return q.ch
}

// Close closes the queue. Publish after Close is not allowed.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.ch) })
}
