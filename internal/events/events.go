// Package events provides the ordered notification queue shared by agents
// and the simulation driver. Events are buffered during a frame and delivered
// to observers in emission order when the driver flushes.
package events

import "fmt"

// Kind identifies what happened.
type Kind string

const (
	PursuitStarted   Kind = "pursuit_started"  // A guard entered Chase
	PlayerCaptured   Kind = "player_captured"  // A guard caught the tracked actor
	BountyResolved   Kind = "bounty_resolved"  // An enforcer collected a location's bounty
	BountiesChanged  Kind = "bounties_changed" // A location's outstanding bounty changed
	VehicleCollision Kind = "vehicle_collision"
	HeatRaised       Kind = "heat_raised"
)

// Event is a notable occurrence in the town.
type Event struct {
	Frame       uint64 `json:"frame"`
	Kind        Kind   `json:"kind"`
	Source      string `json:"source,omitempty"`   // Emitting agent, e.g. "guard-3"
	Location    string `json:"location,omitempty"` // Bounty location
	Amount      int    `json:"amount,omitempty"`
	Description string `json:"description"`
}

func (e Event) String() string {
	return fmt.Sprintf("[%d] %s: %s", e.Frame, e.Kind, e.Description)
}

// Observer receives flushed events.
type Observer func(Event)

// Queue buffers events and delivers them FIFO to observers in subscription order.
// It is not safe for concurrent use; the driver owns it.
type Queue struct {
	frame     uint64
	pending   []Event
	observers []Observer
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Subscribe registers an observer for all future flushes.
func (q *Queue) Subscribe(o Observer) {
	q.observers = append(q.observers, o)
}

// SetFrame sets the frame number stamped on subsequently emitted events.
func (q *Queue) SetFrame(frame uint64) {
	q.frame = frame
}

// Emit appends an event, stamping the current frame.
func (q *Queue) Emit(e Event) {
	e.Frame = q.frame
	q.pending = append(q.pending, e)
}

// Pending returns a copy of the undelivered events.
func (q *Queue) Pending() []Event {
	out := make([]Event, len(q.pending))
	copy(out, q.pending)
	return out
}

// Len returns the number of undelivered events.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Flush delivers every pending event to every observer and returns how many
// events were delivered. Events emitted by an observer during the flush are
// delivered in the same flush, after those already queued.
func (q *Queue) Flush() int {
	n := 0
	for len(q.pending) > 0 {
		e := q.pending[0]
		q.pending = q.pending[1:]
		for _, o := range q.observers {
			o(e)
		}
		n++
	}
	q.pending = nil
	return n
}
