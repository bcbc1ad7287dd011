package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlushDeliversInOrder(t *testing.T) {
	q := NewQueue()
	var first, second []Kind
	q.Subscribe(func(e Event) { first = append(first, e.Kind) })
	q.Subscribe(func(e Event) { second = append(second, e.Kind) })

	q.SetFrame(7)
	q.Emit(Event{Kind: PursuitStarted})
	q.Emit(Event{Kind: BountyResolved, Amount: 40})
	q.Emit(Event{Kind: PlayerCaptured})

	assert.Equal(t, 3, q.Len())
	for _, e := range q.Pending() {
		assert.Equal(t, uint64(7), e.Frame)
	}

	assert.Equal(t, 3, q.Flush())
	want := []Kind{PursuitStarted, BountyResolved, PlayerCaptured}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
	assert.Zero(t, q.Len())
	assert.Zero(t, q.Flush())
}

func TestFlushIncludesEventsEmittedByObservers(t *testing.T) {
	q := NewQueue()
	var got []Kind
	q.Subscribe(func(e Event) {
		got = append(got, e.Kind)
		if e.Kind == PlayerCaptured {
			q.Emit(Event{Kind: BountiesChanged})
		}
	})

	q.Emit(Event{Kind: PlayerCaptured})
	q.Emit(Event{Kind: HeatRaised})

	assert.Equal(t, 3, q.Flush())
	assert.Equal(t, []Kind{PlayerCaptured, HeatRaised, BountiesChanged}, got)
}

func TestEventString(t *testing.T) {
	e := Event{Frame: 12, Kind: VehicleCollision, Description: "car-1 hit the player"}
	assert.Equal(t, "[12] vehicle_collision: car-1 hit the player", e.String())
}
