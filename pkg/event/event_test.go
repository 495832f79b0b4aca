// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"

	"github.com/J-FPV/6122/pkg/control"
)

func TestBus_PublishToSubscriber(t *testing.T) {
	bus := NewBus()

	var got *PhaseEvent
	bus.Subscribe(PhaseChanged, func(e Event) {
		got = e.(*PhaseEvent)
	})

	bus.Publish(NewPhaseEvent(3, control.PhaseGroundWait, control.PhaseClimbToCenter))

	if got == nil {
		t.Fatal("handler was not invoked")
	}
	if got.AgentID != 3 || got.From != control.PhaseGroundWait || got.To != control.PhaseClimbToCenter {
		t.Errorf("unexpected event payload: %+v", got)
	}
}

func TestBus_MultipleHandlers(t *testing.T) {
	bus := NewBus()

	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(ProximityResolved, func(Event) { calls++ })
	}

	bus.Publish(NewProximityEvent(0, 1, 0.005))

	if calls != 3 {
		t.Errorf("handlers invoked %d times, expected 3", calls)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic or block.
	bus.Publish(NewSwarmEvent(SwarmStarted, 15))
}

func TestBus_TypeIsolation(t *testing.T) {
	bus := NewBus()

	phaseCalls, swarmCalls := 0, 0
	bus.Subscribe(PhaseChanged, func(Event) { phaseCalls++ })
	bus.Subscribe(SwarmStopped, func(Event) { swarmCalls++ })

	bus.Publish(NewSwarmEvent(SwarmStopped, 2))

	if phaseCalls != 0 {
		t.Errorf("phase handler invoked %d times for a swarm event", phaseCalls)
	}
	if swarmCalls != 1 {
		t.Errorf("swarm handler invoked %d times, expected 1", swarmCalls)
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe(PhaseChanged, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(NewPhaseEvent(id, control.PhaseGroundWait, control.PhaseClimbToCenter))
			}
		}(uint64(i))
	}
	wg.Wait()

	if count != 1000 {
		t.Errorf("handler invoked %d times, expected 1000", count)
	}
}
