// pkg/swarm/collision_test.go
package swarm

import (
	"testing"

	"github.com/J-FPV/6122/pkg/event"
	"github.com/J-FPV/6122/pkg/physics"
)

func TestResolveCollisions_SwapsCloseVelocities(t *testing.T) {
	// Agents 0 and 1 sit 0.005 apart, inside the 0.01 minimum distance;
	// agent 2 is far away. Agents are not started, so the pass operates on
	// exactly the state set here.
	cfg := testConfig([]float64{0, 0.005, 10}, []float64{0}, 0.01)
	s := New(cfg, nil)

	v0 := physics.Vector3{X: 1, Y: 2, Z: 3}
	v1 := physics.Vector3{X: -1, Z: 4}
	v2 := physics.Vector3{X: 9, Y: 9, Z: 9}
	s.Agent(0).SetVelocity(v0)
	s.Agent(1).SetVelocity(v1)
	s.Agent(2).SetVelocity(v2)

	s.ResolveCollisions()

	if got := s.Agent(0).Velocity(); got != v1 {
		t.Errorf("agent 0 velocity = %v, expected pre-pass velocity of agent 1 %v", got, v1)
	}
	if got := s.Agent(1).Velocity(); got != v0 {
		t.Errorf("agent 1 velocity = %v, expected pre-pass velocity of agent 0 %v", got, v0)
	}
	if got := s.Agent(2).Velocity(); got != v2 {
		t.Errorf("agent 2 velocity = %v, expected unchanged %v", got, v2)
	}
}

func TestResolveCollisions_DistantPairsUntouched(t *testing.T) {
	cfg := testConfig([]float64{0, 5}, []float64{0}, 0.01)
	s := New(cfg, nil)

	v0 := physics.Vector3{X: 1}
	v1 := physics.Vector3{Y: 1}
	s.Agent(0).SetVelocity(v0)
	s.Agent(1).SetVelocity(v1)

	s.ResolveCollisions()

	if s.Agent(0).Velocity() != v0 || s.Agent(1).Velocity() != v1 {
		t.Error("velocities changed for a pair farther apart than minDistance")
	}
}

func TestResolveCollisions_TripleOverlapUsesSnapshotVelocities(t *testing.T) {
	// All three agents are pairwise close. Later pairs are evaluated from
	// the snapshot, not post-swap values, so the outcome is deterministic
	// in input order: (0,1) then (0,2) then (1,2).
	cfg := testConfig([]float64{0, 0.001, 0.002}, []float64{0}, 0.01)
	s := New(cfg, nil)

	v0 := physics.Vector3{X: 1}
	v1 := physics.Vector3{X: 2}
	v2 := physics.Vector3{X: 3}
	s.Agent(0).SetVelocity(v0)
	s.Agent(1).SetVelocity(v1)
	s.Agent(2).SetVelocity(v2)

	s.ResolveCollisions()

	if got := s.Agent(0).Velocity(); got != v2 {
		t.Errorf("agent 0 velocity = %v, expected %v", got, v2)
	}
	if got := s.Agent(1).Velocity(); got != v2 {
		t.Errorf("agent 1 velocity = %v, expected %v", got, v2)
	}
	if got := s.Agent(2).Velocity(); got != v1 {
		t.Errorf("agent 2 velocity = %v, expected %v", got, v1)
	}
}

func TestResolveCollisions_PublishesProximityEvents(t *testing.T) {
	cfg := testConfig([]float64{0, 0.005}, []float64{0}, 0.01)
	bus := event.NewBus()

	var got []*event.ProximityEvent
	bus.Subscribe(event.ProximityResolved, func(e event.Event) {
		got = append(got, e.(*event.ProximityEvent))
	})

	s := New(cfg, bus)
	s.ResolveCollisions()

	if len(got) != 1 {
		t.Fatalf("received %d proximity events, expected 1", len(got))
	}
	if got[0].AgentA != 0 || got[0].AgentB != 1 {
		t.Errorf("event pair = (%d, %d), expected (0, 1)", got[0].AgentA, got[0].AgentB)
	}
	if got[0].Distance >= cfg.Collision.MinDistance {
		t.Errorf("event distance %v not below minDistance %v",
			got[0].Distance, cfg.Collision.MinDistance)
	}
}

func TestResolveCollisions_SingleAgentNoOp(t *testing.T) {
	cfg := testConfig([]float64{0}, []float64{0}, 0.01)
	s := New(cfg, nil)
	s.ResolveCollisions() // must not panic
}
