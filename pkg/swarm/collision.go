// pkg/swarm/collision.go
package swarm

import "github.com/J-FPV/6122/pkg/event"

// ResolveCollisions runs one pairwise proximity pass over the whole swarm:
// snapshot every agent, then swap the velocities of any pair closer than the
// configured minimum distance — an elastic, equal-mass response.
//
// Locks are taken one agent at a time, for the snapshot and again for each
// velocity write; no two agent locks are ever held together, so the pass can
// never deadlock against the agent loops. Pair evaluation uses the snapshot
// velocities throughout, so an agent in two close pairs within one pass is
// resolved from its pre-pass velocity; triple overlaps may be under-resolved,
// which is an accepted approximation.
func (s *Swarm) ResolveCollisions() {
	n := len(s.agents)
	if n < 2 {
		return
	}

	snaps := s.Snapshots()

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := snaps[i].Position.Distance(snaps[j].Position)
			if d >= s.minDistance {
				continue
			}

			s.agents[i].SetVelocity(snaps[j].Velocity)
			s.agents[j].SetVelocity(snaps[i].Velocity)

			s.events.Publish(event.NewProximityEvent(s.agents[i].ID(), s.agents[j].ID(), d))
		}
	}
}
