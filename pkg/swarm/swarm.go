// pkg/swarm/swarm.go

// Package swarm coordinates the collection of agents: construction from the
// configured ground grid, start/stop lifecycle, and the periodic pairwise
// proximity-resolution pass.
package swarm

import (
	"context"
	"sync/atomic"

	"github.com/J-FPV/6122/pkg/agent"
	"github.com/J-FPV/6122/pkg/config"
	"github.com/J-FPV/6122/pkg/control"
	"github.com/J-FPV/6122/pkg/event"
	"github.com/J-FPV/6122/pkg/logging"
)

// Swarm is a fixed, ordered collection of agents. It is created once at
// startup and never resized while running.
type Swarm struct {
	agents      []*agent.Agent
	events      *event.Bus
	logger      *logging.Logger
	minDistance float64

	started atomic.Bool
	stopped atomic.Bool
}

// New builds a swarm from the configuration: one agent per grid point, each
// with its own control law and PID pair. Phase transitions are routed onto
// the event bus; passing a nil bus creates a private one.
func New(cfg *config.SimConfig, bus *event.Bus) *Swarm {
	if bus == nil {
		bus = event.NewBus()
	}
	s := &Swarm{
		events:      bus,
		logger:      logging.NewLogger(),
		minDistance: cfg.Collision.MinDistance,
	}

	positions := cfg.StartPositions()
	s.agents = make([]*agent.Agent, 0, len(positions))

	for i, pos := range positions {
		law := control.NewLaw(
			cfg.ControlLawConfig(),
			cfg.RadialPID.Controller(),
			cfg.SpeedPID.Controller(),
		)

		a := agent.New(uint64(i), pos, law)
		a.Tick = cfg.Tick()
		a.OnTransition(func(id uint64, from, to control.Phase) {
			s.events.Publish(event.NewPhaseEvent(id, from, to))
		})

		s.agents = append(s.agents, a)
	}

	return s
}

// Start launches every agent's loop. Starting an already-started swarm is a
// no-op.
func (s *Swarm) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	for _, a := range s.agents {
		a.Start()
	}

	s.events.Publish(event.NewSwarmEvent(event.SwarmStarted, len(s.agents)))
	s.logger.Info(context.Background(), "swarm started",
		"agents", len(s.agents),
	)
}

// Stop stops every agent, waiting for each loop to exit. Stopping an
// already-stopped or never-started swarm is a no-op.
func (s *Swarm) Stop() {
	if !s.started.Load() {
		return
	}
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}

	for _, a := range s.agents {
		a.Stop()
	}

	s.events.Publish(event.NewSwarmEvent(event.SwarmStopped, len(s.agents)))
	s.logger.Info(context.Background(), "swarm stopped",
		"agents", len(s.agents),
	)
}

// Running reports whether the swarm has been started and not yet stopped.
func (s *Swarm) Running() bool {
	return s.started.Load() && !s.stopped.Load()
}

// Len returns the number of agents.
func (s *Swarm) Len() int {
	return len(s.agents)
}

// Agent returns the agent at the given index.
func (s *Swarm) Agent(i int) *agent.Agent {
	return s.agents[i]
}

// Agents returns the ordered agent slice. The slice must not be mutated.
func (s *Swarm) Agents() []*agent.Agent {
	return s.agents
}

// Snapshots reads every agent's kinematic state, one agent lock at a time.
// The per-agent read is atomic; the whole-swarm view is only weakly
// consistent across agents.
func (s *Swarm) Snapshots() []agent.Snapshot {
	snaps := make([]agent.Snapshot, len(s.agents))
	for i, a := range s.agents {
		snaps[i] = a.GetSnapshot()
	}
	return snaps
}
