// pkg/agent/agent.go

// Package agent implements the simulated aerial unit: a point mass driven by
// a phased control law, integrated on its own goroutine at a fixed nominal
// step. The position/velocity/acceleration triple is the only state shared
// with other goroutines and is guarded by the agent's mutex; everything else
// (control law, PID state) is owned exclusively by the agent's loop.
package agent

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/J-FPV/6122/pkg/control"
	"github.com/J-FPV/6122/pkg/physics"
)

const (
	// Gravity is the constant downward acceleration in m/s^2.
	Gravity = 10.0
	// Mass is the agent's point mass in kg.
	Mass = 1.0
	// DefaultTick is the nominal control/physics step.
	DefaultTick = 10 * time.Millisecond

	// maxClimbSpeed is the hard speed cap enforced during the climb phase,
	// a safety envelope distinct from the control law's own damping.
	maxClimbSpeed = 2.0
)

// Snapshot is a single atomically-read copy of an agent's kinematic state.
type Snapshot struct {
	Position     physics.Vector3
	Velocity     physics.Vector3
	Acceleration physics.Vector3
}

// TransitionFunc observes an agent's phase transition. It runs on the
// agent's loop goroutine.
type TransitionFunc func(agentID uint64, from, to control.Phase)

// Agent is one simulated unit with its own control/physics loop.
type Agent struct {
	id uint64

	// Tick is the loop period. It may be adjusted before Start and is
	// read once when the loop launches.
	Tick time.Duration

	mu           sync.Mutex
	position     physics.Vector3
	velocity     physics.Vector3
	acceleration physics.Vector3

	law          *control.Law
	phase        atomic.Int32
	transitionFn TransitionFunc

	started atomic.Bool
	stopped atomic.Bool
	quit    chan struct{}
	done    chan struct{}
}

// New creates an agent at the given start position, at rest, driven by the
// given control law. The law must not be shared with any other agent.
func New(id uint64, start physics.Vector3, law *control.Law) *Agent {
	a := &Agent{
		id:       id,
		Tick:     DefaultTick,
		position: start,
		law:      law,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	a.phase.Store(int32(law.Phase()))

	law.OnTransition(func(from, to control.Phase) {
		a.phase.Store(int32(to))
		if fn := a.transitionFn; fn != nil {
			fn(a.id, from, to)
		}
	})

	return a
}

// ID returns the agent's stable identifier.
func (a *Agent) ID() uint64 {
	return a.id
}

// OnTransition registers an observer for the agent's phase transitions.
// Must be called before Start.
func (a *Agent) OnTransition(fn TransitionFunc) {
	a.transitionFn = fn
}

// Phase returns the agent's current mission phase. Safe to call from any
// goroutine.
func (a *Agent) Phase() control.Phase {
	return control.Phase(a.phase.Load())
}

// Start launches the agent's loop goroutine. Starting an already-started
// agent is a no-op.
func (a *Agent) Start() {
	if !a.started.CompareAndSwap(false, true) {
		return
	}
	if a.Tick <= 0 {
		a.Tick = DefaultTick
	}
	go a.run()
}

// Stop signals the loop to exit and waits for it to finish, so the agent's
// state is quiescent when Stop returns. Stopping an already-stopped or
// never-started agent is a no-op.
func (a *Agent) Stop() {
	if !a.started.Load() {
		return
	}
	if !a.stopped.CompareAndSwap(false, true) {
		return
	}
	close(a.quit)
	<-a.done
}

// Running reports whether the agent's loop is active.
func (a *Agent) Running() bool {
	return a.started.Load() && !a.stopped.Load()
}

// Position returns a thread-safe snapshot of the agent's position.
func (a *Agent) Position() physics.Vector3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// Velocity returns a thread-safe snapshot of the agent's velocity.
func (a *Agent) Velocity() physics.Vector3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.velocity
}

// Acceleration returns a thread-safe snapshot of the agent's acceleration.
func (a *Agent) Acceleration() physics.Vector3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acceleration
}

// GetSnapshot returns one consistent read of the full kinematic triple.
func (a *Agent) GetSnapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Position:     a.position,
		Velocity:     a.velocity,
		Acceleration: a.acceleration,
	}
}

// SetVelocity replaces the agent's velocity. Used by the collision pass to
// apply a corrected velocity.
func (a *Agent) SetVelocity(v physics.Vector3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.velocity = v
}

// readState copies position and velocity under the lock. All loop reads go
// through here so the critical section stays minimal.
func (a *Agent) readState() (pos, vel physics.Vector3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position, a.velocity
}

// writeState stores the integrated state under the lock, applying the climb
// speed cap while the agent is in the climb phase.
func (a *Agent) writeState(pos, vel, accel physics.Vector3, climbing bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if climbing {
		vel = vel.ClampMagnitude(maxClimbSpeed)
	}

	a.position = pos
	a.velocity = vel
	a.acceleration = accel
}

// run is the agent's control-and-physics cycle. The control law and PID
// state are touched only here, never under the state lock.
func (a *Agent) run() {
	defer close(a.done)

	dt := a.Tick.Seconds()
	ticker := time.NewTicker(a.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-a.quit:
			return
		default:
		}

		pos, vel := a.readState()

		force := a.law.Force(pos, vel, dt)

		accel := force.Scale(1 / Mass).Add(physics.Vector3{Z: -Gravity})

		// Semi-implicit Euler
		vel = vel.Add(accel.Scale(dt))
		pos = pos.Add(vel.Scale(dt))

		// Inelastic floor
		if pos.Z < 0 {
			pos.Z = 0
			if vel.Z < 0 {
				vel.Z = 0
			}
		}

		a.writeState(pos, vel, accel, a.law.Phase() == control.PhaseClimbToCenter)

		select {
		case <-a.quit:
			return
		case <-ticker.C:
		}
	}
}
