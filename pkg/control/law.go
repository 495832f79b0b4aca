// pkg/control/law.go
package control

import (
	"github.com/J-FPV/6122/pkg/physics"
)

const (
	// arrivalRadius is the distance from the sphere center at which the
	// climb phase completes.
	arrivalRadius = 2.0
	// climbSpeedTarget is the speed above which climb damping engages.
	climbSpeedTarget = 2.0
	// climbDampingGain scales the velocity-opposing damping force during
	// the climb.
	climbDampingGain = 0.5
	// tangentEpsilon is the degenerate-cross-product threshold when
	// deriving the tangential direction on the sphere.
	tangentEpsilon = 1e-3
)

var (
	worldUp         = physics.Vector3{Z: 1}
	fallbackTangent = physics.Vector3{X: 1}
)

// Config holds the immutable per-agent control parameters.
type Config struct {
	Center       physics.Vector3 // sphere center
	SphereRadius float64
	GroundWait   float64 // seconds on the ground before launch
	MaxForce     float64 // total force magnitude limit
	MinSpeed     float64 // cruising speed band on the sphere
	MaxSpeed     float64
}

// State holds the mutable per-agent control-law fields. It is owned
// exclusively by the agent loop that drives the law.
type State struct {
	Phase         Phase
	TimeInPhase   float64 // seconds since entering the current phase
	VisitedCenter bool    // set once on arrival, never cleared
	TangentialDir physics.Vector3
}

// TransitionFunc observes a phase transition. It runs synchronously on the
// agent loop, so handlers must be short.
type TransitionFunc func(from, to Phase)

// Law is the phased control law for one agent: a state machine over the
// mission phases plus the PID pair producing the control force. It is not
// safe for concurrent use; each agent owns exactly one Law.
type Law struct {
	cfg          Config
	state        State
	radial       *PID
	speed        *PID
	onTransition TransitionFunc
}

// NewLaw creates a control law in the GroundWait phase.
func NewLaw(cfg Config, radial, speed *PID) *Law {
	return &Law{
		cfg:    cfg,
		radial: radial,
		speed:  speed,
		state: State{
			Phase:         PhaseGroundWait,
			TangentialDir: fallbackTangent,
		},
	}
}

// OnTransition registers an observer for phase transitions.
func (l *Law) OnTransition(fn TransitionFunc) {
	l.onTransition = fn
}

// Phase returns the current mission phase.
func (l *Law) Phase() Phase {
	return l.state.Phase
}

// State returns a copy of the current control state.
func (l *Law) State() State {
	return l.state
}

// Config returns the law's immutable parameters.
func (l *Law) Config() Config {
	return l.cfg
}

// Force advances the phase state machine by dt and returns the control force
// for the given position and velocity. The returned magnitude never exceeds
// MaxForce.
func (l *Law) Force(pos, vel physics.Vector3, dt float64) physics.Vector3 {
	l.state.TimeInPhase += dt

	l.advancePhase(pos)

	switch l.state.Phase {
	case PhaseGroundWait:
		return physics.Vector3{}
	case PhaseClimbToCenter:
		return l.climbForce(pos, vel, dt)
	default:
		return l.sphereForce(pos, vel, dt)
	}
}

// advancePhase applies the forward-only transition rules. The checks are
// sequential, not exclusive, so an agent that launches already inside the
// arrival radius cascades to OnSphere within the same tick.
func (l *Law) advancePhase(pos physics.Vector3) {
	if l.state.Phase == PhaseGroundWait && l.state.TimeInPhase >= l.cfg.GroundWait {
		l.transition(PhaseClimbToCenter)
	}
	if l.state.Phase == PhaseClimbToCenter && pos.Distance(l.cfg.Center) < arrivalRadius {
		l.state.VisitedCenter = true
		// Both error signals jump at arrival; clear the PID state so the
		// sphere phase starts without spikes.
		l.radial.Reset()
		l.speed.Reset()
		l.transition(PhaseOnSphere)
	}
}

func (l *Law) transition(to Phase) {
	from := l.state.Phase
	l.state.Phase = to
	l.state.TimeInPhase = 0
	if l.onTransition != nil {
		l.onTransition(from, to)
	}
}

// climbForce pulls the agent toward the sphere center, damping any speed
// above the climb target.
func (l *Law) climbForce(pos, vel physics.Vector3, dt float64) physics.Vector3 {
	toCenter := l.cfg.Center.Sub(pos)
	radialDir := toCenter.Normalize()

	// Drive the remaining distance to zero.
	radialOut := l.radial.Calculate(toCenter.Length(), dt)
	force := radialDir.Scale(radialOut)

	if speed := vel.Length(); speed > climbSpeedTarget {
		damping := vel.Normalize().Scale(climbDampingGain * (speed - climbSpeedTarget))
		force = force.Sub(damping)
	}

	return force.ClampMagnitude(l.cfg.MaxForce)
}

// sphereForce holds the agent near the sphere surface while pushing it
// tangentially at the middle of the cruising speed band.
func (l *Law) sphereForce(pos, vel physics.Vector3, dt float64) physics.Vector3 {
	outward := pos.Sub(l.cfg.Center)
	r := outward.Length()
	radialDir := outward.Normalize()

	// Radial correction applied inward: positive error means outside the
	// sphere, so the output is negated along the center-to-position axis.
	radialOut := l.radial.Calculate(r-l.cfg.SphereRadius, dt)
	radialForce := radialDir.Scale(-radialOut)

	tangent := radialDir.Cross(worldUp)
	if tangent.Length() < tangentEpsilon {
		tangent = fallbackTangent
	}
	tangent = tangent.Normalize()
	l.state.TangentialDir = tangent

	targetSpeed := 0.5 * (l.cfg.MinSpeed + l.cfg.MaxSpeed)
	speedOut := l.speed.Calculate(targetSpeed-vel.Length(), dt)
	tangentialForce := tangent.Scale(speedOut)

	return radialForce.Add(tangentialForce).ClampMagnitude(l.cfg.MaxForce)
}
