// pkg/control/phase.go
package control

// Phase is the discrete stage of an agent's mission. Progression is
// one-directional: GroundWait -> ClimbToCenter -> OnSphere.
type Phase int

const (
	// PhaseGroundWait holds the agent on the ground with motors off.
	PhaseGroundWait Phase = iota
	// PhaseClimbToCenter drives the agent toward the sphere center.
	PhaseClimbToCenter
	// PhaseOnSphere station-keeps on the sphere surface while moving
	// tangentially.
	PhaseOnSphere
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseGroundWait:
		return "GroundWait"
	case PhaseClimbToCenter:
		return "ClimbToCenter"
	case PhaseOnSphere:
		return "OnSphere"
	default:
		return "Unknown"
	}
}
