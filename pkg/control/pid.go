// pkg/control/pid.go
package control

// PID implements a discrete single-axis proportional-integral-derivative
// controller with integral anti-windup and output saturation.
type PID struct {
	kp float64
	ki float64
	kd float64

	// State
	integral  float64
	prevError float64

	integralLimit float64
	outputLimit   float64
}

// NewPID creates a PID controller with the given gains and clamp limits.
func NewPID(kp, ki, kd, integralLimit, outputLimit float64) *PID {
	return &PID{
		kp:            kp,
		ki:            ki,
		kd:            kd,
		integralLimit: integralLimit,
		outputLimit:   outputLimit,
	}
}

// SetGains replaces the proportional, integral and derivative gains.
func (p *PID) SetGains(kp, ki, kd float64) {
	p.kp = kp
	p.ki = ki
	p.kd = kd
}

// Calculate computes the control output for the given error signal and time
// step. A zero or negative dt returns 0 without mutating any state, guarding
// against non-monotonic time.
func (p *PID) Calculate(err, dt float64) float64 {
	if dt <= 0 {
		return 0
	}

	pTerm := p.kp * err

	// Integral with windup clamping
	p.integral += err * dt
	p.integral = clamp(p.integral, -p.integralLimit, p.integralLimit)
	iTerm := p.ki * p.integral

	dTerm := p.kd * (err - p.prevError) / dt
	p.prevError = err

	return clamp(pTerm+iTerm+dTerm, -p.outputLimit, p.outputLimit)
}

// Reset clears the accumulated integral and previous error. Call it whenever
// the error signal has a discontinuity, such as a phase transition, to avoid
// derivative and integral spikes.
func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
}

// Integral returns the current integral accumulator value.
func (p *PID) Integral() float64 {
	return p.integral
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
