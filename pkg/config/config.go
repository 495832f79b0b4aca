// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/J-FPV/6122/pkg/control"
	"github.com/J-FPV/6122/pkg/physics"
)

// SimConfig contains configuration for a swarm simulation run
type SimConfig struct {
	Grid      GridConfig        `json:"grid"`
	Control   ControlConfig     `json:"control"`
	RadialPID PIDConfig         `json:"radialPID"`
	SpeedPID  PIDConfig         `json:"speedPID"`
	Agent     AgentConfig       `json:"agent"`
	Collision CollisionConfig   `json:"collision"`
	Telemetry TelemetryConfig   `json:"telemetry"`
}

// GridConfig describes the ground grid of start positions: one agent per
// (column, row) pair, all at altitude zero.
type GridConfig struct {
	XColumns []float64 `json:"xColumns"`
	YRows    []float64 `json:"yRows"`
}

// ControlConfig contains the control-law parameters shared by all agents
type ControlConfig struct {
	Center       physics.Vector3 `json:"center"`
	SphereRadius float64         `json:"sphereRadius"`
	GroundWait   float64         `json:"groundWait"` // seconds
	MaxForce     float64         `json:"maxForce"`
	MinSpeed     float64         `json:"minSpeed"`
	MaxSpeed     float64         `json:"maxSpeed"`
}

// PIDConfig contains gains and clamp limits for one PID controller
type PIDConfig struct {
	Kp            float64 `json:"kp"`
	Ki            float64 `json:"ki"`
	Kd            float64 `json:"kd"`
	IntegralLimit float64 `json:"integralLimit"`
	OutputLimit   float64 `json:"outputLimit"`
}

// AgentConfig contains per-agent loop settings
type AgentConfig struct {
	TickMs int `json:"tickMs"`
}

// CollisionConfig contains the proximity-resolution settings
type CollisionConfig struct {
	MinDistance float64 `json:"minDistance"`
	IntervalMs  int     `json:"intervalMs"`
}

// TelemetryConfig contains the optional CAN telemetry settings
type TelemetryConfig struct {
	Enabled     bool   `json:"enabled"`
	Interface   string `json:"interface"`   // e.g. "vcan0"
	BaseFrameID uint32 `json:"baseFrameID"` // frame ID for agent 0; agent i uses BaseFrameID+i
	IntervalMs  int    `json:"intervalMs"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SimConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the reference scenario: 15 agents on a 5x3 ground
// grid climbing to a sphere of radius 10 centered 50 units up.
func DefaultConfig() *SimConfig {
	return &SimConfig{
		Grid: GridConfig{
			XColumns: []float64{-46, -24, -2, 20, 44},
			YRows:    []float64{-22.5, 0, 22.5},
		},
		Control: ControlConfig{
			Center:       physics.Vector3{Z: 50},
			SphereRadius: 10,
			GroundWait:   5,
			MaxForce:     20,
			MinSpeed:     2,
			MaxSpeed:     10,
		},
		RadialPID: PIDConfig{
			Kp:            5,
			Ki:            1.0,
			Kd:            0.5,
			IntegralLimit: 100,
			OutputLimit:   20,
		},
		SpeedPID: PIDConfig{
			Kp:            0.8,
			Ki:            0,
			Kd:            10,
			IntegralLimit: 100,
			OutputLimit:   10,
		},
		Agent: AgentConfig{
			TickMs: 10,
		},
		Collision: CollisionConfig{
			MinDistance: 0.01,
			IntervalMs:  30,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Interface:   "vcan0",
			BaseFrameID: 0x200,
			IntervalMs:  100,
		},
	}
}

// Validate checks a loaded configuration for values the simulation cannot
// run with. Config is trusted once validated; the core performs no further
// input checking.
func (c *SimConfig) Validate() error {
	if len(c.Grid.XColumns) == 0 || len(c.Grid.YRows) == 0 {
		return fmt.Errorf("grid must contain at least one column and one row")
	}
	if c.Control.SphereRadius <= 0 {
		return fmt.Errorf("sphereRadius must be positive, got %v", c.Control.SphereRadius)
	}
	if c.Control.GroundWait < 0 {
		return fmt.Errorf("groundWait must be non-negative, got %v", c.Control.GroundWait)
	}
	if c.Control.MaxForce <= 0 {
		return fmt.Errorf("maxForce must be positive, got %v", c.Control.MaxForce)
	}
	if c.Control.MinSpeed > c.Control.MaxSpeed {
		return fmt.Errorf("minSpeed %v exceeds maxSpeed %v", c.Control.MinSpeed, c.Control.MaxSpeed)
	}
	if c.Agent.TickMs <= 0 {
		return fmt.Errorf("agent tickMs must be positive, got %d", c.Agent.TickMs)
	}
	if c.Collision.MinDistance <= 0 {
		return fmt.Errorf("collision minDistance must be positive, got %v", c.Collision.MinDistance)
	}
	if c.Collision.IntervalMs <= 0 {
		return fmt.Errorf("collision intervalMs must be positive, got %d", c.Collision.IntervalMs)
	}
	if c.Telemetry.Enabled && c.Telemetry.Interface == "" {
		return fmt.Errorf("telemetry enabled without an interface name")
	}
	return nil
}

// ApplyEnvironmentOverrides overlays SWARM_* environment variables onto a
// loaded configuration. Unset variables leave the file values untouched.
func ApplyEnvironmentOverrides(c *SimConfig) error {
	if v := os.Getenv("SWARM_SPHERE_RADIUS"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SWARM_SPHERE_RADIUS %q: %w", v, err)
		}
		c.Control.SphereRadius = r
	}
	if v := os.Getenv("SWARM_GROUND_WAIT"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SWARM_GROUND_WAIT %q: %w", v, err)
		}
		c.Control.GroundWait = w
	}
	if v := os.Getenv("SWARM_COLLISION_MIN_DISTANCE"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SWARM_COLLISION_MIN_DISTANCE %q: %w", v, err)
		}
		c.Collision.MinDistance = d
	}
	if v := os.Getenv("SWARM_TELEMETRY_ENABLED"); v != "" {
		e, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SWARM_TELEMETRY_ENABLED %q: %w", v, err)
		}
		c.Telemetry.Enabled = e
	}
	if v := os.Getenv("SWARM_TELEMETRY_INTERFACE"); v != "" {
		c.Telemetry.Interface = v
	}
	return nil
}

// StartPositions expands the grid into the ordered list of agent start
// positions, row-major, all on the ground.
func (c *SimConfig) StartPositions() []physics.Vector3 {
	positions := make([]physics.Vector3, 0, len(c.Grid.XColumns)*len(c.Grid.YRows))
	for _, y := range c.Grid.YRows {
		for _, x := range c.Grid.XColumns {
			positions = append(positions, physics.Vector3{X: x, Y: y})
		}
	}
	return positions
}

// ControlLawConfig converts the file representation into the control
// package's immutable parameter struct.
func (c *SimConfig) ControlLawConfig() control.Config {
	return control.Config{
		Center:       c.Control.Center,
		SphereRadius: c.Control.SphereRadius,
		GroundWait:   c.Control.GroundWait,
		MaxForce:     c.Control.MaxForce,
		MinSpeed:     c.Control.MinSpeed,
		MaxSpeed:     c.Control.MaxSpeed,
	}
}

// Controller builds a PID controller from the settings.
func (p PIDConfig) Controller() *control.PID {
	return control.NewPID(p.Kp, p.Ki, p.Kd, p.IntegralLimit, p.OutputLimit)
}

// Tick returns the agent loop period.
func (c *SimConfig) Tick() time.Duration {
	return time.Duration(c.Agent.TickMs) * time.Millisecond
}

// CollisionInterval returns the collision pass cadence.
func (c *SimConfig) CollisionInterval() time.Duration {
	return time.Duration(c.Collision.IntervalMs) * time.Millisecond
}

// TelemetryInterval returns the telemetry publish cadence.
func (c *SimConfig) TelemetryInterval() time.Duration {
	return time.Duration(c.Telemetry.IntervalMs) * time.Millisecond
}
