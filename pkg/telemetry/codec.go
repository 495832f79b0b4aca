// pkg/telemetry/codec.go

// Package telemetry encodes agent state into fixed-layout CAN frames and
// transmits them over a SocketCAN interface, guarded by a circuit breaker so
// a dead bus degrades the telemetry stream instead of stalling the driver.
package telemetry

import (
	"fmt"
	"math"

	"go.einride.tech/can"

	"github.com/J-FPV/6122/pkg/agent"
	"github.com/J-FPV/6122/pkg/control"
	"github.com/J-FPV/6122/pkg/physics"
)

// Frame layout, little-endian, 8 bytes:
//
//	bytes 0-1  position X, signed, 0.1 unit/bit
//	bytes 2-3  position Y, signed, 0.1 unit/bit
//	bytes 4-5  position Z, signed, 0.1 unit/bit
//	byte  6    speed, unsigned, 0.1 unit/bit
//	byte  7    mission phase
//
// The frame ID is baseID plus the agent ID, so one bus carries the whole
// swarm with per-agent filtering.
const (
	frameLength = 8
	posFactor   = 0.1
	speedFactor = 0.1
)

// Sample is the decoded content of one telemetry frame.
type Sample struct {
	AgentID  uint64
	Position physics.Vector3
	Speed    float64
	Phase    control.Phase
}

// EncodeFrame packs one agent snapshot into a CAN frame.
func EncodeFrame(baseID uint32, agentID uint64, snap agent.Snapshot, phase control.Phase) can.Frame {
	var f can.Frame
	f.ID = baseID + uint32(agentID)
	f.Length = frameLength

	putScaledInt16(f.Data[0:2], snap.Position.X, posFactor)
	putScaledInt16(f.Data[2:4], snap.Position.Y, posFactor)
	putScaledInt16(f.Data[4:6], snap.Position.Z, posFactor)
	f.Data[6] = scaledUint8(snap.Velocity.Length(), speedFactor)
	f.Data[7] = byte(phase)

	return f
}

// DecodeFrame unpacks a telemetry frame produced by EncodeFrame.
func DecodeFrame(baseID uint32, frame can.Frame) (Sample, error) {
	if frame.Length < frameLength {
		return Sample{}, fmt.Errorf("telemetry frame 0x%X has length %d, expected %d",
			frame.ID, frame.Length, frameLength)
	}
	if frame.ID < baseID {
		return Sample{}, fmt.Errorf("telemetry frame ID 0x%X below base 0x%X", frame.ID, baseID)
	}

	return Sample{
		AgentID: uint64(frame.ID - baseID),
		Position: physics.Vector3{
			X: scaledFromInt16(frame.Data[0:2], posFactor),
			Y: scaledFromInt16(frame.Data[2:4], posFactor),
			Z: scaledFromInt16(frame.Data[4:6], posFactor),
		},
		Speed: float64(frame.Data[6]) * speedFactor,
		Phase: control.Phase(frame.Data[7]),
	}, nil
}

// putScaledInt16 stores value/factor as a clamped little-endian int16.
func putScaledInt16(dst []byte, value, factor float64) {
	raw := math.Round(value / factor)
	if raw > math.MaxInt16 {
		raw = math.MaxInt16
	} else if raw < math.MinInt16 {
		raw = math.MinInt16
	}
	u := uint16(int16(raw))
	dst[0] = byte(u)
	dst[1] = byte(u >> 8)
}

func scaledFromInt16(src []byte, factor float64) float64 {
	u := uint16(src[0]) | uint16(src[1])<<8
	return float64(int16(u)) * factor
}

// scaledUint8 stores value/factor as a clamped uint8.
func scaledUint8(value, factor float64) byte {
	raw := math.Round(value / factor)
	if raw < 0 {
		raw = 0
	} else if raw > math.MaxUint8 {
		raw = math.MaxUint8
	}
	return byte(raw)
}
