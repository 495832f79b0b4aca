// pkg/telemetry/publisher.go
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/J-FPV/6122/pkg/agent"
	"github.com/J-FPV/6122/pkg/control"
	"github.com/J-FPV/6122/pkg/logging"
)

const (
	// breakerConsecutiveFails is the consecutive-failure count that opens
	// the circuit.
	breakerConsecutiveFails = 5
	// breakerTimeout is how long the circuit stays open before probing the
	// bus again.
	breakerTimeout = 5 * time.Second
)

// Publisher encodes agent snapshots and transmits them through a circuit
// breaker, so repeated transmit failures stop hitting the bus until it
// recovers.
type Publisher struct {
	writer  FrameWriter
	breaker *gobreaker.CircuitBreaker
	baseID  uint32
	logger  *logging.Logger
}

// NewPublisher creates a publisher over the given writer. Frame IDs start at
// baseID for agent 0.
func NewPublisher(writer FrameWriter, baseID uint32) *Publisher {
	logger := logging.NewLogger()

	settings := gobreaker.Settings{
		Name:    "swarm-telemetry",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "telemetry circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Publisher{
		writer:  writer,
		breaker: gobreaker.NewCircuitBreaker(settings),
		baseID:  baseID,
		logger:  logger,
	}
}

// Publish transmits one agent's snapshot. While the circuit is open the
// frame is dropped and an error returned without touching the bus.
func (p *Publisher) Publish(ctx context.Context, agentID uint64, snap agent.Snapshot, phase control.Phase) error {
	frame := EncodeFrame(p.baseID, agentID, snap, phase)

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteFrame(ctx, frame)
	})
	if err != nil {
		return fmt.Errorf("telemetry publish agent %d: %w", agentID, err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
