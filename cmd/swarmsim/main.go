// cmd/swarmsim/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/J-FPV/6122/pkg/config"
	"github.com/J-FPV/6122/pkg/control"
	"github.com/J-FPV/6122/pkg/event"
	"github.com/J-FPV/6122/pkg/health"
	"github.com/J-FPV/6122/pkg/logging"
	"github.com/J-FPV/6122/pkg/swarm"
	"github.com/J-FPV/6122/pkg/telemetry"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithCorrelationID(context.Background(), "")

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	// Load configuration
	var simConfig *config.SimConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		simConfig = config.DefaultConfig()
	} else {
		simConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	// Apply environment variable overrides
	if err := config.ApplyEnvironmentOverrides(simConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	if err := simConfig.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err)
		os.Exit(1)
	}

	// Event bus: log phase transitions and proximity resolutions
	bus := event.NewBus()
	bus.Subscribe(event.PhaseChanged, func(e event.Event) {
		pe := e.(*event.PhaseEvent)
		logger.Info(ctx, "Agent phase changed",
			"agent_id", pe.AgentID,
			"from", pe.From.String(),
			"to", pe.To.String(),
		)
	})
	bus.Subscribe(event.ProximityResolved, func(e event.Event) {
		pr := e.(*event.ProximityEvent)
		logger.Debug(ctx, "Proximity pair resolved",
			"agent_a", pr.AgentA,
			"agent_b", pr.AgentB,
			"distance", pr.Distance,
		)
	})

	// Create swarm
	sim := swarm.New(simConfig, bus)

	// Setup health checks
	healthChecker := health.NewChecker()

	healthChecker.AddCheck(health.NewSwarmCheck(
		func() bool { return sim.Running() },
	))

	// Memory health check (limit: 500MB)
	healthChecker.AddCheck(health.NewMemoryCheck(500, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	// Goroutine health check: agent loops plus fixed overhead
	healthChecker.AddCheck(health.NewGoroutineCheck(sim.Len()+50, runtime.NumGoroutine))

	// Start health check HTTP server
	healthPort := "8080"
	if envPort := os.Getenv("SWARM_HEALTH_PORT"); envPort != "" {
		if _, err := strconv.Atoi(envPort); err == nil {
			healthPort = envPort
		}
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", healthChecker.LivenessHandler)
	healthMux.HandleFunc("/ready", healthChecker.ReadinessHandler)

	healthServer := &http.Server{
		Addr:         ":" + healthPort,
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "Starting health check server",
			"port", healthPort,
		)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()

	// Optional CAN telemetry
	var publisher *telemetry.Publisher
	if simConfig.Telemetry.Enabled {
		writer, err := telemetry.NewSocketCANWriter(ctx, simConfig.Telemetry.Interface)
		if err != nil {
			logger.Error(ctx, "Failed to open telemetry interface", err,
				"interface", simConfig.Telemetry.Interface,
			)
			os.Exit(1)
		}
		publisher = telemetry.NewPublisher(writer, simConfig.Telemetry.BaseFrameID)
		logger.Info(ctx, "Telemetry enabled",
			"interface", simConfig.Telemetry.Interface,
			"base_frame_id", simConfig.Telemetry.BaseFrameID,
		)
	}

	// Start the swarm and the periodic drivers
	logger.Info(ctx, "Starting swarm",
		"agents", sim.Len(),
		"tick", simConfig.Tick().String(),
		"collision_interval", simConfig.CollisionInterval().String(),
	)
	sim.Start()

	driverCtx, cancelDrivers := context.WithCancel(ctx)

	go runCollisionPass(driverCtx, sim, simConfig.CollisionInterval())
	go runStatusSummary(driverCtx, logger, sim, simConfig)
	if publisher != nil {
		go runTelemetry(driverCtx, logger, sim, publisher, simConfig.TelemetryInterval())
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info(ctx, "Shutting down")

	cancelDrivers()
	sim.Stop()

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error(ctx, "Telemetry close failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}
}

// runCollisionPass runs the pairwise proximity resolution at a fixed cadence
// until the context is cancelled.
func runCollisionPass(ctx context.Context, sim *swarm.Swarm, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sim.ResolveCollisions()
		}
	}
}

// runStatusSummary periodically logs an aggregate view of the swarm: how many
// agents sit in each phase and the mean distance from the sphere center.
func runStatusSummary(ctx context.Context, logger *logging.Logger, sim *swarm.Swarm, cfg *config.SimConfig) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var phaseCounts [3]int
			for _, a := range sim.Agents() {
				phaseCounts[a.Phase()]++
			}

			meanRadius := 0.0
			for _, snap := range sim.Snapshots() {
				meanRadius += snap.Position.Distance(cfg.Control.Center)
			}
			meanRadius /= float64(sim.Len())

			logger.Info(ctx, "Swarm status",
				"ground_wait", phaseCounts[control.PhaseGroundWait],
				"climbing", phaseCounts[control.PhaseClimbToCenter],
				"on_sphere", phaseCounts[control.PhaseOnSphere],
				"mean_center_distance", meanRadius,
			)
		}
	}
}

// runTelemetry publishes every agent's snapshot on each tick. Transmit
// failures are logged and absorbed; the publisher's breaker keeps a dead bus
// from being hammered.
func runTelemetry(ctx context.Context, logger *logging.Logger, sim *swarm.Swarm, publisher *telemetry.Publisher, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, a := range sim.Agents() {
				if err := publisher.Publish(ctx, a.ID(), a.GetSnapshot(), a.Phase()); err != nil {
					logger.Debug(ctx, "Telemetry publish failed",
						"agent_id", a.ID(),
						"error", err.Error(),
					)
				}
			}
		}
	}
}
