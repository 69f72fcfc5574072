package main

import (
	"context"
	"log"
	"time"

	"voice-ai-be/internal/bootstrap"
	"voice-ai-be/internal/config"
	"voice-ai-be/internal/server"
	"voice-ai-be/internal/tracer"
)

const (
	sessionIdleThreshold = 1 * time.Hour
	sweepInterval        = 5 * time.Minute
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] Invalid configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.EventBus.Close()
	if container.NatsPublisher != nil {
		defer container.NatsPublisher.Close()
	}

	// 3. Start Background Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go container.WebSocketHub.Run(ctx)

	// Idle session housekeeping
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				container.SessionService.SweepIdle(ctx, sessionIdleThreshold)
			}
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
