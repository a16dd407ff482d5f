package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"image-processing-be/internal/bootstrap"
	"image-processing-be/internal/config"
	"image-processing-be/internal/server"
	"image-processing-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer := tracer.InitTracer(cfg.App.TracingEnabled)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := bootstrap.OpenDatabase(cfg.Database)
	if err != nil {
		log.Panicf("Unable to open database: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)
	go func() {
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
