package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"ai-journaling-be/internal/bootstrap"
	"ai-journaling-be/internal/config"
	"ai-journaling-be/internal/server"
	"ai-journaling-be/internal/tracer"
	"ai-journaling-be/pkg/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer and Meter
	shutdownTracer := tracer.InitTracer(cfg.Otel)
	defer shutdownTracer(context.Background())
	shutdownMeter := tracer.InitMeter(cfg.Otel)
	defer shutdownMeter(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Close()

	// 5. Load the emotion model (fatal on failure)
	if err := container.Analyzer.Warm(); err != nil {
		container.Close()
		log.Fatalf("[FATAL] Emotion model unavailable: %v", err)
	}

	// 6. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("[ERROR] Consumer service failed to start: %v", err)
	}
	if err := container.NotificationService.Start(); err != nil {
		log.Printf("[ERROR] Notification service failed to start: %v", err)
	}

	// 7. Run Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("[INFO] Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] Server shutdown: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("[ERROR] Server stopped: %v", err)
	}
}
