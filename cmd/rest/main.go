package main

import (
	"context"
	"log"
	"time"

	"ai-support-chatbot-be/internal/bootstrap"
	"ai-support-chatbot-be/internal/config"
	"ai-support-chatbot-be/internal/server"
	"ai-support-chatbot-be/internal/tracer"
	"ai-support-chatbot-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional: only the postgres backends need it)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initial Index Build
	// The service cannot answer from an empty index, so build before listening.
	ctx := context.Background()
	records, err := container.Source.FetchRawRecords(ctx)
	if err != nil {
		log.Panicf("Unable to fetch catalog for initial build: %v", err)
	}
	if err := container.KnowledgeService.RebuildFrom(ctx, records, "boot"); err != nil {
		log.Panicf("Initial knowledge build failed: %v", err)
	}
	container.CatalogWatcher.Prime(records)

	// 5. Start Background Services
	go container.CatalogWatcher.Run(ctx)

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Idle session janitor (postgres history has no native TTL)
	sessionTTL := time.Duration(cfg.History.SessionTTLSeconds) * time.Second
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := container.AssistantService.CleanupIdleSessions(context.Background(), sessionTTL); err != nil {
				log.Printf("Background Cleanup Error: %v", err)
			}
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
