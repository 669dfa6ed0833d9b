package main

import (
	"context"
	"log"

	"loneus/cv-builder/internal/config"
	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/repositories"
	"loneus/cv-builder/internal/services"
)

// Rebuilds the candidate search index from every stored job-seeker profile.
func main() {
	log.Println("🚀 Starting candidate reindex...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	index, err := services.NewCandidateIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, geminiService)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx := context.Background()
	if err := index.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	profiles, err := repositories.NewProfileRepository(db).FindByRole(ctx, models.RoleJobSeeker)
	if err != nil {
		log.Fatalf("❌ Failed to load profiles: %v", err)
	}

	successCount := 0
	failCount := 0

	for i := range profiles {
		profile := &profiles[i]
		if err := index.IndexProfile(ctx, profile); err != nil {
			log.Printf("   ❌ %s: %v", profile.OwnerID, err)
			failCount++
			continue
		}
		successCount++
	}

	log.Printf("\n✅ Reindex complete: %d indexed, %d failed", successCount, failCount)
}
