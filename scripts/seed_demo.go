// Imports demo content into the configured database.
//
// Usage: go run scripts/seed_demo.go [-file fixture.yaml]
// Without -file the fixture embedded in internal/seed is used.

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"prep_admin_backend/internal/app"
	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/seed"
	"prep_admin_backend/pkg/database"
	"prep_admin_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "YAML fixture to import")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	fixture, err := loadFixture(*file)
	if err != nil {
		logger.Log.Fatal("load fixture", zap.Error(err))
	}

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		logger.Log.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("migrate database", zap.Error(err))
	}

	application, err := app.New(cfg, db, nil)
	if err != nil {
		logger.Log.Fatal("build app", zap.Error(err))
	}
	defer application.Close(context.Background())

	report, err := application.Seeder().Run(context.Background(), fixture, 0)
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	log.Printf("seeded %d profiles (%d existing), %d lessons, %d sections, %d questions, %d learning paths, %d exercises",
		report.Profiles, report.ProfilesSkipped, report.Lessons, report.Sections, report.Questions,
		report.LearningPaths, report.Exercises)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Demo()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.Load(f)
}
