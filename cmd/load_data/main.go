package main

import (
	"context"
	"flag"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	f, err := os.Open(*path)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *path).Msg("Failed to open ingredients file")
	}
	defer f.Close()

	added, err := service.NewCatalogService(db.DB).ImportIngredients(context.Background(), f)
	if err != nil {
		logging.Error().Err(err).Str("file", *path).Msg("Ingredient import failed")
		os.Exit(1)
	}
	logging.Info().Int("added", added).Str("file", *path).Msg("Ingredients loaded")
}
