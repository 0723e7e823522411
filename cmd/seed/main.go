package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rebelbot/internal/config"
	"rebelbot/internal/database"
	"rebelbot/internal/repositories"
	"rebelbot/internal/seed"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	file := flag.String("file", "catalog.yaml", "catalog fixture to load")
	flag.Parse()

	cfg := config.Load()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to open catalog file")
	}
	defer f.Close()

	catalog, err := seed.Parse(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to parse catalog file")
	}
	if err := catalog.Normalize(); err != nil {
		log.Fatal().Err(err).Msg("Invalid catalog")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()

	if _, err := catalog.Apply(ctx, seed.Repositories{
		Resources: repositories.NewResourceRepository(db),
		Events:    repositories.NewEventRepository(db),
		Clubs:     repositories.NewClubRepository(db),
	}); err != nil {
		log.Error().Err(err).Msg("Seeding failed")
		os.Exit(1)
	}
}
