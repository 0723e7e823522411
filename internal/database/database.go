package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Service interface {
	Health() map[string]string
	Database() *mongo.Database
	Close(ctx context.Context) error
}

type service struct {
	db   *mongo.Client
	name string
}

// New connects to the MongoDB deployment at uri and scopes the service to dbName.
func New(ctx context.Context, uri, dbName string) (Service, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	return &service{
		db:   client,
		name: dbName,
	}, nil
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := s.db.Ping(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		return map[string]string{
			"message": "db down",
			"error":   err.Error(),
		}
	}

	return map[string]string{
		"message": "It's healthy",
	}
}

func (s *service) Database() *mongo.Database {
	return s.db.Database(s.name)
}

func (s *service) Close(ctx context.Context) error {
	return s.db.Disconnect(ctx)
}
