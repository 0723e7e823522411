package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rebelbot/internal/database"
	"rebelbot/internal/models"
	"rebelbot/internal/utils"
)

type ClubRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Club, error)
	FindByID(ctx context.Context, id string) (*models.Club, error)
	Upsert(ctx context.Context, club *models.Club) error
}

type clubRepository struct {
	db database.Service
}

func NewClubRepository(db database.Service) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("clubs")
}

func (r *clubRepository) List(ctx context.Context, filter models.CatalogFilter) (clubs []models.Club, err error) {
	done := utils.ObserveQuery("list", "club")
	defer func() { done(err) }()

	cursor, err := r.collection().Find(ctx, catalogQuery(filter, "name"), sortedFind("name", filter.Limit))
	if err != nil {
		return nil, fmt.Errorf("error fetching clubs: %w", err)
	}
	defer cursor.Close(ctx)

	clubs = []models.Club{}
	if err := cursor.All(ctx, &clubs); err != nil {
		return nil, fmt.Errorf("error decoding clubs: %w", err)
	}
	return clubs, nil
}

func (r *clubRepository) FindByID(ctx context.Context, id string) (club *models.Club, err error) {
	done := utils.ObserveQuery("findByID", "club")
	defer func() {
		if errors.Is(err, ErrNotFound) {
			done(nil)
			return
		}
		done(err)
	}()

	var c models.Club
	if err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching club: %w", err)
	}
	return &c, nil
}

func (r *clubRepository) Upsert(ctx context.Context, club *models.Club) (err error) {
	done := utils.ObserveQuery("upsert", "club")
	defer func() { done(err) }()

	now := time.Now().UTC()
	update, err := upsertUpdate(club, now)
	if err != nil {
		return err
	}

	_, err = r.collection().UpdateOne(ctx, bson.M{"_id": club.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert club: %w", err)
	}

	if club.CreatedAt.IsZero() {
		club.CreatedAt = now
	}
	club.UpdatedAt = now
	return nil
}
