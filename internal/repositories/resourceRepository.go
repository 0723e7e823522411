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

// ErrNotFound is returned by FindByID lookups that match no document.
var ErrNotFound = errors.New("document not found")

type ResourceRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Resource, error)
	FindByID(ctx context.Context, id string) (*models.Resource, error)
	Upsert(ctx context.Context, resource *models.Resource) error
}

type resourceRepository struct {
	db database.Service
}

func NewResourceRepository(db database.Service) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("resources")
}

func (r *resourceRepository) List(ctx context.Context, filter models.CatalogFilter) (resources []models.Resource, err error) {
	done := utils.ObserveQuery("list", "resource")
	defer func() { done(err) }()

	cursor, err := r.collection().Find(ctx, catalogQuery(filter, "title"), sortedFind("title", filter.Limit))
	if err != nil {
		return nil, fmt.Errorf("error fetching resources: %w", err)
	}
	defer cursor.Close(ctx)

	resources = []models.Resource{}
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("error decoding resources: %w", err)
	}
	return resources, nil
}

func (r *resourceRepository) FindByID(ctx context.Context, id string) (resource *models.Resource, err error) {
	done := utils.ObserveQuery("findByID", "resource")
	defer func() {
		if errors.Is(err, ErrNotFound) {
			done(nil)
			return
		}
		done(err)
	}()

	var res models.Resource
	if err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching resource: %w", err)
	}
	return &res, nil
}

func (r *resourceRepository) Upsert(ctx context.Context, resource *models.Resource) (err error) {
	done := utils.ObserveQuery("upsert", "resource")
	defer func() { done(err) }()

	now := time.Now().UTC()
	update, err := upsertUpdate(resource, now)
	if err != nil {
		return err
	}

	_, err = r.collection().UpdateOne(ctx, bson.M{"_id": resource.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert resource: %w", err)
	}

	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = now
	}
	resource.UpdatedAt = now
	return nil
}
