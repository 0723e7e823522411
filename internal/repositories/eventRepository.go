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

type EventRepository interface {
	// ListUpcoming returns events starting at or after filter.From, earliest first.
	ListUpcoming(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Upsert(ctx context.Context, event *models.Event) error
}

type eventRepository struct {
	db database.Service
}

func NewEventRepository(db database.Service) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("events")
}

func (r *eventRepository) ListUpcoming(ctx context.Context, filter models.EventFilter) (events []models.Event, err error) {
	done := utils.ObserveQuery("listUpcoming", "event")
	defer func() { done(err) }()

	cursor, err := r.collection().Find(ctx, eventQuery(filter), sortedFind("start_time", filter.Limit))
	if err != nil {
		return nil, fmt.Errorf("error fetching events: %w", err)
	}
	defer cursor.Close(ctx)

	events = []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (event *models.Event, err error) {
	done := utils.ObserveQuery("findByID", "event")
	defer func() {
		if errors.Is(err, ErrNotFound) {
			done(nil)
			return
		}
		done(err)
	}()

	var e models.Event
	if err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching event: %w", err)
	}
	return &e, nil
}

func (r *eventRepository) Upsert(ctx context.Context, event *models.Event) (err error) {
	done := utils.ObserveQuery("upsert", "event")
	defer func() { done(err) }()

	now := time.Now().UTC()
	update, err := upsertUpdate(event, now)
	if err != nil {
		return err
	}

	_, err = r.collection().UpdateOne(ctx, bson.M{"_id": event.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	return nil
}
