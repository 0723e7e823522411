package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"rebelbot/internal/database"
	"rebelbot/internal/models"
	"rebelbot/internal/utils"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) (*models.Feedback, error)
}

type feedbackRepository struct {
	db database.Service
}

func NewFeedbackRepository(db database.Service) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("feedback")
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) (_ *models.Feedback, err error) {
	done := utils.ObserveQuery("create", "feedback")
	defer func() { done(err) }()

	if _, err = r.collection().InsertOne(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return feedback, nil
}
