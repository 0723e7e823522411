package models

import "time"

type Feedback struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Message   string    `json:"message" bson:"message"`
	Page      string    `json:"page,omitempty" bson:"page,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type FeedbackRequest struct {
	Message string `json:"message"`
	Page    string `json:"page"`
}
