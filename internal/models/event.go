package models

import "time"

type Event struct {
	ID          string     `json:"id" bson:"_id" yaml:"id"`
	Title       string     `json:"title" bson:"title" yaml:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	StartTime   time.Time  `json:"start_time" bson:"start_time" yaml:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty" bson:"end_time,omitempty" yaml:"end_time"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty" yaml:"location"`
	Tags        []string   `json:"tags" bson:"tags" yaml:"tags"`
	URL         string     `json:"url,omitempty" bson:"url,omitempty" yaml:"url"`
	ImageURL    string     `json:"image_url,omitempty" bson:"image_url,omitempty" yaml:"image_url"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at" yaml:"-"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at" yaml:"-"`
}
