package models

import "time"

type Club struct {
	ID           string    `json:"id" bson:"_id" yaml:"id"`
	Name         string    `json:"name" bson:"name" yaml:"name"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	Category     string    `json:"category" bson:"category" yaml:"category"`
	Tags         []string  `json:"tags" bson:"tags" yaml:"tags"`
	MeetingInfo  string    `json:"meeting_info,omitempty" bson:"meeting_info,omitempty" yaml:"meeting_info"`
	ContactEmail string    `json:"contact_email,omitempty" bson:"contact_email,omitempty" yaml:"contact_email"`
	URL          string    `json:"url,omitempty" bson:"url,omitempty" yaml:"url"`
	ImageURL     string    `json:"image_url,omitempty" bson:"image_url,omitempty" yaml:"image_url"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" yaml:"-"`
}
