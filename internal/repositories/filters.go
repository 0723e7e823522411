package repositories

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rebelbot/internal/models"
)

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(s)), Options: "i"}
}

// catalogQuery builds the Mongo filter shared by resources and clubs. nameField is
// "title" for resources and "name" for clubs.
func catalogQuery(f models.CatalogFilter, nameField string) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	if strings.TrimSpace(f.TitleContains) != "" {
		filter[nameField] = containsRegex(f.TitleContains)
	}
	if strings.TrimSpace(f.Query) != "" {
		re := containsRegex(f.Query)
		filter["$or"] = bson.A{
			bson.M{nameField: re},
			bson.M{"description": re},
		}
	}
	return filter
}

func eventQuery(f models.EventFilter) bson.M {
	start := bson.M{"$gte": f.From}
	if f.Until != nil {
		start["$lte"] = *f.Until
	}
	filter := bson.M{"start_time": start}
	if strings.TrimSpace(f.Query) != "" {
		re := containsRegex(f.Query)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}
	return filter
}

func sortedFind(sortField string, limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

// upsertUpdate sets every field of doc except _id. created_at is only written
// when the upsert inserts a new document.
func upsertUpdate(doc interface{}, now time.Time) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "created_at")
	fields["updated_at"] = now

	return bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"created_at": now},
	}, nil
}
