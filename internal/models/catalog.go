package models

import "time"

// CatalogFilter narrows catalog listings. Zero values mean "no filter".
type CatalogFilter struct {
	Category string
	Query    string
	// Tags matches records carrying at least one of the given tags.
	Tags []string
	// TitleContains is a case-insensitive substring match on the title or name only.
	TitleContains string
	Limit         int64
}

// EventFilter narrows event listings to those starting in [From, Until).
type EventFilter struct {
	From  time.Time
	Until *time.Time
	Query string
	Limit int64
}
