package models

// ItemType is the kind of catalog record a suggestion points at.
type ItemType string

const (
	ItemResource ItemType = "resource"
	ItemEvent    ItemType = "event"
	ItemClub     ItemType = "club"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemResource, ItemEvent, ItemClub:
		return true
	}
	return false
}

type ChatResponse struct {
	Message        string           `json:"message"`
	SuggestedLinks []SuggestionLink `json:"suggestedLinks"`
}

// RawSuggestion is a pointer to a catalog record as emitted by the completion model.
type RawSuggestion struct {
	Title string   `json:"title"`
	Type  ItemType `json:"type"`
	ID    string   `json:"id"`
}

type SuggestionLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Answer is the structured reply recovered from completion text.
type Answer struct {
	Message        string          `json:"message"`
	SuggestedLinks []RawSuggestion `json:"suggestedLinks"`
}
