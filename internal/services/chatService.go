package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf16"

	"github.com/rs/zerolog/log"

	"rebelbot/internal/metrics"
	"rebelbot/internal/models"
)

const (
	MaxMessageLength = 2000
	MaxSuggestions   = 3

	ApologyMessage = "I'm having trouble right now. Please try again in a moment!"
)

var (
	ErrMessageRequired = &ValidationError{Reason: "Message is required"}
	ErrMessageTooLong  = &ValidationError{Reason: fmt.Sprintf("Message too long (max %d characters)", MaxMessageLength)}
)

// MessageLength counts UTF-16 code units, so a character outside the Basic
// Multilingual Plane counts as two.
func MessageLength(message string) int {
	return len(utf16.Encode([]rune(message)))
}

// ValidateMessage checks a decoded "message" field and returns it trimmed.
// Length is measured with MessageLength on the untrimmed value.
func ValidateMessage(raw interface{}) (string, error) {
	message, ok := raw.(string)
	if !ok || strings.TrimSpace(message) == "" {
		return "", ErrMessageRequired
	}
	if MessageLength(message) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return strings.TrimSpace(message), nil
}

// ApologyResponse is returned to the caller on any failure after validation.
func ApologyResponse() *models.ChatResponse {
	return &models.ChatResponse{Message: ApologyMessage, SuggestedLinks: []models.SuggestionLink{}}
}

type strictAnswer struct {
	Message        *string                `json:"message"`
	SuggestedLinks []models.RawSuggestion `json:"suggestedLinks"`
}

// ExtractAnswer recovers a structured answer from completion text. It decodes the
// span from the first '{' to the last '}' and falls back to the raw text, with no
// suggestions, when there is no such span, it does not decode, or it has no
// "message" string. The span heuristic breaks on replies that carry two unrelated
// brace-delimited fragments.
func ExtractAnswer(text string) (models.Answer, bool) {
	fallback := models.Answer{Message: text, SuggestedLinks: []models.RawSuggestion{}}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fallback, false
	}

	var parsed strictAnswer
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		log.Debug().Err(err).Msg("Completion JSON did not match answer shape")
		return fallback, false
	}
	if parsed.Message == nil {
		log.Debug().Msg("Completion JSON has no message field")
		return fallback, false
	}

	answer := models.Answer{Message: *parsed.Message, SuggestedLinks: parsed.SuggestedLinks}
	if answer.SuggestedLinks == nil {
		answer.SuggestedLinks = []models.RawSuggestion{}
	}
	return answer, true
}

// LinkURL renders the application path for a catalog record.
func LinkURL(t models.ItemType, id string) string {
	return "/app/" + string(t) + "s/" + url.PathEscape(id)
}

// MapLinks turns model suggestions into links. Suggestions with an unknown type,
// no id, or an id rejected by known are dropped. At most MaxSuggestions are kept.
// A nil known accepts every id.
func MapLinks(suggestions []models.RawSuggestion, known func(models.ItemType, string) bool) []models.SuggestionLink {
	links := make([]models.SuggestionLink, 0, MaxSuggestions)
	for _, s := range suggestions {
		kind := models.ItemType(strings.ToLower(strings.TrimSpace(string(s.Type))))
		if kind == "" {
			kind = models.ItemResource
		}
		id := strings.TrimSpace(s.ID)

		switch {
		case !kind.Valid():
			metrics.SuggestionsDroppedTotal.WithLabelValues("unknown_type").Inc()
			continue
		case id == "":
			metrics.SuggestionsDroppedTotal.WithLabelValues("missing_id").Inc()
			continue
		case known != nil && !known(kind, id):
			metrics.SuggestionsDroppedTotal.WithLabelValues("unverified").Inc()
			continue
		case len(links) == MaxSuggestions:
			metrics.SuggestionsDroppedTotal.WithLabelValues("over_cap").Inc()
			continue
		}
		links = append(links, models.SuggestionLink{Title: s.Title, URL: LinkURL(kind, id)})
	}
	return links
}

type ChatService struct {
	contexts   *ContextService
	completion CompletionClient
	keywords   *KeywordResponder
}

// NewChatService wires the answer flow. With a nil completion client every
// message is answered by the keyword responder.
func NewChatService(contexts *ContextService, completion CompletionClient, keywords *KeywordResponder) *ChatService {
	return &ChatService{
		contexts:   contexts,
		completion: completion,
		keywords:   keywords,
	}
}

// Answer runs the assembly flow for an already validated message.
func (s *ChatService) Answer(ctx context.Context, message string) (*models.ChatResponse, error) {
	if s.completion == nil {
		metrics.ChatRequestsTotal.WithLabelValues("keyword").Inc()
		return s.keywords.Respond(ctx, message), nil
	}

	snap := s.contexts.Gather(ctx)
	prompt := s.contexts.RenderPrompt(snap)

	text, err := s.completion.Complete(ctx, prompt, message)
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	answer, structured := ExtractAnswer(text)
	if !structured {
		metrics.ExtractionFallbacksTotal.Inc()
	}

	links := MapLinks(answer.SuggestedLinks, snap.Contains)
	if dropped := len(answer.SuggestedLinks) - len(links); dropped > 0 {
		log.Info().Int("dropped", dropped).Int("kept", len(links)).Msg("Dropped suggestions that did not map to known records")
	}

	metrics.ChatRequestsTotal.WithLabelValues("answered").Inc()
	return &models.ChatResponse{Message: answer.Message, SuggestedLinks: links}, nil
}
