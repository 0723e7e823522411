package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"rebelbot/internal/models"
)

const keywordHelpMessage = "I can help you find resources, events, and clubs at UNLV! Try asking about mental health services, career help, upcoming events, or student organizations."

// KeywordResponder answers chat messages by keyword routing against the catalog.
// It is used when no completion provider is configured.
type KeywordResponder struct {
	catalog CatalogService
}

func NewKeywordResponder(catalog CatalogService) *KeywordResponder {
	return &KeywordResponder{catalog: catalog}
}

type keywordRoute struct {
	keywords []string
	reply    string
	lookup   func(ctx context.Context, c CatalogService) ([]models.SuggestionLink, error)
}

var keywordRoutes = []keywordRoute{
	{
		keywords: []string{"advising", "advisor", "class", "schedule"},
		reply:    "I can help you find the right office for academic guidance! For specific class planning and degree requirements, I recommend confirming with an academic advisor directly.",
		lookup: func(ctx context.Context, c CatalogService) ([]models.SuggestionLink, error) {
			resources, err := c.ListResources(ctx, models.CatalogFilter{TitleContains: "advising", Limit: 1})
			return resourceLinks(resources), err
		},
	},
	{
		keywords: []string{"mental health", "counseling", "stress"},
		reply:    "Your mental health matters! UNLV has great resources to support your wellbeing.",
		lookup: func(ctx context.Context, c CatalogService) ([]models.SuggestionLink, error) {
			resources, err := c.ListResources(ctx, models.CatalogFilter{Tags: []string{"mental health", "wellness", "counseling"}, Limit: 2})
			return resourceLinks(resources), err
		},
	},
	{
		keywords: []string{"career", "job", "internship"},
		reply:    "Looking to launch your career? Check out these resources for resume help, interview prep, and job opportunities!",
		lookup: func(ctx context.Context, c CatalogService) ([]models.SuggestionLink, error) {
			resources, err := c.ListResources(ctx, models.CatalogFilter{Tags: []string{"career", "jobs", "internship"}, Limit: 2})
			return resourceLinks(resources), err
		},
	},
	{
		keywords: []string{"event", "happening"},
		reply:    "Here are some upcoming events at UNLV!",
		lookup: func(ctx context.Context, c CatalogService) ([]models.SuggestionLink, error) {
			events, err := c.ListEvents(ctx, WindowAll, "", 3)
			links := make([]models.SuggestionLink, 0, len(events))
			for _, e := range events {
				links = append(links, models.SuggestionLink{Title: e.Title, URL: LinkURL(models.ItemEvent, e.ID)})
			}
			return links, err
		},
	},
	{
		keywords: []string{"club", "organization", "join"},
		reply:    "Looking to get involved? Here are some clubs you might like!",
		lookup: func(ctx context.Context, c CatalogService) ([]models.SuggestionLink, error) {
			clubs, err := c.ListClubs(ctx, models.CatalogFilter{Limit: 3})
			links := make([]models.SuggestionLink, 0, len(clubs))
			for _, cl := range clubs {
				links = append(links, models.SuggestionLink{Title: cl.Name, URL: LinkURL(models.ItemClub, cl.ID)})
			}
			return links, err
		},
	},
}

func resourceLinks(resources []models.Resource) []models.SuggestionLink {
	links := make([]models.SuggestionLink, 0, len(resources))
	for _, r := range resources {
		links = append(links, models.SuggestionLink{Title: r.Title, URL: LinkURL(models.ItemResource, r.ID)})
	}
	return links
}

// Respond matches the first route whose keyword appears in message. A failed
// lookup still returns the route's reply, without links.
func (k *KeywordResponder) Respond(ctx context.Context, message string) *models.ChatResponse {
	query := strings.ToLower(message)
	for _, route := range keywordRoutes {
		if !containsAny(query, route.keywords) {
			continue
		}
		links, err := route.lookup(ctx, k.catalog)
		if err != nil {
			log.Warn().Err(err).Strs("keywords", route.keywords).Msg("Keyword lookup failed")
			links = nil
		}
		if links == nil {
			links = []models.SuggestionLink{}
		}
		return &models.ChatResponse{Message: route.reply, SuggestedLinks: links}
	}
	return &models.ChatResponse{Message: keywordHelpMessage, SuggestedLinks: []models.SuggestionLink{}}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
