package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"rebelbot/internal/metrics"
	"rebelbot/internal/models"
	"rebelbot/internal/repositories"
)

const (
	contextResourceLimit = 15
	contextEventLimit    = 10
	contextClubLimit     = 15
)

// CatalogSnapshot is what the assistant is allowed to know about for one request.
type CatalogSnapshot struct {
	Resources []models.Resource
	Events    []models.Event
	Clubs     []models.Club
	// Degraded lists the sections whose lookup failed and were left empty.
	Degraded []string
}

// Contains reports whether the snapshot holds a record of kind t with the given id.
func (s *CatalogSnapshot) Contains(t models.ItemType, id string) bool {
	switch t {
	case models.ItemResource:
		for _, r := range s.Resources {
			if r.ID == id {
				return true
			}
		}
	case models.ItemEvent:
		for _, e := range s.Events {
			if e.ID == id {
				return true
			}
		}
	case models.ItemClub:
		for _, c := range s.Clubs {
			if c.ID == id {
				return true
			}
		}
	}
	return false
}

type ContextService struct {
	resourceRepo repositories.ResourceRepository
	eventRepo    repositories.EventRepository
	clubRepo     repositories.ClubRepository
	now          func() time.Time
}

func NewContextService(
	resourceRepo repositories.ResourceRepository,
	eventRepo repositories.EventRepository,
	clubRepo repositories.ClubRepository,
) *ContextService {
	return &ContextService{
		resourceRepo: resourceRepo,
		eventRepo:    eventRepo,
		clubRepo:     clubRepo,
		now:          time.Now,
	}
}

// Gather runs the three catalog lookups concurrently. A failed lookup leaves its
// section empty and is recorded in Degraded; Gather itself never fails.
func (s *ContextService) Gather(ctx context.Context) *CatalogSnapshot {
	snap := &CatalogSnapshot{}
	var resourcesErr, eventsErr, clubsErr error

	var g errgroup.Group
	g.Go(func() error {
		snap.Resources, resourcesErr = s.resourceRepo.List(ctx, models.CatalogFilter{Limit: contextResourceLimit})
		return nil
	})
	g.Go(func() error {
		snap.Events, eventsErr = s.eventRepo.ListUpcoming(ctx, models.EventFilter{From: s.now().UTC(), Limit: contextEventLimit})
		return nil
	})
	g.Go(func() error {
		snap.Clubs, clubsErr = s.clubRepo.List(ctx, models.CatalogFilter{Limit: contextClubLimit})
		return nil
	})
	_ = g.Wait()

	for _, section := range []struct {
		name string
		err  error
	}{{"resources", resourcesErr}, {"events", eventsErr}, {"clubs", clubsErr}} {
		if section.err == nil {
			continue
		}
		log.Warn().Err(section.err).Str("section", section.name).Msg("Context lookup failed, continuing without section")
		metrics.ContextSectionFailuresTotal.WithLabelValues(section.name).Inc()
		snap.Degraded = append(snap.Degraded, section.name)
	}
	if resourcesErr != nil {
		snap.Resources = nil
	}
	if eventsErr != nil {
		snap.Events = nil
	}
	if clubsErr != nil {
		snap.Clubs = nil
	}

	log.Debug().
		Int("resources", len(snap.Resources)).
		Int("events", len(snap.Events)).
		Int("clubs", len(snap.Clubs)).
		Strs("degraded", snap.Degraded).
		Msg("Gathered chat context")
	return snap
}

// RenderPrompt renders the system instruction for the completion call.
func (s *ContextService) RenderPrompt(snap *CatalogSnapshot) string {
	var resources, events, clubs strings.Builder
	for _, r := range snap.Resources {
		resources.WriteString(ResourceLine(r))
		resources.WriteByte('\n')
	}
	for _, e := range snap.Events {
		events.WriteString(EventLine(e))
		events.WriteByte('\n')
	}
	for _, c := range snap.Clubs {
		clubs.WriteString(ClubLine(c))
		clubs.WriteByte('\n')
	}

	return fmt.Sprintf(systemPromptTemplate,
		strings.TrimRight(resources.String(), "\n"),
		strings.TrimRight(events.String(), "\n"),
		strings.TrimRight(clubs.String(), "\n"),
	)
}

func ResourceLine(r models.Resource) string {
	return fmt.Sprintf("- %s (%s): %s [ID: %s]", r.Title, r.Category, orDefault(r.Description, "No description"), r.ID)
}

func EventLine(e models.Event) string {
	return fmt.Sprintf("- %s on %s at %s: %s [ID: %s]", e.Title, e.StartTime.Format("1/2/2006"), orDefault(e.Location, "TBD"), e.Description, e.ID)
}

func ClubLine(c models.Club) string {
	return fmt.Sprintf("- %s (%s): %s [ID: %s]", c.Name, c.Category, orDefault(c.Description, "No description"), c.ID)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

const systemPromptTemplate = `You are RebelBot, a friendly and helpful AI assistant for UNLV students. You help students find campus resources, events, and clubs.

AVAILABLE RESOURCES:
%s

UPCOMING EVENTS:
%s

STUDENT CLUBS:
%s

RESPONSE GUIDELINES:
1. Be friendly, warm, and conversational. Use emojis sparingly.
2. When recommending resources/events/clubs, include their IDs so links can be generated.
3. Format your response as JSON with this structure:
   {
     "message": "Your conversational response here",
     "suggestedLinks": [
       {"title": "Resource Name", "type": "resource|event|club", "id": "uuid-here"}
     ]
   }
4. Limit suggested links to 3 most relevant items.
5. If the question is not about UNLV resources, politely redirect them to ask about campus services.
6. Keep responses concise but helpful.`
