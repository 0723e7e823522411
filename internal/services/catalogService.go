package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"rebelbot/internal/models"
	"rebelbot/internal/repositories"
)

// Event listing windows accepted by ListEvents.
const (
	WindowAll   = ""
	WindowToday = "today"
	WindowWeek  = "week"
	WindowMonth = "month"
)

// CatalogService serves the read-only browse views.
type CatalogService interface {
	ListResources(ctx context.Context, filter models.CatalogFilter) ([]models.Resource, error)
	GetResource(ctx context.Context, id string) (*models.Resource, error)
	ListEvents(ctx context.Context, window, query string, limit int64) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListClubs(ctx context.Context, filter models.CatalogFilter) ([]models.Club, error)
	GetClub(ctx context.Context, id string) (*models.Club, error)
}

type catalogServiceImpl struct {
	resourceRepo repositories.ResourceRepository
	eventRepo    repositories.EventRepository
	clubRepo     repositories.ClubRepository
	now          func() time.Time
}

func NewCatalogService(
	resourceRepo repositories.ResourceRepository,
	eventRepo repositories.EventRepository,
	clubRepo repositories.ClubRepository,
) CatalogService {
	return &catalogServiceImpl{
		resourceRepo: resourceRepo,
		eventRepo:    eventRepo,
		clubRepo:     clubRepo,
		now:          time.Now,
	}
}

func (s *catalogServiceImpl) ListResources(ctx context.Context, filter models.CatalogFilter) ([]models.Resource, error) {
	log.Debug().Interface("filter", filter).Msg("Attempting to list resources")
	resources, err := s.resourceRepo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Error listing resources")
		return nil, err
	}
	return resources, nil
}

func (s *catalogServiceImpl) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	resource, err := s.resourceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, "resource", id)
	}
	return resource, nil
}

// EventWindowEnd returns the inclusive upper bound for window, or nil for no bound.
// "today" ends at the last instant of now's calendar day in now's location.
func EventWindowEnd(window string, now time.Time) (*time.Time, error) {
	var until time.Time
	switch strings.ToLower(strings.TrimSpace(window)) {
	case WindowAll, "all":
		return nil, nil
	case WindowToday:
		y, m, d := now.Date()
		until = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), now.Location())
	case WindowWeek:
		until = now.AddDate(0, 0, 7)
	case WindowMonth:
		until = now.AddDate(0, 1, 0)
	default:
		return nil, &ValidationError{Reason: "Invalid window (expected today, week or month)"}
	}
	return &until, nil
}

func (s *catalogServiceImpl) ListEvents(ctx context.Context, window, query string, limit int64) ([]models.Event, error) {
	now := s.now()
	until, err := EventWindowEnd(window, now)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("window", window).Str("query", query).Msg("Attempting to list upcoming events")
	events, err := s.eventRepo.ListUpcoming(ctx, models.EventFilter{From: now.UTC(), Until: until, Query: query, Limit: limit})
	if err != nil {
		log.Error().Err(err).Msg("Error listing events")
		return nil, err
	}
	return events, nil
}

func (s *catalogServiceImpl) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, "event", id)
	}
	return event, nil
}

func (s *catalogServiceImpl) ListClubs(ctx context.Context, filter models.CatalogFilter) ([]models.Club, error) {
	log.Debug().Interface("filter", filter).Msg("Attempting to list clubs")
	clubs, err := s.clubRepo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Error listing clubs")
		return nil, err
	}
	return clubs, nil
}

func (s *catalogServiceImpl) GetClub(ctx context.Context, id string) (*models.Club, error) {
	club, err := s.clubRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, "club", id)
	}
	return club, nil
}

func translateLookupError(err error, kind, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		log.Warn().Str("kind", kind).Str("id", id).Msg("Catalog record not found")
		return fmt.Errorf("%s %w", kind, ErrNotFound)
	}
	log.Error().Err(err).Str("kind", kind).Str("id", id).Msg("Error fetching catalog record")
	return err
}
