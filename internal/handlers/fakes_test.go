package handlers

import (
	"context"

	"rebelbot/internal/models"
	"rebelbot/internal/repositories"
	"rebelbot/internal/services"
)

type fakeCatalog struct {
	resources []models.Resource
	events    []models.Event
	clubs     []models.Club
	err       error

	filter models.CatalogFilter
	window string
	limit  int64
}

func (f *fakeCatalog) ListResources(ctx context.Context, filter models.CatalogFilter) ([]models.Resource, error) {
	f.filter = filter
	return f.resources, f.err
}

func (f *fakeCatalog) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.resources {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, services.ErrNotFound
}

func (f *fakeCatalog) ListEvents(ctx context.Context, window, query string, limit int64) ([]models.Event, error) {
	f.window, f.limit = window, limit
	return f.events, f.err
}

func (f *fakeCatalog) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.events {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, services.ErrNotFound
}

func (f *fakeCatalog) ListClubs(ctx context.Context, filter models.CatalogFilter) ([]models.Club, error) {
	f.filter = filter
	return f.clubs, f.err
}

func (f *fakeCatalog) GetClub(ctx context.Context, id string) (*models.Club, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.clubs {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, services.ErrNotFound
}

type fakeFeedback struct {
	err     error
	userID  string
	request models.FeedbackRequest
}

func (f *fakeFeedback) Submit(ctx context.Context, userID string, req models.FeedbackRequest) (*models.Feedback, error) {
	f.userID, f.request = userID, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Feedback{ID: "f-1", UserID: userID, Message: req.Message, Page: req.Page}, nil
}

type fakeResources struct{ resources []models.Resource }

func (f *fakeResources) List(ctx context.Context, filter models.CatalogFilter) ([]models.Resource, error) {
	return f.resources, nil
}

func (f *fakeResources) FindByID(ctx context.Context, id string) (*models.Resource, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeResources) Upsert(ctx context.Context, resource *models.Resource) error { return nil }

type fakeEvents struct{}

func (fakeEvents) ListUpcoming(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return nil, nil
}

func (fakeEvents) FindByID(ctx context.Context, id string) (*models.Event, error) {
	return nil, repositories.ErrNotFound
}

func (fakeEvents) Upsert(ctx context.Context, event *models.Event) error { return nil }

type fakeClubs struct{}

func (fakeClubs) List(ctx context.Context, filter models.CatalogFilter) ([]models.Club, error) {
	return nil, nil
}

func (fakeClubs) FindByID(ctx context.Context, id string) (*models.Club, error) {
	return nil, repositories.ErrNotFound
}

func (fakeClubs) Upsert(ctx context.Context, club *models.Club) error { return nil }

type fakeCompletion struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompletion) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newChatService(completion services.CompletionClient, resources ...models.Resource) *services.ChatService {
	repo := &fakeResources{resources: resources}
	return services.NewChatService(
		services.NewContextService(repo, fakeEvents{}, fakeClubs{}),
		completion,
		services.NewKeywordResponder(services.NewCatalogService(repo, fakeEvents{}, fakeClubs{})),
	)
}
