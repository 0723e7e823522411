package services

import (
	"context"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"rebelbot/internal/models"
	"rebelbot/internal/repositories"
)

type fakeResourceRepo struct {
	resources []models.Resource
	err       error
	filters   []models.CatalogFilter
	mu        sync.Mutex
}

func (f *fakeResourceRepo) List(ctx context.Context, filter models.CatalogFilter) ([]models.Resource, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.resources, nil
}

func (f *fakeResourceRepo) FindByID(ctx context.Context, id string) (*models.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.resources {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeResourceRepo) Upsert(ctx context.Context, resource *models.Resource) error {
	f.resources = append(f.resources, *resource)
	return f.err
}

type fakeEventRepo struct {
	events  []models.Event
	err     error
	filters []models.EventFilter
	mu      sync.Mutex
}

func (f *fakeEventRepo) ListUpcoming(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id string) (*models.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEventRepo) Upsert(ctx context.Context, event *models.Event) error {
	f.events = append(f.events, *event)
	return f.err
}

type fakeClubRepo struct {
	clubs   []models.Club
	err     error
	filters []models.CatalogFilter
	mu      sync.Mutex
}

func (f *fakeClubRepo) List(ctx context.Context, filter models.CatalogFilter) ([]models.Club, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.clubs, nil
}

func (f *fakeClubRepo) FindByID(ctx context.Context, id string) (*models.Club, error) {
	for _, c := range f.clubs {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeClubRepo) Upsert(ctx context.Context, club *models.Club) error {
	f.clubs = append(f.clubs, *club)
	return f.err
}

type fakeFeedbackRepo struct {
	created []*models.Feedback
	err     error
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) (*models.Feedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, feedback)
	return feedback, nil
}

type fakeNotifier struct {
	notified []*models.Feedback
	err      error
}

func (f *fakeNotifier) NotifyFeedback(feedback *models.Feedback) error {
	f.notified = append(f.notified, feedback)
	return f.err
}

// fakeLLM records the last request and replies with reply or err. When block is
// set it waits for the context to end.
type fakeLLM struct {
	reply    string
	err      error
	block    bool
	empty    bool
	messages []llms.MessageContent
	options  llms.CallOptions
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *fakeLLM) text(i int) string {
	var b strings.Builder
	for _, part := range f.messages[i].Parts {
		if tc, ok := part.(llms.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

type fakeCompletion struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeCompletion) Complete(ctx context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}
