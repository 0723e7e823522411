package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"rebelbot/internal/middlewares"
	"rebelbot/internal/models"
	"rebelbot/internal/repositories"
	"rebelbot/internal/services"
	"rebelbot/internal/utils"
)

var testSecret = []byte("test-secret")

type fakeDB struct{ healthErr string }

func (f fakeDB) Health() map[string]string {
	if f.healthErr != "" {
		return map[string]string{"status": "down", "error": f.healthErr}
	}
	return map[string]string{"status": "up"}
}

func (fakeDB) Database() *mongo.Database { return nil }

func (fakeDB) Close(ctx context.Context) error { return nil }

type memResources struct{ items []models.Resource }

func (m *memResources) List(ctx context.Context, filter models.CatalogFilter) ([]models.Resource, error) {
	return m.items, nil
}

func (m *memResources) FindByID(ctx context.Context, id string) (*models.Resource, error) {
	for _, r := range m.items {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memResources) Upsert(ctx context.Context, r *models.Resource) error {
	m.items = append(m.items, *r)
	return nil
}

type memEvents struct{}

func (memEvents) ListUpcoming(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return []models.Event{}, nil
}

func (memEvents) FindByID(ctx context.Context, id string) (*models.Event, error) {
	return nil, repositories.ErrNotFound
}

func (memEvents) Upsert(ctx context.Context, e *models.Event) error { return nil }

type memClubs struct{}

func (memClubs) List(ctx context.Context, filter models.CatalogFilter) ([]models.Club, error) {
	return []models.Club{}, nil
}

func (memClubs) FindByID(ctx context.Context, id string) (*models.Club, error) {
	return nil, repositories.ErrNotFound
}

func (memClubs) Upsert(ctx context.Context, c *models.Club) error { return nil }

type memFeedback struct{ items []*models.Feedback }

func (m *memFeedback) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	m.items = append(m.items, f)
	return f, nil
}

type stubCompletion struct {
	reply string
	err   error
}

func (s *stubCompletion) Complete(ctx context.Context, system, user string) (string, error) {
	return s.reply, s.err
}

func newTestServer(t *testing.T, completion services.CompletionClient, resources ...models.Resource) (*Server, *memFeedback) {
	t.Helper()
	resourceRepo := &memResources{items: resources}
	feedbackRepo := &memFeedback{}
	catalog := services.NewCatalogService(resourceRepo, memEvents{}, memClubs{})

	return &Server{
		db:       fakeDB{},
		verifier: services.NewTokenVerifier(testSecret),
		chatService: services.NewChatService(
			services.NewContextService(resourceRepo, memEvents{}, memClubs{}),
			completion,
			services.NewKeywordResponder(catalog),
		),
		catalogService:  catalog,
		feedbackService: services.NewFeedbackService(feedbackRepo, nil),
		limiter:         middlewares.NewRateLimiter(1000, 1000),
		metrics:         middlewares.NewPrometheusMiddleware(prometheus.NewRegistry()),
	}, feedbackRepo
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT(testSecret, "user-1", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(h http.Handler, method, target, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatRequiresAuthentication(t *testing.T) {
	s, _ := newTestServer(t, &stubCompletion{reply: "unused"})
	h := s.RegisterRoutes()

	rec := do(h, http.MethodPost, "/api/chat", "", `{"message":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/chat", "Bearer not-a-token", `{"message":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid authentication"}`, rec.Body.String())

	// Validation happens only after authentication.
	rec = do(h, http.MethodPost, "/api/chat", "", `{"message":""}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatPreflight(t *testing.T) {
	s, _ := newTestServer(t, &stubCompletion{})

	rec := do(s.RegisterRoutes(), http.MethodOptions, "/api/chat", "", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestChatEndToEnd(t *testing.T) {
	completion := &stubCompletion{reply: `{"message":"Here's a resource.","suggestedLinks":[` +
		`{"title":"Counseling Center","type":"resource","id":"abc-123"},` +
		`{"title":"Ghost","type":"resource","id":"missing"},` +
		`{"title":"Odd","type":"lab","id":"abc-123"}]}`}
	s, _ := newTestServer(t, completion, models.Resource{ID: "abc-123", Title: "Counseling Center", Category: "Health"})

	rec := do(s.RegisterRoutes(), http.MethodPost, "/api/chat", bearer(t), `{"message":"What mental health resources are available?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"Here's a resource.","suggestedLinks":[{"title":"Counseling Center","url":"/app/resources/abc-123"}]}`,
		rec.Body.String())
}

func TestChatUpstreamTimeout(t *testing.T) {
	s, _ := newTestServer(t, &stubCompletion{err: services.ErrUpstreamTimeout})

	rec := do(s.RegisterRoutes(), http.MethodPost, "/api/chat", bearer(t), `{"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"message":"I'm having trouble right now. Please try again in a moment!","suggestedLinks":[]}`,
		rec.Body.String())
}

func TestFeedbackRoute(t *testing.T) {
	s, store := newTestServer(t, nil)
	h := s.RegisterRoutes()

	rec := do(h, http.MethodPost, "/api/feedback", "", `{"message":"nice"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodPost, "/api/feedback", bearer(t), `{"message":"nice","page":"/app/chat"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.items, 1)
	assert.Equal(t, "user-1", store.items[0].UserID)
}

func TestPublicRoutes(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.RegisterRoutes()

	for _, target := range []string{"/", "/health", "/metrics", "/api/resources", "/api/events", "/api/clubs"} {
		rec := do(h, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}

	rec := do(h, http.MethodGet, "/api/chat", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthReportsStoreFailure(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.db = fakeDB{healthErr: "db down"}

	rec := do(s.RegisterRoutes(), http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitOnPublicRoutes(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.limiter = middlewares.NewRateLimiter(0.001, 1)
	h := s.RegisterRoutes()

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/clubs", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/api/clubs", "", "").Code)
}
