package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebelbot/internal/models"
	"rebelbot/internal/services"
	"rebelbot/internal/utils"
)

func chatRequest(t *testing.T, body string, authenticated bool) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req = req.WithContext(utils.WithUserID(req.Context(), "user-1"))
	}
	return req
}

func messageBody(t *testing.T, message string) string {
	t.Helper()
	b, err := json.Marshal(map[string]string{"message": message})
	require.NoError(t, err)
	return string(b)
}

func TestChatRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name          string
		body          string
		authenticated bool
		status        int
		want          string
	}{
		{"unauthenticated", `{"message":"hi"}`, false, http.StatusUnauthorized, `{"error":"Authentication required"}`},
		{"not json", `message=hi`, true, http.StatusBadRequest, `{"error":"Message is required"}`},
		{"missing message", `{}`, true, http.StatusBadRequest, `{"error":"Message is required"}`},
		{"message not a string", `{"message":42}`, true, http.StatusBadRequest, `{"error":"Message is required"}`},
		{"whitespace only", `{"message":"  \n\t "}`, true, http.StatusBadRequest, `{"error":"Message is required"}`},
		{"too long", messageBody(t, strings.Repeat("a", 2001)), true, http.StatusBadRequest, `{"error":"Message too long (max 2000 characters)"}`},
		{"larger than body limit", messageBody(t, strings.Repeat("a", 70000)), true, http.StatusBadRequest, `{"error":"Message too long (max 2000 characters)"}`},
		{"emoji over max", messageBody(t, strings.Repeat("😀", 1001)), true, http.StatusBadRequest, `{"error":"Message too long (max 2000 characters)"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			completion := &fakeCompletion{reply: `{"message":"unused"}`}
			h := NewChatHandler(newChatService(completion))

			rec := httptest.NewRecorder()
			h.Chat(rec, chatRequest(t, tc.body, tc.authenticated))

			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.want, rec.Body.String())
			assert.Zero(t, completion.calls, "completion must not be called for rejected requests")
		})
	}
}

func TestChatAcceptsMaximumLength(t *testing.T) {
	completion := &fakeCompletion{reply: `{"message":"ok","suggestedLinks":[]}`}
	h := NewChatHandler(newChatService(completion))

	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, messageBody(t, strings.Repeat("é", 2000)), true))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, completion.calls)
}

func TestChatAcceptsEscapedSurrogatesAtMaximumLength(t *testing.T) {
	completion := &fakeCompletion{reply: `{"message":"ok"}`}
	h := NewChatHandler(newChatService(completion))

	body := `{"message":"` + strings.Repeat(`\ud83d\ude00`, 1000) + `"}`
	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, body, true))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, completion.calls)
}

func TestChatReturnsMappedLinks(t *testing.T) {
	completion := &fakeCompletion{reply: "Sure! " +
		`{"message":"Here's a resource.","suggestedLinks":[{"title":"Counseling Center","type":"resource","id":"abc-123"}]}`}
	h := NewChatHandler(newChatService(completion, models.Resource{ID: "abc-123", Title: "Counseling Center", Category: "Health"}))

	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, messageBody(t, "What mental health resources are available?"), true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"message":"Here's a resource.","suggestedLinks":[{"title":"Counseling Center","url":"/app/resources/abc-123"}]}`,
		rec.Body.String())
}

func TestChatUpstreamFailureReturnsApology(t *testing.T) {
	completion := &fakeCompletion{err: services.ErrUpstream}
	h := NewChatHandler(newChatService(completion))

	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, messageBody(t, "hi"), true))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"message":"I'm having trouble right now. Please try again in a moment!","suggestedLinks":[]}`,
		rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "upstream")
}
