package utils

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated subject on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated subject, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserIDFromContext extracts the userID from the request context.
func GetUserIDFromContext(w http.ResponseWriter, r *http.Request) (string, error) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return "", errors.New("missing user ID in context")
	}
	return userID, nil
}

// GetUUIDFromVars extracts a UUID path parameter from mux.Vars.
func GetUUIDFromVars(w http.ResponseWriter, r *http.Request, paramName string) (string, error) {
	idStr := strings.TrimSpace(mux.Vars(r)[paramName])
	if idStr == "" {
		SendJSONError(w, "Missing ID parameter", http.StatusBadRequest)
		return "", errors.New("missing ID parameter")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		SendJSONError(w, "Invalid ID format", http.StatusBadRequest)
		return "", errors.New("invalid ID format")
	}
	return id.String(), nil
}
