package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"rebelbot/internal/models"
	"rebelbot/internal/services"
	"rebelbot/internal/utils"
)

const maxListLimit = 100

type CatalogHandler struct {
	service services.CatalogService
}

func NewCatalogHandler(service services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func parseLimit(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return maxListLimit, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid limit")
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}

func catalogFilterFromQuery(w http.ResponseWriter, r *http.Request) (models.CatalogFilter, bool) {
	limit, err := parseLimit(r)
	if err != nil {
		utils.SendJSONError(w, "Invalid limit", http.StatusBadRequest)
		return models.CatalogFilter{}, false
	}
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	if strings.EqualFold(category, "all") {
		category = ""
	}
	return models.CatalogFilter{
		Category: category,
		Query:    strings.TrimSpace(q.Get("q")),
		Limit:    limit,
	}, true
}

func writeLookupError(w http.ResponseWriter, err error, kind string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.SendJSONError(w, kind+" not found", http.StatusNotFound)
	case errors.Is(err, services.ErrBadRequest):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.SendJSONError(w, "Failed to retrieve "+strings.ToLower(kind), http.StatusInternalServerError)
	}
}

func (h *CatalogHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	filter, ok := catalogFilterFromQuery(w, r)
	if !ok {
		return
	}
	resources, err := h.service.ListResources(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Error listing resources")
		writeLookupError(w, err, "Resources")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resources)
}

func (h *CatalogHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetUUIDFromVars(w, r, "id")
	if err != nil {
		return
	}
	resource, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		writeLookupError(w, err, "Resource")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resource)
}

func (h *CatalogHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		utils.SendJSONError(w, "Invalid limit", http.StatusBadRequest)
		return
	}
	q := r.URL.Query()
	events, err := h.service.ListEvents(r.Context(), q.Get("window"), strings.TrimSpace(q.Get("q")), limit)
	if err != nil {
		log.Error().Err(err).Msg("Error listing events")
		writeLookupError(w, err, "Events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, events)
}

func (h *CatalogHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetUUIDFromVars(w, r, "id")
	if err != nil {
		return
	}
	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		writeLookupError(w, err, "Event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, event)
}

func (h *CatalogHandler) ListClubs(w http.ResponseWriter, r *http.Request) {
	filter, ok := catalogFilterFromQuery(w, r)
	if !ok {
		return
	}
	clubs, err := h.service.ListClubs(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Error listing clubs")
		writeLookupError(w, err, "Clubs")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, clubs)
}

func (h *CatalogHandler) GetClub(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetUUIDFromVars(w, r, "id")
	if err != nil {
		return
	}
	club, err := h.service.GetClub(r.Context(), id)
	if err != nil {
		writeLookupError(w, err, "Club")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, club)
}
