package handlers

import (
	"net/http"

	"rebelbot/internal/database"
	"rebelbot/internal/utils"
)

type CommonHandler struct {
	db database.Service
}

func NewCommonHandler(db database.Service) *CommonHandler {
	return &CommonHandler{db: db}
}

func (h *CommonHandler) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "RebelBot API"})
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	stats := h.db.Health()
	status := http.StatusOK
	if _, failed := stats["error"]; failed {
		status = http.StatusServiceUnavailable
	}
	utils.RespondWithJSON(w, status, stats)
}
