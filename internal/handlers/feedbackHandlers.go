package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"rebelbot/internal/models"
	"rebelbot/internal/services"
	"rebelbot/internal/utils"
)

type FeedbackHandler struct {
	service services.FeedbackService
}

func NewFeedbackHandler(service services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var req models.FeedbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		log.Debug().Err(err).Msg("Invalid JSON for SubmitFeedback")
		utils.SendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	feedback, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			utils.SendJSONError(w, verr.Reason, http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, "Failed to submit feedback", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, feedback)
}
