package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"rebelbot/internal/services"
	"rebelbot/internal/utils"
)

// maxChatBodyBytes fits a maximal message even when every character is sent
// as an escaped surrogate pair.
const maxChatBodyBytes = 64 << 10

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat answers one student message. Validation failures are reported with their
// reason; every later failure becomes the generic apology.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var body struct {
		Message interface{} `json:"message"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Debug().Int64("limit", tooLarge.Limit).Str("userID", userID).Msg("Chat request body too large")
			utils.SendJSONError(w, services.ErrMessageTooLong.Reason, http.StatusBadRequest)
			return
		}
		log.Debug().Err(err).Str("userID", userID).Msg("Invalid chat request payload")
		utils.SendJSONError(w, services.ErrMessageRequired.Reason, http.StatusBadRequest)
		return
	}

	message, err := services.ValidateMessage(body.Message)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			utils.SendJSONError(w, verr.Reason, http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, services.ErrMessageRequired.Reason, http.StatusBadRequest)
		return
	}

	resp, err := h.chatService.Answer(r.Context(), message)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Chat error")
		utils.RespondWithJSON(w, http.StatusInternalServerError, services.ApologyResponse())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}
