package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ashokkumar272/BuddyOnTrain/middleware"
	"github.com/ashokkumar272/BuddyOnTrain/services"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// GetChatHistory returns the full conversation with another user, oldest
// first.
func (h *MessageHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	otherID := mux.Vars(r)["userId"]

	messages, err := h.messageService.History(r.Context(), userID, otherID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    messages,
	})
}

// SendMessage is the HTTP alternative to the websocket send path.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	message, err := h.messageService.Send(r.Context(), userID, input.ReceiverID, input.Content)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Message sent successfully",
		"data":    message,
	})
}

// MarkMessagesAsRead flips read on everything the other user sent us.
func (h *MessageHandler) MarkMessagesAsRead(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	otherID := mux.Vars(r)["userId"]

	if err := h.messageService.MarkRead(r.Context(), userID, otherID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Messages marked as read",
	})
}
