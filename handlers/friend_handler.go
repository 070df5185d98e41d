package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ashokkumar272/BuddyOnTrain/middleware"
	"github.com/ashokkumar272/BuddyOnTrain/services"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

type FriendHandler struct {
	friendService *services.FriendService
	userService   *services.UserService
}

func NewFriendHandler(friendService *services.FriendService, userService *services.UserService) *FriendHandler {
	return &FriendHandler{friendService: friendService, userService: userService}
}

func (h *FriendHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		ReceiverID string `json:"receiverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	request, err := h.friendService.Send(r.Context(), userID, input.ReceiverID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Friend request sent successfully",
		"data":    request,
	})
}

func (h *FriendHandler) GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	result, err := h.friendService.Requests(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

func (h *FriendHandler) RespondToFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		RequestID string `json:"requestId"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	message, err := h.friendService.Respond(r.Context(), userID, input.RequestID, input.Status)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

func (h *FriendHandler) GetFriendsList(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	friends, err := h.userService.GetFriends(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"friends": friends},
	})
}

func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		FriendID string `json:"friendId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.Remove(r.Context(), userID, input.FriendID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Friend removed successfully",
	})
}
