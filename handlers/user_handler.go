package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ashokkumar272/BuddyOnTrain/middleware"
	"github.com/ashokkumar272/BuddyOnTrain/services"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

type UserHandler struct {
	userService  *services.UserService
	buddyService *services.BuddyService
}

func NewUserHandler(userService *services.UserService, buddyService *services.BuddyService) *UserHandler {
	return &UserHandler{userService: userService, buddyService: buddyService}
}

func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input services.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.userService.UpdateProfile(r.Context(), userID, input); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
	})
}

func (h *UserHandler) UpdateTravelStatus(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input services.TravelStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	status, validationErrors, err := h.userService.UpdateTravelStatus(r.Context(), userID, input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if len(validationErrors) > 0 {
		middleware.WriteValidationError(w, validationErrors)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Travel status updated successfully",
		"travelStatus": status,
	})
}

func (h *UserHandler) FindTravelBuddies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.buddyService.FindTravelBuddies(
		r.Context(),
		userIDFromContext(r),
		query.Get("from"),
		query.Get("to"),
		query.Get("date"),
	)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"count":      result.Count,
		"data":       result.Data,
		"searchInfo": result.SearchInfo,
	})
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    user,
	})
}

func (h *UserHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
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
		"data":    friends,
	})
}
