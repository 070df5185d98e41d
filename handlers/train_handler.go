package handlers

import (
	"net/http"
	"time"

	"github.com/ashokkumar272/BuddyOnTrain/middleware"
	"github.com/ashokkumar272/BuddyOnTrain/services"
)

type TrainHandler struct {
	trainService *services.TrainService
}

func NewTrainHandler(trainService *services.TrainService) *TrainHandler {
	return &TrainHandler{trainService: trainService}
}

// FindTrains searches the train dataset for a route and date.
func (h *TrainHandler) FindTrains(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	trains, err := h.trainService.Search(query.Get("from"), query.Get("to"), query.Get("train_date"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Success",
		"timestamp": time.Now().UnixMilli(),
		"data":      trains,
	})
}
