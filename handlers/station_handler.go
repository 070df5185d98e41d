package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ashokkumar272/BuddyOnTrain/middleware"
	"github.com/ashokkumar272/BuddyOnTrain/stations"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

type StationHandler struct {
	directory *stations.Directory
}

func NewStationHandler(directory *stations.Directory) *StationHandler {
	return &StationHandler{directory: directory}
}

// GetSuggestions serves autocomplete. `q` searches stations by name/code/
// city with exact > prefix > substring priority; `city` searches city names
// and returns each matched city with its station list.
func (h *StationHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 10
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		limit = l
	}

	if q := query.Get("q"); q != "" {
		results := h.directory.Search(q, limit)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"searchTerm":  q,
				"suggestions": results,
				"count":       len(results),
			},
		})
		return
	}

	city := query.Get("city")
	if city == "" {
		middleware.WriteError(w, errors.MissingParameter("Query parameter 'city' or 'q' is required"))
		return
	}

	suggestions := h.directory.CitySuggestions(city, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"searchTerm":  city,
			"suggestions": suggestions,
			"totalFound":  len(suggestions),
		},
	})
}

// GetCities lists every known city with its station count.
func (h *StationHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	cities := h.directory.Cities()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"cities":      cities,
			"totalCities": len(cities),
		},
	})
}

// GetStationsByCity lists the stations of one city key.
func (h *StationHandler) GetStationsByCity(w http.ResponseWriter, r *http.Request) {
	cityKey := mux.Vars(r)["cityKey"]

	codes := h.directory.StationCodesForCity(cityKey)
	if len(codes) == 0 {
		middleware.WriteError(w, errors.NotFound("No stations found for the specified city"))
		return
	}

	suggestions := h.directory.CitySuggestions(cityKey, 1)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    suggestions[0],
	})
}

// GetStationDetails resolves one station code.
func (h *StationHandler) GetStationDetails(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["stationCode"]

	station := h.directory.StationDetails(code)
	if station == nil {
		middleware.WriteError(w, errors.NotFound("Station not found"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    station,
	})
}

// GetCityByStation resolves a station code to its city and the city's full
// station-code set, the same expansion the travel buddy search applies.
func (h *StationHandler) GetCityByStation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["stationCode"]

	city := h.directory.FindCityByCode(code)
	if city == "" {
		middleware.WriteError(w, errors.NotFound("Station not found in any city"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"stationCode":  code,
			"city":         city,
			"stationCodes": h.directory.StationCodesForCity(city),
		},
	})
}
