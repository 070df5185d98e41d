package models

// Station is a single entry of the static railway stations file.
type Station struct {
	StationName string `json:"station_name"`
	StationCode string `json:"station_code"`
	City        string `json:"city,omitempty"`
}

// StationsFile mirrors the on-disk layout of data/railway_stations.json.
type StationsFile struct {
	RailwayStationsByCity map[string][]Station `json:"railway_stations_by_city"`
}

// CitySummary is one city in the cities listing.
type CitySummary struct {
	CityKey      string `json:"cityKey"`
	CityName     string `json:"cityName"`
	StationCount int    `json:"stationCount"`
}

// CitySuggestion groups a matched city with its stations for autocomplete.
type CitySuggestion struct {
	City            string    `json:"city"`
	OriginalCityKey string    `json:"originalCityKey"`
	Stations        []Station `json:"stations"`
}
