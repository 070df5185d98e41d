package models

// Train is one entry of the static train dataset.
type Train struct {
	TrainNumber     string   `json:"trainNumber"`
	TrainName       string   `json:"trainName"`
	From            string   `json:"from"`
	FromStationName string   `json:"from_station_name"`
	To              string   `json:"to"`
	ToStationName   string   `json:"to_station_name"`
	DepartureTime   string   `json:"departureTime"`
	ArrivalTime     string   `json:"arrivalTime"`
	Duration        string   `json:"duration"`
	Classes         []string `json:"availableClasses"`
	RunningDays     []string `json:"runningDays"`
}
