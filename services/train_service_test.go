package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

func testTrains() []models.Train {
	return []models.Train{
		{
			TrainNumber:     "12951",
			TrainName:       "Mumbai Rajdhani",
			From:            "NDLS",
			FromStationName: "New Delhi",
			To:              "BCT",
			ToStationName:   "Mumbai Central",
			RunningDays:     []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		},
		{
			TrainNumber:     "12259",
			TrainName:       "Sealdah Duronto",
			From:            "NDLS",
			FromStationName: "New Delhi",
			To:              "BCT",
			ToStationName:   "Mumbai Central",
			RunningDays:     []string{"Tue", "Thu", "Sun"},
		},
		{
			TrainNumber:     "12015",
			TrainName:       "Ajmer Shatabdi",
			From:            "NDLS",
			FromStationName: "New Delhi",
			To:              "JP",
			ToStationName:   "Jaipur",
		},
	}
}

func TestTrainSearchFiltersByRoute(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	// 2026-03-16 is a Monday
	trains, err := s.Search("NDLS", "BCT", "2026-03-16")
	require.NoError(t, err)
	require.Len(t, trains, 1)
	assert.Equal(t, "12951", trains[0].TrainNumber)
}

func TestTrainSearchRunningDays(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	// 2026-03-17 is a Tuesday, when the Duronto also runs
	trains, err := s.Search("NDLS", "BCT", "2026-03-17")
	require.NoError(t, err)
	require.Len(t, trains, 2)
	assert.Equal(t, "12951", trains[0].TrainNumber)
	assert.Equal(t, "12259", trains[1].TrainNumber)
}

func TestTrainSearchEmptyRunningDaysMeansDaily(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	trains, err := s.Search("NDLS", "JP", "2026-03-18")
	require.NoError(t, err)
	require.Len(t, trains, 1)
	assert.Equal(t, "12015", trains[0].TrainNumber)
}

func TestTrainSearchMatchesByNameOrCode(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	byName, err := s.Search("new delhi", "mumbai central", "2026-03-16")
	require.NoError(t, err)
	byCode, err := s.Search("ndls", "bct", "2026-03-16")
	require.NoError(t, err)

	assert.Equal(t, byCode, byName)
}

func TestTrainSearchNoMatches(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	trains, err := s.Search("BCT", "NDLS", "2026-03-16")
	require.NoError(t, err)
	assert.NotNil(t, trains)
	assert.Empty(t, trains, "reversed route has no scheduled train")
}

func TestTrainSearchMissingParameters(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	for _, args := range [][3]string{
		{"", "BCT", "2026-03-16"},
		{"NDLS", "", "2026-03-16"},
		{"NDLS", "BCT", ""},
	} {
		_, err := s.Search(args[0], args[1], args[2])
		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "MISSING_PARAMETER", apiErr.Code)
	}
}

func TestTrainSearchInvalidDate(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	_, err := s.Search("NDLS", "BCT", "next tuesday")
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_DATE", apiErr.Code)
}

func TestTrainSearchCachesResults(t *testing.T) {
	s := NewTrainServiceFromData(testTrains())

	first, err := s.Search("NDLS", "BCT", "2026-03-16")
	require.NoError(t, err)

	// Mutate the backing dataset; the cached result must survive
	s.trains = nil
	second, err := s.Search("NDLS", "BCT", "2026-03-16")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
