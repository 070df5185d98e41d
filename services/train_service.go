package services

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

const (
	trainCacheDuration   = 12 * time.Hour
	trainCleanupInterval = 24 * time.Hour
)

// TrainService searches the static train dataset. Results per (from, to,
// date) are cached since the dataset only changes with a deploy.
type TrainService struct {
	path string

	once   sync.Once
	trains []models.Train
	cache  *cache.Cache
}

func NewTrainService(path string) *TrainService {
	return &TrainService{
		path:  path,
		cache: cache.New(trainCacheDuration, trainCleanupInterval),
	}
}

// NewTrainServiceFromData builds a service over an in-memory dataset.
func NewTrainServiceFromData(trains []models.Train) *TrainService {
	s := &TrainService{
		trains: trains,
		cache:  cache.New(trainCacheDuration, trainCleanupInterval),
	}
	s.once.Do(func() {})
	return s
}

func (s *TrainService) load() {
	s.once.Do(func() {
		file, err := os.Open(s.path)
		if err != nil {
			log.Printf("Failed to open train data file %s: %v", s.path, err)
			s.trains = []models.Train{}
			return
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(&s.trains); err != nil {
			log.Printf("Failed to decode train data: %v", err)
			s.trains = []models.Train{}
			return
		}
		log.Printf("Loaded %d trains from %s", len(s.trains), s.path)
	})
}

// Search returns trains running between from and to on the given date.
// Stations match by code or full name, case-insensitively; the date decides
// which running day must be set.
func (s *TrainService) Search(from, to, date string) ([]models.Train, error) {
	if from == "" || to == "" || date == "" {
		return nil, errors.MissingParameter("Missing required parameters: from, to, train_date")
	}

	parsed, err := ParseTravelDate(date)
	if err != nil {
		return nil, errors.InvalidDate("Invalid date format. Use YYYY-MM-DD or DD-MM-YYYY.")
	}

	cacheKey := strings.ToUpper(from) + "|" + strings.ToUpper(to) + "|" + parsed.Format("2006-01-02")
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]models.Train), nil
	}

	s.load()
	day := parsed.Weekday().String()[:3]

	matches := []models.Train{}
	for _, train := range s.trains {
		if !stationMatches(train.From, train.FromStationName, from) {
			continue
		}
		if !stationMatches(train.To, train.ToStationName, to) {
			continue
		}
		if !runsOn(train.RunningDays, day) {
			continue
		}
		matches = append(matches, train)
	}

	s.cache.Set(cacheKey, matches, cache.DefaultExpiration)
	return matches, nil
}

func stationMatches(code, name, query string) bool {
	return strings.EqualFold(code, query) || strings.EqualFold(name, query)
}

func runsOn(days []string, day string) bool {
	if len(days) == 0 {
		// No schedule recorded means daily
		return true
	}
	for _, d := range days {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}
