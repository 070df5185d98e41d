package services

import (
	"context"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/stations"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

const (
	MatchExact = "exact"
	MatchCity  = "city"
)

// BuddyService finds active travelers on a searched route and date.
type BuddyService struct {
	collection *mongo.Collection
	directory  *stations.Directory
}

func NewBuddyService(users *mongo.Collection, directory *stations.Directory) *BuddyService {
	return &BuddyService{collection: users, directory: directory}
}

// BuddyTravelDetails is the journey part of a search hit.
type BuddyTravelDetails struct {
	BoardingStation        string     `json:"boardingStation"`
	BoardingStationName    string     `json:"boardingStationName"`
	DestinationStation     string     `json:"destinationStation"`
	DestinationStationName string     `json:"destinationStationName"`
	TrainNumber            string     `json:"trainNumber"`
	TrainName              string     `json:"trainName"`
	PreferredClass         string     `json:"preferredClass"`
	TravelDate             *time.Time `json:"travelDate"`
}

// Buddy is one travel buddy search hit. MatchType is "exact" when both
// stations equal the literally requested codes, "city" otherwise.
type Buddy struct {
	ID            string             `json:"_id"`
	Username      string             `json:"username"`
	Name          string             `json:"name,omitempty"`
	Profession    string             `json:"profession,omitempty"`
	Bio           string             `json:"bio,omitempty"`
	IsFriend      bool               `json:"isFriend"`
	MatchType     string             `json:"matchType"`
	TravelDetails BuddyTravelDetails `json:"travelDetails"`
}

// BuddySearchInfo exposes the resolved station sets and match counts for
// client transparency.
type BuddySearchInfo struct {
	FromStations []string `json:"fromStations"`
	ToStations   []string `json:"toStations"`
	ExactMatches int      `json:"exactMatches"`
	CityMatches  int      `json:"cityMatches"`
}

// BuddySearchResult is the full travel-buddies response payload.
type BuddySearchResult struct {
	Count      int             `json:"count"`
	Data       []Buddy         `json:"data"`
	SearchInfo BuddySearchInfo `json:"searchInfo"`
}

// travelDateFormats are tried in order; the last one reinterprets
// DD-MM-YYYY inputs.
var travelDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02",
	"02-01-2006",
}

// ParseTravelDate parses the date formats clients send. YYYY-MM-DD and ISO
// timestamps parse natively; DD-MM-YYYY is a fallback reinterpretation.
func ParseTravelDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, format := range travelDateFormats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// DayWindowUTC returns the [00:00:00.000, 23:59:59.999] UTC bounds of the
// calendar day containing t.
func DayWindowUTC(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, m, d, 23, 59, 59, 999000000, time.UTC)
	return start, end
}

// codeAlternation builds an anchored regex alternation over station codes,
// e.g. ^NDLS$|^DLI$. Matched case-insensitively by the query layer.
func codeAlternation(codes []string) string {
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, "^"+regexp.QuoteMeta(code)+"$")
	}
	return strings.Join(parts, "|")
}

// ClassifyMatch labels a result exact only when both stored codes equal the
// literally requested ones, ignoring case.
func ClassifyMatch(boarding, destination, from, to string) string {
	if strings.EqualFold(boarding, from) && strings.EqualFold(destination, to) {
		return MatchExact
	}
	return MatchCity
}

// SortByMatchType moves exact matches ahead of city matches, keeping the
// relative order within each group.
func SortByMatchType(buddies []Buddy) {
	sort.SliceStable(buddies, func(i, j int) bool {
		return buddies[i].MatchType == MatchExact && buddies[j].MatchType == MatchCity
	})
}

// FindTravelBuddies runs the matching query for (from, to, date).
// requesterID may be empty for anonymous searches; when set, the requester is
// excluded from the results and friendship is annotated against their
// friends set. No results is not an error.
func (s *BuddyService) FindTravelBuddies(ctx context.Context, requesterID, from, to, date string) (*BuddySearchResult, error) {
	if from == "" || to == "" || date == "" {
		return nil, errors.MissingParameter("Missing required parameters: from, to, and date are required")
	}

	parsed, err := ParseTravelDate(date)
	if err != nil {
		return nil, errors.InvalidDate("Invalid date format. Use YYYY-MM-DD or DD-MM-YYYY.")
	}
	startOfDay, endOfDay := DayWindowUTC(parsed)

	// Widen each side to every station of the same city
	fromCodes := s.directory.AllCodesForMatchingCity(from)
	toCodes := s.directory.AllCodesForMatchingCity(to)

	query := bson.M{
		"travelStatus.isActive":           true,
		"travelStatus.boardingStation":    primitive.Regex{Pattern: codeAlternation(fromCodes), Options: "i"},
		"travelStatus.destinationStation": primitive.Regex{Pattern: codeAlternation(toCodes), Options: "i"},
		"travelStatus.travelDate":         bson.M{"$gte": startOfDay, "$lte": endOfDay},
	}

	var requester *models.User
	if requesterID != "" {
		if oid, err := primitive.ObjectIDFromHex(requesterID); err == nil {
			query["_id"] = bson.M{"$ne": oid}
			var u models.User
			if err := s.collection.FindOne(ctx, bson.M{"_id": oid},
				options.FindOne().SetProjection(bson.M{"friends": 1})).Decode(&u); err == nil {
				requester = &u
			}
		}
	}

	cursor, err := s.collection.Find(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	buddies := make([]Buddy, 0, len(users))
	for _, user := range users {
		isFriend := requester != nil && requester.HasFriend(user.ID)
		buddies = append(buddies, Buddy{
			ID:         user.ID.Hex(),
			Username:   user.Username,
			Name:       user.Name,
			Profession: user.Profession,
			Bio:        user.Bio,
			IsFriend:   isFriend,
			MatchType:  ClassifyMatch(user.TravelStatus.BoardingStation, user.TravelStatus.DestinationStation, from, to),
			TravelDetails: BuddyTravelDetails{
				BoardingStation:        user.TravelStatus.BoardingStation,
				BoardingStationName:    user.TravelStatus.BoardingStationName,
				DestinationStation:     user.TravelStatus.DestinationStation,
				DestinationStationName: user.TravelStatus.DestinationStationName,
				TrainNumber:            user.TravelStatus.TrainNumber,
				TrainName:              user.TravelStatus.TrainName,
				PreferredClass:         user.TravelStatus.PreferredClass,
				TravelDate:             user.TravelStatus.TravelDate,
			},
		})
	}

	SortByMatchType(buddies)

	info := BuddySearchInfo{FromStations: fromCodes, ToStations: toCodes}
	for _, b := range buddies {
		if b.MatchType == MatchExact {
			info.ExactMatches++
		} else {
			info.CityMatches++
		}
	}

	return &BuddySearchResult{Count: len(buddies), Data: buddies, SearchInfo: info}, nil
}
