package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

const userCacheTTL = 24 * time.Hour

type UserService struct {
	collection  *mongo.Collection
	redisClient *redis.Client
	jwtSecret   string
}

// FriendInfo is the shape of one entry in the friends listing.
type FriendInfo struct {
	ID         string    `json:"_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name,omitempty"`
	Profession string    `json:"profession,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Online     bool      `json:"online"`
	LastSeen   time.Time `json:"lastSeen"`
}

func NewUserService(db *mongo.Database, redisClient *redis.Client, jwtSecret string) *UserService {
	collection := db.Collection("users")

	// Unique indexes on username and email
	for _, field := range []string{"username", "email"} {
		indexModel := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
			log.Printf("Failed to create unique index on users.%s: %v", field, err)
		}
	}

	return &UserService{
		collection:  collection,
		redisClient: redisClient,
		jwtSecret:   jwtSecret,
	}
}

// Collection exposes the underlying users collection for services that query
// the same documents.
func (s *UserService) Collection() *mongo.Collection {
	return s.collection
}

// GetUser retrieves a user from Redis or MongoDB
func (s *UserService) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User

	if s.redisClient != nil {
		userJSON, err := s.redisClient.Get(ctx, "user:"+userID).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
				log.Printf("Failed to unmarshal cached user %s: %v", userID, err)
			} else {
				return user, nil
			}
		}
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, errors.NotFound("User not found")
	}
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, errors.NotFound("User not found")
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return user, nil
}

func (s *UserService) cacheUser(ctx context.Context, user models.User) {
	if s.redisClient == nil {
		return
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return
	}
	s.redisClient.Set(ctx, "user:"+user.ID.Hex(), userJSON, userCacheTTL)
}

func (s *UserService) invalidateCache(ctx context.Context, userID string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, "user:"+userID)
}

// ProfileInput is the update-profile request body. All four fields are
// required.
type ProfileInput struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Profession       string `json:"profession"`
	Bio              string `json:"bio"`
	ProfileCompleted bool   `json:"profileCompleted"`
}

// UpdateProfile replaces the user's profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) error {
	if input.Name == "" || input.Age == 0 || input.Profession == "" || input.Bio == "" {
		return errors.MissingParameter("All profile fields are required")
	}
	if len(input.Bio) > 200 {
		return errors.NewAPIError("INVALID_INPUT", "Bio must be at most 200 characters", http.StatusBadRequest)
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.NotFound("User not found")
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"name":             input.Name,
			"age":              input.Age,
			"profession":       input.Profession,
			"bio":              input.Bio,
			"profileCompleted": true,
		},
	})
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	if result.MatchedCount == 0 {
		return errors.NotFound("User not found")
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// TravelStatusInput carries the travel-status update. Pointer fields
// distinguish "not sent" from "sent empty" so omitted fields keep their
// stored values.
type TravelStatusInput struct {
	BoardingStation        *string `json:"boardingStation"`
	BoardingStationName    *string `json:"boardingStationName"`
	DestinationStation     *string `json:"destinationStation"`
	DestinationStationName *string `json:"destinationStationName"`
	TravelDate             *string `json:"travelDate"`
	TrainNumber            *string `json:"trainNumber"`
	TrainName              *string `json:"trainName"`
	PreferredClass         *string `json:"preferredClass"`
	IsActive               *bool   `json:"isActive"`
}

// ValidateActive collects the missing-field messages for a listing attempt.
func (in *TravelStatusInput) ValidateActive() []string {
	var msgs []string
	if in.BoardingStation == nil || *in.BoardingStation == "" {
		msgs = append(msgs, "Boarding station is required")
	}
	if in.DestinationStation == nil || *in.DestinationStation == "" {
		msgs = append(msgs, "Destination station is required")
	}
	if in.TravelDate == nil || *in.TravelDate == "" {
		msgs = append(msgs, "Travel date is required")
	}
	if in.TrainNumber == nil || *in.TrainNumber == "" {
		msgs = append(msgs, "Train number is required")
	}
	if in.PreferredClass == nil || *in.PreferredClass == "" {
		msgs = append(msgs, "Preferred class is required")
	}
	return msgs
}

func (in *TravelStatusInput) isFullReset() bool {
	return in.IsActive != nil && !*in.IsActive &&
		in.BoardingStation != nil && *in.BoardingStation == "" &&
		in.DestinationStation != nil && *in.DestinationStation == "" &&
		(in.TravelDate == nil || *in.TravelDate == "")
}

// UpdateTravelStatus merges the input into the stored travel status. A
// listing (isActive=true) must carry stations, date, train number and class;
// the returned string slice holds the validation messages when it doesn't.
func (s *UserService) UpdateTravelStatus(ctx context.Context, userID string, input TravelStatusInput) (models.TravelStatus, []string, error) {
	if input.IsActive != nil && *input.IsActive {
		if msgs := input.ValidateActive(); len(msgs) > 0 {
			return models.TravelStatus{}, msgs, nil
		}
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return models.TravelStatus{}, nil, err
	}

	status := user.TravelStatus
	if input.isFullReset() {
		// Unlisting clears everything
		status = models.TravelStatus{}
	} else {
		if input.BoardingStation != nil {
			status.BoardingStation = strings.TrimSpace(*input.BoardingStation)
		}
		if input.BoardingStationName != nil {
			status.BoardingStationName = strings.TrimSpace(*input.BoardingStationName)
		}
		if input.DestinationStation != nil {
			status.DestinationStation = strings.TrimSpace(*input.DestinationStation)
		}
		if input.DestinationStationName != nil {
			status.DestinationStationName = strings.TrimSpace(*input.DestinationStationName)
		}
		if input.TravelDate != nil && *input.TravelDate != "" {
			parsed, err := ParseTravelDate(*input.TravelDate)
			if err != nil {
				return models.TravelStatus{}, nil, errors.InvalidDate("Invalid date format. Use YYYY-MM-DD or DD-MM-YYYY.")
			}
			status.TravelDate = &parsed
		}
		if input.TrainNumber != nil {
			status.TrainNumber = *input.TrainNumber
		}
		if input.TrainName != nil {
			status.TrainName = *input.TrainName
		}
		if input.PreferredClass != nil {
			status.PreferredClass = *input.PreferredClass
		}
		if input.IsActive != nil {
			status.IsActive = *input.IsActive
		}
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"travelStatus": status},
	})
	if err != nil {
		return models.TravelStatus{}, nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	if result.MatchedCount == 0 {
		return models.TravelStatus{}, nil, errors.NotFound("User not found")
	}
	s.invalidateCache(ctx, userID)
	return status, nil, nil
}

// GetFriends returns the user's friends with presence details.
func (s *UserService) GetFriends(ctx context.Context, userID string) ([]FriendInfo, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Friends) == 0 {
		return []FriendInfo{}, nil
	}

	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": user.Friends}})
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	var friends []models.User
	if err := cursor.All(ctx, &friends); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	infos := make([]FriendInfo, 0, len(friends))
	for _, friend := range friends {
		infos = append(infos, FriendInfo{
			ID:         friend.ID.Hex(),
			Username:   friend.Username,
			Name:       friend.Name,
			Profession: friend.Profession,
			Bio:        friend.Bio,
			Online:     friend.Online,
			LastSeen:   friend.LastSeen,
		})
	}
	return infos, nil
}
