package services

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

// tokenLifetime matches the 30-day expiry the clients expect.
const tokenLifetime = 30 * 24 * time.Hour

// RegisterInput is the register request body.
type RegisterInput struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Profession string `json:"profession"`
	Bio        string `json:"bio"`
}

// Register creates a new user and returns its id with a signed token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (string, string, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return "", "", errors.MissingParameter("Username, email and password are required")
	}
	if len(input.Bio) > 200 {
		return "", "", errors.NewAPIError("INVALID_INPUT", "Bio must be at most 200 characters", http.StatusBadRequest)
	}

	// Check if user already exists
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"$or": []bson.M{{"email": input.Email}, {"username": input.Username}},
	})
	if err != nil {
		return "", "", errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	if count > 0 {
		return "", "", errors.Conflict("User already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", errors.Wrap(err, "HASH_ERROR", "Failed to hash password", http.StatusInternalServerError)
	}

	now := time.Now()
	user := models.User{
		Username:   input.Username,
		Email:      input.Email,
		Password:   string(passwordHash),
		Name:       input.Name,
		Age:        input.Age,
		Profession: input.Profession,
		Bio:        input.Bio,
		Friends:    []primitive.ObjectID{},
		Online:     true,
		LastSeen:   now,
		CreatedAt:  now,
	}

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", "", errors.Conflict("User already exists")
		}
		return "", "", errors.Wrap(err, "DB_ERROR", "Failed to create user", http.StatusInternalServerError)
	}

	userID := result.InsertedID.(primitive.ObjectID).Hex()
	token, err := s.generateToken(userID)
	if err != nil {
		return "", "", err
	}
	return userID, token, nil
}

// Login authenticates a user, flips it online and returns its id with a
// signed token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, string, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return "", "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid credentials", http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid credentials", http.StatusUnauthorized)
	}

	_, err = s.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"online": true, "lastSeen": time.Now()},
	})
	if err != nil {
		return "", "", errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	s.invalidateCache(ctx, user.ID.Hex())

	token, err := s.generateToken(user.ID.Hex())
	if err != nil {
		return "", "", err
	}
	return user.ID.Hex(), token, nil
}

// Logout marks the user offline and stamps lastSeen.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.NotFound("User not found")
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"online": false, "lastSeen": time.Now()},
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

func (s *UserService) generateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(tokenLifetime).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}
	return tokenString, nil
}
