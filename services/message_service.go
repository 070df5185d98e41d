package services

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

// MessageService persists chat messages and serves history. Messages are
// never deleted; the only mutation is flipping the read flag.
type MessageService struct {
	collection *mongo.Collection
}

func NewMessageService(db *mongo.Database) *MessageService {
	return &MessageService{collection: db.Collection("messages")}
}

// Send stores a message with a server-assigned timestamp.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, content string) (models.Message, error) {
	if receiverID == "" || content == "" {
		return models.Message{}, errors.MissingParameter("Receiver ID and content are required")
	}
	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return models.Message{}, errors.ErrUnauthorized
	}
	receiver, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return models.Message{}, errors.NotFound("Receiver not found")
	}

	message := models.Message{
		Sender:    sender,
		Receiver:  receiver,
		Content:   content,
		Timestamp: time.Now(),
	}
	result, err := s.collection.InsertOne(ctx, message)
	if err != nil {
		return models.Message{}, errors.Wrap(err, "DB_ERROR", "Failed to send message", http.StatusInternalServerError)
	}
	message.ID = result.InsertedID.(primitive.ObjectID)
	return message, nil
}

// History returns every message between two users in timestamp order. The
// full conversation comes back unpaginated.
func (s *MessageService) History(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	if otherID == "" {
		return nil, errors.MissingParameter("User ID is required")
	}
	me, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	other, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return nil, errors.NotFound("User not found")
	}

	cursor, err := s.collection.Find(ctx, bson.M{"$or": []bson.M{
		{"sender": me, "receiver": other},
		{"sender": other, "receiver": me},
	}}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	return messages, nil
}

// MarkRead flips read=true on every unread message from the given sender to
// the current user. Messages in the other direction stay untouched.
func (s *MessageService) MarkRead(ctx context.Context, userID, senderID string) error {
	if senderID == "" {
		return errors.MissingParameter("User ID is required")
	}
	me, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.ErrUnauthorized
	}
	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return errors.NotFound("User not found")
	}

	_, err = s.collection.UpdateMany(ctx,
		bson.M{"sender": sender, "receiver": me, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	return nil
}
