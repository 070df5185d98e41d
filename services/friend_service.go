package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

// FriendService runs the request/accept/reject/cancel/remove state machine
// over the friend_requests collection, mirrored into both users' friends
// arrays. The two mirror writes are separate updates, not a transaction.
type FriendService struct {
	requests *mongo.Collection
	users    *mongo.Collection
}

func NewFriendService(db *mongo.Database, users *mongo.Collection) *FriendService {
	requests := db.Collection("friend_requests")

	// Pair uniqueness lives in the storage layer so concurrent sends cannot
	// both slip past the existence check.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "pairKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := requests.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		log.Printf("Failed to create unique index on friend_requests.pairKey: %v", err)
	}

	return &FriendService{requests: requests, users: users}
}

// UserSummary is the populated sender/receiver detail on a request listing.
type UserSummary struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	Name       string `json:"name,omitempty"`
	Profession string `json:"profession,omitempty"`
}

// RequestWithUser is a friend request with the counterparty populated.
type RequestWithUser struct {
	ID        string       `json:"_id"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	Sender    *UserSummary `json:"sender,omitempty"`
	Receiver  *UserSummary `json:"receiver,omitempty"`
}

// RequestsResult splits requests by direction.
type RequestsResult struct {
	Incoming []RequestWithUser `json:"incoming"`
	Outgoing []RequestWithUser `json:"outgoing"`
}

// Send creates a pending request from sender to receiver. Fails with
// Conflict when any request already exists between the pair in either
// direction and NotFound when the receiver doesn't exist.
func (s *FriendService) Send(ctx context.Context, senderID, receiverID string) (models.FriendRequest, error) {
	if receiverID == "" {
		return models.FriendRequest{}, errors.MissingParameter("Receiver ID is required")
	}
	if senderID == receiverID {
		return models.FriendRequest{}, errors.NewAPIError("INVALID_INPUT", "Cannot send a friend request to yourself", http.StatusBadRequest)
	}

	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return models.FriendRequest{}, errors.ErrUnauthorized
	}
	receiver, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return models.FriendRequest{}, errors.NotFound("Receiver not found")
	}

	count, err := s.users.CountDocuments(ctx, bson.M{"_id": receiver})
	if err != nil {
		return models.FriendRequest{}, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	if count == 0 {
		return models.FriendRequest{}, errors.NotFound("Receiver not found")
	}

	// Pre-insert existence check in either direction
	existing := s.requests.FindOne(ctx, bson.M{"$or": []bson.M{
		{"sender": sender, "receiver": receiver},
		{"sender": receiver, "receiver": sender},
	}})
	if existing.Err() == nil {
		return models.FriendRequest{}, errors.Conflict("A friend request already exists between these users")
	}
	if existing.Err() != mongo.ErrNoDocuments {
		return models.FriendRequest{}, errors.Wrap(existing.Err(), "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	now := time.Now()
	request := models.FriendRequest{
		Sender:    sender,
		Receiver:  receiver,
		PairKey:   models.PairKeyFor(sender, receiver),
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result, err := s.requests.InsertOne(ctx, request)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// A concurrent send won the race; same outcome as the precheck
			return models.FriendRequest{}, errors.Conflict("A friend request already exists between these users")
		}
		return models.FriendRequest{}, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	request.ID = result.InsertedID.(primitive.ObjectID)
	return request, nil
}

// Requests lists pending incoming requests and all outgoing requests for a
// user, with the counterparty populated.
func (s *FriendService) Requests(ctx context.Context, userID string) (*RequestsResult, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}

	incoming, err := s.findRequests(ctx, bson.M{"receiver": oid, "status": models.RequestPending})
	if err != nil {
		return nil, err
	}
	outgoing, err := s.findRequests(ctx, bson.M{"sender": oid})
	if err != nil {
		return nil, err
	}

	result := &RequestsResult{Incoming: []RequestWithUser{}, Outgoing: []RequestWithUser{}}
	for _, req := range incoming {
		summary, err := s.userSummary(ctx, req.Sender)
		if err != nil {
			continue
		}
		result.Incoming = append(result.Incoming, RequestWithUser{
			ID: req.ID.Hex(), Status: req.Status, CreatedAt: req.CreatedAt, Sender: summary,
		})
	}
	for _, req := range outgoing {
		summary, err := s.userSummary(ctx, req.Receiver)
		if err != nil {
			continue
		}
		result.Outgoing = append(result.Outgoing, RequestWithUser{
			ID: req.ID.Hex(), Status: req.Status, CreatedAt: req.CreatedAt, Receiver: summary,
		})
	}
	return result, nil
}

func (s *FriendService) findRequests(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	cursor, err := s.requests.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	return requests, nil
}

func (s *FriendService) userSummary(ctx context.Context, id primitive.ObjectID) (*UserSummary, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"username": 1, "name": 1, "profession": 1})).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &UserSummary{ID: user.ID.Hex(), Username: user.Username, Name: user.Name, Profession: user.Profession}, nil
}

// Respond resolves a pending request. Only the receiver may accept. A
// "rejected" decision deletes the record: from the receiver it is a decline,
// from the original sender a cancellation; both revert the pair to having no
// request so a fresh one can be sent later. Responding to an already-resolved
// request id fails with NotFound.
func (s *FriendService) Respond(ctx context.Context, actorID, requestID, decision string) (string, error) {
	if requestID == "" || decision == "" {
		return "", errors.MissingParameter("Request ID and status are required")
	}
	if decision != models.RequestAccepted && decision != models.RequestRejected {
		return "", errors.NewAPIError("INVALID_INPUT", "Status must be either accepted or rejected", http.StatusBadRequest)
	}

	actor, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return "", errors.ErrUnauthorized
	}
	reqOID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return "", errors.NotFound("Friend request not found")
	}

	var request models.FriendRequest
	err = s.requests.FindOne(ctx, bson.M{"_id": reqOID, "status": models.RequestPending}).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return "", errors.NotFound("Friend request not found")
	}
	if err != nil {
		return "", errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	isSender := request.Sender == actor
	isReceiver := request.Receiver == actor
	if !(isReceiver || (isSender && decision == models.RequestRejected)) {
		return "", errors.Forbidden("You are not authorized to perform this action")
	}

	if decision == models.RequestRejected {
		if _, err := s.requests.DeleteOne(ctx, bson.M{"_id": reqOID}); err != nil {
			return "", errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
		}
		if isSender {
			return "Friend request canceled successfully", nil
		}
		return "Friend request rejected successfully", nil
	}

	// Accept: mark the request, then mirror the friendship onto both users.
	// Two independent writes; a failure between them leaves the repair to the
	// idempotent $addToSet on the next accept.
	_, err = s.requests.UpdateOne(ctx, bson.M{"_id": reqOID}, bson.M{
		"$set": bson.M{"status": models.RequestAccepted, "updatedAt": time.Now()},
	})
	if err != nil {
		return "", errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": request.Sender},
		bson.M{"$addToSet": bson.M{"friends": request.Receiver}}); err != nil {
		return "", errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": request.Receiver},
		bson.M{"$addToSet": bson.M{"friends": request.Sender}}); err != nil {
		return "", errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	return "Friend request accepted successfully", nil
}

// Remove ends a friendship. Both users must currently list each other;
// afterwards neither does and any leftover request record between the pair
// is cleaned up.
func (s *FriendService) Remove(ctx context.Context, userID, friendID string) error {
	if friendID == "" {
		return errors.MissingParameter("Friend ID is required")
	}

	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.ErrUnauthorized
	}
	friend, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return errors.NotFound("Friend not found")
	}

	var userDoc, friendDoc models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": friend}).Decode(&friendDoc); err != nil {
		return errors.NotFound("Friend not found")
	}
	if err := s.users.FindOne(ctx, bson.M{"_id": user}).Decode(&userDoc); err != nil {
		return errors.NotFound("User not found")
	}

	// Symmetry check before mutating either side
	if !userDoc.HasFriend(friend) || !friendDoc.HasFriend(user) {
		return errors.NewAPIError("INVALID_INPUT", "You are not friends with this user", http.StatusBadRequest)
	}

	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": user},
		bson.M{"$pull": bson.M{"friends": friend}}); err != nil {
		return errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": friend},
		bson.M{"$pull": bson.M{"friends": user}}); err != nil {
		return errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}

	// Clear any request record left between the pair
	if _, err := s.requests.DeleteMany(ctx, bson.M{"pairKey": models.PairKeyFor(user, friend)}); err != nil {
		return errors.Wrap(err, "DB_ERROR", "Server error", http.StatusInternalServerError)
	}
	return nil
}
