package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ashokkumar272/BuddyOnTrain/models"
	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

// newMockFriendService queues the index-creation response the constructor
// consumes and builds the service over the mock deployment.
func newMockFriendService(mt *mtest.T) *FriendService {
	mt.AddMockResponses(mtest.CreateSuccessResponse())
	return NewFriendService(mt.DB, mt.DB.Collection("users"))
}

func startedCommands(mt *mtest.T, name string) []*event.CommandStartedEvent {
	var matched []*event.CommandStartedEvent
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == name {
			matched = append(matched, evt)
		}
	}
	return matched
}

// firstStatement unwraps the first entry of an update command's updates array.
func firstStatement(mt *mtest.T, evt *event.CommandStartedEvent) bson.Raw {
	elems, err := evt.Command.Lookup("updates").Array().Elements()
	require.NoError(mt, err)
	require.NotEmpty(mt, elems)
	return elems[0].Value().Document()
}

func pendingRequestDoc(reqID, sender, receiver primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: reqID},
		{Key: "sender", Value: sender},
		{Key: "receiver", Value: receiver},
		{Key: "pairKey", Value: models.PairKeyFor(sender, receiver)},
		{Key: "status", Value: models.RequestPending},
	}
}

func TestFriendRespondAcceptMirrorsBothUsers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("accept", func(mt *mtest.T) {
		svc := newMockFriendService(mt)
		sender := primitive.NewObjectID()
		receiver := primitive.NewObjectID()
		reqID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "buddyontrain.friend_requests", mtest.FirstBatch,
				pendingRequestDoc(reqID, sender, receiver)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		msg, err := svc.Respond(context.Background(), receiver.Hex(), reqID.Hex(), models.RequestAccepted)
		require.NoError(mt, err)
		assert.Equal(mt, "Friend request accepted successfully", msg)

		// One status write plus one $addToSet per user
		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 3)
		assert.Equal(mt, "friend_requests", updates[0].Command.Lookup("update").StringValue())

		expected := []struct {
			target, friend primitive.ObjectID
		}{
			{sender, receiver},
			{receiver, sender},
		}
		for i, want := range expected {
			assert.Equal(mt, "users", updates[i+1].Command.Lookup("update").StringValue())
			stmt := firstStatement(mt, updates[i+1])

			target, ok := stmt.Lookup("q").Document().Lookup("_id").ObjectIDOK()
			require.True(mt, ok)
			assert.Equal(mt, want.target, target)

			added, ok := stmt.Lookup("u").Document().Lookup("$addToSet").Document().Lookup("friends").ObjectIDOK()
			require.True(mt, ok)
			assert.Equal(mt, want.friend, added, "each side gains the other")
		}
	})
}

func TestFriendRespondResolvedRequestNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("already resolved", func(mt *mtest.T) {
		svc := newMockFriendService(mt)
		receiver := primitive.NewObjectID()

		// The pending-only lookup finds nothing for a resolved id
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "buddyontrain.friend_requests", mtest.FirstBatch))

		_, err := svc.Respond(context.Background(), receiver.Hex(), primitive.NewObjectID().Hex(), models.RequestAccepted)

		var apiErr *errors.APIError
		require.ErrorAs(mt, err, &apiErr)
		assert.Equal(mt, "NOT_FOUND", apiErr.Code)
		assert.Empty(mt, startedCommands(mt, "update"), "no friendship write happens")
	})
}

func TestFriendRespondSenderCancels(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cancel", func(mt *mtest.T) {
		svc := newMockFriendService(mt)
		sender := primitive.NewObjectID()
		receiver := primitive.NewObjectID()
		reqID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "buddyontrain.friend_requests", mtest.FirstBatch,
				pendingRequestDoc(reqID, sender, receiver)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		msg, err := svc.Respond(context.Background(), sender.Hex(), reqID.Hex(), models.RequestRejected)
		require.NoError(mt, err)
		assert.Equal(mt, "Friend request canceled successfully", msg)

		require.Len(mt, startedCommands(mt, "delete"), 1, "the record is deleted, not flagged")
		assert.Empty(mt, startedCommands(mt, "update"))
	})
}

func TestFriendRespondStrangerForbidden(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stranger", func(mt *mtest.T) {
		svc := newMockFriendService(mt)
		reqID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "buddyontrain.friend_requests", mtest.FirstBatch,
			pendingRequestDoc(reqID, primitive.NewObjectID(), primitive.NewObjectID())))

		_, err := svc.Respond(context.Background(), primitive.NewObjectID().Hex(), reqID.Hex(), models.RequestAccepted)

		var apiErr *errors.APIError
		require.ErrorAs(mt, err, &apiErr)
		assert.Equal(mt, "FORBIDDEN", apiErr.Code)
	})
}

func TestFriendSendDuplicateKeyConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("concurrent duplicate", func(mt *mtest.T) {
		svc := newMockFriendService(mt)
		sender := primitive.NewObjectID()
		receiver := primitive.NewObjectID()

		mt.AddMockResponses(
			// receiver exists
			mtest.CreateCursorResponse(0, "buddyontrain.users", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: int32(1)}, {Key: "n", Value: int32(1)}}),
			// precheck sees nothing, the insert loses the race
			mtest.CreateCursorResponse(0, "buddyontrain.friend_requests", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error collection: buddyontrain.friend_requests index: pairKey_1",
			}),
		)

		_, err := svc.Send(context.Background(), sender.Hex(), receiver.Hex())

		var apiErr *errors.APIError
		require.ErrorAs(mt, err, &apiErr)
		assert.Equal(mt, "CONFLICT", apiErr.Code)
		assert.Equal(mt, "A friend request already exists between these users", apiErr.Message)
	})
}
