package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func messageDoc(sender, receiver primitive.ObjectID, content string, ts time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "sender", Value: sender},
		{Key: "receiver", Value: receiver},
		{Key: "content", Value: content},
		{Key: "timestamp", Value: primitive.NewDateTimeFromTime(ts)},
		{Key: "read", Value: false},
	}
}

func TestMessageHistoryOrderedByTimestamp(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("history", func(mt *mtest.T) {
		svc := NewMessageService(mt.DB)
		me := primitive.NewObjectID()
		other := primitive.NewObjectID()
		base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "buddyontrain.messages", mtest.FirstBatch,
			messageDoc(other, me, "hey", base),
			messageDoc(me, other, "hi there", base.Add(time.Minute)),
			messageDoc(other, me, "same train?", base.Add(2*time.Minute)),
		))

		messages, err := svc.History(context.Background(), me.Hex(), other.Hex())
		require.NoError(mt, err)
		require.Len(mt, messages, 3)

		assert.Equal(mt, "hey", messages[0].Content)
		assert.Equal(mt, "same train?", messages[2].Content)
		for i := 1; i < len(messages); i++ {
			assert.False(mt, messages[i].Timestamp.Before(messages[i-1].Timestamp),
				"history must come back oldest first")
		}

		// The ordering is asked of the store, not reassembled client-side
		finds := startedCommands(mt, "find")
		require.Len(mt, finds, 1)
		sortValue, ok := finds[0].Command.Lookup("sort").Document().Lookup("timestamp").Int32OK()
		require.True(mt, ok)
		assert.EqualValues(mt, 1, sortValue)
	})
}

func TestMessageMarkReadOnlyIncomingDirection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mark read", func(mt *mtest.T) {
		svc := NewMessageService(mt.DB)
		me := primitive.NewObjectID()
		other := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		require.NoError(mt, svc.MarkRead(context.Background(), me.Hex(), other.Hex()))

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		stmt := firstStatement(mt, updates[0])

		filter := stmt.Lookup("q").Document()
		sender, ok := filter.Lookup("sender").ObjectIDOK()
		require.True(mt, ok)
		assert.Equal(mt, other, sender, "only messages the other user sent are touched")
		receiver, ok := filter.Lookup("receiver").ObjectIDOK()
		require.True(mt, ok)
		assert.Equal(mt, me, receiver)
		unread, ok := filter.Lookup("read").BooleanOK()
		require.True(mt, ok)
		assert.False(mt, unread)

		multi, ok := stmt.Lookup("multi").BooleanOK()
		require.True(mt, ok)
		assert.True(mt, multi)
	})
}

func TestMessageSendAssignsServerFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("send", func(mt *mtest.T) {
		svc := NewMessageService(mt.DB)
		sender := primitive.NewObjectID()
		receiver := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		before := time.Now()
		saved, err := svc.Send(context.Background(), sender.Hex(), receiver.Hex(), "see you at the platform")
		require.NoError(mt, err)

		assert.False(mt, saved.ID.IsZero())
		assert.Equal(mt, sender, saved.Sender)
		assert.False(mt, saved.Timestamp.Before(before), "timestamp is server-assigned")
		assert.False(mt, saved.Read)
	})
}
