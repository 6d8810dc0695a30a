package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kkarimsherif/iron-forge/models"
)

func TestMarkAllAsRead(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("flips only unread notifications", func(mt *mtest.T) {
		svc := NewNotificationService(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))

		userID := primitive.NewObjectID()
		count, err := svc.MarkAllAsRead(context.Background(), userID, "")
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), count)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "update", evt.CommandName)

		update := evt.Command.Lookup("updates").Array().Index(0).Value().Document()

		// the filter selects unread only, so read records are untouched
		filter := update.Lookup("q").Document()
		assert.Equal(mt, userID, filter.Lookup("user").ObjectID())
		assert.False(mt, filter.Lookup("read").Boolean())

		set := update.Lookup("u").Document().Lookup("$set").Document()
		assert.True(mt, set.Lookup("read").Boolean())
		_, err = set.LookupErr("readAt")
		assert.NoError(mt, err)
	})

	mt.Run("restricts to one type when asked", func(mt *mtest.T) {
		svc := NewNotificationService(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		_, err := svc.MarkAllAsRead(context.Background(), primitive.NewObjectID(), models.NotificationOrder)
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		filter := evt.Command.Lookup("updates").Array().Index(0).Value().Document().Lookup("q").Document()
		assert.Equal(mt, models.NotificationOrder, filter.Lookup("type").StringValue())
		assert.False(mt, filter.Lookup("read").Boolean())
	})
}
