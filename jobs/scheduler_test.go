package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/models"
)

func TestRenewalReminder(t *testing.T) {
	user := models.User{
		Id: primitive.NewObjectID(),
		Membership: models.Membership{
			Type:        models.MembershipPremium,
			RenewalDate: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
	}

	input := renewalReminder(user)

	assert.Equal(t, "Membership Expiring Soon", input.Title)
	assert.Equal(t, models.NotificationMembership, input.Type)
	assert.Equal(t, models.PriorityHigh, input.Priority)
	assert.Contains(t, input.Message, "premium membership is set to expire in 7 days on March 15, 2026")
	require.NotNil(t, input.Action)
	assert.Equal(t, "/membership/renew", input.Action.URL)
	assert.Equal(t, "Renew Membership", input.Action.Text)
}
