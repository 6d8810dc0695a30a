package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotificationIsExpired(t *testing.T) {
	n := &Notification{}
	assert.False(t, n.IsExpired())

	past := time.Now().Add(-time.Hour)
	n.ExpiresAt = &past
	assert.True(t, n.IsExpired())

	future := time.Now().Add(time.Hour)
	n.ExpiresAt = &future
	assert.False(t, n.IsExpired())
}

func TestNotificationEnums(t *testing.T) {
	assert.True(t, ValidNotificationType(NotificationPayment))
	assert.False(t, ValidNotificationType("email"))

	assert.True(t, ValidPriority(PriorityCritical))
	assert.False(t, ValidPriority("urgent"))
}

func TestUserMembershipTier(t *testing.T) {
	u := &User{Membership: Membership{Type: MembershipPremium, Active: true}}
	assert.Equal(t, MembershipPremium, u.MembershipTier())

	u.Membership.Active = false
	assert.Equal(t, MembershipNone, u.MembershipTier())

	u = &User{}
	assert.Equal(t, MembershipNone, u.MembershipTier())
}
