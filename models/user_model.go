package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser    = "user"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

// Membership tiers. MembershipNone means no extra product discounts.
const (
	MembershipNone     = "none"
	MembershipBasic    = "basic"
	MembershipPremium  = "premium"
	MembershipPlatinum = "platinum"
)

// Membership holds a user's membership subscription state
type Membership struct {
	Type        string    `bson:"type" json:"type"`
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	RenewalDate time.Time `bson:"renewalDate" json:"renewalDate"`
	Active      bool      `bson:"active" json:"active"`
}

type User struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Membership Membership         `bson:"membership" json:"membership"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MembershipTier returns the tier used for pricing. Inactive memberships
// confer no discounts.
func (u *User) MembershipTier() string {
	if !u.Membership.Active || u.Membership.Type == "" {
		return MembershipNone
	}
	return u.Membership.Type
}
