package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationOrder      = "order"
	NotificationClass      = "class"
	NotificationMembership = "membership"
	NotificationSystem     = "system"
	NotificationReview     = "review"
	NotificationPayment    = "payment"
)

// Notification priorities
const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidNotificationType reports whether t is a known notification type
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationOrder, NotificationClass, NotificationMembership,
		NotificationSystem, NotificationReview, NotificationPayment:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known notification priority
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ReferenceKind enumerates the entity kinds a notification may point at
type ReferenceKind string

const (
	RefOrder   ReferenceKind = "order"
	RefProduct ReferenceKind = "product"
	RefUser    ReferenceKind = "user"
	RefPayment ReferenceKind = "payment"
)

// Reference links a notification to the entity that triggered it
type Reference struct {
	Kind ReferenceKind      `bson:"kind" json:"kind"`
	ID   primitive.ObjectID `bson:"id" json:"id"`
}

// Action is an optional call-to-action shown with the notification
type Action struct {
	URL  string `bson:"url" json:"url"`
	Text string `bson:"text" json:"text"`
}

// Notification is an in-app inbox record, not an external delivery
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	Priority  string             `bson:"priority" json:"priority"`
	Read      bool               `bson:"read" json:"read"`
	ReadAt    *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
	Reference *Reference         `bson:"reference,omitempty" json:"reference,omitempty"`
	Action    *Action            `bson:"action,omitempty" json:"action,omitempty"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	ExpiresAt *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsExpired reports whether the notification has passed its expiry
func (n *Notification) IsExpired() bool {
	if n.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*n.ExpiresAt)
}
